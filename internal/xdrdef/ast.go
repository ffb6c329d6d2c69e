// Package xdrdef reads XDR definition (.x) files: it tokenizes and parses
// them, resolves references across files and orders the declared types so
// that dependencies come first. It can also download the definitions of a
// stellar-xdr release.
package xdrdef

import "fmt"

// Built-in type names. The parser maps "int" to int32, "unsigned int" to
// uint32, "hyper" to int64 and "unsigned hyper" to uint64.
const (
	TypeInt32  = "int32"
	TypeUint32 = "uint32"
	TypeInt64  = "int64"
	TypeUint64 = "uint64"
	TypeBool   = "bool"
	TypeFloat  = "float"
	TypeDouble = "double"
	TypeOpaque = "opaque"
	TypeString = "string"
)

var builtinTypes = map[string]bool{
	TypeInt32: true, TypeUint32: true, TypeInt64: true, TypeUint64: true,
	TypeBool: true, TypeFloat: true, TypeDouble: true, TypeOpaque: true, TypeString: true,
}

// IsBuiltin reports whether name is a primitive XDR type.
func IsBuiltin(name string) bool { return builtinTypes[name] }

type ArrayKind int

const (
	ArrayNone ArrayKind = iota
	ArrayFixed
	ArrayVariable
)

// Size is an array bound given either as a number or as the name of a
// constant. The zero Size on a variable array means unbounded.
type Size struct {
	N   uint32
	Ref string
}

func (s Size) Unbounded() bool { return s.N == 0 && s.Ref == "" }

func (s Size) String() string {
	if s.Ref != "" {
		return s.Ref
	}
	if s.N == 0 {
		return ""
	}
	return fmt.Sprint(s.N)
}

// Decl is a typed declaration: a struct field, a union arm or the body of a
// typedef. string<N> and opaque<N> are variable arrays of their element.
type Decl struct {
	Name     string
	Type     string
	Optional bool
	Array    ArrayKind
	Size     Size
	Line     int
}

// Indirect reports whether the declared value refers to its type through an
// optional or a variable length array, which allows recursive types.
func (d Decl) Indirect() bool { return d.Optional || d.Array == ArrayVariable }

type Const struct {
	Name  string
	Value int64
	Line  int
}

type EnumValue struct {
	Name string
	// Value is valid once Ref, if any, has been resolved.
	Value int64
	Ref   string
	Line  int
}

type Enum struct {
	Name   string
	Values []EnumValue
	Line   int
}

type Struct struct {
	Name   string
	Fields []Decl
	Line   int
}

// UnionCase is one arm of a union. Arm is nil for void.
type UnionCase struct {
	Labels  []string
	Default bool
	Arm     *Decl
	Line    int
}

type Union struct {
	Name             string
	DiscriminantType string
	DiscriminantName string
	Cases            []UnionCase
	Line             int
}

type Typedef struct {
	Decl
}

// File holds the definitions of one .x file. Anonymous structs, unions and
// enums nested in other definitions are hoisted to the top level under the
// name of their parent followed by the capitalized field name.
type File struct {
	Name      string
	Namespace string
	Constants []Const
	Typedefs  []Typedef
	Enums     []Enum
	Structs   []Struct
	Unions    []Union
}

// TypeNames lists the types declared in f.
func (f *File) TypeNames() []string {
	names := make([]string, 0, len(f.Typedefs)+len(f.Enums)+len(f.Structs)+len(f.Unions))
	for _, t := range f.Typedefs {
		names = append(names, t.Name)
	}
	for _, e := range f.Enums {
		names = append(names, e.Name)
	}
	for _, s := range f.Structs {
		names = append(names, s.Name)
	}
	for _, u := range f.Unions {
		names = append(names, u.Name)
	}
	return names
}
