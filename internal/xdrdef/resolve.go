package xdrdef

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type DefKind int

const (
	DefTypedef DefKind = iota
	DefEnum
	DefStruct
	DefUnion
)

func (k DefKind) String() string {
	return [...]string{"typedef", "enum", "struct", "union"}[k]
}

// Definition is a named type declared in one of the resolved files.
type Definition struct {
	Name    string
	File    string
	Kind    DefKind
	Line    int
	Typedef *Typedef
	Enum    *Enum
	Struct  *Struct
	Union   *Union
}

// Dependency is a reference from one type to another. Indirect references
// go through an optional or a variable length array.
type Dependency struct {
	Type     string
	Indirect bool
}

// ResolveError lists every problem found while resolving a set of files.
type ResolveError struct {
	Problems []string
}

func (e *ResolveError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0]
	}
	return fmt.Sprintf("%d problems:\n  %s", len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Schema is a resolved set of .x files.
type Schema struct {
	Files []*File

	defs    map[string]*Definition
	values  map[string]int64
	deps    map[string][]Dependency
	order   []string
	byDecl  []string
	problem []string
}

// Resolve builds the symbol table of files, resolves enum values that refer
// to constants or other enum values, checks that every referenced type and
// size constant exists, and orders the types so that each type follows the
// types it embeds directly. Recursion is only allowed through indirect
// references.
func Resolve(files ...*File) (*Schema, error) {
	s := &Schema{
		Files:  files,
		defs:   make(map[string]*Definition),
		values: make(map[string]int64),
		deps:   make(map[string][]Dependency),
	}
	s.collect()
	s.resolveEnumValues()
	for _, name := range s.byDecl {
		s.deps[name] = s.checkDefinition(s.defs[name])
	}
	if len(s.problem) > 0 {
		return nil, &ResolveError{Problems: s.problem}
	}
	order, err := s.topoOrder()
	if err != nil {
		return nil, err
	}
	s.order = order
	return s, nil
}

func (s *Schema) problemf(file string, line int, format string, args ...any) {
	s.problem = append(s.problem, fmt.Sprintf("%s:%d: %s", file, line, fmt.Sprintf(format, args...)))
}

func (s *Schema) define(d *Definition) {
	if prev, ok := s.defs[d.Name]; ok {
		s.problemf(d.File, d.Line, "%s %s already declared at %s:%d", d.Kind, d.Name, prev.File, prev.Line)
		return
	}
	s.defs[d.Name] = d
	s.byDecl = append(s.byDecl, d.Name)
}

func (s *Schema) collect() {
	seen := make(map[string]string)
	addValue := func(file string, line int, name string, v int64, known bool) {
		if where, ok := seen[name]; ok {
			s.problemf(file, line, "constant %s already declared at %s", name, where)
			return
		}
		seen[name] = fmt.Sprintf("%s:%d", file, line)
		if known {
			s.values[name] = v
		}
	}
	for _, f := range s.Files {
		for _, c := range f.Constants {
			addValue(f.Name, c.Line, c.Name, c.Value, true)
		}
		for i := range f.Typedefs {
			t := &f.Typedefs[i]
			s.define(&Definition{Name: t.Name, File: f.Name, Kind: DefTypedef, Line: t.Line, Typedef: t})
		}
		for i := range f.Enums {
			e := &f.Enums[i]
			s.define(&Definition{Name: e.Name, File: f.Name, Kind: DefEnum, Line: e.Line, Enum: e})
			for _, v := range e.Values {
				addValue(f.Name, v.Line, v.Name, v.Value, v.Ref == "")
			}
		}
		for i := range f.Structs {
			st := &f.Structs[i]
			s.define(&Definition{Name: st.Name, File: f.Name, Kind: DefStruct, Line: st.Line, Struct: st})
		}
		for i := range f.Unions {
			u := &f.Unions[i]
			s.define(&Definition{Name: u.Name, File: f.Name, Kind: DefUnion, Line: u.Line, Union: u})
		}
	}
}

// resolveEnumValues follows reference chains until no more values resolve.
func (s *Schema) resolveEnumValues() {
	type pending struct {
		file string
		v    *EnumValue
	}
	var refs []pending
	for _, f := range s.Files {
		for i := range f.Enums {
			for j := range f.Enums[i].Values {
				if v := &f.Enums[i].Values[j]; v.Ref != "" {
					refs = append(refs, pending{f.Name, v})
				}
			}
		}
	}
	for progress := true; progress && len(refs) > 0; {
		progress = false
		rest := refs[:0]
		for _, r := range refs {
			if v, ok := s.values[r.v.Ref]; ok {
				r.v.Value = v
				s.values[r.v.Name] = v
				progress = true
				continue
			}
			rest = append(rest, r)
		}
		refs = rest
	}
	for _, r := range refs {
		s.problemf(r.file, r.v.Line, "enum value %s refers to unknown constant %s", r.v.Name, r.v.Ref)
	}
}

func (s *Schema) checkDefinition(d *Definition) []Dependency {
	var deps []Dependency
	add := func(dep Dependency) {
		for i, have := range deps {
			if have.Type == dep.Type {
				// a direct reference wins
				deps[i].Indirect = have.Indirect && dep.Indirect
				return
			}
		}
		deps = append(deps, dep)
	}
	checkDecl := func(decl Decl) {
		if decl.Size.Ref != "" {
			if _, ok := s.values[decl.Size.Ref]; !ok {
				s.problemf(d.File, decl.Line, "%s.%s: unknown size constant %s", d.Name, decl.Name, decl.Size.Ref)
			}
		}
		if IsBuiltin(decl.Type) {
			return
		}
		if _, ok := s.defs[decl.Type]; !ok {
			s.problemf(d.File, decl.Line, "%s.%s: unknown type %s", d.Name, decl.Name, decl.Type)
			return
		}
		add(Dependency{Type: decl.Type, Indirect: decl.Indirect()})
	}

	switch d.Kind {
	case DefTypedef:
		checkDecl(d.Typedef.Decl)
	case DefStruct:
		for _, f := range d.Struct.Fields {
			checkDecl(f)
		}
	case DefUnion:
		u := d.Union
		disc, defined := s.defs[u.DiscriminantType]
		switch {
		case IsBuiltin(u.DiscriminantType):
		case !defined:
			s.problemf(d.File, u.Line, "union %s: unknown discriminant type %s", u.Name, u.DiscriminantType)
		case disc.Kind != DefEnum && disc.Kind != DefTypedef:
			s.problemf(d.File, u.Line, "union %s: discriminant %s is a %s", u.Name, u.DiscriminantType, disc.Kind)
		default:
			add(Dependency{Type: u.DiscriminantType})
		}
		var enumValues map[string]bool
		if defined && disc.Kind == DefEnum {
			enumValues = make(map[string]bool, len(disc.Enum.Values))
			for _, v := range disc.Enum.Values {
				enumValues[v.Name] = true
			}
		}
		for _, c := range u.Cases {
			for _, label := range c.Labels {
				if _, err := parseNumber(label); err == nil {
					continue
				}
				if u.DiscriminantType == TypeBool && (label == "TRUE" || label == "FALSE") {
					continue
				}
				if enumValues != nil && !enumValues[label] {
					s.problemf(d.File, c.Line, "union %s: %s is not a value of %s", u.Name, label, u.DiscriminantType)
				} else if _, ok := s.values[label]; !ok {
					s.problemf(d.File, c.Line, "union %s: unknown case label %s", u.Name, label)
				}
			}
			if c.Arm != nil {
				checkDecl(*c.Arm)
			}
		}
	}
	return deps
}

// topoOrder walks the definitions in declaration order and emits each one
// after its dependencies. A cycle of direct references is an error.
func (s *Schema) topoOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(s.defs))
	order := make([]string, 0, len(s.defs))
	// stack holds the current path; indirect[i] tells how stack[i] was reached.
	var stack []string
	var indirect []bool

	var visit func(name string, via bool) error
	visit = func(name string, via bool) error {
		state[name] = visiting
		stack = append(stack, name)
		indirect = append(indirect, via)
		for _, dep := range s.deps[name] {
			switch state[dep.Type] {
			case visiting:
				i := len(stack) - 1
				for stack[i] != dep.Type {
					i--
				}
				broken := dep.Indirect
				for _, ind := range indirect[i+1:] {
					broken = broken || ind
				}
				if broken {
					continue
				}
				cycle := append(append([]string{}, stack[i:]...), dep.Type)
				return errors.Errorf("type cycle without indirection: %s", strings.Join(cycle, " -> "))
			case unvisited:
				if err := visit(dep.Type, dep.Indirect); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		indirect = indirect[:len(indirect)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}
	for _, name := range s.byDecl {
		if state[name] == unvisited {
			if err := visit(name, false); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// Order lists every declared type with the types it depends on first.
func (s *Schema) Order() []string { return append([]string{}, s.order...) }

func (s *Schema) Lookup(name string) (*Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Value returns a constant or enum value by name.
func (s *Schema) Value(name string) (int64, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Schema) Dependencies(name string) []Dependency {
	return append([]Dependency{}, s.deps[name]...)
}

// FileDependencies maps each file to the other files whose types it uses.
func (s *Schema) FileDependencies() map[string][]string {
	out := make(map[string][]string, len(s.Files))
	for _, f := range s.Files {
		set := make(map[string]bool)
		for _, name := range f.TypeNames() {
			for _, dep := range s.deps[name] {
				if other := s.defs[dep.Type].File; other != f.Name {
					set[other] = true
				}
			}
		}
		deps := make([]string, 0, len(set))
		for name := range set {
			deps = append(deps, name)
		}
		sort.Strings(deps)
		out[f.Name] = deps
	}
	return out
}

// FileOrder sorts the files so that each file follows the files it depends
// on. Files that depend on each other are reported as an error.
func (s *Schema) FileOrder() ([]string, error) {
	deps := s.FileDependencies()
	indegree := make(map[string]int, len(deps))
	dependents := make(map[string][]string)
	for _, f := range s.Files {
		indegree[f.Name] = len(deps[f.Name])
		for _, d := range deps[f.Name] {
			dependents[d] = append(dependents[d], f.Name)
		}
	}

	var queue, order []string
	for _, f := range s.Files {
		if indegree[f.Name] == 0 {
			queue = append(queue, f.Name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, d := range dependents[name] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if len(order) != len(s.Files) {
		var stuck []string
		for _, f := range s.Files {
			if indegree[f.Name] > 0 {
				stuck = append(stuck, f.Name)
			}
		}
		return nil, errors.Errorf("circular file dependencies among %s", strings.Join(stuck, ", "))
	}
	return order, nil
}
