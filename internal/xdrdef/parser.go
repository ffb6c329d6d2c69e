package xdrdef

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type parser struct {
	toks []Token
	pos  int
	file *File
}

// Parse reads the definitions of one .x file.
func Parse(src, filename string) (*File, error) {
	toks, err := Tokenize(src, filename)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, file: &File{Name: filename}}
	if err := p.parseFile(); err != nil {
		return nil, err
	}
	return p.file, nil
}

// ParseFiles parses every named source. The result keeps the order of names.
func ParseFiles(names []string, sources map[string]string) ([]*File, error) {
	files := make([]*File, 0, len(names))
	for _, name := range names {
		src, ok := sources[name]
		if !ok {
			return nil, errors.Errorf("no source for %s", name)
		}
		f, err := Parse(src, name)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		files = append(files, f)
	}
	return files, nil
}

func (p *parser) parseFile() error {
	depth := 0
	for {
		tok := p.cur()
		switch {
		case tok.Kind == TokenEOF:
			if depth > 0 {
				return p.errorf(tok, "unterminated namespace")
			}
			return nil
		case p.isSymbol(";"):
			p.next()
		case p.isKeyword("namespace"):
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.expectSymbol("{"); err != nil {
				return err
			}
			p.file.Namespace = name
			depth++
		case p.isSymbol("}") && depth > 0:
			p.next()
			depth--
		case p.isKeyword("const"):
			if err := p.parseConst(); err != nil {
				return err
			}
		case p.isKeyword("typedef"):
			if err := p.parseTypedef(); err != nil {
				return err
			}
		case p.isKeyword("enum"):
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.parseEnumBody(name, tok.Pos.Line); err != nil {
				return err
			}
			if err := p.expectSymbol(";"); err != nil {
				return err
			}
		case p.isKeyword("struct"):
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.parseStructBody(name, tok.Pos.Line); err != nil {
				return err
			}
			if err := p.expectSymbol(";"); err != nil {
				return err
			}
		case p.isKeyword("union"):
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return err
			}
			if err := p.parseUnionBody(name, tok.Pos.Line); err != nil {
				return err
			}
			if err := p.expectSymbol(";"); err != nil {
				return err
			}
		default:
			return p.errorf(tok, "unexpected %s %q", tok.Kind, tok.Value)
		}
	}
}

func (p *parser) parseConst() error {
	line := p.next().Pos.Line
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("="); err != nil {
		return err
	}
	v, err := p.expectNumber()
	if err != nil {
		return err
	}
	p.file.Constants = append(p.file.Constants, Const{Name: name, Value: v, Line: line})
	return p.expectSymbol(";")
}

func (p *parser) parseTypedef() error {
	line := p.next().Pos.Line
	// typedef struct { ... } Name; declares Name itself.
	if kind, ok := p.inlineStart(); ok {
		name, err := p.peekDeclName()
		if err != nil {
			return err
		}
		if err := p.parseInline(kind, name, line); err != nil {
			return err
		}
		p.next() // name, already read by peekDeclName
		return p.expectSymbol(";")
	}
	d, err := p.parseDecl("")
	if err != nil {
		return err
	}
	d.Line = line
	p.file.Typedefs = append(p.file.Typedefs, Typedef{Decl: d})
	return nil
}

func (p *parser) parseEnumBody(name string, line int) error {
	if err := p.expectSymbol("{"); err != nil {
		return err
	}
	e := Enum{Name: name, Line: line}
	for !p.isSymbol("}") {
		vline := p.cur().Pos.Line
		vname, err := p.expectIdent()
		if err != nil {
			return err
		}
		if err := p.expectSymbol("="); err != nil {
			return err
		}
		v := EnumValue{Name: vname, Line: vline}
		if p.cur().Kind == TokenNumber {
			if v.Value, err = p.expectNumber(); err != nil {
				return err
			}
		} else if v.Ref, err = p.expectIdent(); err != nil {
			return err
		}
		e.Values = append(e.Values, v)
		if p.isSymbol(",") {
			p.next()
		} else if !p.isSymbol("}") {
			return p.errorf(p.cur(), "expected ',' or '}' in enum %s", name)
		}
	}
	p.next()
	p.file.Enums = append(p.file.Enums, e)
	return nil
}

func (p *parser) parseStructBody(name string, line int) error {
	if err := p.expectSymbol("{"); err != nil {
		return err
	}
	s := Struct{Name: name, Line: line}
	for !p.isSymbol("}") {
		if p.cur().Kind == TokenEOF {
			return p.errorf(p.cur(), "unterminated struct %s", name)
		}
		d, err := p.parseDecl(name)
		if err != nil {
			return err
		}
		s.Fields = append(s.Fields, d)
	}
	p.next()
	p.file.Structs = append(p.file.Structs, s)
	return nil
}

func (p *parser) parseUnionBody(name string, line int) error {
	if err := p.expectKeyword("switch"); err != nil {
		return err
	}
	if err := p.expectSymbol("("); err != nil {
		return err
	}
	u := Union{Name: name, Line: line}
	var err error
	if u.DiscriminantType, err = p.parseType(); err != nil {
		return err
	}
	if u.DiscriminantName, err = p.expectIdent(); err != nil {
		return err
	}
	if err := p.expectSymbol(")"); err != nil {
		return err
	}
	if err := p.expectSymbol("{"); err != nil {
		return err
	}
	for !p.isSymbol("}") {
		c, err := p.parseCase(name)
		if err != nil {
			return err
		}
		u.Cases = append(u.Cases, c)
	}
	p.next()
	p.file.Unions = append(p.file.Unions, u)
	return nil
}

func (p *parser) parseCase(union string) (UnionCase, error) {
	c := UnionCase{Line: p.cur().Pos.Line}
	for p.isKeyword("case") || p.isKeyword("default") {
		if p.next().Value == "default" {
			c.Default = true
		} else {
			switch tok := p.cur(); tok.Kind {
			case TokenNumber:
				v, err := p.expectNumber()
				if err != nil {
					return c, err
				}
				c.Labels = append(c.Labels, strconv.FormatInt(v, 10))
			case TokenIdent:
				p.next()
				c.Labels = append(c.Labels, tok.Value)
			default:
				return c, p.errorf(tok, "expected case label, got %s %q", tok.Kind, tok.Value)
			}
		}
		if err := p.expectSymbol(":"); err != nil {
			return c, err
		}
	}
	if len(c.Labels) == 0 && !c.Default {
		tok := p.cur()
		return c, p.errorf(tok, "expected 'case' or 'default', got %s %q", tok.Kind, tok.Value)
	}
	if p.isKeyword("void") {
		p.next()
		return c, p.expectSymbol(";")
	}
	d, err := p.parseDecl(union)
	if err != nil {
		return c, err
	}
	c.Arm = &d
	return c, nil
}

// parseDecl reads "type [*] name [size];". Anonymous struct, union and enum
// types are hoisted under parent+Name.
func (p *parser) parseDecl(parent string) (Decl, error) {
	d := Decl{Line: p.cur().Pos.Line}
	if kind, ok := p.inlineStart(); ok {
		field, err := p.peekDeclName()
		if err != nil {
			return d, err
		}
		d.Type = parent + pascal(field)
		if err := p.parseInline(kind, d.Type, d.Line); err != nil {
			return d, err
		}
	} else {
		var err error
		if d.Type, err = p.parseType(); err != nil {
			return d, err
		}
	}

	if p.isSymbol("*") {
		p.next()
		d.Optional = true
	}
	var err error
	if d.Name, err = p.expectIdent(); err != nil {
		return d, err
	}

	switch {
	case p.isSymbol("["):
		p.next()
		d.Array = ArrayFixed
		if d.Size, err = p.parseSize(); err != nil {
			return d, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return d, err
		}
	case p.isSymbol("<"):
		p.next()
		d.Array = ArrayVariable
		if !p.isSymbol(">") {
			if d.Size, err = p.parseSize(); err != nil {
				return d, err
			}
		}
		if err := p.expectSymbol(">"); err != nil {
			return d, err
		}
	}
	if d.Type == TypeString && d.Array != ArrayVariable {
		return d, p.errorf(p.cur(), "string %s must be declared with <>", d.Name)
	}
	return d, p.expectSymbol(";")
}

// inlineStart reports whether the next tokens open an anonymous type.
func (p *parser) inlineStart() (string, bool) {
	tok := p.cur()
	if tok.Kind != TokenKeyword {
		return "", false
	}
	next := p.peek(1)
	switch tok.Value {
	case "struct", "enum":
		return tok.Value, next.Kind == TokenSymbol && next.Value == "{"
	case "union":
		return tok.Value, next.Kind == TokenKeyword && next.Value == "switch"
	}
	return "", false
}

func (p *parser) parseInline(kind, name string, line int) error {
	p.next()
	switch kind {
	case "struct":
		return p.parseStructBody(name, line)
	case "enum":
		return p.parseEnumBody(name, line)
	default:
		return p.parseUnionBody(name, line)
	}
}

// peekDeclName finds the name that follows the brace-delimited body
// starting at the current token.
func (p *parser) peekDeclName() (string, error) {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		tok := p.toks[i]
		if tok.Kind != TokenSymbol {
			continue
		}
		switch tok.Value {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				next := p.toks[i+1]
				if next.Kind == TokenSymbol && next.Value == "*" && i+2 < len(p.toks) {
					next = p.toks[i+2]
				}
				if next.Kind != TokenIdent {
					return "", p.errorf(next, "expected identifier after anonymous type, got %s %q", next.Kind, next.Value)
				}
				return next.Value, nil
			}
		}
	}
	return "", p.errorf(p.cur(), "unterminated anonymous type")
}

func (p *parser) parseType() (string, error) {
	tok := p.cur()
	if tok.Kind == TokenIdent {
		p.next()
		return tok.Value, nil
	}
	if tok.Kind != TokenKeyword {
		return "", p.errorf(tok, "expected type, got %s %q", tok.Kind, tok.Value)
	}
	p.next()
	switch tok.Value {
	case "unsigned":
		switch p.cur().Value {
		case "int":
			p.next()
			return TypeUint32, nil
		case "hyper":
			p.next()
			return TypeUint64, nil
		}
		return "", p.errorf(p.cur(), "expected 'int' or 'hyper' after 'unsigned'")
	case "int":
		return TypeInt32, nil
	case "hyper":
		return TypeInt64, nil
	case "bool", "float", "double", "string", "opaque":
		return tok.Value, nil
	}
	return "", p.errorf(tok, "expected type, got keyword %q", tok.Value)
}

func (p *parser) parseSize() (Size, error) {
	tok := p.cur()
	switch tok.Kind {
	case TokenIdent:
		p.next()
		return Size{Ref: tok.Value}, nil
	case TokenNumber:
		v, err := p.expectNumber()
		if err != nil {
			return Size{}, err
		}
		if v < 0 || v > math.MaxUint32 {
			return Size{}, p.errorf(tok, "size %d out of range", v)
		}
		return Size{N: uint32(v)}, nil
	}
	return Size{}, p.errorf(tok, "expected size, got %s %q", tok.Kind, tok.Value)
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) peek(offset int) Token {
	if p.pos+offset < len(p.toks) {
		return p.toks[p.pos+offset]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) isKeyword(v string) bool {
	tok := p.cur()
	return tok.Kind == TokenKeyword && tok.Value == v
}

func (p *parser) isSymbol(v string) bool {
	tok := p.cur()
	return tok.Kind == TokenSymbol && tok.Value == v
}

func (p *parser) expectKeyword(v string) error {
	if !p.isKeyword(v) {
		tok := p.cur()
		return p.errorf(tok, "expected '%s', got %s %q", v, tok.Kind, tok.Value)
	}
	p.next()
	return nil
}

func (p *parser) expectSymbol(v string) error {
	if !p.isSymbol(v) {
		tok := p.cur()
		return p.errorf(tok, "expected '%s', got %s %q", v, tok.Kind, tok.Value)
	}
	p.next()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	tok := p.cur()
	if tok.Kind != TokenIdent {
		return "", p.errorf(tok, "expected identifier, got %s %q", tok.Kind, tok.Value)
	}
	p.next()
	return tok.Value, nil
}

func (p *parser) expectNumber() (int64, error) {
	tok := p.cur()
	if tok.Kind != TokenNumber {
		return 0, p.errorf(tok, "expected number, got %s %q", tok.Kind, tok.Value)
	}
	p.next()
	v, err := parseNumber(tok.Value)
	if err != nil {
		return 0, p.errorf(tok, "invalid number %q", tok.Value)
	}
	return v, nil
}

// parseNumber reads a decimal or 0x-prefixed literal. Hex literals above
// MaxInt64 wrap, as unsigned hyper constants do in C.
func parseNumber(s string) (int64, error) {
	digits := strings.TrimPrefix(s, "-")
	if !strings.HasPrefix(digits, "0x") && !strings.HasPrefix(digits, "0X") {
		return strconv.ParseInt(s, 10, 64)
	}
	u, err := strconv.ParseUint(digits[2:], 16, 64)
	if err != nil {
		return 0, err
	}
	if len(digits) != len(s) {
		return -int64(u), nil
	}
	return int64(u), nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func pascal(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
