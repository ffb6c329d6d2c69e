package xdrdef

import (
	"fmt"
	"strings"
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenKeyword
	TokenIdent
	TokenNumber
	TokenSymbol
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:     "end of file",
	TokenKeyword: "keyword",
	TokenIdent:   "identifier",
	TokenNumber:  "number",
	TokenSymbol:  "symbol",
}

func (k TokenKind) String() string { return tokenKindNames[k] }

var keywords = map[string]bool{
	"typedef": true, "enum": true, "struct": true, "union": true, "switch": true,
	"case": true, "default": true, "void": true, "const": true, "opaque": true,
	"string": true, "unsigned": true, "int": true, "hyper": true, "float": true,
	"double": true, "bool": true, "namespace": true,
}

const symbols = "{}[]<>();:,=*"

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

type Token struct {
	Kind  TokenKind
	Value string
	Pos   Position
}

// SyntaxError is a lexing or parsing failure at a source position.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string { return e.Pos.String() + ": " + e.Msg }

type lexer struct {
	src    string
	file   string
	pos    int
	line   int
	column int
}

// Tokenize splits src into tokens, ending with a TokenEOF. Comments,
// whitespace and '%' passthrough lines are dropped.
func Tokenize(src, filename string) ([]Token, error) {
	l := &lexer{src: src, file: filename, line: 1, column: 1}
	var tokens []Token
	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		if l.pos >= len(l.src) {
			tokens = append(tokens, Token{Kind: TokenEOF, Pos: l.position()})
			return tokens, nil
		}
		start := l.position()
		c := l.src[l.pos]
		switch {
		case c == '%':
			l.skipLine()
		case strings.IndexByte(symbols, c) >= 0:
			l.advance()
			tokens = append(tokens, Token{Kind: TokenSymbol, Value: string(c), Pos: start})
		case isDigit(c) || (c == '-' && isDigit(l.peek(1))):
			v, err := l.number()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Value: v, Pos: start})
		case isLetter(c):
			word := l.word()
			kind := TokenIdent
			if keywords[word] {
				kind = TokenKeyword
			}
			tokens = append(tokens, Token{Kind: kind, Value: word, Pos: start})
		default:
			return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid character %q", c)}
		}
	}
}

func (l *lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.column}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *lexer) skipLine() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peek(1) == '/':
			l.skipLine()
		case c == '/' && l.peek(1) == '*':
			start := l.position()
			l.advance()
			l.advance()
			for {
				if l.pos >= len(l.src) {
					return &SyntaxError{Pos: start, Msg: "unterminated block comment"}
				}
				if l.src[l.pos] == '*' && l.peek(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) number() (string, error) {
	start := l.pos
	pos := l.position()
	if l.src[l.pos] == '-' {
		l.advance()
	}
	if l.src[l.pos] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.advance()
		l.advance()
		if !isHexDigit(l.peek(0)) {
			return "", &SyntaxError{Pos: pos, Msg: "invalid hexadecimal number"}
		}
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.advance()
		}
	} else {
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	return l.src[start:l.pos], nil
}

func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.src[l.pos]) || isDigit(l.src[l.pos])) {
		l.advance()
	}
	return l.src[start:l.pos]
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
