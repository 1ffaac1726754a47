// Package parser implements the lisp reader.  The reader consumes a character
// stream with one character of lookahead and never backtracks.
package parser

import (
	"strings"

	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/stream"
)

// Option configures a Parser.
type Option func(*Parser)

// WithQuoteSyntax controls the reader macros ' ` , and ,@ (enabled by
// default).
func WithQuoteSyntax(ok bool) Option {
	return func(p *Parser) {
		p.quoteSyntax = ok
	}
}

// WithCharacterSyntax controls character literals such as \a and \space
// (enabled by default).
func WithCharacterSyntax(ok bool) Option {
	return func(p *Parser) {
		p.charSyntax = ok
	}
}

// Parser reads expressions from a stream registered in a Heap.
type Parser struct {
	h           *lisp.Heap
	in          lisp.Expr
	quoteSyntax bool
	charSyntax  bool
	dot         lisp.Expr
}

// New returns a Parser reading from the stream in.
func New(h *lisp.Heap, in lisp.Expr, options ...Option) *Parser {
	p := &Parser{
		h:           h,
		in:          in,
		quoteSyntax: true,
		charSyntax:  true,
		dot:         h.Intern("."),
	}
	for _, fn := range options {
		fn(p)
	}
	return p
}

// ReadOneFromString parses the first expression in src.
func ReadOneFromString(h *lisp.Heap, src string, options ...Option) lisp.Expr {
	in := h.MakeStream(stream.NewStringInput(src))
	defer h.ReleaseStream(in)
	return New(h, in, options...).ParseExpression()
}

// ReadAllFromString parses every expression in src.
func ReadAllFromString(h *lisp.Heap, src string, options ...Option) []lisp.Expr {
	in := h.MakeStream(stream.NewStringInput(src))
	defer h.ReleaseStream(in)
	return New(h, in, options...).ParseProgram()
}

func (p *Parser) errorf(format string, args ...interface{}) lisp.Expr {
	p.h.Fail(lisp.ParseError, format, args...)
	return lisp.Nil
}

func (p *Parser) peek() rune {
	return p.h.StreamPeekChar(p.in)
}

func (p *Parser) read() rune {
	return p.h.StreamReadChar(p.in)
}

func (p *Parser) skip() {
	p.h.StreamSkipChar(p.in)
}

// ParseProgram parses expressions until the end of input.
func (p *Parser) ParseProgram() []lisp.Expr {
	var exprs []lisp.Expr
	for {
		e, ok := p.MaybeParse()
		if !ok {
			return exprs
		}
		exprs = append(exprs, e)
	}
}

// MaybeParse skips whitespace and comments and parses the next expression.
// MaybeParse returns false if the input is exhausted.
func (p *Parser) MaybeParse() (lisp.Expr, bool) {
	p.SkipWhitespaceOrComment()
	if p.h.StreamAtEnd(p.in) {
		return lisp.Nil, false
	}
	return p.ParseExpression(), true
}

// ParseExpression parses one expression.
func (p *Parser) ParseExpression() lisp.Expr {
	p.SkipWhitespaceOrComment()
	c := p.peek()
	switch {
	case c == '(':
		return p.ParseList()
	case c == '"':
		return p.ParseString()
	case c == '\\' && p.charSyntax:
		return p.ParseCharacter()
	case c == '\'' && p.quoteSyntax:
		p.skip()
		return p.wrap("quote")
	case c == '`' && p.quoteSyntax:
		p.skip()
		return p.wrap("backquote")
	case c == ',' && p.quoteSyntax:
		p.skip()
		if p.peek() == '@' {
			p.skip()
			return p.wrap("unquote-splicing")
		}
		return p.wrap("unquote")
	case isNumberStart(c):
		return p.ParseNumberOrSymbol()
	case isSymbolStart(c):
		var tok strings.Builder
		return p.parseSymbol(&tok)
	case c == 0:
		return p.errorf("unexpected end of input")
	}
	return p.errorf("cannot read expression, unexpected '%c'", c)
}

func (p *Parser) wrap(name string) lisp.Expr {
	op := p.h.Intern(name)
	return p.h.List(op, p.ParseExpression())
}

// ParseList parses a parenthesized list.  The symbol "." before the final
// element makes that element the tail of the list.
func (p *Parser) ParseList() lisp.Expr {
	h := p.h
	if p.peek() != '(' {
		return p.errorf("expected '(', got '%c'", p.peek())
	}
	p.skip()
	lb := h.NewListBuilder()
	for {
		p.SkipWhitespaceOrComment()
		switch p.peek() {
		case 0:
			return p.errorf("unexpected end of input in list")
		case ')':
			p.skip()
			return lb.List()
		}
		e := p.ParseExpression()
		if e != p.dot {
			lb.Append(e)
			continue
		}
		if lb.List().IsNil() {
			return p.errorf("unexpected '.' at the start of a list")
		}
		tail := p.ParseExpression()
		p.SkipWhitespaceOrComment()
		if p.peek() != ')' {
			return p.errorf("missing ')'")
		}
		p.skip()
		return lb.ListTail(tail)
	}
}

// ParseString parses a double-quoted string literal.
func (p *Parser) ParseString() lisp.Expr {
	if p.peek() != '"' {
		return p.errorf("missing '\"'")
	}
	p.skip()
	var buf strings.Builder
	for {
		c := p.read()
		switch c {
		case 0:
			return p.errorf("unexpected end of input in string")
		case '"':
			return p.h.MakeString(buf.String())
		case '\\':
			p.parseEscape(&buf)
		default:
			buf.WriteRune(c)
		}
	}
}

func (p *Parser) parseEscape(buf *strings.Builder) {
	c := p.read()
	switch c {
	case 0:
		p.errorf("unexpected end of input in string")
	case 'n':
		buf.WriteByte('\n')
	case 't':
		buf.WriteByte('\t')
	case 'x':
		hi := p.parseHexDigit()
		lo := p.parseHexDigit()
		buf.WriteByte(hi<<4 | lo)
	default:
		buf.WriteRune(c)
	}
}

func (p *Parser) parseHexDigit() byte {
	c := p.read()
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0')
	case c >= 'a' && c <= 'f':
		return byte(10 + c - 'a')
	case c >= 'A' && c <= 'F':
		return byte(10 + c - 'A')
	}
	p.errorf("malformed string: bad hex digit '%c'", c)
	return 0
}

var namedChars = map[string]rune{
	"bel":   '\a',
	"space": ' ',
}

// ParseCharacter parses a character literal: a backslash followed by a single
// character or by a character name.
func (p *Parser) ParseCharacter() lisp.Expr {
	if p.peek() != '\\' {
		return p.errorf("expected '\\', got '%c'", p.peek())
	}
	p.skip()
	first := p.read()
	if isWhitespace(first) || first == 0 {
		return p.errorf("cannot parse character '\\'")
	}
	var name strings.Builder
	name.WriteRune(first)
	for c := p.peek(); !isWhitespace(c) && c != 0 && c != ')'; c = p.peek() {
		name.WriteRune(p.read())
	}
	lexeme := name.String()
	if len([]rune(lexeme)) == 1 {
		return p.h.MakeChar(first)
	}
	if r, ok := namedChars[lexeme]; ok {
		return p.h.MakeChar(r)
	}
	return p.errorf("cannot parse character '\\%s'", lexeme)
}

// ParseNumberOrSymbol parses a token starting with a digit or sign.  Digits
// accumulate into a scaled integer with one division at the end, so 1.5
// reads as 15/10 which truncates to 1.  A token that is not terminated right
// after its numeric prefix is read as a symbol from the same characters.
func (p *Parser) ParseNumberOrSymbol() lisp.Expr {
	var tok strings.Builder
	neg := false
	switch p.peek() {
	case '-':
		neg = true
		tok.WriteRune(p.read())
	case '+':
		tok.WriteRune(p.read())
	}
	if !isDigit(p.peek()) {
		return p.parseSymbol(&tok)
	}
	var val, den int64 = 0, 1
	limit := int64(lisp.FixnumMax)
	if neg {
		limit = -lisp.FixnumMin
	}
	overflow := false
	digits := func(scale bool) {
		for isDigit(p.peek()) {
			d := int64(p.peek() - '0')
			if val > (limit-d)/10 || (scale && den > lisp.FixnumMax/10) {
				overflow = true
			} else {
				val = val*10 + d
				if scale {
					den *= 10
				}
			}
			tok.WriteRune(p.read())
		}
	}
	digits(false)
	if p.peek() == '.' {
		tok.WriteRune(p.read())
		digits(true)
	}
	if !isNumberStop(p.peek()) {
		return p.parseSymbol(&tok)
	}
	if overflow {
		p.h.Fail(lisp.RangeError, "number literal out of range: %s", tok.String())
	}
	if neg {
		val = -val
	}
	return p.h.MakeFixnum(val / den)
}

func (p *Parser) parseSymbol(tok *strings.Builder) lisp.Expr {
	for isSymbolPart(p.peek()) {
		tok.WriteRune(p.read())
	}
	if tok.Len() == 0 {
		return p.errorf("cannot read expression, unexpected '%c'", p.peek())
	}
	return p.h.Intern(tok.String())
}

// SkipWhitespaceOrComment consumes whitespace and ';' comments.
func (p *Parser) SkipWhitespaceOrComment() {
	for {
		for isWhitespace(p.peek()) {
			p.skip()
		}
		if p.peek() != ';' {
			return
		}
		for c := p.peek(); c != 0 && c != '\n'; c = p.peek() {
			p.skip()
		}
	}
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isSymbolStart(c rune) bool {
	return c != 0 && !isWhitespace(c) &&
		c != '"' && c != '(' && c != ')' && c != ';' && c != '\''
}

func isSymbolPart(c rune) bool {
	return isSymbolStart(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isNumberStart(c rune) bool {
	return isDigit(c) || c == '-' || c == '+'
}

func isNumberStop(c rune) bool {
	return c == 0 || c == ')' || isWhitespace(c)
}
