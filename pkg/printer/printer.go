// Package printer renders lisp values as text.
package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/luthersystems/taglisp/pkg/internal/lfmt"
	"github.com/luthersystems/taglisp/pkg/lisp"
)

// Option configures a Printer.
type Option func(*Printer)

// WithQuoteSugar controls whether (quote X) renders as 'X.  Quote sugar is
// enabled by default.
func WithQuoteSugar(ok bool) Option {
	return func(p *Printer) {
		p.quoteSugar = ok
	}
}

// Printer renders values allocated in one Heap.
type Printer struct {
	h          *lisp.Heap
	quoteSugar bool
	quote      lisp.Expr
}

// New returns a Printer for values in h.
func New(h *lisp.Heap, options ...Option) *Printer {
	p := &Printer{
		h:          h,
		quoteSugar: true,
		quote:      h.Intern("quote"),
	}
	for _, fn := range options {
		fn(p)
	}
	return p
}

// Repr renders e with the default options.
func Repr(h *lisp.Heap, e lisp.Expr) string {
	return New(h).Repr(e)
}

// Print writes the readable representation of e to w.
func (p *Printer) Print(w io.Writer, e lisp.Expr) (int, error) {
	cw := lfmt.NewCountingWriter(w)
	n0 := cw.N()
	p.print(cw, e, make(map[lisp.Expr]bool))
	return cw.N() - n0, cw.Err()
}

// Display writes e to w like Print except that strings and characters are
// written raw.
func (p *Printer) Display(w io.Writer, e lisp.Expr) (int, error) {
	cw := lfmt.NewCountingWriter(w)
	n0 := cw.N()
	switch e.Type() {
	case lisp.TypeString:
		cw.WriteString(p.h.StringValue(e))
	case lisp.TypeChar:
		cw.WriteRune(p.h.CharCode(e))
	default:
		p.print(cw, e, make(map[lisp.Expr]bool))
	}
	return cw.N() - n0, cw.Err()
}

// Repr returns the readable representation of e.
func (p *Printer) Repr(e lisp.Expr) string {
	var b strings.Builder
	p.Print(&b, e)
	return b.String()
}

func (p *Printer) print(w lfmt.CountingWriter, e lisp.Expr, seen map[lisp.Expr]bool) {
	h := p.h
	switch e.Type() {
	case lisp.TypeNil:
		w.WriteString("nil")
	case lisp.TypeKeyword:
		w.WriteByte(':')
		w.WriteString(h.KeywordName(e))
	case lisp.TypeSymbol:
		w.WriteString(h.SymbolName(e))
	case lisp.TypeCons:
		p.printCons(w, e, seen)
	case lisp.TypeGensym:
		fmt.Fprintf(w, "#:G%d", h.GensymNumber(e))
	case lisp.TypeChar:
		p.printChar(w, e)
	case lisp.TypeFixnum:
		fmt.Fprintf(w, "%d", h.FixnumValue(e))
	case lisp.TypeString:
		p.printString(w, e)
	case lisp.TypeBuiltinSpecial:
		p.printBuiltin(w, e, "special operator")
	case lisp.TypeBuiltinFunction:
		p.printBuiltin(w, e, "core function")
	case lisp.TypeBuiltinSymbol:
		p.printBuiltin(w, e, "symbol macro")
	case lisp.TypeFunction:
		p.printClosure(w, e, "function", seen)
	case lisp.TypeMacro:
		p.printClosure(w, e, "macro", seen)
	case lisp.TypePointer:
		fmt.Fprintf(w, "#:<pointer %d>", e.Data())
	case lisp.TypeStream:
		fmt.Fprintf(w, "#:<stream %d>", e.Data())
	default:
		h.Fail(lisp.TypeMismatch, "cannot print expression %016x", uint64(e))
	}
}

func (p *Printer) isQuoteCall(e lisp.Expr) bool {
	h := p.h
	if !h.IsNamedCall(e, p.quote) {
		return false
	}
	rest := h.Cdr(e)
	return rest.Is(lisp.TypeCons) && h.Cdr(rest).IsNil()
}

func (p *Printer) printCons(w lfmt.CountingWriter, e lisp.Expr, seen map[lisp.Expr]bool) {
	h := p.h
	if seen[e] {
		w.WriteString("...")
		return
	}
	// seen holds only the cells on the current path, so shared structure
	// prints in full while cycles are cut.
	seen[e] = true
	path := []lisp.Expr{e}
	defer func() {
		for _, c := range path {
			delete(seen, c)
		}
	}()
	if p.quoteSugar && p.isQuoteCall(e) {
		w.WriteByte('\'')
		p.print(w, h.Cadr(e), seen)
		return
	}
	w.WriteByte('(')
	p.print(w, h.Car(e), seen)
	for tmp := h.Cdr(e); !tmp.IsNil(); tmp = h.Cdr(tmp) {
		if !tmp.Is(lisp.TypeCons) {
			w.WriteString(" . ")
			p.print(w, tmp, seen)
			break
		}
		if seen[tmp] {
			w.WriteString(" ...")
			break
		}
		seen[tmp] = true
		path = append(path, tmp)
		w.WriteByte(' ')
		p.print(w, h.Car(tmp), seen)
	}
	w.WriteByte(')')
}

func (p *Printer) printBuiltin(w lfmt.CountingWriter, e lisp.Expr, flavor string) {
	w.WriteString("#:<")
	w.WriteString(flavor)
	if name := p.h.BuiltinName(e); name != "" {
		w.WriteByte(' ')
		w.WriteString(name)
	}
	w.WriteByte('>')
}

func (p *Printer) printClosure(w lfmt.CountingWriter, e lisp.Expr, flavor string, seen map[lisp.Expr]bool) {
	c := p.h.Closure(e)
	w.WriteString("#:<")
	w.WriteString(flavor)
	if !c.Name.IsNil() {
		w.WriteByte(' ')
		p.print(w, c.Name, seen)
	}
	w.WriteByte(' ')
	if c.Params.IsNil() {
		w.WriteString("()")
	} else {
		p.print(w, c.Params, seen)
	}
	w.WriteByte('>')
}

// IsGraphicChar returns true for the characters that render as a backslash
// followed by the character itself.  Spaces and control characters are
// excluded.
func IsGraphicChar(r rune) bool {
	return r > ' ' && r != 0x7f && !unicode.IsControl(r)
}

func (p *Printer) printChar(w lfmt.CountingWriter, e lisp.Expr) {
	r := p.h.CharCode(e)
	switch {
	case IsGraphicChar(r):
		w.WriteByte('\\')
		w.WriteRune(r)
	case r == '\a':
		w.WriteString(`\bel`)
	case r == ' ':
		w.WriteString(`\space`)
	default:
		p.h.Fail(lisp.EncodingError, "cannot render character %d", r)
	}
}

const hexDigits = "0123456789abcdef"

func (p *Printer) printString(w lfmt.CountingWriter, e lisp.Expr) {
	s := p.h.StringValue(e)
	w.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			w.WriteString(`\"`)
		case c == '\\':
			w.WriteString(`\\`)
		case c == '\n':
			w.WriteString(`\n`)
		case c == '\t':
			w.WriteString(`\t`)
		case c < 0x20 || c == 0x7f:
			w.WriteString(`\x`)
			w.WriteByte(hexDigits[c>>4])
			w.WriteByte(hexDigits[c&0xf])
		default:
			w.WriteByte(c)
		}
	}
	w.WriteByte('"')
}
