package lisp

import (
	"strings"

	"github.com/luthersystems/taglisp/pkg/symbol"
)

// Intern returns the value named by name.  The name "nil" yields Nil and a
// leading colon yields the keyword named by the rest of the string.  All
// other names are interned as symbols.
func (h *Heap) Intern(name string) Expr {
	switch {
	case name == "nil":
		return Nil
	case strings.HasPrefix(name, ":"):
		return h.MakeKeyword(name[1:])
	}
	return h.MakeSymbol(name)
}

// MakeSymbol interns name in the symbol arena.
func (h *Heap) MakeSymbol(name string) Expr {
	return Make(TypeSymbol, uint64(h.symbols.Intern(name)))
}

// SymbolName returns the name of the symbol e.
func (h *Heap) SymbolName(e Expr) string {
	return h.name(e, TypeSymbol, h.symbols)
}

// MakeKeyword interns name in the keyword arena.  name does not include the
// leading colon.
func (h *Heap) MakeKeyword(name string) Expr {
	return Make(TypeKeyword, uint64(h.keywords.Intern(name)))
}

// KeywordName returns the name of the keyword e without the leading colon.
func (h *Heap) KeywordName(e Expr) string {
	return h.name(e, TypeKeyword, h.keywords)
}

func (h *Heap) name(e Expr, t Type, table symbol.Table) string {
	id := symbol.ID(h.index(e, t, table.Len()))
	name, ok := table.Symbol(id)
	if !ok {
		h.Fail(IndexOutOfRange, "unknown %s %s", h.TypeName(t), symbol.String(id, table))
	}
	return name
}

// MakeString appends an immutable string to the string arena.
func (h *Heap) MakeString(s string) Expr {
	i := len(h.strings)
	h.strings = append(h.strings, s)
	return Make(TypeString, uint64(i))
}

// StringValue returns the bytes of the string e.
func (h *Heap) StringValue(e Expr) string {
	return h.strings[h.index(e, TypeString, len(h.strings))]
}

// StringLength returns the length in bytes of the string e.
func (h *Heap) StringLength(e Expr) int {
	return len(h.StringValue(e))
}

// StringEqual compares the contents of two strings.
func (h *Heap) StringEqual(a, b Expr) bool {
	return h.StringValue(a) == h.StringValue(b)
}
