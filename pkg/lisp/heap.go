package lisp

import (
	"fmt"
	"os"

	"github.com/luthersystems/taglisp/pkg/stream"
	"github.com/luthersystems/taglisp/pkg/symbol"
)

// Heap owns every arena along with the failure handler stack.  Arenas only
// grow, so an Expr returned by a Heap stays valid for the lifetime of the
// Heap.  Streams are the exception and may be released.  A Heap is not safe
// for concurrent use.
type Heap struct {
	types    []string
	symbols  symbol.Table
	keywords symbol.Table
	conses   []consCell
	strings  []string
	pointers []interface{}
	streams  []stream.Stream
	builtins []builtin
	closures []Closure
	gensyms  uint64
	handlers []Handler
}

// NewHeap returns an empty Heap whose base handler is base.  When base is nil
// failures are written to os.Stderr and terminate the process.
func NewHeap(base Handler) *Heap {
	if base == nil {
		base = &ExitHandler{
			Diagnostics: Diagnostics{W: os.Stderr},
			Exit:        os.Exit,
		}
	}
	h := &Heap{
		symbols:  symbol.NewTable(),
		keywords: symbol.NewTable(),
		handlers: []Handler{base},
	}
	for t := Type(0); t < numTypes; t++ {
		if h.registerType(typeNames[t]) != t {
			panic("type registry out of order")
		}
	}
	return h
}

func (h *Heap) registerType(name string) Type {
	t := Type(len(h.types))
	h.types = append(h.types, name)
	return t
}

// TypeName returns the registered name of t.
func (h *Heap) TypeName(t Type) string {
	if int(t) >= len(h.types) {
		h.Fail(IndexOutOfRange, "unknown type %d", uint8(t))
		return ""
	}
	return h.types[t]
}

// PushHandler installs handler on top of the handler stack.
func (h *Heap) PushHandler(handler Handler) {
	h.handlers = append(h.handlers, handler)
}

// PopHandler removes and returns the top handler.  The base handler is never
// removed.
func (h *Heap) PopHandler() Handler {
	n := len(h.handlers)
	if n <= 1 {
		panic("handler stack underflow")
	}
	top := h.handlers[n-1]
	h.handlers = h.handlers[:n-1]
	return top
}

// Handler returns the active handler.
func (h *Heap) Handler() Handler {
	return h.handlers[len(h.handlers)-1]
}

// Fail reports a failure to the active handler.  Fail does not return.
func (h *Heap) Fail(kind Kind, format string, args ...interface{}) {
	err := Errorf(kind, format, args...)
	h.Handler().Fail(err)
	panic(err)
}

// Warn reports a warning to the active handler and returns.
func (h *Heap) Warn(format string, args ...interface{}) {
	h.Handler().Warn(fmt.Sprintf(format, args...))
}

// index checks that e has type t and addresses one of the first n entries
// of its arena.
func (h *Heap) index(e Expr, t Type, n int) int {
	if e.Type() != t {
		h.Fail(TypeMismatch, "expected %s, got %s", h.TypeName(t), h.TypeName(e.Type()))
	}
	i := e.Data()
	if i >= uint64(n) {
		h.Fail(IndexOutOfRange, "%s index %d out of range", h.TypeName(t), i)
	}
	return int(i)
}

// MakeFixnum returns a fixnum holding v.
func (h *Heap) MakeFixnum(v int64) Expr {
	if !FixnumInRange(v) {
		h.Fail(RangeError, "fixnum out of range: %d", v)
	}
	return fixnum(v)
}

// FixnumValue returns the integer held by the fixnum e.
func (h *Heap) FixnumValue(e Expr) int64 {
	if e.Type() != TypeFixnum {
		h.Fail(TypeMismatch, "expected fixnum, got %s", h.TypeName(e.Type()))
	}
	return fixnumValue(e)
}

func (h *Heap) FixnumNeg(a Expr) Expr {
	return h.MakeFixnum(-h.FixnumValue(a))
}

func (h *Heap) FixnumAdd(a, b Expr) Expr {
	return h.MakeFixnum(h.FixnumValue(a) + h.FixnumValue(b))
}

func (h *Heap) FixnumMul(a, b Expr) Expr {
	x, y := h.FixnumValue(a), h.FixnumValue(b)
	if x != 0 {
		p := x * y
		if p/x != y {
			h.Fail(RangeError, "fixnum overflow: %d * %d", x, y)
		}
		return h.MakeFixnum(p)
	}
	return fixnum(0)
}

func (h *Heap) FixnumDiv(a, b Expr) Expr {
	y := h.FixnumValue(b)
	if y == 0 {
		h.Fail(RangeError, "division by zero")
	}
	return h.MakeFixnum(h.FixnumValue(a) / y)
}

func (h *Heap) FixnumLess(a, b Expr) bool {
	return h.FixnumValue(a) < h.FixnumValue(b)
}

// MakeChar returns a character holding the code point r.
func (h *Heap) MakeChar(r rune) Expr {
	if r < 0 || r > MaxChar || stream.IsSurrogate(r) {
		h.Fail(EncodingError, "illegal code point %d", r)
	}
	return char(r)
}

// CharCode returns the code point held by the character e.
func (h *Heap) CharCode(e Expr) rune {
	if e.Type() != TypeChar {
		h.Fail(TypeMismatch, "expected char, got %s", h.TypeName(e.Type()))
	}
	return rune(e.Data())
}

// Gensym returns a fresh uninterned symbol.
func (h *Heap) Gensym() Expr {
	n := h.gensyms
	h.gensyms++
	return Make(TypeGensym, n)
}

// GensymNumber returns the counter value of the gensym e.
func (h *Heap) GensymNumber(e Expr) uint64 {
	if e.Type() != TypeGensym {
		h.Fail(TypeMismatch, "expected gensym, got %s", h.TypeName(e.Type()))
	}
	return e.Data()
}

// MakePointer stores an opaque host value.
func (h *Heap) MakePointer(v interface{}) Expr {
	i := len(h.pointers)
	h.pointers = append(h.pointers, v)
	return Make(TypePointer, uint64(i))
}

// PointerValue returns the host value stored by MakePointer.
func (h *Heap) PointerValue(e Expr) interface{} {
	return h.pointers[h.index(e, TypePointer, len(h.pointers))]
}
