// Package lisp defines the tagged value representation and the arenas that
// hold every non-immediate value.
package lisp

import "fmt"

// Expr is a lisp value packed into a machine word.  The low TypeBits bits hold
// the Type and the remaining DataBits bits hold the payload.  The payload of
// an immediate type encodes the value itself.  The payload of any other type
// is an index into the arena owned by that type.  Two Exprs are eq iff their
// bit patterns are equal.  The zero Expr is Nil.
type Expr uint64

const (
	TypeBits = 8
	TypeMask = 1<<TypeBits - 1
	DataBits = 64 - TypeBits
	DataMask = 1<<DataBits - 1
)

// Nil is the empty list and the only false value.
const Nil Expr = 0

// Make packs t and the low DataBits bits of data into an Expr.
func Make(t Type, data uint64) Expr {
	return Expr(data<<TypeBits | uint64(t))
}

// Type returns the type tag of e.
func (e Expr) Type() Type {
	return Type(e & TypeMask)
}

// Data returns the payload of e.
func (e Expr) Data() uint64 {
	return uint64(e) >> TypeBits
}

// IsNil returns true if e is Nil.
func (e Expr) IsNil() bool {
	return e == Nil
}

// Is returns true if e has type t.
func (e Expr) Is(t Type) bool {
	return e.Type() == t
}

// GoString implements fmt.GoStringer for debugging output.
func (e Expr) GoString() string {
	return fmt.Sprintf("lisp.Make(%d, %#x)", e.Type(), e.Data())
}

// Type is a closed set of value tags.
type Type uint8

const (
	// TypeNil is the type of Nil.
	TypeNil Type = iota
	// TypeChar is an immediate unicode code point.
	TypeChar
	// TypeFixnum is an immediate signed integer of DataBits bits.
	TypeFixnum
	// TypeSymbol indexes the symbol arena.
	TypeSymbol
	// TypeKeyword indexes the keyword arena.
	TypeKeyword
	// TypeCons indexes the cons arena.
	TypeCons
	// TypeGensym carries a gensym counter value.
	TypeGensym
	// TypePointer indexes the arena of opaque host values.
	TypePointer
	// TypeString indexes the string arena.
	TypeString
	// TypeStream indexes the stream arena.
	TypeStream
	// TypeBuiltinSpecial is a native callable receiving unevaluated
	// arguments.
	TypeBuiltinSpecial
	// TypeBuiltinFunction is a native callable receiving evaluated
	// arguments.
	TypeBuiltinFunction
	// TypeBuiltinSymbol is a native callable invoked when the value itself
	// is evaluated.
	TypeBuiltinSymbol
	// TypeFunction indexes the closure arena and is applied to evaluated
	// arguments.
	TypeFunction
	// TypeMacro indexes the closure arena and is applied to unevaluated
	// arguments.
	TypeMacro

	numTypes
)

var typeNames = []string{
	TypeNil:             "nil",
	TypeChar:            "char",
	TypeFixnum:          "fixnum",
	TypeSymbol:          "symbol",
	TypeKeyword:         "keyword",
	TypeCons:            "cons",
	TypeGensym:          "gensym",
	TypePointer:         "pointer",
	TypeString:          "string",
	TypeStream:          "stream",
	TypeBuiltinSpecial:  "builtin-special",
	TypeBuiltinFunction: "builtin-function",
	TypeBuiltinSymbol:   "builtin-symbol",
	TypeFunction:        "function",
	TypeMacro:           "macro",
}

// String returns the registered name of t.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type-%d", uint8(t))
}

// IsImmediate returns true if values of type t carry no arena index.
func (t Type) IsImmediate() bool {
	return t == TypeNil || t == TypeChar || t == TypeFixnum
}

const (
	fixnumSignBit = 1 << (DataBits - 1)
	// FixnumMin is the smallest representable fixnum.
	FixnumMin = -(1 << (DataBits - 1))
	// FixnumMax is the largest representable fixnum.
	FixnumMax = 1<<(DataBits-1) - 1
)

// FixnumInRange returns true if v can be stored in a fixnum.
func FixnumInRange(v int64) bool {
	return v >= FixnumMin && v <= FixnumMax
}

// fixnum packs v without a range check.
func fixnum(v int64) Expr {
	return Make(TypeFixnum, uint64(v)&DataMask)
}

// fixnumValue sign-extends the payload of e.
func fixnumValue(e Expr) int64 {
	data := e.Data()
	if data&fixnumSignBit != 0 {
		data |= ^uint64(DataMask)
	}
	return int64(data)
}

// MaxChar is the largest code point a character may hold.
const MaxChar = 0x10ffff

func char(r rune) Expr {
	return Make(TypeChar, uint64(uint32(r)))
}
