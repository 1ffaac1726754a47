package lisp

// BuiltinFunc is a native callable.  args holds the evaluated arguments of a
// builtin function, the unevaluated arguments of a builtin special, and Nil
// for a builtin symbol.  env is the environment of the call site.
type BuiltinFunc func(args, env Expr) Expr

type builtin struct {
	typ  Type
	name string
	fn   BuiltinFunc
}

// IsBuiltin returns true if t is one of the builtin callable types.
func IsBuiltin(t Type) bool {
	return t == TypeBuiltinSpecial || t == TypeBuiltinFunction || t == TypeBuiltinSymbol
}

// MakeBuiltin registers fn under name with the flavor t, which must be
// TypeBuiltinSpecial, TypeBuiltinFunction or TypeBuiltinSymbol.
func (h *Heap) MakeBuiltin(t Type, name string, fn BuiltinFunc) Expr {
	if !IsBuiltin(t) {
		h.Fail(TypeMismatch, "not a builtin type: %s", h.TypeName(t))
	}
	i := len(h.builtins)
	h.builtins = append(h.builtins, builtin{t, name, fn})
	return Make(t, uint64(i))
}

func (h *Heap) builtin(e Expr) *builtin {
	if !IsBuiltin(e.Type()) {
		h.Fail(TypeMismatch, "expected builtin, got %s", h.TypeName(e.Type()))
	}
	b := &h.builtins[h.index(e, e.Type(), len(h.builtins))]
	if b.typ != e.Type() {
		h.Fail(TypeMismatch, "expected %s, got %s", h.TypeName(b.typ), h.TypeName(e.Type()))
	}
	return b
}

// BuiltinName returns the name a builtin was registered with.
func (h *Heap) BuiltinName(e Expr) string {
	return h.builtin(e).name
}

// BuiltinFunc returns the native callable of a builtin.
func (h *Heap) BuiltinFunc(e Expr) BuiltinFunc {
	return h.builtin(e).fn
}
