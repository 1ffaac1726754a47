package lisp

// Closure is a user defined function or macro.
type Closure struct {
	// Env is the environment captured where the closure was created.
	Env Expr
	// Name is the symbol the closure was defined under, or Nil.
	Name Expr
	// Params is the (possibly nested or dotted) parameter pattern.
	Params Expr
	// Body is the list of expressions evaluated on application.
	Body Expr
}

// MakeFunction stores a function closure.
func (h *Heap) MakeFunction(env, name, params, body Expr) Expr {
	return h.makeClosure(TypeFunction, Closure{env, name, params, body})
}

// MakeMacro stores a macro closure.
func (h *Heap) MakeMacro(env, name, params, body Expr) Expr {
	return h.makeClosure(TypeMacro, Closure{env, name, params, body})
}

func (h *Heap) makeClosure(t Type, c Closure) Expr {
	i := len(h.closures)
	h.closures = append(h.closures, c)
	return Make(t, uint64(i))
}

// IsClosure returns true if e is a function or a macro.
func IsClosure(e Expr) bool {
	return e.Is(TypeFunction) || e.Is(TypeMacro)
}

// Closure returns the fields of the function or macro e.
func (h *Heap) Closure(e Expr) Closure {
	if !IsClosure(e) {
		h.Fail(TypeMismatch, "expected closure, got %s", h.TypeName(e.Type()))
	}
	return h.closures[h.index(e, e.Type(), len(h.closures))]
}
