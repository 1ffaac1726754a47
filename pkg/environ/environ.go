// Package environ implements lexical environments encoded as cons cells.
//
// An environment is the structure ((vars . vals) . outer) where vars and vals
// are parallel lists of equal length and outer is Nil or the enclosing
// environment.
package environ

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/printer"
)

// Environ operates on environments stored in a Heap.
type Environ struct {
	h *lisp.Heap
	p *printer.Printer
}

// New returns an Environ for environments allocated in h.
func New(h *lisp.Heap) *Environ {
	return &Environ{h: h, p: printer.New(h)}
}

// Make returns an empty environment extending outer.
func (e *Environ) Make(outer lisp.Expr) lisp.Expr {
	return e.h.Cons(e.h.Cons(lisp.Nil, lisp.Nil), outer)
}

// Extend returns a new environment extending outer with the pattern vars
// bound to vals as by DestructuringBind.
func (e *Environ) Extend(outer, vars, vals lisp.Expr) lisp.Expr {
	env := e.Make(outer)
	e.DestructuringBind(env, vars, vals)
	return env
}

// Vars returns the variables bound in the local frame of env.
func (e *Environ) Vars(env lisp.Expr) lisp.Expr {
	return e.h.Caar(env)
}

// Vals returns the values bound in the local frame of env.
func (e *Environ) Vals(env lisp.Expr) lisp.Expr {
	return e.h.Cdar(env)
}

// Outer returns the environment enclosing env.
func (e *Environ) Outer(env lisp.Expr) lisp.Expr {
	return e.h.Cdr(env)
}

func (e *Environ) setVars(env, vars lisp.Expr) {
	e.h.Rplaca(e.h.Car(env), vars)
}

func (e *Environ) setVals(env, vals lisp.Expr) {
	e.h.Rplacd(e.h.Car(env), vals)
}

// findLocal returns the cell of the local value list holding v, or Nil.
func (e *Environ) findLocal(env, v lisp.Expr) lisp.Expr {
	h := e.h
	vars, vals := e.Vars(env), e.Vals(env)
	for !vars.IsNil() {
		if h.Car(vars) == v {
			return vals
		}
		vars, vals = h.Cdr(vars), h.Cdr(vals)
	}
	return lisp.Nil
}

// find searches env and its enclosing environments for the value cell of v.
func (e *Environ) find(env, v lisp.Expr) lisp.Expr {
	for !env.IsNil() {
		if cell := e.findLocal(env, v); !cell.IsNil() {
			return cell
		}
		env = e.Outer(env)
	}
	return lisp.Nil
}

func (e *Environ) unbound(v lisp.Expr) {
	e.h.Fail(lisp.UnboundVariable, "unbound variable %s", e.p.Repr(v))
}

// Def binds v to val in the local frame of env, overwriting an existing local
// binding in place.
func (e *Environ) Def(env, v, val lisp.Expr) {
	if cell := e.findLocal(env, v); !cell.IsNil() {
		e.h.Rplaca(cell, val)
		return
	}
	e.setVars(env, e.h.Cons(v, e.Vars(env)))
	e.setVals(env, e.h.Cons(val, e.Vals(env)))
}

// Get returns the value of v in the innermost environment binding it.
func (e *Environ) Get(env, v lisp.Expr) lisp.Expr {
	cell := e.find(env, v)
	if cell.IsNil() {
		e.unbound(v)
	}
	return e.h.Car(cell)
}

// Set stores val in the innermost existing binding of v.  Unlike Def, Set
// fails if v is not bound.
func (e *Environ) Set(env, v, val lisp.Expr) {
	cell := e.find(env, v)
	if cell.IsNil() {
		e.unbound(v)
	}
	e.h.Rplaca(cell, val)
}

// CanSet reports whether v is bound in env or an enclosing environment.
func (e *Environ) CanSet(env, v lisp.Expr) bool {
	return !e.find(env, v).IsNil()
}

// Del removes the binding of v from the local frame of env.
func (e *Environ) Del(env, v lisp.Expr) {
	h := e.h
	prevVars, prevVals := lisp.Nil, lisp.Nil
	vars, vals := e.Vars(env), e.Vals(env)
	for !vars.IsNil() {
		if h.Car(vars) == v {
			if prevVars.IsNil() {
				e.setVars(env, h.Cdr(vars))
				e.setVals(env, h.Cdr(vals))
			} else {
				h.Rplacd(prevVars, h.Cdr(vars))
				h.Rplacd(prevVals, h.Cdr(vals))
			}
			return
		}
		prevVars, prevVals = vars, vals
		vars, vals = h.Cdr(vars), h.Cdr(vals)
	}
	e.unbound(v)
}

// DestructuringBind binds the pattern vars against vals in the local frame of
// env.  A symbol pattern binds the entire value.  A list pattern binds its
// elements pairwise and a dotted tail binds the remaining values.
func (e *Environ) DestructuringBind(env, vars, vals lisp.Expr) {
	h := e.h
	switch vars.Type() {
	case lisp.TypeNil:
		if !vals.IsNil() {
			h.Fail(lisp.ArityMismatch, "no more parameters to bind: %s", e.p.Repr(vals))
		}
	case lisp.TypeCons:
		for vars.Is(lisp.TypeCons) {
			if !vals.Is(lisp.TypeCons) {
				h.Fail(lisp.ArityMismatch, "not enough arguments to bind: %s", e.p.Repr(vars))
			}
			e.DestructuringBind(env, h.Car(vars), h.Car(vals))
			vars, vals = h.Cdr(vars), h.Cdr(vals)
		}
		e.DestructuringBind(env, vars, vals)
	case lisp.TypeSymbol, lisp.TypeGensym:
		e.Def(env, vars, vals)
	default:
		h.Fail(lisp.TypeMismatch, "cannot bind %s", e.p.Repr(vars))
	}
}
