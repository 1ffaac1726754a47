package runtime

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
)

// Eval evaluates e in env.
//
// Nil, characters, fixnums, strings, keywords, pointers and closures evaluate
// to themselves.  Symbols and gensyms are looked up in env.  A symbol bound to a
// symbol macro evaluates to the result of calling its native function with
// no arguments in env.  A cons is applied.
func (r *Runtime) Eval(e, env lisp.Expr) lisp.Expr {
	h := r.Heap
	switch e.Type() {
	case lisp.TypeNil, lisp.TypeChar, lisp.TypeFixnum, lisp.TypeString, lisp.TypeKeyword,
		lisp.TypePointer, lisp.TypeFunction, lisp.TypeMacro:
		return e
	case lisp.TypeSymbol, lisp.TypeGensym:
		v := r.Environ.Get(env, e)
		if v.Is(lisp.TypeBuiltinSymbol) {
			return h.BuiltinFunc(v)(lisp.Nil, env)
		}
		return v
	case lisp.TypeBuiltinSymbol:
		return h.BuiltinFunc(e)(lisp.Nil, env)
	case lisp.TypeCons:
		return r.Apply(h.Car(e), h.Cdr(e), env)
	}
	h.Fail(lisp.TypeMismatch, "cannot evaluate %s", r.Repr(e))
	return lisp.Nil
}

// EvalList evaluates each element of exprs from left to right and returns a
// fresh list of the results.
func (r *Runtime) EvalList(exprs, env lisp.Expr) lisp.Expr {
	h := r.Heap
	lb := h.NewListBuilder()
	for it := h.NewListIterator(exprs); it.Next(); {
		lb.Append(r.Eval(it.Value(), env))
	}
	return lb.List()
}

// EvalBody evaluates each element of exprs in order and returns the last
// result, or Nil for an empty body.
func (r *Runtime) EvalBody(exprs, env lisp.Expr) lisp.Expr {
	h := r.Heap
	ret := lisp.Nil
	for it := h.NewListIterator(exprs); it.Next(); {
		ret = r.Eval(it.Value(), env)
	}
	return ret
}

// Apply calls fun with args in env.  fun is inspected before evaluation: a
// builtin function receives its arguments evaluated, a builtin special
// receives them unevaluated, and closures bind their parameters in a fresh
// frame over their captured environment.  Any other fun is evaluated and
// applied again.
func (r *Runtime) Apply(fun, args, env lisp.Expr) lisp.Expr {
	h := r.Heap
	for {
		switch fun.Type() {
		case lisp.TypeBuiltinFunction:
			return h.BuiltinFunc(fun)(r.EvalList(args, env), env)
		case lisp.TypeBuiltinSpecial:
			return h.BuiltinFunc(fun)(args, env)
		case lisp.TypeFunction:
			c := h.Closure(fun)
			callEnv := r.Environ.Extend(c.Env, c.Params, r.EvalList(args, env))
			return r.EvalBody(c.Body, callEnv)
		case lisp.TypeMacro:
			c := h.Closure(fun)
			callEnv := r.Environ.Extend(c.Env, c.Params, args)
			return r.Eval(r.EvalBody(c.Body, callEnv), env)
		}
		next := r.Eval(fun, env)
		if next == fun {
			h.Fail(lisp.TypeMismatch, "cannot apply %s", r.Repr(fun))
		}
		fun = next
	}
}

// MacroExpand returns the expansion of the macro call form without
// evaluating it.  Forms that are not macro calls are returned unchanged.
func (r *Runtime) MacroExpand(form, env lisp.Expr) lisp.Expr {
	h := r.Heap
	if !form.Is(lisp.TypeCons) {
		return form
	}
	head := h.Car(form)
	if head.Is(lisp.TypeSymbol) && r.Environ.CanSet(env, head) {
		head = r.Environ.Get(env, head)
	}
	if !head.Is(lisp.TypeMacro) {
		return form
	}
	c := h.Closure(head)
	return r.EvalBody(c.Body, r.Environ.Extend(c.Env, c.Params, h.Cdr(form)))
}

func (r *Runtime) isUnquote(e lisp.Expr) bool {
	return r.Heap.IsNamedCall(e, r.sym.unquote)
}

func (r *Runtime) isUnquoteSplicing(e lisp.Expr) bool {
	return r.Heap.IsNamedCall(e, r.sym.unquoteSplicing)
}

// Backquote expands the template e.  (unquote X) evaluates X in env and
// lists are expanded element-wise by BackquoteList.  Unquotes fire at any
// depth of nested backquotes.
func (r *Runtime) Backquote(e, env lisp.Expr) lisp.Expr {
	if !e.Is(lisp.TypeCons) {
		return e
	}
	if r.isUnquote(e) {
		return r.Eval(r.Heap.Cadr(e), env)
	}
	return r.BackquoteList(e, env)
}

// BackquoteList expands each element of the template list seq.  The values
// of (unquote-splicing X) elements are spliced into the result.  A dotted
// tail, including one written as (a . ,b), is expanded as a template.
func (r *Runtime) BackquoteList(seq, env lisp.Expr) lisp.Expr {
	h := r.Heap
	lb := h.NewListBuilder()
	for ; !seq.IsNil(); seq = h.Cdr(seq) {
		if !seq.Is(lisp.TypeCons) || r.isUnquote(seq) {
			return lb.ListTail(r.Backquote(seq, env))
		}
		item := h.Car(seq)
		if r.isUnquoteSplicing(item) {
			lb.Append(h.Slice(r.Eval(h.Cadr(item), env))...)
			continue
		}
		lb.Append(r.Backquote(item, env))
	}
	return lb.List()
}
