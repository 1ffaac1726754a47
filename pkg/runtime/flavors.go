package runtime

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
)

// MakeSchemeEnv returns a root environment for the Scheme front end.  define
// binds a value or, given (define (name . params) . body), a named function.
func (r *Runtime) MakeSchemeEnv() lisp.Expr {
	h := r.Heap
	env := r.Environ.Make(lisp.Nil)
	r.DefSpecial(env, "define", func(args, env lisp.Expr) lisp.Expr {
		r.argsMin("define", args, 1)
		head, tail := h.Car(args), h.Cdr(args)
		switch head.Type() {
		case lisp.TypeSymbol, lisp.TypeGensym:
			v := r.args("define", args, 2)
			r.Environ.Def(env, head, r.Eval(v[1], env))
		case lisp.TypeCons:
			name, params := h.Car(head), h.Cdr(head)
			r.Environ.Def(env, name, h.MakeFunction(env, name, params, tail))
		default:
			h.Fail(lisp.TypeMismatch, "cannot define %s", r.Repr(head))
		}
		return lisp.Nil
	})
	r.defLambda(env, "lambda")
	r.defDisplayln(env)
	return env
}

// MakeBelEnv returns a root environment for the Bel front end.
func (r *Runtime) MakeBelEnv() lisp.Expr {
	env := r.Environ.Make(lisp.Nil)
	r.Environ.Def(env, r.sym.t, r.sym.t)
	r.defQuote(env)
	r.defWhile(env)
	r.defLambda(env, "fn")
	r.defCoin(env)
	r.defPrintln(env, "prn")
	return env
}
