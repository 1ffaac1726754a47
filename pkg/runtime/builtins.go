package runtime

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/stream"
)

// DefSpecial binds name in env to a builtin receiving unevaluated arguments.
func (r *Runtime) DefSpecial(env lisp.Expr, name string, fn lisp.BuiltinFunc) {
	r.def(env, lisp.TypeBuiltinSpecial, name, fn)
}

// DefFunction binds name in env to a builtin receiving evaluated arguments.
func (r *Runtime) DefFunction(env lisp.Expr, name string, fn lisp.BuiltinFunc) {
	r.def(env, lisp.TypeBuiltinFunction, name, fn)
}

// DefSymbol binds name in env to a symbol macro.  Evaluating name calls fn
// with Nil arguments and the environment of the reference.
func (r *Runtime) DefSymbol(env lisp.Expr, name string, fn lisp.BuiltinFunc) {
	r.def(env, lisp.TypeBuiltinSymbol, name, fn)
}

func (r *Runtime) def(env lisp.Expr, t lisp.Type, name string, fn lisp.BuiltinFunc) {
	r.Environ.Def(env, r.Heap.Intern(name), r.Heap.MakeBuiltin(t, name, fn))
}

// args checks that the list args has exactly n elements and returns them.
func (r *Runtime) args(name string, args lisp.Expr, n int) []lisp.Expr {
	v := r.Heap.Slice(args)
	if len(v) != n {
		r.Heap.Fail(lisp.ArityMismatch, "%s expects %d argument(s), got %d", name, n, len(v))
	}
	return v
}

// argsMin checks that the list args has at least n elements and returns them.
func (r *Runtime) argsMin(name string, args lisp.Expr, n int) []lisp.Expr {
	v := r.Heap.Slice(args)
	if len(v) < n {
		r.Heap.Fail(lisp.ArityMismatch, "%s expects at least %d argument(s), got %d", name, n, len(v))
	}
	return v
}

// chain returns true if test holds for every adjacent pair of args.
func (r *Runtime) chain(name string, args lisp.Expr, test func(a, b lisp.Expr) bool) lisp.Expr {
	v := r.argsMin(name, args, 2)
	for i := 1; i < len(v); i++ {
		if !test(v[i-1], v[i]) {
			return lisp.Nil
		}
	}
	return r.sym.t
}

// MakeCoreEnv returns a fresh root environment holding the core language.
func (r *Runtime) MakeCoreEnv() lisp.Expr {
	h := r.Heap
	env := r.Environ.Make(lisp.Nil)

	r.Environ.Def(env, r.sym.t, r.sym.t)

	r.DefSymbol(env, "*env*", func(args, env lisp.Expr) lisp.Expr {
		return env
	})

	r.defQuote(env)
	r.DefSpecial(env, "if", func(args, env lisp.Expr) lisp.Expr {
		v := r.Heap.Slice(args)
		if len(v) != 2 && len(v) != 3 {
			h.Fail(lisp.ArityMismatch, "if expects 2 or 3 argument(s), got %d", len(v))
		}
		if !r.Eval(v[0], env).IsNil() {
			return r.Eval(v[1], env)
		}
		if len(v) == 3 {
			return r.Eval(v[2], env)
		}
		return lisp.Nil
	})
	r.defWhile(env)
	r.DefSpecial(env, "def", func(args, env lisp.Expr) lisp.Expr {
		v := r.args("def", args, 2)
		r.Environ.Def(env, v[0], r.Eval(v[1], env))
		return lisp.Nil
	})
	r.defLambda(env, "lambda")
	r.defLambda(env, "fn")
	r.DefSpecial(env, "syntax", func(args, env lisp.Expr) lisp.Expr {
		r.argsMin("syntax", args, 1)
		return h.MakeMacro(env, lisp.Nil, h.Car(args), h.Cdr(args))
	})
	r.DefSpecial(env, "backquote", func(args, env lisp.Expr) lisp.Expr {
		v := r.args("backquote", args, 1)
		return r.Backquote(v[0], env)
	})
	r.DefSpecial(env, "with", func(args, env lisp.Expr) lisp.Expr {
		r.argsMin("with", args, 1)
		wenv := r.Eval(h.Car(args), env)
		if !wenv.Is(lisp.TypeCons) {
			h.Fail(lisp.TypeMismatch, "with expects an environment, got %s", r.Repr(wenv))
		}
		return r.EvalBody(h.Cdr(args), wenv)
	})

	r.DefFunction(env, "eq", func(args, env lisp.Expr) lisp.Expr {
		return r.chain("eq", args, func(a, b lisp.Expr) bool { return a == b })
	})
	r.DefFunction(env, "equal", func(args, env lisp.Expr) lisp.Expr {
		return r.chain("equal", args, h.Equal)
	})
	r.DefFunction(env, "<", func(args, env lisp.Expr) lisp.Expr {
		return r.chain("<", args, h.FixnumLess)
	})
	r.DefFunction(env, "cons", func(args, env lisp.Expr) lisp.Expr {
		v := r.args("cons", args, 2)
		return h.Cons(v[0], v[1])
	})
	r.DefFunction(env, "car", func(args, env lisp.Expr) lisp.Expr {
		return h.Car(r.args("car", args, 1)[0])
	})
	r.DefFunction(env, "cdr", func(args, env lisp.Expr) lisp.Expr {
		return h.Cdr(r.args("cdr", args, 1)[0])
	})
	r.DefFunction(env, "rplaca", func(args, env lisp.Expr) lisp.Expr {
		v := r.args("rplaca", args, 2)
		h.Rplaca(v[0], v[1])
		return lisp.Nil
	})
	r.DefFunction(env, "rplacd", func(args, env lisp.Expr) lisp.Expr {
		v := r.args("rplacd", args, 2)
		h.Rplacd(v[0], v[1])
		return lisp.Nil
	})
	r.DefFunction(env, "list", func(args, env lisp.Expr) lisp.Expr {
		return args
	})

	r.DefFunction(env, "print", func(args, env lisp.Expr) lisp.Expr {
		r.Print(r.StdoutStream, args)
		return lisp.Nil
	})
	r.defPrintln(env, "println")
	r.DefFunction(env, "display", func(args, env lisp.Expr) lisp.Expr {
		r.Display(r.StdoutStream, args)
		return lisp.Nil
	})
	r.defDisplayln(env)

	r.DefFunction(env, "intern", func(args, env lisp.Expr) lisp.Expr {
		return h.Intern(h.StringValue(r.args("intern", args, 1)[0]))
	})
	r.DefFunction(env, "gensym", func(args, env lisp.Expr) lisp.Expr {
		r.args("gensym", args, 0)
		return h.Gensym()
	})
	r.DefFunction(env, "load-file", func(args, env lisp.Expr) lisp.Expr {
		r.LoadFile(h.StringValue(r.args("load-file", args, 1)[0]), env)
		return lisp.Nil
	})
	r.DefFunction(env, "macroexpand", func(args, env lisp.Expr) lisp.Expr {
		return r.MacroExpand(r.args("macroexpand", args, 1)[0], env)
	})
	r.DefFunction(env, "ord", func(args, env lisp.Expr) lisp.Expr {
		s := h.StringValue(r.args("ord", args, 1)[0])
		c, _, err := stream.DecodeOne([]byte(s))
		if err != nil {
			h.StreamError(err)
		}
		return h.MakeFixnum(int64(c))
	})
	r.DefFunction(env, "chr", func(args, env lisp.Expr) lisp.Expr {
		c := h.FixnumValue(r.args("chr", args, 1)[0])
		if c < 0 || c > lisp.MaxChar {
			h.Fail(lisp.EncodingError, "illegal code point %d", c)
		}
		b, err := stream.Encode(rune(c))
		if err != nil {
			h.StreamError(err)
		}
		return h.MakeString(string(b))
	})
	r.DefFunction(env, "type", func(args, env lisp.Expr) lisp.Expr {
		e := r.args("type", args, 1)[0]
		return h.Intern(h.TypeName(e.Type()))
	})
	r.defCoin(env)

	return env
}

func (r *Runtime) defQuote(env lisp.Expr) {
	r.DefSpecial(env, "quote", func(args, env lisp.Expr) lisp.Expr {
		return r.args("quote", args, 1)[0]
	})
}

func (r *Runtime) defWhile(env lisp.Expr) {
	r.DefSpecial(env, "while", func(args, env lisp.Expr) lisp.Expr {
		r.argsMin("while", args, 1)
		test, body := r.Heap.Car(args), r.Heap.Cdr(args)
		for !r.Eval(test, env).IsNil() {
			r.EvalBody(body, env)
		}
		return lisp.Nil
	})
}

func (r *Runtime) defLambda(env lisp.Expr, name string) {
	r.DefSpecial(env, name, func(args, env lisp.Expr) lisp.Expr {
		r.argsMin(name, args, 1)
		return r.Heap.MakeFunction(env, lisp.Nil, r.Heap.Car(args), r.Heap.Cdr(args))
	})
}

func (r *Runtime) defPrintln(env lisp.Expr, name string) {
	r.DefFunction(env, name, func(args, env lisp.Expr) lisp.Expr {
		r.Println(r.StdoutStream, args)
		return lisp.Nil
	})
}

func (r *Runtime) defDisplayln(env lisp.Expr) {
	r.DefFunction(env, "displayln", func(args, env lisp.Expr) lisp.Expr {
		r.Displayln(r.StdoutStream, args)
		return lisp.Nil
	})
}

func (r *Runtime) defCoin(env lisp.Expr) {
	r.DefFunction(env, "coin", func(args, env lisp.Expr) lisp.Expr {
		r.args("coin", args, 0)
		return r.Truth(r.rand.Intn(2) == 1)
	})
}
