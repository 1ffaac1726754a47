package selftest

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/parser"
	"github.com/luthersystems/taglisp/pkg/stream"
)

var groups = []struct {
	name string
	fn   func(*suite)
}{
	{"expr", (*suite).testExpr},
	{"nil", (*suite).testNil},
	{"symbol", (*suite).testSymbol},
	{"cons", (*suite).testCons},
	{"stream", (*suite).testStream},
	{"reader", (*suite).testReader},
	{"printer", (*suite).testPrinter},
	{"util", (*suite).testUtil},
	{"env", (*suite).testEnv},
	{"eval", (*suite).testEval},
}

func (s *suite) testExpr() {
	e := lisp.Make(23, 42)
	s.check("type of (make 23 42) is 23", func() bool { return e.Type() == 23 })
	s.check("data of (make 23 42) is 42", func() bool { return e.Data() == 42 })
	s.check("fixnum 0 round trips", func() bool { return s.h.FixnumValue(s.h.MakeFixnum(0)) == 0 })
	s.check("fixnum -1 round trips", func() bool { return s.h.FixnumValue(s.h.MakeFixnum(-1)) == -1 })
	s.check("fixnum min round trips", func() bool {
		return s.h.FixnumValue(s.h.MakeFixnum(lisp.FixnumMin)) == lisp.FixnumMin
	})
}

func (s *suite) testNil() {
	s.check("type of nil is nil", func() bool { return lisp.Nil.Type() == lisp.TypeNil })
	s.check("data of nil is 0", func() bool { return lisp.Nil.Data() == 0 })
	s.check("nil is zero", func() bool { return uint64(lisp.Nil) == 0 })
	s.check("nil is nil", func() bool { return lisp.Nil.IsNil() })
}

func (s *suite) testSymbol() {
	h := s.h
	s.check(`name of (intern "foo") is "foo"`, func() bool { return h.SymbolName(h.Intern("foo")) == "foo" })
	s.check(`name of (intern "bar") is "bar"`, func() bool { return h.SymbolName(h.Intern("bar")) == "bar" })
	s.check("foo is foo", func() bool { return h.Intern("foo") == h.Intern("foo") })
	s.check("foo is not bar", func() bool { return h.Intern("foo") != h.Intern("bar") })
	s.check(":foo is a keyword", func() bool { return h.Intern(":foo").Is(lisp.TypeKeyword) })
}

func (s *suite) testCons() {
	h := s.h
	s.check("(cons nil nil) is a cons", func() bool { return h.Cons(lisp.Nil, lisp.Nil).Is(lisp.TypeCons) })
	s.check("car of (cons nil nil) is nil", func() bool { return h.Car(h.Cons(lisp.Nil, lisp.Nil)).IsNil() })
	s.check("cdr of (cons nil nil) is nil", func() bool { return h.Cdr(h.Cons(lisp.Nil, lisp.Nil)).IsNil() })
}

func (s *suite) testStream() {
	s.check("stdin is a stream", func() bool { return s.rt.StdinStream.Is(lisp.TypeStream) })
	s.check("stdout is a stream", func() bool { return s.rt.StdoutStream.Is(lisp.TypeStream) })
	s.check("stderr is a stream", func() bool { return s.rt.StderrStream.Is(lisp.TypeStream) })
	s.check("string stream reads utf-8", func() bool {
		in := s.h.MakeStream(stream.NewStringInput("λx"))
		defer s.h.ReleaseStream(in)
		return s.h.StreamReadChar(in) == 'λ' && s.h.StreamReadChar(in) == 'x' && s.h.StreamAtEnd(in)
	})
	s.check("output stream collects printed text", func() bool {
		buf := stream.NewGrowableOutput()
		out := s.h.MakeStream(buf)
		defer s.h.ReleaseStream(out)
		s.rt.Println(out, s.h.List(s.h.Intern("foo"), s.h.MakeString("bar")))
		return buf.String() == "foo \"bar\"\n"
	})
}

func (s *suite) testReader() {
	h := s.h
	foo := h.Intern("foo")
	read := func(src string) lisp.Expr { return parser.ReadOneFromString(h, src) }
	s.check(`(read "nil") is nil`, func() bool { return read("nil") == lisp.Nil })
	s.check(`(read "foo") is foo`, func() bool { return read("foo") == foo })
	s.check(`(read "()") is nil`, func() bool { return read("()") == lisp.Nil })
	s.check(`(read "(foo bar baz)") is (foo bar baz)`, func() bool {
		return h.Equal(read("(foo bar baz)"), h.List(foo, h.Intern("bar"), h.Intern("baz")))
	})
	s.check(`(read "'foo") is (quote foo)`, func() bool {
		return h.Equal(read("'foo"), h.List(h.Intern("quote"), foo))
	})
	s.check("(read \"`foo\") is (backquote foo)", func() bool {
		return h.Equal(read("`foo"), h.List(h.Intern("backquote"), foo))
	})
	s.check(`(read ",foo") is (unquote foo)`, func() bool {
		return h.Equal(read(",foo"), h.List(h.Intern("unquote"), foo))
	})
	s.check(`(read ",@foo") is (unquote-splicing foo)`, func() bool {
		return h.Equal(read(",@foo"), h.List(h.Intern("unquote-splicing"), foo))
	})
}

func (s *suite) testPrinter() {
	h := s.h
	s.check(`(repr nil) is "nil"`, func() bool { return s.rt.Repr(lisp.Nil) == "nil" })
	s.check("repr terminates on a cyclic car", func() bool {
		e := h.Cons(lisp.Nil, lisp.Nil)
		h.Rplaca(e, e)
		return s.rt.Repr(e) != ""
	})
	s.check("repr terminates on a cyclic cdr", func() bool {
		e := h.Cons(lisp.Nil, lisp.Nil)
		h.Rplacd(e, e)
		return s.rt.Repr(e) != ""
	})
}

func (s *suite) testUtil() {
	h := s.h
	foo, bar := h.Intern("foo"), h.Intern("bar")
	s.check(`(intern "nil") is nil`, func() bool { return h.Intern("nil") == lisp.Nil })
	s.check(`(intern "nul") is a symbol`, func() bool { return h.Intern("nul").Is(lisp.TypeSymbol) })
	s.check("first of (foo) is foo", func() bool { return h.Car(h.List(foo)) == foo })
	s.check("first of (foo bar) is foo", func() bool { return h.Car(h.List(foo, bar)) == foo })
	s.check("second of (foo bar) is bar", func() bool { return h.Cadr(h.List(foo, bar)) == bar })
	s.check("nreverse of (foo bar) is (bar foo)", func() bool {
		return h.Equal(h.Nreverse(h.List(foo, bar)), h.List(bar, foo))
	})
}

func (s *suite) testEnv() {
	h := s.h
	envs := s.rt.Environ
	foo, bar := h.Intern("foo"), h.Intern("bar")

	env := envs.Make(lisp.Nil)
	s.check("foo is unbound", func() bool { return !envs.CanSet(env, foo) })
	s.check("bar is unbound", func() bool { return !envs.CanSet(env, bar) })
	envs.Def(env, foo, bar)
	s.check("foo is bound after def", func() bool { return envs.CanSet(env, foo) })
	s.check("bar is still unbound", func() bool { return !envs.CanSet(env, bar) })
	s.check("foo is bar", func() bool { return envs.Get(env, foo) == bar })
	envs.Def(env, bar, foo)
	s.check("bar is foo", func() bool { return envs.Get(env, bar) == foo })
	envs.Del(env, foo)
	s.check("foo is unbound after del", func() bool { return !envs.CanSet(env, foo) })
	s.check("bar is still foo", func() bool { return envs.Get(env, bar) == foo })

	outer := envs.Make(lisp.Nil)
	inner := envs.Make(outer)
	envs.Def(outer, foo, foo)
	s.check("inner sees outer bindings", func() bool { return envs.CanSet(inner, foo) })
	s.check("inner does not invent bindings", func() bool { return !envs.CanSet(inner, bar) })
}

func (s *suite) testEval() {
	rt := s.rt
	s.check("nil evaluates to nil", func() bool { return rt.Eval(lisp.Nil, lisp.Nil) == lisp.Nil })

	env := rt.MakeCoreEnv()
	t := s.h.Intern("t")
	s.check("t evaluates to t", func() bool { return rt.Eval(t, env) == t })
	s.check("*env* evaluates to the environment", func() bool { return rt.Eval(s.h.Intern("*env*"), env) == env })

	for _, c := range []struct{ src, expect string }{
		{"nil", "nil"},
		{"t", "t"},
		{"(quote foo)", "foo"},
		{"'foo", "foo"},
		{"(if t (quote foo) (quote bar))", "foo"},
		{"(if nil (quote foo) (quote bar))", "bar"},
		{"(eq nil nil)", "t"},
		{"(eq t nil)", "nil"},
		{"(eq t nil t)", "nil"},
		{"(eq nil nil nil)", "t"},
		{"(eq t t t)", "t"},
		{"(equal nil nil)", "t"},
		{"(equal t nil)", "nil"},
		{"(equal t nil t)", "nil"},
		{"(equal nil nil nil)", "t"},
		{"(equal t t t)", "t"},
		{"(println 'foo)", "nil"},
		{"(cons 'foo 'bar)", "(foo . bar)"},
		{"(car (cons 'foo 'bar))", "foo"},
		{"(cdr (cons 'foo 'bar))", "bar"},
		{"`foo", "foo"},
		{"`,'foo", "foo"},
		{"`(,@'(foo bar))", "(foo bar)"},
	} {
		s.checkEval(env, c.src, c.expect)
	}
}
