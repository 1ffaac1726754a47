package runtime

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/taglisp/pkg/lisp"
)

func testRuntime(t *testing.T, options ...Option) (*Runtime, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	base := []Option{
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithColor(false),
		WithRand(rand.New(rand.NewSource(1))),
		WithExit(func(code int) { t.Fatalf("unexpected exit %d: %s", code, stderr.String()) }),
	}
	r, err := New(append(base, options...)...)
	require.NoError(t, err)
	return r, &stdout, &stderr
}

// run evaluates src in env and returns the printed value of the last
// expression.
func run(t *testing.T, r *Runtime, env lisp.Expr, src string) string {
	t.Helper()
	var v lisp.Expr
	err := r.Try(func() { v = r.LoadString(src, env) })
	require.NoError(t, err, "source %q", src)
	return r.Repr(v)
}

func runErr(r *Runtime, env lisp.Expr, src string) error {
	return r.Try(func() { r.LoadString(src, env) })
}

func TestScenarios(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()

	v := r.Eval(r.ReadOneFromString("(if t (quote foo) (quote bar))"), env)
	assert.Equal(t, r.Heap.Intern("foo"), v)
	v = r.Eval(r.ReadOneFromString("(if nil (quote foo) (quote bar))"), env)
	assert.Equal(t, r.Heap.Intern("bar"), v)
	v = r.Eval(r.ReadOneFromString("(cons 'foo 'bar)"), env)
	assert.Equal(t, "(foo . bar)", r.Repr(v))
	v = r.Eval(r.ReadOneFromString("`(,@'(foo bar))"), env)
	assert.Equal(t, "(foo bar)", r.Repr(v))

	scheme := r.MakeSchemeEnv()
	assert.Equal(t, "5", run(t, r, scheme, "(define (id x) x) (id 5)"))

	assert.Equal(t, "foo", run(t, r, env, "(def m (syntax (x) (list 'quote x))) (m foo)"))
	assert.Equal(t, "(a b)", run(t, r, env, "(m (a b))"))
}

func TestSpecials(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	assert.Equal(t, "nil", run(t, r, env, "(if nil 'yes)"))
	assert.Equal(t, "yes", run(t, r, env, "(if 'x 'yes)"))
	assert.Equal(t, "t", run(t, r, env, "t"))
	assert.Equal(t, "nil", run(t, r, env, "(def x 1)"))
	assert.Equal(t, "1", run(t, r, env, "x"))
	assert.Equal(t, "'a", run(t, r, env, "''a"))
	assert.Equal(t, ":key", run(t, r, env, ":key"))
	assert.Equal(t, `"str"`, run(t, r, env, `"str"`))

	assert.Equal(t, "(3 2 1)", run(t, r, env, `
		(def xs '(1 2 3))
		(def acc nil)
		(while xs
			(def acc (cons (car xs) acc))
			(def xs (cdr xs)))
		acc`))

	assert.ErrorIs(t, runErr(r, env, "(if t)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(if t 1 2 3)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(def x)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(quote a b)"), lisp.ErrArityMismatch)
}

func TestClosures(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	run(t, r, env, `
		(def make-k (lambda (x) (lambda () x)))
		(def k1 (make-k 1))
		(def k2 (make-k 2))`)
	assert.Equal(t, "1", run(t, r, env, "(k1)"))
	assert.Equal(t, "2", run(t, r, env, "(k2)"))
	assert.Equal(t, "#:<function (x)>", run(t, r, env, "(lambda (x) x)"))
	assert.Equal(t, "#:<function ()>", run(t, r, env, "k1"))
	assert.Equal(t, "(1 2 3 (4 5))", run(t, r, env, "((lambda (a (b c) . d) (list a b c d)) 1 '(2 3) 4 5)"))
	assert.Equal(t, "(1 2)", run(t, r, env, "((fn args args) 1 2)"))
	assert.Equal(t, "nil", run(t, r, env, "((lambda ()))"))

	// the body sees later definitions in the captured environment
	assert.Equal(t, "done", run(t, r, env, `
		(def f (lambda () (g)))
		(def g (lambda () 'done))
		(f)`))

	assert.ErrorIs(t, runErr(r, env, "((lambda (x) x))"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "((lambda (x) x) 1 2)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "((lambda (1) 1) 1)"), lisp.ErrTypeMismatch)
}

func TestMacros(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	run(t, r, env, "(def my-if (syntax (c a b) `(if ,c ,a ,b)))")
	assert.Equal(t, "2", run(t, r, env, "(my-if nil 1 2)"))
	assert.Equal(t, "1", run(t, r, env, "(my-if t 1 (car nil))"))
	assert.Equal(t, "#:<macro (c a b)>", run(t, r, env, "my-if"))
	assert.Equal(t, "(if x 'a 'b)", run(t, r, env, "(macroexpand '(my-if x 'a 'b))"))
	assert.Equal(t, "(car x)", run(t, r, env, "(macroexpand '(car x))"))

	// expansions are evaluated in the caller's environment
	assert.Equal(t, "inner", run(t, r, env, `
		(def get-v (syntax () 'v))
		(def v 'outer)
		((lambda (v) (get-v)) 'inner)`))
}

func TestBackquote(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	run(t, r, env, "(def b 'bee) (def xs '(1 2))")
	assert.Equal(t, "x", run(t, r, env, "`x"))
	assert.Equal(t, "(a bee 1 2 c)", run(t, r, env, "`(a ,b ,@xs c)"))
	assert.Equal(t, "(a . bee)", run(t, r, env, "`(a . ,b)"))
	assert.Equal(t, "((bee) (1 2))", run(t, r, env, "`((,b) ,xs)"))
	assert.Equal(t, "(1 2 1 2)", run(t, r, env, "`(,@xs ,@xs)"))
	assert.Equal(t, "(a)", run(t, r, env, "`(a ,@nil)"))
	// unquotes fire regardless of nesting
	assert.Equal(t, "(backquote bee)", run(t, r, env, "``,b"))

	// splicing copies the spliced list
	run(t, r, env, "(def ys `(,@xs)) (rplaca ys 'z)")
	assert.Equal(t, "(1 2)", run(t, r, env, "xs"))
}

func TestEquality(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	tests := []struct {
		src    string
		expect string
	}{
		{"(eq 'a 'a)", "t"},
		{"(eq 'a 'a 'a)", "t"},
		{"(eq 'a 'a 'b)", "nil"},
		{"(eq 'b 'a 'a)", "nil"},
		{"(eq 1 1)", "t"},
		{`(eq "abc" "abc")`, "nil"},
		{`(equal "abc" "abc")`, "t"},
		{"(equal '(1 (2)) '(1 (2)) '(1 (2)))", "t"},
		{"(equal '(1 (2)) '(1 (3)))", "nil"},
		{"(eq (gensym) (gensym))", "nil"},
		{"(< 1 2)", "t"},
		{"(< 1 2 3)", "t"},
		{"(< 1 3 2)", "nil"},
		{"(< 2 2)", "nil"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expect, run(t, r, env, test.src), "source %q", test.src)
	}
	assert.ErrorIs(t, runErr(r, env, "(eq 'a)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(equal)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(< 1)"), lisp.ErrArityMismatch)
	assert.ErrorIs(t, runErr(r, env, "(< 1 'a)"), lisp.ErrTypeMismatch)
}

func TestLists(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	assert.Equal(t, "(1 2 3)", run(t, r, env, "(list 1 2 3)"))
	assert.Equal(t, "nil", run(t, r, env, "(list)"))
	assert.Equal(t, "a", run(t, r, env, "(car '(a b))"))
	assert.Equal(t, "(b)", run(t, r, env, "(cdr '(a b))"))
	assert.Equal(t, "(z . y)", run(t, r, env, "(def p (cons 'x 'y)) (rplaca p 'z) p"))
	assert.Equal(t, "(z)", run(t, r, env, "(rplacd p nil) p"))
	assert.Contains(t, run(t, r, env, "(rplacd p p) p"), "...")
	assert.ErrorIs(t, runErr(r, env, "(car 'a)"), lisp.ErrTypeMismatch)
	assert.ErrorIs(t, runErr(r, env, "(car nil)"), lisp.ErrTypeMismatch)
	assert.ErrorIs(t, runErr(r, env, "(cons 1)"), lisp.ErrArityMismatch)
}

func TestPrinting(t *testing.T) {
	r, stdout, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	run(t, r, env, `(println 'a "b" \c)`)
	assert.Equal(t, "a \"b\" \\c\n", stdout.String())

	stdout.Reset()
	run(t, r, env, `(displayln 'a "b" \c)`)
	assert.Equal(t, "a b c\n", stdout.String())

	stdout.Reset()
	run(t, r, env, `(print 1) (display "x") (print) (println)`)
	assert.Equal(t, "1x\n", stdout.String())
}

func TestConversions(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	tests := []struct {
		src    string
		expect string
	}{
		{`(intern "foo")`, "foo"},
		{`(intern "nil")`, "nil"},
		{`(intern ":foo")`, ":foo"},
		{`(eq (intern "foo") 'foo)`, "t"},
		{`(ord "a")`, "97"},
		{`(ord "λx")`, "955"},
		{`(chr 97)`, `"a"`},
		{`(chr 955)`, `"λ"`},
		{"(type 1)", "fixnum"},
		{`(type "s")`, "string"},
		{`(type \c)`, "char"},
		{"(type 'a)", "symbol"},
		{"(type :a)", "keyword"},
		{"(type '(a))", "cons"},
		{"(type (gensym))", "gensym"},
		{"(type car)", "builtin-function"},
		{"(type if)", "builtin-special"},
		{"(type (lambda (x) x))", "function"},
		{"(type (syntax (x) x))", "macro"},
		{"(type nil)", "nil"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expect, run(t, r, env, test.src), "source %q", test.src)
	}
	assert.ErrorIs(t, runErr(r, env, `(ord "")`), lisp.ErrEncoding)
	assert.ErrorIs(t, runErr(r, env, "(chr 55296)"), lisp.ErrEncoding)
	assert.ErrorIs(t, runErr(r, env, "(chr -1)"), lisp.ErrEncoding)
	assert.ErrorIs(t, runErr(r, env, "(intern 'a)"), lisp.ErrTypeMismatch)
}

func TestGensym(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	assert.Equal(t, "#:G0", run(t, r, env, "(gensym)"))
	assert.Equal(t, "#:G1", run(t, r, env, "(gensym)"))
	assert.Equal(t, "5", run(t, r, env, "(def g (gensym)) ((lambda (x) x) 5)"))
	assert.ErrorIs(t, runErr(r, env, "(gensym 1)"), lisp.ErrArityMismatch)
}

func TestEnvironments(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	assert.Equal(t, env, r.Eval(r.Heap.Intern("*env*"), env))
	assert.True(t, r.Eval(r.Heap.Intern("*env*"), env).Is(lisp.TypeCons))
	assert.Equal(t, "t", run(t, r, env, "(eq *env* *env*)"))
	assert.Equal(t, "nil", run(t, r, env, "(eq *env* ((lambda () *env*)))"))
	assert.Equal(t, "5", run(t, r, env, "(def inner ((lambda (x) *env*) 5)) (with inner x)"))
	assert.Equal(t, "nil", run(t, r, env, "(with inner (def y 'local)) nil"))
	assert.ErrorIs(t, runErr(r, env, "y"), lisp.ErrUnboundVariable)
	assert.Equal(t, "local", run(t, r, env, "(with inner y)"))
	assert.ErrorIs(t, runErr(r, env, "(with 1 2)"), lisp.ErrTypeMismatch)
}

func TestCoin(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		seen[run(t, r, env, "(coin)")] = true
	}
	assert.Equal(t, map[string]bool{"t": true, "nil": true}, seen)
	assert.ErrorIs(t, runErr(r, env, "(coin 1)"), lisp.ErrArityMismatch)
}

func TestLoadFile(t *testing.T) {
	r, stdout, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	path := filepath.Join(t.TempDir(), "test.lisp")
	src := "; a test file\n(def x 42)\n(def y 'loaded)\n(println y)\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))

	assert.Equal(t, "nil", run(t, r, env, `(load-file "`+path+`")`))
	assert.Equal(t, "42", run(t, r, env, "x"))
	assert.Equal(t, "loaded\n", stdout.String())

	err := runErr(r, env, `(load-file "`+filepath.Join(t.TempDir(), "missing.lisp")+`")`)
	assert.ErrorIs(t, err, lisp.ErrResource)
}

func TestSchemeEnv(t *testing.T) {
	r, stdout, _ := testRuntime(t)
	env := r.MakeSchemeEnv()
	assert.Equal(t, "3", run(t, r, env, "(define y 3) y"))
	assert.Equal(t, "#:<function id (x)>", run(t, r, env, "(define (id x) x) id"))
	assert.Equal(t, "(1 2)", run(t, r, env, "(define (rest . xs) xs) (rest 1 2)"))
	assert.Equal(t, "2", run(t, r, env, "((lambda (a b) b) 1 2)"))
	run(t, r, env, `(displayln "hi")`)
	assert.Equal(t, "hi\n", stdout.String())

	// the scheme front end has no core builtins
	assert.ErrorIs(t, runErr(r, env, "(cons 1 2)"), lisp.ErrUnboundVariable)
	assert.ErrorIs(t, runErr(r, env, "(define 1 2)"), lisp.ErrTypeMismatch)
}

func TestBelEnv(t *testing.T) {
	r, stdout, _ := testRuntime(t)
	env := r.MakeBelEnv()
	assert.Equal(t, "b", run(t, r, env, "((fn (x) x) 'b)"))
	assert.Equal(t, "nil", run(t, r, env, "(while nil)"))
	run(t, r, env, "(prn 'a \"b\")")
	assert.Equal(t, "a \"b\"\n", stdout.String())
	assert.Contains(t, []string{"t", "nil"}, run(t, r, env, "(coin)"))
	assert.ErrorIs(t, runErr(r, env, "(lambda (x) x)"), lisp.ErrUnboundVariable)
}

func TestEvalErrors(t *testing.T) {
	r, _, stderr := testRuntime(t)
	env := r.MakeCoreEnv()

	err := runErr(r, env, "foo")
	assert.ErrorIs(t, err, lisp.ErrUnboundVariable)
	assert.Equal(t, "[FAIL] unbound variable foo\n", stderr.String())

	assert.ErrorIs(t, runErr(r, env, "(1 2)"), lisp.ErrTypeMismatch)
	assert.ErrorIs(t, runErr(r, env, "(t)"), lisp.ErrTypeMismatch)
	assert.ErrorIs(t, runErr(r, env, "(nope 1)"), lisp.ErrUnboundVariable)

	err = r.Try(func() { r.Eval(r.StdoutStream, env) })
	assert.ErrorIs(t, err, lisp.ErrTypeMismatch)
	err = r.Try(func() { r.Eval(r.Heap.MakeBuiltin(lisp.TypeBuiltinFunction, "x", nil), env) })
	assert.ErrorIs(t, err, lisp.ErrTypeMismatch)

	// parse failures inside LoadString are reported the same way
	assert.ErrorIs(t, runErr(r, env, "(a b"), lisp.ErrParse)

	// the environment survives a failed form
	assert.Equal(t, "t", run(t, r, env, "t"))
}

func TestExitHandler(t *testing.T) {
	var stderr bytes.Buffer
	code := -1
	r, err := New(WithStderr(&stderr), WithColor(false), WithExit(func(c int) { code = c }))
	require.NoError(t, err)
	env := r.MakeCoreEnv()
	assert.Panics(t, func() { r.Eval(r.Heap.Intern("foo"), env) })
	assert.Equal(t, 1, code)
	assert.Equal(t, "[FAIL] unbound variable foo\n", stderr.String())
}

func TestTryNesting(t *testing.T) {
	r, _, _ := testRuntime(t)
	env := r.MakeCoreEnv()
	base := r.Heap.Handler()
	var inner error
	outer := r.Try(func() {
		inner = r.Try(func() { r.LoadString("foo", env) })
		r.LoadString("bar", env)
	})
	assert.ErrorIs(t, inner, lisp.ErrUnboundVariable)
	assert.EqualError(t, outer, "unbound variable bar")
	assert.Equal(t, base, r.Heap.Handler())
}

func TestOptions(t *testing.T) {
	_, err := New(WithStderr(nil))
	assert.Error(t, err)
	_, err = New(WithStdout(nil))
	assert.Error(t, err)
	_, err = New(WithStdin(nil))
	assert.Error(t, err)
	_, err = New(WithExit(nil))
	assert.Error(t, err)
	_, err = New(WithRand(nil))
	assert.Error(t, err)

	r, _, _ := testRuntime(t, WithQuoteSugar(false))
	env := r.MakeCoreEnv()
	assert.Equal(t, "(quote a)", run(t, r, env, "''a"))
}

func TestStdin(t *testing.T) {
	r, _, _ := testRuntime(t, WithStdin(bytes.NewBufferString("(def a (cons 1 2))\n a\n")))
	env := r.MakeCoreEnv()
	var v lisp.Expr
	require.NoError(t, r.Try(func() { v = r.Load(r.StdinStream, env) }))
	assert.Equal(t, "(1 . 2)", r.Repr(v))
}
