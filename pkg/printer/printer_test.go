package printer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luthersystems/taglisp/pkg/lisp"
)

func testHeap() *lisp.Heap {
	return lisp.NewHeap(&lisp.PanicHandler{Diagnostics: lisp.Diagnostics{W: io.Discard}})
}

func failure(fn func()) (err error) {
	defer func() { lisp.Recover(recover(), &err) }()
	fn()
	return nil
}

func TestAtoms(t *testing.T) {
	h := testHeap()
	tests := []struct {
		expr   lisp.Expr
		expect string
	}{
		{lisp.Nil, "nil"},
		{h.Intern("foo"), "foo"},
		{h.MakeKeyword("key"), ":key"},
		{h.MakeFixnum(0), "0"},
		{h.MakeFixnum(-17), "-17"},
		{h.MakeFixnum(lisp.FixnumMin), "-36028797018963968"},
		{h.MakeChar('a'), `\a`},
		{h.MakeChar('\a'), `\bel`},
		{h.MakeChar(' '), `\space`},
		{h.MakeChar('λ'), `\λ`},
		{h.MakeChar('é'), `\é`},
		{h.MakeChar('😀'), `\😀`},
		{h.MakeString("abc"), `"abc"`},
		{h.MakeString("say \"hi\"\n\t"), `"say \"hi\"\n\t"`},
		{h.MakeString("a\\b"), `"a\\b"`},
		{h.MakeString("\x1b[0m\x7f"), `"\x1b[0m\x7f"`},
		{h.MakeString("λ"), `"λ"`},
	}
	for _, test := range tests {
		assert.Equal(t, test.expect, Repr(h, test.expr))
	}
}

func TestGensym(t *testing.T) {
	h := testHeap()
	g0, g1 := h.Gensym(), h.Gensym()
	assert.Equal(t, "#:G0", Repr(h, g0))
	assert.Equal(t, "#:G1", Repr(h, g1))
}

func TestLists(t *testing.T) {
	h := testHeap()
	foo, bar, baz := h.Intern("foo"), h.Intern("bar"), h.Intern("baz")
	assert.Equal(t, "(foo bar baz)", Repr(h, h.List(foo, bar, baz)))
	assert.Equal(t, "(foo . bar)", Repr(h, h.Cons(foo, bar)))
	assert.Equal(t, "(foo bar . baz)", Repr(h, h.Cons(foo, h.Cons(bar, baz))))
	assert.Equal(t, "((foo) (bar baz))", Repr(h, h.List(h.List(foo), h.List(bar, baz))))
	assert.Equal(t, "(nil)", Repr(h, h.List(lisp.Nil)))

	// shared structure that is not cyclic prints in full
	shared := h.List(foo)
	assert.Equal(t, "((foo) (foo))", Repr(h, h.List(shared, shared)))
	tail := h.List(bar, baz)
	assert.Equal(t, "((foo bar baz) bar baz)", Repr(h, h.Cons(h.Cons(foo, tail), tail)))
}

func TestQuoteSugar(t *testing.T) {
	h := testHeap()
	quote, foo := h.Intern("quote"), h.Intern("foo")
	e := h.List(quote, foo)
	assert.Equal(t, "'foo", Repr(h, e))
	assert.Equal(t, "(quote foo)", New(h, WithQuoteSugar(false)).Repr(e))
	assert.Equal(t, "(quote)", Repr(h, h.List(quote)))
	assert.Equal(t, "(quote foo foo)", Repr(h, h.List(quote, foo, foo)))
	assert.Equal(t, "(quote . foo)", Repr(h, h.Cons(quote, foo)))
	assert.Equal(t, "''foo", Repr(h, h.List(quote, e)))
}

func TestCycles(t *testing.T) {
	h := testHeap()
	foo := h.Intern("foo")

	// (foo . <self>)
	e := h.Cons(foo, lisp.Nil)
	h.Rplacd(e, e)
	assert.Equal(t, "(foo ...)", Repr(h, e))

	// (<self>)
	e = h.Cons(lisp.Nil, lisp.Nil)
	h.Rplaca(e, e)
	assert.Equal(t, "(...)", Repr(h, e))

	// a longer ring
	e = h.List(foo, foo, foo)
	h.Rplacd(h.Cddr(e), e)
	assert.Equal(t, "(foo foo foo ...)", Repr(h, e))

	// a cycle below shared structure is still cut
	e = h.List(foo)
	h.Rplaca(e, e)
	assert.Equal(t, "((...) (...))", Repr(h, h.List(e, e)))
}

func TestBuiltins(t *testing.T) {
	h := testHeap()
	fn := func(args, env lisp.Expr) lisp.Expr { return lisp.Nil }
	assert.Equal(t, "#:<special operator if>", Repr(h, h.MakeBuiltin(lisp.TypeBuiltinSpecial, "if", fn)))
	assert.Equal(t, "#:<core function cons>", Repr(h, h.MakeBuiltin(lisp.TypeBuiltinFunction, "cons", fn)))
	assert.Equal(t, "#:<symbol macro *env*>", Repr(h, h.MakeBuiltin(lisp.TypeBuiltinSymbol, "*env*", fn)))
	assert.Equal(t, "#:<core function>", Repr(h, h.MakeBuiltin(lisp.TypeBuiltinFunction, "", fn)))
}

func TestClosures(t *testing.T) {
	h := testHeap()
	x, y, id := h.Intern("x"), h.Intern("y"), h.Intern("id")
	f := h.MakeFunction(lisp.Nil, lisp.Nil, h.Cons(x, y), h.List(x))
	assert.Equal(t, "#:<function (x . y)>", Repr(h, f))
	f = h.MakeFunction(lisp.Nil, id, h.List(x), h.List(x))
	assert.Equal(t, "#:<function id (x)>", Repr(h, f))
	m := h.MakeMacro(lisp.Nil, lisp.Nil, x, lisp.Nil)
	assert.Equal(t, "#:<macro x>", Repr(h, m))
	f = h.MakeFunction(lisp.Nil, lisp.Nil, lisp.Nil, lisp.Nil)
	assert.Equal(t, "#:<function ()>", Repr(h, f))
	m = h.MakeMacro(lisp.Nil, id, lisp.Nil, lisp.Nil)
	assert.Equal(t, "#:<macro id ()>", Repr(h, m))
}

func TestHandles(t *testing.T) {
	h := testHeap()
	p := h.MakePointer(struct{}{})
	assert.Equal(t, "#:<pointer 0>", Repr(h, p))
}

func TestDisplay(t *testing.T) {
	h := testHeap()
	p := New(h)
	var buf bytes.Buffer
	n, err := p.Display(&buf, h.MakeString("say \"hi\""))
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, `say "hi"`, buf.String())

	buf.Reset()
	p.Display(&buf, h.MakeChar('λ'))
	assert.Equal(t, "λ", buf.String())

	// everything else prints structurally
	buf.Reset()
	p.Display(&buf, h.List(h.MakeString("a"), h.MakeChar('b')))
	assert.Equal(t, `("a" \b)`, buf.String())
}

func TestPrintCount(t *testing.T) {
	h := testHeap()
	var buf bytes.Buffer
	n, err := New(h).Print(&buf, h.List(h.Intern("ab"), h.MakeFixnum(12)))
	assert.NoError(t, err)
	assert.Equal(t, len("(ab 12)"), n)
}

func TestPrintErrors(t *testing.T) {
	h := testHeap()
	for _, r := range []rune{'\n', '\t', 0, 0x7f, 0x85} {
		err := failure(func() { Repr(h, h.MakeChar(r)) })
		assert.ErrorIs(t, err, lisp.ErrEncoding, "character %#x", r)
	}
}
