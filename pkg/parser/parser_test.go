package parser

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/printer"
	"github.com/luthersystems/taglisp/pkg/stream"
)

func testHeap() *lisp.Heap {
	return lisp.NewHeap(&lisp.PanicHandler{Diagnostics: lisp.Diagnostics{W: io.Discard}})
}

func failure(fn func()) (err error) {
	defer func() { lisp.Recover(recover(), &err) }()
	fn()
	return nil
}

func TestReader(t *testing.T) {
	h := testHeap()
	foo := h.Intern("foo")
	assert.Equal(t, lisp.Nil, ReadOneFromString(h, "nil"))
	assert.Equal(t, foo, ReadOneFromString(h, "foo"))
	assert.Equal(t, lisp.Nil, ReadOneFromString(h, "()"))
	assert.True(t, h.Equal(h.List(foo, h.Intern("bar"), h.Intern("baz")), ReadOneFromString(h, "(foo bar baz)")))
	assert.True(t, h.Equal(h.List(h.Intern("quote"), foo), ReadOneFromString(h, "'foo")))
	assert.True(t, h.Equal(h.List(h.Intern("backquote"), foo), ReadOneFromString(h, "`foo")))
	assert.True(t, h.Equal(h.List(h.Intern("unquote"), foo), ReadOneFromString(h, ",foo")))
	assert.True(t, h.Equal(h.List(h.Intern("unquote-splicing"), foo), ReadOneFromString(h, ",@foo")))
	assert.Equal(t, h.MakeKeyword("key"), ReadOneFromString(h, ":key"))
}

func TestRoundTrip(t *testing.T) {
	h := testHeap()
	for _, src := range []string{
		"(foo bar baz)",
		"(a . b)",
		"(a b . c)",
		"((a b) (c (d)))",
		"'foo",
		"(quote foo bar)",
		`"hello \"world\"\n"`,
		`"tab\there"`,
		`"\x1b[31m"`,
		`\a`,
		`\space`,
		`\bel`,
		`\λ`,
		`\é`,
		`(\a \λ)`,
		"-42",
		":kw",
		"(1 -2 +)",
	} {
		assert.Equal(t, src, printer.Repr(h, ReadOneFromString(h, src)), "source %q", src)
	}
}

func TestNumbers(t *testing.T) {
	h := testHeap()
	tests := []struct {
		src    string
		expect int64
	}{
		{"0", 0},
		{"42", 42},
		{"+42", 42},
		{"-42", -42},
		{"1.5", 1},
		{"12.34", 12},
		{"-7.9", -7},
		{"100.0", 100},
		{"36028797018963967", lisp.FixnumMax},
		{"-36028797018963967", -lisp.FixnumMax},
		{"-36028797018963968", lisp.FixnumMin},
	}
	for _, test := range tests {
		e := ReadOneFromString(h, test.src)
		if assert.Equal(t, lisp.TypeFixnum, e.Type(), "source %q", test.src) {
			assert.Equal(t, test.expect, h.FixnumValue(e), "source %q", test.src)
		}
	}

	// tokens that fail to terminate as numbers are symbols
	for _, src := range []string{"-", "+", "1+", "-x", "1.2.3", "12abc", "-.5"} {
		e := ReadOneFromString(h, src)
		if assert.Equal(t, lisp.TypeSymbol, e.Type(), "source %q", src) {
			assert.Equal(t, src, h.SymbolName(e))
		}
	}

	for _, src := range []string{"99999999999999999999", "36028797018963968", "-36028797018963969"} {
		err := failure(func() { ReadOneFromString(h, src) })
		assert.ErrorIs(t, err, lisp.ErrRange, "source %q", src)
	}
	assert.Equal(t, lisp.TypeSymbol, ReadOneFromString(h, "99999999999999999999x").Type())
}

func TestNumberStops(t *testing.T) {
	h := testHeap()
	e := ReadOneFromString(h, "(1 2)")
	assert.Equal(t, []lisp.Expr{h.MakeFixnum(1), h.MakeFixnum(2)}, h.Slice(e))
}

func TestStrings(t *testing.T) {
	h := testHeap()
	tests := []struct {
		src    string
		expect string
	}{
		{`""`, ""},
		{`"abc"`, "abc"},
		{`"a\nb"`, "a\nb"},
		{`"a\tb"`, "a\tb"},
		{`"\x41\x7a"`, "Az"},
		{`"\q\\\""`, `q\"`},
		{`"λ"`, "λ"},
	}
	for _, test := range tests {
		e := ReadOneFromString(h, test.src)
		if assert.Equal(t, lisp.TypeString, e.Type(), "source %q", test.src) {
			assert.Equal(t, test.expect, h.StringValue(e), "source %q", test.src)
		}
	}
}

func TestCharacters(t *testing.T) {
	h := testHeap()
	assert.Equal(t, h.MakeChar('a'), ReadOneFromString(h, `\a`))
	assert.Equal(t, h.MakeChar(' '), ReadOneFromString(h, `\space`))
	assert.Equal(t, h.MakeChar('\a'), ReadOneFromString(h, `\bel`))
	assert.Equal(t, h.MakeChar('λ'), ReadOneFromString(h, `\λ`))
	assert.Equal(t, []lisp.Expr{h.MakeChar('x'), h.MakeChar(')')}, h.Slice(ReadOneFromString(h, `(\x \))`)))

	err := failure(func() { ReadOneFromString(h, `\nope`) })
	assert.ErrorIs(t, err, lisp.ErrParse)

	// without character syntax the backslash starts a symbol
	e := ReadOneFromString(h, `\a`, WithCharacterSyntax(false))
	assert.Equal(t, lisp.TypeSymbol, e.Type())
}

func TestQuoteSyntaxDisabled(t *testing.T) {
	h := testHeap()
	err := failure(func() { ReadOneFromString(h, "'foo", WithQuoteSyntax(false)) })
	assert.ErrorIs(t, err, lisp.ErrParse)
	e := ReadOneFromString(h, "`foo", WithQuoteSyntax(false))
	assert.Equal(t, "`foo", h.SymbolName(e))
}

func TestComments(t *testing.T) {
	h := testHeap()
	exprs := ReadAllFromString(h, "; leading\n(a ; inner\n b) ; trailing\n\t c ;; eof")
	require.Len(t, exprs, 2)
	assert.Equal(t, "(a b)", printer.Repr(h, exprs[0]))
	assert.Equal(t, h.Intern("c"), exprs[1])
	assert.Empty(t, ReadAllFromString(h, "  ; nothing here"))
}

func TestMaybeParse(t *testing.T) {
	h := testHeap()
	in := h.MakeStream(stream.NewStringInput(" foo \n bar "))
	p := New(h, in)
	e, ok := p.MaybeParse()
	assert.True(t, ok)
	assert.Equal(t, h.Intern("foo"), e)
	e, ok = p.MaybeParse()
	assert.True(t, ok)
	assert.Equal(t, h.Intern("bar"), e)
	_, ok = p.MaybeParse()
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	h := testHeap()
	for _, src := range []string{
		"(a b",
		`"abc`,
		`"\x4g"`,
		"(a . b c)",
		"( . b)",
		")",
		"",
	} {
		err := failure(func() { ReadOneFromString(h, src) })
		assert.ErrorIs(t, err, lisp.ErrParse, "source %q", src)
	}
}
