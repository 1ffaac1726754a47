// Package selftest implements the built-in self-test run by the unit
// command.  Results are reported one assertion per line:
//
//	==== reader ====
//	PASS (read "()") is nil
//	FAIL (read "(foo bar baz)") is (foo bar baz)
//	==== summary ====
//	FAIL 1/8 test(s)
package selftest

import (
	"fmt"
	"io"

	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/runtime"
)

const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// Reporter counts assertions and writes their outcomes to W.
type Reporter struct {
	W     io.Writer
	Color bool
	// ShowPass writes a line for passing assertions as well as failing
	// ones.
	ShowPass bool
	// ExitOnFail calls Exit(1) at the first failing assertion.
	ExitOnFail bool
	Exit       func(code int)

	numTests  int
	numFailed int
}

func (r *Reporter) tag(color, tag string) string {
	if r.Color {
		return color + tag + colorReset
	}
	return tag
}

// Group starts a named group of assertions.
func (r *Reporter) Group(name string) {
	fmt.Fprintf(r.W, "==== %s ====\n", name)
}

// Assert records the outcome of one assertion described by msg.
func (r *Reporter) Assert(ok bool, msg string) {
	r.numTests++
	if ok {
		if r.ShowPass {
			fmt.Fprintf(r.W, "%s %s\n", r.tag(colorGreen, "PASS"), msg)
		}
		return
	}
	r.numFailed++
	fmt.Fprintf(r.W, "%s %s\n", r.tag(colorRed, "FAIL"), msg)
	if r.ExitOnFail && r.Exit != nil {
		r.Exit(1)
	}
}

// Finish writes the summary line and returns the number of failed
// assertions.
func (r *Reporter) Finish() int {
	if r.numFailed > 0 {
		fmt.Fprintf(r.W, "%s %d/%d test(s)\n", r.tag(colorRed, "FAIL"), r.numFailed, r.numTests)
	} else {
		fmt.Fprintf(r.W, "%s %d/%d test(s)\n", r.tag(colorGreen, "PASS"), r.numTests, r.numTests)
	}
	return r.numFailed
}

// Failed returns the number of failed assertions recorded so far.
func (r *Reporter) Failed() int {
	return r.numFailed
}

// Run executes every self-test group against rt and writes the summary.
// The outcome is available from rep.Failed.
func Run(rep *Reporter, rt *runtime.Runtime) {
	s := &suite{rep: rep, rt: rt, h: rt.Heap}
	for _, g := range groups {
		rep.Group(g.name)
		g.fn(s)
	}
	rep.Group("summary")
	rep.Finish()
}

type suite struct {
	rep *Reporter
	rt  *runtime.Runtime
	h   *lisp.Heap
}

// check records fn as an assertion.  A failure raised while fn runs fails
// the assertion.
func (s *suite) check(msg string, fn func() bool) {
	var ok bool
	err := s.rt.Try(func() { ok = fn() })
	s.rep.Assert(err == nil && ok, msg)
}

// eval evaluates src in env and returns the printed result.
func (s *suite) eval(src string, env lisp.Expr) string {
	return s.rt.Repr(s.rt.Eval(s.rt.ReadOneFromString(src), env))
}

// checkEval asserts that src evaluates to a value printed as expect.
func (s *suite) checkEval(env lisp.Expr, src, expect string) {
	s.check(fmt.Sprintf("%s => %s", src, expect), func() bool {
		return s.eval(src, env) == expect
	})
}
