// Package lisptest runs table driven lisp tests from Go tests.
package lisptest

import (
	"bytes"
	"io"
	"testing"

	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/parser"
	"github.com/luthersystems/taglisp/pkg/runtime"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially in one environment.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the printed result, or the message of a failure
	Output string // everything written to stdout during evaluation
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// Runner is a test runner.
type Runner struct {
	// Env returns the root environment a sequence is evaluated in.  When Env
	// is nil the core environment is used.
	Env func(*runtime.Runtime) lisp.Expr
	// Options are passed to runtime.New after the runner's own options.
	Options []runtime.Option
}

// NewRuntime returns an isolated Runtime writing its standard output to
// stdout, along with its root environment.  Diagnostics are discarded.
func (r *Runner) NewRuntime(stdout io.Writer) (*runtime.Runtime, lisp.Expr, error) {
	options := append([]runtime.Option{
		runtime.WithStdout(stdout),
		runtime.WithStderr(io.Discard),
		runtime.WithColor(false),
	}, r.Options...)
	rt, err := runtime.New(options...)
	if err != nil {
		return nil, lisp.Nil, err
	}
	mkenv := r.Env
	if mkenv == nil {
		mkenv = (*runtime.Runtime).MakeCoreEnv
	}
	return rt, mkenv(rt), nil
}

// RunTestSuite runs each TestSequence in tests on an isolated Runtime.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var stdout bytes.Buffer
		rt, env, err := r.NewRuntime(&stdout)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			stdout.Reset()
			var v []lisp.Expr
			err := rt.Try(func() { v = parser.ReadAllFromString(rt.Heap, expr.Expr) })
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			var result string
			err = rt.Try(func() { result = rt.Repr(rt.Eval(v[0], env)) })
			if err != nil {
				result = err.Error()
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if stdout.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, stdout.String())
			}
		}
	}
}

// RunTestSuite runs tests in the core environment.
func RunTestSuite(t *testing.T, tests TestSuite) {
	new(Runner).RunTestSuite(t, tests)
}
