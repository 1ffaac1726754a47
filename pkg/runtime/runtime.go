// Package runtime evaluates lisp programs.  A Runtime owns a Heap and every
// piece of interpreter state, so independent Runtimes never share values.
package runtime

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/luthersystems/taglisp/pkg/environ"
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/parser"
	"github.com/luthersystems/taglisp/pkg/printer"
	"github.com/luthersystems/taglisp/pkg/stream"
)

// Option is a function that configures a new Runtime.
type Option func(*Runtime) error

// WithStderr redirects a runtime's Stderr output stream to w instead of the
// default os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(r *Runtime) error {
		if w == nil {
			return fmt.Errorf("nil stderr")
		}
		r.Stderr = w
		return nil
	}
}

// WithStdout redirects the output of print and friends to w instead of the
// default os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(r *Runtime) error {
		if w == nil {
			return fmt.Errorf("nil stdout")
		}
		r.Stdout = w
		return nil
	}
}

// WithStdin replaces os.Stdin as the runtime's standard input.
func WithStdin(rd io.Reader) Option {
	return func(r *Runtime) error {
		if rd == nil {
			return fmt.Errorf("nil stdin")
		}
		r.Stdin = rd
		return nil
	}
}

// WithExit replaces os.Exit as the function called by the base failure
// handler.
func WithExit(fn func(code int)) Option {
	return func(r *Runtime) error {
		if fn == nil {
			return fmt.Errorf("nil exit function")
		}
		r.Exit = fn
		return nil
	}
}

// WithColor forces colored diagnostics on or off.  By default diagnostics are
// colored when Stderr is a terminal.
func WithColor(ok bool) Option {
	return func(r *Runtime) error {
		r.Color = ok
		r.colorSet = true
		return nil
	}
}

// WithQuoteSugar controls whether the runtime prints (quote X) as 'X.
func WithQuoteSugar(ok bool) Option {
	return func(r *Runtime) error {
		r.quoteSugar = ok
		return nil
	}
}

// WithRand sets the random source used by coin.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Runtime) error {
		if rnd == nil {
			return fmt.Errorf("nil random source")
		}
		r.rand = rnd
		return nil
	}
}

// Runtime holds a Heap together with the evaluator state built on it.  A
// Runtime is confined to one goroutine.
type Runtime struct {
	Heap    *lisp.Heap
	Environ *environ.Environ
	Printer *printer.Printer
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Exit    func(code int)
	Color   bool

	// Standard stream handles registered in the stream arena.
	StdinStream  lisp.Expr
	StdoutStream lisp.Expr
	StderrStream lisp.Expr

	colorSet   bool
	quoteSugar bool
	rand       *rand.Rand
	sym        symbols
}

// symbols caches the symbols the evaluator dispatches on.
type symbols struct {
	t               lisp.Expr
	quote           lisp.Expr
	unquote         lisp.Expr
	unquoteSplicing lisp.Expr
}

// New initializes and returns a new Runtime with the provided configuration
// options.  If any error is encountered it will be returned with a nil
// runtime.
func New(options ...Option) (*Runtime, error) {
	r := &Runtime{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Exit:       os.Exit,
		quoteSugar: true,
	}
	for _, fn := range options {
		err := fn(r)
		if err != nil {
			return nil, err
		}
	}
	if !r.colorSet {
		r.Color = isTerminal(r.Stderr)
	}
	if r.rand == nil {
		r.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.Heap = lisp.NewHeap(&lisp.ExitHandler{
		Diagnostics: r.Diagnostics(),
		Exit:        r.Exit,
	})
	r.Environ = environ.New(r.Heap)
	r.Printer = printer.New(r.Heap, printer.WithQuoteSugar(r.quoteSugar))
	r.StdinStream = r.Heap.MakeStream(stream.NewFileInput(r.Stdin, false))
	r.StdoutStream = r.Heap.MakeStream(stream.NewFileOutput(r.Stdout, false))
	r.StderrStream = r.Heap.MakeStream(stream.NewFileOutput(r.Stderr, false))
	r.sym = symbols{
		t:               r.Heap.Intern("t"),
		quote:           r.Heap.Intern("quote"),
		unquote:         r.Heap.Intern("unquote"),
		unquoteSplicing: r.Heap.Intern("unquote-splicing"),
	}
	return r, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Diagnostics returns the writer of failure and warning lines for Stderr.
func (r *Runtime) Diagnostics() lisp.Diagnostics {
	return lisp.Diagnostics{W: r.Stderr, Color: r.Color}
}

// Try calls fn with a handler installed that turns failures into a returned
// *lisp.Error instead of terminating the process.  The failure message is
// still written to Stderr.
func (r *Runtime) Try(fn func()) (err error) {
	r.Heap.PushHandler(&lisp.PanicHandler{Diagnostics: r.Diagnostics()})
	defer r.Heap.PopHandler()
	defer func() { lisp.Recover(recover(), &err) }()
	fn()
	return nil
}

// Truth returns t if ok is true and Nil otherwise.
func (r *Runtime) Truth(ok bool) lisp.Expr {
	if ok {
		return r.sym.t
	}
	return lisp.Nil
}

// ReadOneFromString parses the first expression in src.
func (r *Runtime) ReadOneFromString(src string) lisp.Expr {
	return parser.ReadOneFromString(r.Heap, src)
}

// Repr returns the printed representation of e.
func (r *Runtime) Repr(e lisp.Expr) string {
	return r.Printer.Repr(e)
}

func (r *Runtime) write(out lisp.Expr, display bool, args lisp.Expr, newline bool) {
	h := r.Heap
	w := h.StreamWriter(out)
	for it := h.NewListIterator(args); it.Next(); {
		var err error
		if display {
			_, err = r.Printer.Display(w, it.Value())
		} else {
			_, err = r.Printer.Print(w, it.Value())
		}
		if err != nil {
			h.StreamError(err)
		}
		if !it.Rest().IsNil() {
			h.StreamPutChar(out, ' ')
		}
	}
	if newline {
		h.StreamPutChar(out, '\n')
	}
}

// Print writes the elements of the list args to out separated by spaces.
func (r *Runtime) Print(out, args lisp.Expr) {
	r.write(out, false, args, false)
}

// Println is like Print and terminates the output with a newline.
func (r *Runtime) Println(out, args lisp.Expr) {
	r.write(out, false, args, true)
}

// Display is like Print but writes strings and characters raw.
func (r *Runtime) Display(out, args lisp.Expr) {
	r.write(out, true, args, false)
}

// Displayln is like Display and terminates the output with a newline.
func (r *Runtime) Displayln(out, args lisp.Expr) {
	r.write(out, true, args, true)
}
