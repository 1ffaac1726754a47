// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/parser"
	"github.com/luthersystems/taglisp/pkg/runtime"
	"github.com/luthersystems/taglisp/pkg/stream"
)

// DefaultPrompt is the prompt written before each form is read.
const DefaultPrompt = "> "

// Option configures a Repl.
type Option func(*Repl)

// WithPrompt sets the prompt.  An empty prompt is ignored.
func WithPrompt(prompt string) Option {
	return func(r *Repl) {
		if prompt != "" {
			r.prompt = prompt
		}
	}
}

// Repl evaluates forms typed by a user in a fixed environment.
type Repl struct {
	rt     *runtime.Runtime
	env    lisp.Expr
	prompt string
}

// New returns a Repl evaluating in env.
func New(rt *runtime.Runtime, env lisp.Expr, options ...Option) *Repl {
	r := &Repl{rt: rt, env: env, prompt: DefaultPrompt}
	for _, fn := range options {
		fn(r)
	}
	return r
}

// Run reads from the runtime's stdin until it is exhausted.  A terminal gets
// line editing and history.
func (r *Repl) Run() error {
	if f, ok := r.rt.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return r.RunReadline()
	}
	r.RunStream(r.rt.StdinStream)
	return nil
}

// RunStream reads forms directly from the stream in.  The prompt is written
// to stdout before each form.  A form that fails is reported and the loop
// goes on with the next one.  After a parse error the rest of the line is
// discarded.
func (r *Repl) RunStream(in lisp.Expr) {
	h := r.rt.Heap
	p := parser.New(h, in)
	for {
		h.StreamPutString(r.rt.StdoutStream, r.prompt)
		var done, parsed bool
		err := r.rt.Try(func() {
			e, ok := p.MaybeParse()
			if !ok {
				done = true
				return
			}
			parsed = true
			r.print(r.rt.Eval(e, r.env))
		})
		if done {
			return
		}
		if err != nil && !parsed {
			if h.StreamAtEnd(in) {
				return
			}
			discardLine(h, in)
		}
	}
}

func discardLine(h *lisp.Heap, in lisp.Expr) {
	for !h.StreamAtEnd(in) {
		if h.StreamReadChar(in) == '\n' {
			return
		}
	}
}

// RunReadline runs the loop on a readline terminal.  Lines are buffered
// under a continuation prompt until they hold complete forms.
func (r *Repl) RunReadline() error {
	rl, err := readline.New(r.prompt)
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len([]rune(r.prompt)))

	var buf []string
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf = nil
			rl.SetPrompt(r.prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		buf = append(buf, line)
		if r.Eval(strings.Join(buf, "\n")) {
			buf = nil
			rl.SetPrompt(r.prompt)
			continue
		}
		rl.SetPrompt(contPrompt)
	}
}

// Eval reads every form in src and evaluates them in order, printing each
// result.  Eval returns false without evaluating anything when src ends
// inside an unfinished form.
func (r *Repl) Eval(src string) bool {
	forms, incomplete, err := r.read(src)
	if incomplete {
		return false
	}
	if err != nil {
		r.rt.Diagnostics().Failure(err.Error())
		return true
	}
	for _, e := range forms {
		e := e
		// failures are reported by the handler
		_ = r.rt.Try(func() { r.print(r.rt.Eval(e, r.env)) })
	}
	return true
}

// read parses src without reporting failures.  A parse error raised at the
// end of src means the input is incomplete.
func (r *Repl) read(src string) (forms []lisp.Expr, incomplete bool, err error) {
	h := r.rt.Heap
	in := h.MakeStream(stream.NewStringInput(src))
	defer h.ReleaseStream(in)
	h.PushHandler(&lisp.PanicHandler{})
	defer h.PopHandler()
	defer func() {
		lisp.Recover(recover(), &err)
		if errors.Is(err, lisp.ErrParse) && h.StreamAtEnd(in) {
			forms, incomplete, err = nil, true, nil
		}
	}()
	return parser.New(h, in).ParseProgram(), false, nil
}

func (r *Repl) print(e lisp.Expr) {
	r.rt.Println(r.rt.StdoutStream, r.rt.Heap.List(e))
}
