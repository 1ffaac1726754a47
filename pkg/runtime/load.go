package runtime

import (
	"github.com/luthersystems/taglisp/pkg/lisp"
	"github.com/luthersystems/taglisp/pkg/parser"
	"github.com/luthersystems/taglisp/pkg/stream"
)

// LoadFile evaluates every expression in the file at path in env.  A file
// that cannot be opened is a ResourceError.
func (r *Runtime) LoadFile(path string, env lisp.Expr) {
	s, err := stream.OpenFile(path)
	if err != nil {
		r.Heap.Fail(lisp.ResourceError, "%v", err)
	}
	in := r.Heap.MakeStream(s)
	defer r.Heap.ReleaseStream(in)
	r.Load(in, env)
}

// LoadString evaluates every expression in src in env and returns the value
// of the last one.
func (r *Runtime) LoadString(src string, env lisp.Expr) lisp.Expr {
	in := r.Heap.MakeStream(stream.NewStringInput(src))
	defer r.Heap.ReleaseStream(in)
	return r.Load(in, env)
}

// Load reads expressions from the stream in until it is exhausted,
// evaluating each in env before the next is read.  Load returns the value of
// the last expression.
func (r *Runtime) Load(in, env lisp.Expr) lisp.Expr {
	p := parser.New(r.Heap, in)
	ret := lisp.Nil
	for {
		e, ok := p.MaybeParse()
		if !ok {
			return ret
		}
		ret = r.Eval(e, env)
	}
}
