package lisp

import (
	"errors"
	"io"

	"github.com/luthersystems/taglisp/pkg/stream"
)

// MakeStream registers s in the stream arena.
func (h *Heap) MakeStream(s stream.Stream) Expr {
	i := len(h.streams)
	h.streams = append(h.streams, s)
	return Make(TypeStream, uint64(i))
}

// Stream returns the stream registered as e.  Stream fails if e has been
// released.
func (h *Heap) Stream(e Expr) stream.Stream {
	s := h.streams[h.index(e, TypeStream, len(h.streams))]
	if s == nil {
		h.Fail(ResourceError, "stream %d has been released", e.Data())
	}
	return s
}

// ReleaseStream releases the stream e and tombstones its arena slot.
func (h *Heap) ReleaseStream(e Expr) {
	s := h.Stream(e)
	h.streams[e.Data()] = nil
	if err := s.Release(); err != nil {
		h.StreamError(err)
	}
}

// StreamError converts an error returned by a stream into a failure.
func (h *Heap) StreamError(err error) {
	if errors.Is(err, stream.ErrEncoding) {
		h.Fail(EncodingError, "%v", err)
	}
	h.Fail(ResourceError, "%v", err)
}

func (h *Heap) StreamPeekChar(e Expr) rune {
	r, err := h.Stream(e).PeekChar()
	if err != nil {
		h.StreamError(err)
	}
	return r
}

func (h *Heap) StreamReadChar(e Expr) rune {
	r, err := h.Stream(e).ReadChar()
	if err != nil {
		h.StreamError(err)
	}
	return r
}

// StreamSkipChar consumes one character.
func (h *Heap) StreamSkipChar(e Expr) {
	h.StreamReadChar(e)
}

func (h *Heap) StreamAtEnd(e Expr) bool {
	return h.StreamPeekChar(e) == 0
}

func (h *Heap) StreamPutChar(e Expr, r rune) {
	if err := h.Stream(e).PutChar(r); err != nil {
		h.StreamError(err)
	}
}

func (h *Heap) StreamPutString(e Expr, s string) {
	if err := h.Stream(e).PutString(s); err != nil {
		h.StreamError(err)
	}
}

// StreamWriter returns an io.Writer over the stream e.
func (h *Heap) StreamWriter(e Expr) io.Writer {
	return h.Stream(e)
}
