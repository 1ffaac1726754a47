// Package lfmt provides the writer plumbing used to render lisp values.
package lfmt

import (
	"io"
	"unicode/utf8"
)

// CountingWriter is an io.Writer that tracks the total number of bytes written
// and latches the first write error.  After an error every subsequent write
// is a no-op, so renderers can emit many fragments and check Err once.
type CountingWriter interface {
	io.Writer
	io.StringWriter
	// WriteRune writes the UTF-8 encoding of r.
	WriteRune(r rune) (int, error)
	// WriteByte writes a single byte.
	WriteByte(c byte) error
	// N returns the total number of bytes written.
	N() int
	// Err returns the first error encountered by the writer.
	Err() error
}

// NewCountingWriter wraps w as a CountingWriter.  If w is already a
// CountingWriter it is returned unchanged so nested renderers share one
// count.
func NewCountingWriter(w io.Writer) CountingWriter {
	if cw, ok := w.(CountingWriter); ok {
		return cw
	}
	sw, _ := w.(io.StringWriter)
	return &countingWriter{w: w, sw: sw}
}

type counter struct {
	n   int
	err error
}

func (c *counter) count(n int, err error) (int, error) {
	c.n += n
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}

// N implements CountingWriter
func (c *counter) N() int {
	return c.n
}

// Err implements CountingWriter
func (c *counter) Err() error {
	return c.err
}

type countingWriter struct {
	counter
	w  io.Writer
	sw io.StringWriter
}

var _ CountingWriter = (*countingWriter)(nil)

// Write implements io.Writer
func (w *countingWriter) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	return w.count(w.w.Write(b))
}

// WriteString implements io.StringWriter
func (w *countingWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.sw != nil {
		return w.count(w.sw.WriteString(s))
	}
	return w.count(w.w.Write([]byte(s)))
}

// WriteRune implements CountingWriter
func (w *countingWriter) WriteRune(r rune) (int, error) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return w.Write(buf[:n])
}

// WriteByte implements io.ByteWriter
func (w *countingWriter) WriteByte(c byte) error {
	_, err := w.Write([]byte{c})
	return err
}
