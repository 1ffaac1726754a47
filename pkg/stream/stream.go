// Package stream implements the character streams consumed by the reader and
// printer.  A Stream reads and writes UTF-8 encoded code points.  The zero
// rune signals the end of input; NUL is never a legal stream character.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNotReadable is returned when reading from an output stream.
	ErrNotReadable = errors.New("cannot read from stream")
	// ErrNotWritable is returned when writing to an input stream.
	ErrNotWritable = errors.New("cannot write to stream")
	// ErrOverflow is returned when a fixed capacity buffer is full.
	ErrOverflow = errors.New("stream buffer overflow")
	// ErrReleased is returned by any operation on a released stream.
	ErrReleased = errors.New("stream released")
)

// Stream is a character stream with one code point of lookahead.
type Stream interface {
	io.Writer
	// PeekChar returns the next code point without consuming it.  PeekChar
	// returns 0 at the end of input.
	PeekChar() (rune, error)
	// ReadChar consumes and returns the next code point.
	ReadChar() (rune, error)
	// PutChar writes the UTF-8 encoding of r.
	PutChar(r rune) error
	// PutString writes s verbatim.
	PutString(s string) error
	// Release frees the resources held by the stream.  Subsequent calls on
	// the stream fail with ErrReleased.
	Release() error
}

// AtEnd returns true if s has no more input.
func AtEnd(s Stream) (bool, error) {
	r, err := s.PeekChar()
	return r == 0, err
}

// OpenFile opens path as a read-only input stream that closes the file on
// release.
func OpenFile(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	return NewFileInput(f, true), nil
}

// NewFileInput returns an input stream reading r.  If closeOnRelease is true
// and r implements io.Closer it is closed by Release.
func NewFileInput(r io.Reader, closeOnRelease bool) Stream {
	s := &fileInput{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok && closeOnRelease {
		s.c = c
	}
	return s
}

// NewFileOutput returns an output stream writing to w.  If closeOnRelease is
// true and w implements io.Closer it is closed by Release.
func NewFileOutput(w io.Writer, closeOnRelease bool) Stream {
	s := &fileOutput{w: w}
	if c, ok := w.(io.Closer); ok && closeOnRelease {
		s.c = c
	}
	return s
}

// NewStringInput returns an input stream over the borrowed string src.
func NewStringInput(src string) Stream {
	return &stringInput{src: src}
}

// Buffer is an output stream whose contents can be retrieved.
type Buffer interface {
	Stream
	// String returns everything written to the buffer so far.
	String() string
}

// NewBufferOutput returns an output stream that holds at most size bytes.
// Writes past the capacity fail with ErrOverflow.
func NewBufferOutput(size int) Buffer {
	return &bufferOutput{size: size}
}

// NewGrowableOutput returns an output stream with no capacity limit.
func NewGrowableOutput() Buffer {
	return &bufferOutput{size: -1}
}

type released struct {
	done bool
}

func (r *released) check() error {
	if r.done {
		return ErrReleased
	}
	return nil
}

type fileInput struct {
	released
	r *bufio.Reader
	c io.Closer
}

func (s *fileInput) PeekChar() (rune, error) {
	r, _, err := s.peek()
	return r, err
}

func (s *fileInput) peek() (rune, int, error) {
	if err := s.check(); err != nil {
		return 0, 0, err
	}
	lead, err := s.r.Peek(1)
	if err == io.EOF {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	n := SequenceLength(lead[0])
	if n == 0 {
		return 0, 0, encodingErrorf("illegal leading byte %#02x", lead[0])
	}
	buf, err := s.r.Peek(n)
	if err != nil && err != io.EOF {
		return 0, 0, err
	}
	return DecodeOne(buf)
}

func (s *fileInput) ReadChar() (rune, error) {
	r, n, err := s.peek()
	if err != nil || n == 0 {
		return r, err
	}
	_, err = s.r.Discard(n)
	return r, err
}

func (s *fileInput) Write(p []byte) (int, error) { return 0, ErrNotWritable }
func (s *fileInput) PutChar(rune) error          { return ErrNotWritable }
func (s *fileInput) PutString(string) error      { return ErrNotWritable }

func (s *fileInput) Release() error {
	if err := s.check(); err != nil {
		return err
	}
	s.done = true
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}

type fileOutput struct {
	released
	w io.Writer
	c io.Closer
}

func (s *fileOutput) PeekChar() (rune, error) { return 0, ErrNotReadable }
func (s *fileOutput) ReadChar() (rune, error) { return 0, ErrNotReadable }

func (s *fileOutput) Write(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.w.Write(p)
}

func (s *fileOutput) PutChar(r rune) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}
	_, err = s.Write(b)
	return err
}

func (s *fileOutput) PutString(str string) error {
	_, err := io.WriteString(s, str)
	return err
}

func (s *fileOutput) Release() error {
	if err := s.check(); err != nil {
		return err
	}
	s.done = true
	if s.c != nil {
		return s.c.Close()
	}
	return nil
}

type stringInput struct {
	released
	src    string
	cursor int
}

func (s *stringInput) peek() (rune, int, error) {
	if err := s.check(); err != nil {
		return 0, 0, err
	}
	if s.cursor >= len(s.src) {
		return 0, 0, nil
	}
	end := s.cursor + 4
	if end > len(s.src) {
		end = len(s.src)
	}
	return DecodeOne([]byte(s.src[s.cursor:end]))
}

func (s *stringInput) PeekChar() (rune, error) {
	r, _, err := s.peek()
	return r, err
}

func (s *stringInput) ReadChar() (rune, error) {
	r, n, err := s.peek()
	s.cursor += n
	return r, err
}

func (s *stringInput) Write(p []byte) (int, error) { return 0, ErrNotWritable }
func (s *stringInput) PutChar(rune) error          { return ErrNotWritable }
func (s *stringInput) PutString(string) error      { return ErrNotWritable }

func (s *stringInput) Release() error {
	if err := s.check(); err != nil {
		return err
	}
	s.done = true
	return nil
}

// bufferOutput is a fixed capacity output buffer.  A negative size disables
// the capacity check.
type bufferOutput struct {
	released
	size int
	buf  strings.Builder
}

func (s *bufferOutput) PeekChar() (rune, error) { return 0, ErrNotReadable }
func (s *bufferOutput) ReadChar() (rune, error) { return 0, ErrNotReadable }

func (s *bufferOutput) Write(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.size >= 0 && s.buf.Len()+len(p) > s.size {
		return 0, ErrOverflow
	}
	return s.buf.Write(p)
}

func (s *bufferOutput) PutChar(r rune) error {
	b, err := Encode(r)
	if err != nil {
		return err
	}
	_, err = s.Write(b)
	return err
}

func (s *bufferOutput) PutString(str string) error {
	_, err := s.Write([]byte(str))
	return err
}

func (s *bufferOutput) String() string {
	return s.buf.String()
}

func (s *bufferOutput) Release() error {
	if err := s.check(); err != nil {
		return err
	}
	s.done = true
	return nil
}
