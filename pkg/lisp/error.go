package lisp

import (
	"fmt"
	"io"
)

// Kind classifies a failure.
type Kind uint8

const (
	UnboundVariable Kind = iota + 1
	ArityMismatch
	TypeMismatch
	IndexOutOfRange
	ParseError
	EncodingError
	ResourceError
	RangeError
)

var kindNames = map[Kind]string{
	UnboundVariable: "unbound-variable",
	ArityMismatch:   "arity-mismatch",
	TypeMismatch:    "type-mismatch",
	IndexOutOfRange: "index-out-of-range",
	ParseError:      "parse-error",
	EncodingError:   "encoding-error",
	ResourceError:   "resource-error",
	RangeError:      "range-error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind-%d", uint8(k))
}

// Error is a failure raised by the runtime.
type Error struct {
	Kind Kind
	Msg  string
}

// Errorf returns a new Error of the given kind.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func (err *Error) Error() string {
	return err.Msg
}

// Is allows errors.Is to match an Error against a sentinel of the same Kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == err.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrUnboundVariable = &Error{Kind: UnboundVariable}
	ErrArityMismatch   = &Error{Kind: ArityMismatch}
	ErrTypeMismatch    = &Error{Kind: TypeMismatch}
	ErrIndexOutOfRange = &Error{Kind: IndexOutOfRange}
	ErrParse           = &Error{Kind: ParseError}
	ErrEncoding        = &Error{Kind: EncodingError}
	ErrResource        = &Error{Kind: ResourceError}
	ErrRange           = &Error{Kind: RangeError}
)

// Handler decides what a failure or warning does.  Fail must not return
// normally; it either terminates the process or unwinds with panic.
type Handler interface {
	Fail(err *Error)
	Warn(msg string)
}

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Diagnostics writes tagged failure and warning lines.
type Diagnostics struct {
	W     io.Writer
	Color bool
}

func (d Diagnostics) write(color, tag, msg string) {
	if d.W == nil {
		return
	}
	if d.Color {
		fmt.Fprintf(d.W, "%s%s%s %s\n", color, tag, colorReset, msg)
		return
	}
	fmt.Fprintf(d.W, "%s %s\n", tag, msg)
}

// Failure writes a "[FAIL]" line.
func (d Diagnostics) Failure(msg string) {
	d.write(colorRed, "[FAIL]", msg)
}

// Warning writes a "[WARN]" line.
func (d Diagnostics) Warning(msg string) {
	d.write(colorYellow, "[WARN]", msg)
}

// ExitHandler reports failures and then terminates the process through Exit.
type ExitHandler struct {
	Diagnostics
	Exit func(code int)
}

var _ Handler = (*ExitHandler)(nil)

func (h *ExitHandler) Fail(err *Error) {
	h.Failure(err.Msg)
	h.Exit(1)
	// Exit is replaceable and may return.
	panic(err)
}

func (h *ExitHandler) Warn(msg string) {
	h.Warning(msg)
}

// PanicHandler reports failures and then unwinds the current evaluation by
// panicking with the *Error, which the installer is expected to recover.
type PanicHandler struct {
	Diagnostics
}

var _ Handler = (*PanicHandler)(nil)

func (h *PanicHandler) Fail(err *Error) {
	h.Failure(err.Msg)
	panic(err)
}

func (h *PanicHandler) Warn(msg string) {
	h.Warning(msg)
}

// Recover stores a value obtained from recover() in *errp.  Panics not raised
// by a Handler are re-raised.
//
//	defer func() { lisp.Recover(recover(), &err) }()
func Recover(p interface{}, errp *error) {
	if p == nil {
		return
	}
	err, ok := p.(*Error)
	if !ok {
		panic(p)
	}
	*errp = err
}
