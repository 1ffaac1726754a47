package stream

import (
	"errors"
	"fmt"
)

// MaxRune is the largest code point accepted by the codec.
const MaxRune = 0x10ffff

// ErrEncoding is the error wrapped by every codec failure.
var ErrEncoding = errors.New("illegal utf-8")

func encodingErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrEncoding, fmt.Sprintf(format, args...))
}

// IsSurrogate returns true if r lies in the UTF-16 surrogate range.
func IsSurrogate(r rune) bool {
	return r >= 0xd800 && r < 0xe000
}

// SequenceLength returns the number of bytes in the sequence introduced by
// the leading byte b, or 0 if b cannot start a sequence.
func SequenceLength(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b>>5 == 0x6:
		return 2
	case b>>4 == 0xe:
		return 3
	case b>>3 == 0x1e:
		return 4
	}
	return 0
}

// DecodeOne decodes the first code point in buf and returns it along with the
// number of bytes consumed.  Illegal leading bytes, malformed continuation
// bytes, truncated and overlong sequences, surrogates and values beyond
// MaxRune are rejected.
func DecodeOne(buf []byte) (rune, int, error) {
	if len(buf) == 0 {
		return 0, 0, encodingErrorf("empty input")
	}
	b := buf[0]
	n := SequenceLength(b)
	if n == 0 {
		return 0, 0, encodingErrorf("illegal leading byte %#02x", b)
	}
	if n == 1 {
		return rune(b), 1, nil
	}
	if len(buf) < n {
		return 0, 0, encodingErrorf("truncated sequence")
	}
	var r rune
	switch n {
	case 2:
		r = rune(b & 0x1f)
	case 3:
		r = rune(b & 0x0f)
	case 4:
		r = rune(b & 0x07)
	}
	for _, c := range buf[1:n] {
		if c&0xc0 != 0x80 {
			return 0, 0, encodingErrorf("illegal continuation byte %#02x", c)
		}
		r = r<<6 | rune(c&0x3f)
	}
	if r < minRune[n] {
		return 0, 0, encodingErrorf("overlong encoding of %d", r)
	}
	if IsSurrogate(r) {
		return 0, 0, encodingErrorf("illegal surrogate %d", r)
	}
	if r > MaxRune {
		return 0, 0, encodingErrorf("code point %d out of range", r)
	}
	return r, n, nil
}

var minRune = [...]rune{0, 0, 0x80, 0x800, 0x10000}

// Encode returns the UTF-8 encoding of r.
func Encode(r rune) ([]byte, error) {
	switch {
	case r < 0:
		return nil, encodingErrorf("illegal code point %d", r)
	case r < 0x80:
		return []byte{byte(r)}, nil
	case r < 0x800:
		return []byte{
			0xc0 | byte(r>>6&0x1f),
			0x80 | byte(r&0x3f),
		}, nil
	case IsSurrogate(r):
		return nil, encodingErrorf("illegal code point %d", r)
	case r < 0x10000:
		return []byte{
			0xe0 | byte(r>>12&0x0f),
			0x80 | byte(r>>6&0x3f),
			0x80 | byte(r&0x3f),
		}, nil
	case r <= MaxRune:
		return []byte{
			0xf0 | byte(r>>18&0x07),
			0x80 | byte(r>>12&0x3f),
			0x80 | byte(r>>6&0x3f),
			0x80 | byte(r&0x3f),
		}, nil
	}
	return nil, encodingErrorf("illegal code point %d", r)
}
