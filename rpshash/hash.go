// Package rpshash computes the RefPerSys two-word string fingerprint.
//
// The mixing steps are shared with the RefPerSys runtime and must stay
// bit-for-bit identical to it; do not change the constants or the order
// of operations.
package rpshash

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by callers that need to tell an empty input
// apart from a decoding failure, both of which yield a zero Fingerprint.
var ErrInvalidUTF8 = errors.New("rpshash: invalid utf-8 input")

// Fingerprint is the result of hashing a UTF-8 string.
type Fingerprint struct {
	H0    int64
	H1    int64
	Count int // number of decoded code points, 0 for empty or malformed input
}

// Valid reports whether the fingerprint came from a non-empty, well-formed input.
func (f Fingerprint) Valid() bool {
	return f.Count > 0
}

// String renders the fingerprint as `h0=<dec>=<hex> h1=<dec>=<hex>`.
func (f Fingerprint) String() string {
	return fmt.Sprintf("h0=%d=%s h1=%d=%s", f.H0, cHex(f.H0), f.H1, cHex(f.H1))
}

// cHex mimics printf("%#lx"): two's-complement bits, 0x prefix, bare 0 for zero.
func cHex(v int64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%#x", uint64(v))
}

// Sum hashes the whole buffer.
func Sum(b []byte) Fingerprint {
	return compute(b)
}

// SumString hashes s.
func SumString(s string) Fingerprint {
	return compute([]byte(s))
}

// SumCString hashes the first n bytes of b. A negative n means the length is
// found by scanning for the first NUL byte, or the end of b if there is none.
// An n larger than len(b) is truncated to len(b).
func SumCString(b []byte, n int) Fingerprint {
	if n < 0 {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			n = i
		} else {
			n = len(b)
		}
	}
	if n > len(b) {
		n = len(b)
	}
	return compute(b[:n])
}

// decode returns the next code point and its width, or ok=false when the
// bytes at the start of b do not form a complete, valid UTF-8 sequence.
func decode(b []byte) (uc uint32, width int, ok bool) {
	r, w := utf8.DecodeRune(b)
	if r == utf8.RuneError && w <= 1 {
		return 0, 0, false
	}
	return uint32(r), w, true
}

func compute(b []byte) Fingerprint {
	if len(b) == 0 {
		return Fingerprint{}
	}
	h0, h1 := int64(len(b)), int64(60899)
	count := 0
	pc, end := 0, len(b)
	for pc < end {
		uc1, l1, ok := decode(b[pc:])
		if !ok {
			return Fingerprint{}
		}
		count++
		pc += l1
		if pc >= end {
			break
		}
		h0 = (h0 * 60869) ^ (int64(uc1*5059) + (h1 & 0xff))

		uc2, l2, ok := decode(b[pc:])
		if !ok {
			return Fingerprint{}
		}
		h1 = (h1 * 53087) ^ (int64(uc2*43063+uint32(count)) + (h0 & 0xff))
		count++
		pc += l2
		if pc >= end {
			break
		}

		uc3, l3, ok := decode(b[pc:])
		if !ok {
			return Fingerprint{}
		}
		h1 = (h1 * 73063) ^ (int64(uc3*53089) + (h0 & 0xff))
		count++
		pc += l3
		if pc >= end {
			break
		}

		uc4, l4, ok := decode(b[pc:])
		if !ok {
			return Fingerprint{}
		}
		h0 = (h0 * 73019) ^ (int64(uc4*23057) + 11*(h1&0x1ff))
		count++
		pc += l4
	}
	return Fingerprint{H0: h0, H1: h1, Count: count}
}
