package odata

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMalformedURI is returned by DecodeURI for truncated or invalid escapes.
var ErrMalformedURI = errors.New("malformed URI sequence")

// uriReserved lists the characters whose escapes DecodeURI leaves intact, so
// an encoded '&', '=' or '$' can never change how a query string splits.
const uriReserved = ";/?:@&=+$,#"

// DecodeURI decodes percent-escapes the way ECMAScript's decodeURI does:
// escapes of reserved characters are kept verbatim, multi-byte escapes must
// form valid UTF-8, and '+' is not treated as a space.
func DecodeURI(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}

		first, ok := unhexAt(s, i)
		if !ok {
			return "", ErrMalformedURI
		}

		if first < utf8.RuneSelf {
			if strings.IndexByte(uriReserved, first) >= 0 {
				b.WriteString(s[i : i+3])
			} else {
				b.WriteByte(first)
			}
			i += 3
			continue
		}

		n := utf8SequenceLength(first)
		if n == 0 {
			return "", ErrMalformedURI
		}

		seq := make([]byte, 0, n)
		seq = append(seq, first)
		j := i + 3
		for k := 1; k < n; k++ {
			c, ok := unhexAt(s, j)
			if !ok || c&0xC0 != 0x80 {
				return "", ErrMalformedURI
			}
			seq = append(seq, c)
			j += 3
		}
		if !utf8.Valid(seq) {
			return "", ErrMalformedURI
		}
		b.Write(seq)
		i = j
	}

	return b.String(), nil
}

// unhexAt decodes the %XX escape starting at s[i].
func unhexAt(s string, i int) (byte, bool) {
	if i+2 >= len(s) || s[i] != '%' {
		return 0, false
	}
	hi, ok1 := unhex(s[i+1])
	lo, ok2 := unhex(s[i+2])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func utf8SequenceLength(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 0
}
