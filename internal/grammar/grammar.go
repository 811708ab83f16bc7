// Package grammar implements the small pieces of RFC 9110 field grammar
// shared by the header name type and the standard header codecs.
package grammar

//go:generate go tool errtrace -w .

import (
	"bytes"
	"strings"

	"github.com/ghettovoice/httphdr/internal/constraints"
)

// Error is a grammar error.
type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
	ErrUnclosedQuote  Error = "unclosed quoted string"
)

var tcharTable = [256]bool{ // tchar = "!" / "#" / "$" / "%" / "&" / "'" / "*" / "+" / "-" / "." / "^" / "_" / "`" / "|" / "~" / DIGIT / ALPHA
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true, '*': true, '+': true,
	'-': true, '.': true, '^': true, '_': true, '`': true, '|': true, '~': true,
	'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true, '8': true, '9': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true, 'H': true, 'I': true,
	'J': true, 'K': true, 'L': true, 'M': true, 'N': true, 'O': true, 'P': true, 'Q': true, 'R': true,
	'S': true, 'T': true, 'U': true, 'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true, 'h': true, 'i': true,
	'j': true, 'k': true, 'l': true, 'm': true, 'n': true, 'o': true, 'p': true, 'q': true, 'r': true,
	's': true, 't': true, 'u': true, 'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
}

// IsTChar reports whether c is allowed in a token.
func IsTChar(c byte) bool { return tcharTable[c] }

// IsToken reports whether s is a non-empty token.
//
//	token = 1*tchar
func IsToken[T constraints.Byteseq](s T) bool {
	return len(s) > 0 && IndexNonToken(s) < 0
}

// IndexNonToken returns the index of the first byte of s that is not a tchar, or -1.
func IndexNonToken[T constraints.Byteseq](s T) int {
	for i := 0; i < len(s); i++ {
		if !IsTChar(s[i]) {
			return i
		}
	}
	return -1
}

// IsQuotable reports whether every byte of s can be carried by a quoted-string,
// that is HTAB, SP, VCHAR or obs-text.
func IsQuotable[T constraints.Byteseq](s T) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != '\t' && (c < 0x20 || c == 0x7F) {
			return false
		}
	}
	return true
}

// Quote returns s as is if it is a token, otherwise as a quoted-string.
func Quote(s string) string {
	if IsToken(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// Unquote removes surrounding quotes and resolves quoted-pairs.
// Input that is not a quoted-string is returned unchanged.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// SplitList splits a field value by commas into list elements (RFC 9110 Section 5.6.1).
// Commas inside quoted strings don't split. Elements are trimmed of OWS and
// empty elements are dropped.
func SplitList(v []byte) ([][]byte, error) {
	var (
		items  [][]byte
		start  int
		quoted bool
	)
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted && c == ',':
			items = appendItem(items, v[start:i])
			start = i + 1
		}
	}
	if quoted {
		return nil, ErrUnclosedQuote
	}
	return appendItem(items, v[start:]), nil
}

func appendItem(items [][]byte, item []byte) [][]byte {
	item = bytes.Trim(item, " \t")
	if len(item) == 0 {
		return items
	}
	return append(items, item)
}
