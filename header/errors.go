package header

import (
	"errors"
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
)

const (
	// ErrInvalidName is matched by every [InvalidNameError].
	ErrInvalidName errorutil.Error = "invalid header name"

	// ErrGrammar is matched by a [ParseError] of kind [KindGrammar].
	ErrGrammar errorutil.Error = "grammar violation"
	// ErrValueCount is matched by a [ParseError] of kind [KindValueCount].
	ErrValueCount errorutil.Error = "wrong value count"
	// ErrEncoding is matched by a [ParseError] of kind [KindEncoding].
	ErrEncoding errorutil.Error = "encoding failure"

	// ErrInvalidValue is returned when a value can't be written to the wire.
	ErrInvalidValue errorutil.Error = "invalid header value"

	// ErrNoCodec is returned by [Headers.Parsed] for names without a registered codec.
	ErrNoCodec errorutil.Error = "no codec registered"
)

// InvalidNameError is returned when bytes can't be used as a header field name.
type InvalidNameError struct {
	// Name is the rejected input.
	Name string
	// Pos is the position of the first invalid byte.
	Pos int
	Err error
}

func (e *InvalidNameError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", ErrInvalidName, e.Err)
	}
	if e.Pos < 0 || e.Pos >= len(e.Name) {
		return fmt.Sprintf("%s %q: %v", ErrInvalidName, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q: invalid byte %q at %d", ErrInvalidName, e.Name, e.Name[e.Pos], e.Pos)
}

func (e *InvalidNameError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (*InvalidNameError) Is(target error) bool { return target == ErrInvalidName } //nolint:errorlint

func (*InvalidNameError) Grammar() bool { return true }

// ParseErrorKind tells which part of a header grammar a [ParseError] failed on.
type ParseErrorKind uint8

const (
	// KindGrammar means a value violates the header grammar.
	KindGrammar ParseErrorKind = iota + 1
	// KindValueCount means a scalar header has not exactly one value.
	KindValueCount
	// KindEncoding means a value failed to decode, for example invalid base64.
	KindEncoding
)

func (k ParseErrorKind) sentinel() error {
	switch k {
	case KindValueCount:
		return ErrValueCount
	case KindEncoding:
		return ErrEncoding
	default:
		return ErrGrammar
	}
}

func (k ParseErrorKind) String() string {
	switch k {
	case KindGrammar:
		return "grammar"
	case KindValueCount:
		return "value-count"
	case KindEncoding:
		return "encoding"
	default:
		return "ParseErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseError describes why a codec failed to interpret the raw value of a header.
// It matches [ErrGrammar], [ErrValueCount] or [ErrEncoding] with [errors.Is]
// depending on the Kind.
type ParseError struct {
	Header Name
	Kind   ParseErrorKind
	// Rule is the grammar rule that failed, for example "media-type".
	Rule string
	Err  error
}

// NewParseError creates a new [ParseError].
func NewParseError(hdr Name, kind ParseErrorKind, rule string, err error) error {
	return &ParseError{Header: hdr, Kind: kind, Rule: rule, Err: err} //errtrace:skip
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "parse " + e.Header.String() + ": " + e.Kind.sentinel().Error()
	if e.Rule != "" {
		msg += " (" + e.Rule + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return e != nil && target == e.Kind.sentinel() //nolint:errorlint
}

func (*ParseError) Grammar() bool { return true }

// asParseError makes sure err returned by a codec of the header hdr is a [ParseError].
// Foreign errors declaring Grammar() true become [KindGrammar], the rest [KindEncoding].
func asParseError(hdr Name, err error) error {
	if pe := (*ParseError)(nil); errors.As(err, &pe) {
		return err //errtrace:skip
	}
	kind := KindEncoding
	if errorutil.IsGrammarErr(err) {
		kind = KindGrammar
	}
	return errtrace.Wrap(NewParseError(hdr, kind, "", err))
}
