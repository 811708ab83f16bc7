package stdhdr

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// ContentLength represents the Content-Length header field.
// It indicates the size of the message body in decimal number of octets.
type ContentLength uint64

// CanonicName returns the canonical name of the header.
func (ContentLength) CanonicName() header.Name { return header.NameContentLength }

// FormatRaw returns the raw form of the header.
func (hdr ContentLength) FormatRaw() header.Raw { return header.Single(hdr.String()) }

// ParseRaw parses the header from the raw form.
//
//	Content-Length = 1*DIGIT
func (hdr *ContentLength) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(header.NameContentLength, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	if len(v) == 0 || !isDigits(v) {
		return errtrace.Wrap(header.NewParseError(header.NameContentLength, header.KindGrammar, "1*DIGIT",
			errorutil.Errorf("invalid length %q", v)))
	}
	n, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameContentLength, header.KindGrammar, "1*DIGIT", err))
	}
	*hdr = ContentLength(n)
	return nil
}

func (hdr ContentLength) String() string { return strconv.FormatUint(uint64(hdr), 10) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentLength) Format(f fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		if f.Flag('+') {
			fmt.Fprint(f, hdr.CanonicName(), ": ", hdr.String())
			return
		}
		fmt.Fprint(f, hdr.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(hdr.String()))
		return
	default:
		type hideMethods ContentLength
		type ContentLength hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ContentLength(hdr))
		return
	}
}

// Equal compares this header with another for equality.
func (hdr ContentLength) Equal(val any) bool {
	var other ContentLength
	switch v := val.(type) {
	case ContentLength:
		other = v
	case *ContentLength:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return hdr == other
}

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
