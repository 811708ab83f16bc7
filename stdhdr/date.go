package stdhdr

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
)

// Date represents the Date header field.
// It is rendered as IMF-fixdate, obsolete RFC 850 and asctime forms are accepted on input.
type Date struct {
	time.Time
}

// DateOf creates a Date header truncated to whole seconds, the precision of HTTP-date.
func DateOf(t time.Time) Date { return Date{t.UTC().Truncate(time.Second)} }

// CanonicName returns the canonical name of the header.
func (Date) CanonicName() header.Name { return header.NameDate }

// FormatRaw returns the raw form of the header.
func (hdr Date) FormatRaw() header.Raw { return header.Single(hdr.String()) }

// ParseRaw parses the header from the raw form.
//
//	Date = HTTP-date
func (hdr *Date) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(header.NameDate, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	t, err := http.ParseTime(string(v))
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameDate, header.KindGrammar, "HTTP-date", err))
	}
	hdr.Time = t.UTC()
	return nil
}

func (hdr Date) String() string { return hdr.UTC().Format(http.TimeFormat) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Date) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
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
		type hideMethods Date
		type Date hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Date(hdr))
		return
	}
}

// Equal compares this header with another for equality.
// Dates are equal if they denote the same second.
func (hdr Date) Equal(val any) bool {
	var other Date
	switch v := val.(type) {
	case Date:
		other = v
	case *Date:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return hdr.Truncate(time.Second).Equal(other.Truncate(time.Second))
}
