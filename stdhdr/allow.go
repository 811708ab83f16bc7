package stdhdr

import (
	"fmt"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
)

// Allow represents the Allow header field, the list of methods supported by the target resource.
// Methods are case-sensitive. An empty list means the resource allows no methods.
type Allow []string

// CanonicName returns the canonical name of the header.
func (Allow) CanonicName() header.Name { return header.NameAllow }

// JoinPolicy returns the policy used to render the header.
func (Allow) JoinPolicy() header.JoinPolicy { return header.CommaJoinSingleLine }

// FormatRaw returns the raw form of the header.
func (hdr Allow) FormatRaw() header.Raw { return header.RawStrings(hdr...) }

// ParseRaw parses the header from the raw form.
//
//	Allow = #method
func (hdr *Allow) ParseRaw(raw header.Raw) error {
	items, err := header.ListItems(header.NameAllow, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	methods := make(Allow, 0, len(items))
	for _, it := range items {
		if !grammar.IsToken(it) {
			return errtrace.Wrap(header.NewParseError(header.NameAllow, header.KindGrammar, "method",
				errorutil.Errorf("invalid method %q", it)))
		}
		methods = append(methods, string(it))
	}
	*hdr = methods
	return nil
}

// Has reports whether the method is allowed.
func (hdr Allow) Has(method string) bool { return slices.Contains(hdr, method) }

func (hdr Allow) String() string { return hdr.FormatRaw().String() }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr Allow) Format(f fmt.State, verb rune) {
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
		type hideMethods Allow
		type Allow hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Allow(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr Allow) Clone() Allow { return slices.Clone(hdr) }

// Equal compares this header with another for equality, order is significant.
// A nil list equals an empty one.
func (hdr Allow) Equal(val any) bool {
	var other Allow
	switch v := val.(type) {
	case Allow:
		other = v
	case *Allow:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.Equal(hdr, other)
}
