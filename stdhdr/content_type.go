package stdhdr

import (
	"fmt"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// ContentType represents the Content-Type header field.
// Type and Subtype are lower-cased after parsing.
type ContentType struct {
	Type, Subtype string
	Params        Params
}

// MediaType creates a Content-Type from the "type/subtype" string and optional parameters.
// Parameter names are lower-cased.
// It panics if typ is not a valid media type or a parameter can't be rendered.
func MediaType(typ string, params ...Param) ContentType {
	var hdr ContentType
	if err := hdr.ParseRaw(header.Single(typ)); err != nil {
		panic(errorutil.NewInvalidArgumentError(err))
	}
	for _, p := range params {
		if err := p.Validate(); err != nil {
			panic(errorutil.NewInvalidArgumentError(err))
		}
		hdr.Params = append(hdr.Params, Param{Name: util.ASCIILower(p.Name), Value: p.Value})
	}
	return hdr
}

// CanonicName returns the canonical name of the header.
func (ContentType) CanonicName() header.Name { return header.NameContentType }

// FormatRaw returns the raw form of the header.
func (hdr ContentType) FormatRaw() header.Raw { return header.Single(hdr.String()) }

// ParseRaw parses the header from the raw form.
//
//	Content-Type = media-type
func (hdr *ContentType) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(header.NameContentType, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	mt, err := grammar.ParseMediaType(v)
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameContentType, header.KindGrammar, "media-type", err))
	}
	*hdr = ContentType{
		Type:    mt.Type,
		Subtype: mt.Subtype,
		Params:  fromGrammarParams(mt.Params),
	}
	return nil
}

// Essence returns the "type/subtype" part without parameters.
func (hdr ContentType) Essence() string { return hdr.Type + "/" + hdr.Subtype }

// Charset returns the value of the charset parameter.
func (hdr ContentType) Charset() (string, bool) { return hdr.Params.Get("charset") }

func (hdr ContentType) String() string {
	if hdr.Type == "" && hdr.Subtype == "" {
		return ""
	}
	if len(hdr.Params) == 0 {
		return hdr.Essence()
	}
	return hdr.Essence() + "; " + hdr.Params.join("; ")
}

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentType) Format(f fmt.State, verb rune) {
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
		type hideMethods ContentType
		type ContentType hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ContentType(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr ContentType) Clone() ContentType {
	hdr.Params = hdr.Params.Clone()
	return hdr
}

// Equal compares this header with another for equality.
// Type, subtype and parameter names are compared case-insensitively.
func (hdr ContentType) Equal(val any) bool {
	var other ContentType
	switch v := val.(type) {
	case ContentType:
		other = v
	case *ContentType:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(hdr.Type, other.Type) &&
		util.EqFold(hdr.Subtype, other.Subtype) &&
		hdr.Params.Equal(other.Params)
}
