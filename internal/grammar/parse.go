package grammar

import (
	"net/url"
	"strings"

	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/httphdr/internal/constraints"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// Param is a name/value pair from a parameter list.
// Name is lower-cased, Value is unquoted.
type Param struct {
	Name, Value string
}

// MediaType is a parsed media-type (RFC 9110 Section 8.3.1).
type MediaType struct {
	Type, Subtype string
	Params        []Param
}

// Credentials are parsed authorization credentials (RFC 9110 Section 11.4).
// Either Token68 or Params is set, never both.
type Credentials struct {
	Scheme  string
	Token68 string
	Params  []Param
}

func parse[T constraints.Byteseq](op abnf.Operator, s T, fn func(n *abnf.Node)) error {
	if len(s) == 0 {
		return errtrace.Wrap(ErrEmptyInput)
	}

	ns := abnf.NewNodes()
	defer ns.Free()

	if err := op([]byte(s), 0, ns); err != nil {
		return errtrace.Wrap(newMalformedInputErr(err))
	}

	n := ns.Best()
	if nl, il := n.Len(), len(s); nl < il {
		return errtrace.Wrap(newMalformedInputErr("node length %d < input length %d", nl, il))
	}
	fn(n)
	return nil
}

// ParseMediaType parses a media-type with optional parameters.
// Type, subtype and parameter names are lower-cased.
//
//	media-type = type "/" subtype parameters
func ParseMediaType[T constraints.Byteseq](s T) (MediaType, error) {
	var mt MediaType
	err := parse(mediaType, s, func(n *abnf.Node) {
		if tn, ok := n.GetNode("type"); ok {
			mt.Type = strings.ToLower(tn.String())
		}
		if sn, ok := n.GetNode("subtype"); ok {
			mt.Subtype = strings.ToLower(sn.String())
		}
		mt.Params = buildParams(n.GetNodes("parameter"), "parameter-name", "parameter-value")
	})
	return mt, errtrace.Wrap(err)
}

// Disposition is a parsed Content-Disposition value (RFC 6266 Section 4.1).
type Disposition struct {
	Type   string
	Params []Param
}

// ParseDisposition parses a disposition type with parameters.
// The type and parameter names are lower-cased.
//
//	disposition = disposition-type *( OWS ";" OWS disposition-parm )
func ParseDisposition[T constraints.Byteseq](s T) (Disposition, error) {
	var d Disposition
	err := parse(disposition, s, func(n *abnf.Node) {
		if tn, ok := n.GetNode("disposition-type"); ok {
			d.Type = strings.ToLower(tn.String())
		}
		d.Params = buildParams(n.GetNodes("parameter"), "parameter-name", "parameter-value")
	})
	return d, errtrace.Wrap(err)
}

// ExtValue is a parsed extended parameter value (RFC 8187 Section 3.2).
// Value holds the percent-decoded bytes in the Charset encoding.
type ExtValue struct {
	Charset  string
	Language string
	Value    []byte
}

// ParseExtValue parses and percent-decodes an extended parameter value.
//
//	ext-value = charset "'" [ language ] "'" value-chars
func ParseExtValue[T constraints.Byteseq](s T) (ExtValue, error) {
	var (
		ev  ExtValue
		raw string
	)
	err := parse(extValue, s, func(n *abnf.Node) {
		if cn, ok := n.GetNode("charset"); ok {
			ev.Charset = cn.String()
		}
		if ln, ok := n.GetNode("language"); ok {
			ev.Language = ln.String()
		}
		if vn, ok := n.GetNode("value-chars"); ok {
			raw = vn.String()
		}
	})
	if err != nil {
		return ExtValue{}, errtrace.Wrap(err)
	}
	v, err := url.PathUnescape(raw)
	if err != nil {
		return ExtValue{}, errtrace.Wrap(newMalformedInputErr(err))
	}
	ev.Value = []byte(v)
	return ev, nil
}

// FormatExtValue renders v as a UTF-8 ext-value with the language tag.
// Bytes other than attr-char are percent-encoded.
func FormatExtValue(lang, v string) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len("UTF-8''") + len(lang) + 3*len(v))
	sb.WriteString("UTF-8'")
	sb.WriteString(lang)
	sb.WriteByte('\'')
	for i := 0; i < len(v); i++ {
		if c := v[i]; isAttrChar(c) {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0x0F])
		}
	}
	return sb.String()
}

func isAttrChar(c byte) bool {
	switch c {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// ParseCredentials parses authorization credentials.
//
//	credentials = auth-scheme [ 1*SP ( token68 / #auth-param ) ]
func ParseCredentials[T constraints.Byteseq](s T) (Credentials, error) {
	var cr Credentials
	err := parse(credentials, s, func(n *abnf.Node) {
		if sn, ok := n.GetNode("auth-scheme"); ok {
			cr.Scheme = sn.String()
		}
		if tn, ok := n.GetNode("token68"); ok {
			cr.Token68 = tn.String()
			return
		}
		cr.Params = buildParams(n.GetNodes("auth-param"), "auth-param-name", "auth-param-value")
	})
	return cr, errtrace.Wrap(err)
}

func buildParams(nodes abnf.Nodes, nameKey, valKey string) []Param {
	if len(nodes) == 0 {
		return nil
	}
	ps := make([]Param, 0, len(nodes))
	for _, pn := range nodes {
		var p Param
		if nn, ok := pn.GetNode(nameKey); ok {
			p.Name = strings.ToLower(nn.String())
		}
		if vn, ok := pn.GetNode(valKey); ok {
			p.Value = Unquote(vn.String())
		}
		ps = append(ps, p)
	}
	return ps
}
