package stdhdr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// SchemeBasic is the name of the Basic authentication scheme (RFC 7617).
const SchemeBasic = "Basic"

// Authorization represents the Authorization header field.
//
// Credentials carry either Token68 or Params. For the Basic scheme the token is decoded
// into Username and Password on parsing.
type Authorization struct {
	Scheme  string
	Token68 string
	Params  Params

	Username, Password string
}

// BasicAuth creates Basic credentials for the user.
// It panics if the user-id contains a colon or either part contains control characters (RFC 7617 Section 2).
func BasicAuth(user, pass string) Authorization {
	switch {
	case strings.Contains(user, ":"):
		panic(errorutil.NewInvalidArgumentError("colon in basic user-id"))
	case strings.ContainsFunc(user+pass, isCTL):
		panic(errorutil.NewInvalidArgumentError("control character in basic credentials"))
	}
	return Authorization{
		Scheme:   SchemeBasic,
		Token68:  base64.StdEncoding.EncodeToString([]byte(user + ":" + pass)),
		Username: user,
		Password: pass,
	}
}

// CanonicName returns the canonical name of the header.
func (Authorization) CanonicName() header.Name { return header.NameAuthorization }

// FormatRaw returns the raw form of the header.
func (hdr Authorization) FormatRaw() header.Raw { return header.Single(hdr.String()) }

// ParseRaw parses the header from the raw form.
//
//	Authorization = credentials
//	credentials   = auth-scheme [ 1*SP ( token68 / #auth-param ) ]
func (hdr *Authorization) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(header.NameAuthorization, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	cr, err := grammar.ParseCredentials(v)
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameAuthorization, header.KindGrammar, "credentials", err))
	}

	auth := Authorization{
		Scheme:  cr.Scheme,
		Token68: cr.Token68,
		Params:  fromGrammarParams(cr.Params),
	}
	if auth.IsBasic() {
		if auth.Username, auth.Password, err = decodeBasic(auth.Token68); err != nil {
			return errtrace.Wrap(err)
		}
	}
	*hdr = auth
	return nil
}

func isCTL(r rune) bool { return r < 0x20 || r == 0x7F }

func decodeBasic(token string) (user, pass string, err error) {
	if token == "" {
		return "", "", errtrace.Wrap(header.NewParseError(header.NameAuthorization, header.KindGrammar, "token68",
			errorutil.Error("missing basic credentials")))
	}
	b, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", errtrace.Wrap(header.NewParseError(header.NameAuthorization, header.KindEncoding, "token68", err))
	}
	u, p, ok := bytes.Cut(b, []byte(":"))
	if !ok {
		return "", "", errtrace.Wrap(header.NewParseError(header.NameAuthorization, header.KindEncoding, "user-pass",
			errorutil.Error("missing colon separator")))
	}
	return string(u), string(p), nil
}

// IsBasic reports whether the credentials use the Basic scheme.
func (hdr Authorization) IsBasic() bool { return util.EqFold(hdr.Scheme, SchemeBasic) }

func (hdr Authorization) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	sb.WriteString(hdr.Scheme)
	switch {
	case hdr.Token68 != "":
		sb.WriteByte(' ')
		sb.WriteString(hdr.Token68)
	case len(hdr.Params) > 0:
		sb.WriteByte(' ')
		sb.WriteString(hdr.Params.join(", "))
	}
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the header.
// Credentials are never printed, only the scheme.
func (hdr Authorization) Format(f fmt.State, verb rune) {
	s := hdr.Scheme
	if hdr.Token68 != "" || len(hdr.Params) > 0 {
		s += " " + header.RedactedValue
	}
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(s))
	default:
		if f.Flag('+') {
			fmt.Fprint(f, hdr.CanonicName(), ": ", s)
			return
		}
		fmt.Fprint(f, s)
	}
}

// Clone returns a copy of the header.
func (hdr Authorization) Clone() Authorization {
	hdr.Params = hdr.Params.Clone()
	return hdr
}

// Equal compares this header with another for equality.
// The scheme is compared case-insensitively.
func (hdr Authorization) Equal(val any) bool {
	var other Authorization
	switch v := val.(type) {
	case Authorization:
		other = v
	case *Authorization:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return strings.EqualFold(hdr.Scheme, other.Scheme) &&
		hdr.Token68 == other.Token68 &&
		hdr.Params.Equal(other.Params) &&
		hdr.Username == other.Username &&
		hdr.Password == other.Password
}
