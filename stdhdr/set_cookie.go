package stdhdr

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
)

// SetCookie represents the Set-Cookie header field.
// Every cookie is a separate header line, cookies are never joined
// since the Expires attribute contains a comma.
type SetCookie []*http.Cookie

// Cookies creates a Set-Cookie header from the cookies.
// It panics if a cookie is nil or fails [http.Cookie.Valid].
func Cookies(cookies ...*http.Cookie) SetCookie {
	hdr := make(SetCookie, 0, len(cookies))
	for _, c := range cookies {
		if c == nil {
			panic(errorutil.NewInvalidArgumentError("nil cookie"))
		}
		if err := c.Valid(); err != nil {
			panic(errorutil.NewInvalidArgumentError(err))
		}
		hdr = append(hdr, c)
	}
	return hdr
}

// Valid reports the first cookie that can't be rendered losslessly.
func (hdr SetCookie) Valid() error {
	for i, c := range hdr {
		if c == nil {
			return errtrace.Wrap(errorutil.Errorf("nil cookie at %d", i))
		}
		if err := c.Valid(); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}

// CanonicName returns the canonical name of the header.
func (SetCookie) CanonicName() header.Name { return header.NameSetCookie }

// JoinPolicy returns the policy used to render the header.
func (SetCookie) JoinPolicy() header.JoinPolicy { return header.OneLinePerValue }

// FormatRaw returns the raw form of the header, one value per cookie.
// Cookies with invalid names are skipped, use [Cookies] or [SetCookie.Valid] to catch them.
func (hdr SetCookie) FormatRaw() header.Raw {
	raw := make(header.Raw, 0, len(hdr))
	for _, c := range hdr {
		if c == nil {
			continue
		}
		if s := c.String(); s != "" {
			raw.Push([]byte(s))
		}
	}
	return raw
}

// ParseRaw parses the header from the raw form, every value is one cookie.
// A single empty value is an empty list, the form an empty SetCookie is stored with.
//
//	Set-Cookie = set-cookie-string
func (hdr *SetCookie) ParseRaw(raw header.Raw) error {
	if raw.Len() == 0 {
		return errtrace.Wrap(header.NewParseError(header.NameSetCookie, header.KindValueCount, "",
			errorutil.Error("no cookies")))
	}
	if raw.Len() == 1 && len(raw.At(0)) == 0 {
		*hdr = SetCookie{}
		return nil
	}
	cookies := make(SetCookie, 0, raw.Len())
	for v := range raw.All() {
		c, err := http.ParseSetCookie(string(v))
		if err != nil {
			return errtrace.Wrap(header.NewParseError(header.NameSetCookie, header.KindGrammar, "set-cookie-string", err))
		}
		cookies = append(cookies, c)
	}
	*hdr = cookies
	return nil
}

// Get returns the first cookie with the name.
func (hdr SetCookie) Get(name string) (*http.Cookie, bool) {
	for _, c := range hdr {
		if c != nil && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (hdr SetCookie) String() string { return hdr.FormatRaw().String() }

// Format implements fmt.Formatter for custom formatting of the header.
// Cookie values are never printed.
func (hdr SetCookie) Format(f fmt.State, verb rune) {
	names := make([]string, 0, len(hdr))
	for _, c := range hdr {
		if c != nil {
			names = append(names, c.Name+"="+header.RedactedValue)
		}
	}
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(fmt.Sprint(names)))
	default:
		if f.Flag('+') {
			fmt.Fprint(f, hdr.CanonicName(), ": ", names)
			return
		}
		fmt.Fprint(f, names)
	}
}

// Clone returns a deep copy of the header.
func (hdr SetCookie) Clone() SetCookie {
	if hdr == nil {
		return nil
	}
	cookies := make(SetCookie, len(hdr))
	for i, c := range hdr {
		if c == nil {
			continue
		}
		cc := *c
		cc.Unparsed = slices.Clone(c.Unparsed)
		cookies[i] = &cc
	}
	return cookies
}

// Equal compares cookies attribute by attribute, raw text is ignored.
// Attributes are compared in their rendered form, so a negative MaxAge equals -1
// and Expires is compared to the second.
func (hdr SetCookie) Equal(val any) bool {
	var other SetCookie
	switch v := val.(type) {
	case SetCookie:
		other = v
	case *SetCookie:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, cookieEqual)
}

func cookieEqual(c1, c2 *http.Cookie) bool {
	if c1 == nil || c2 == nil {
		return c1 == c2
	}
	return c1.Name == c2.Name &&
		c1.Value == c2.Value &&
		cookieQuoted(c1) == cookieQuoted(c2) &&
		c1.Path == c2.Path &&
		c1.Domain == c2.Domain &&
		c1.Expires.Truncate(time.Second).Equal(c2.Expires.Truncate(time.Second)) &&
		cookieMaxAge(c1) == cookieMaxAge(c2) &&
		c1.Secure == c2.Secure &&
		c1.HttpOnly == c2.HttpOnly &&
		cookieSameSite(c1) == cookieSameSite(c2) &&
		c1.Partitioned == c2.Partitioned
}

// cookieQuoted mirrors [http.Cookie.String] which quotes values with spaces or commas.
func cookieQuoted(c *http.Cookie) bool {
	return c.Quoted || strings.ContainsAny(c.Value, " ,")
}

func cookieMaxAge(c *http.Cookie) int {
	if c.MaxAge < 0 {
		return -1
	}
	return c.MaxAge
}

// cookieSameSite treats the default mode as absent, it is rendered without the attribute.
func cookieSameSite(c *http.Cookie) http.SameSite {
	if c.SameSite == http.SameSiteDefaultMode {
		return 0
	}
	return c.SameSite
}
