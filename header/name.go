package header

import (
	"log/slog"
	"net/textproto"

	"braces.dev/errtrace"
	"github.com/cespare/xxhash/v2"

	"github.com/ghettovoice/httphdr/internal/constraints"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Name is a case-insensitive HTTP header field name.
//
// Name keeps the original casing for display and compares by the ASCII lower-case key.
// The zero Name is invalid and is never stored by [Headers].
// Use [ParseName] or [MustName] to construct a Name.
type Name struct {
	disp string
	key  string
	hash uint64
}

// ParseName validates s against the field-name grammar and returns a new Name.
//
//	field-name = token
func ParseName[T constraints.Byteseq](s T) (Name, error) {
	if len(s) == 0 {
		return Name{}, errtrace.Wrap(&InvalidNameError{Err: grammar.ErrEmptyInput})
	}
	if i := grammar.IndexNonToken(s); i >= 0 {
		return Name{}, errtrace.Wrap(&InvalidNameError{Name: string(s), Pos: i, Err: grammar.ErrMalformedInput})
	}
	return newName(string(s)), nil
}

// MustName is like [ParseName] but panics on invalid input.
// It is meant for names given as literals.
func MustName(s string) Name { return util.Must2(ParseName(s)) }

func newName(disp string) Name {
	key := util.ASCIILower(disp)
	if n, ok := knownNames[key]; ok {
		// reuse interned key and hash, keep the given casing
		return Name{disp: disp, key: n.key, hash: n.hash}
	}
	return Name{disp: disp, key: key, hash: xxhash.Sum64String(key)}
}

// Key returns the ASCII lower-case form of the name used for comparison.
func (n Name) Key() string { return n.key }

// Hash returns the 64-bit hash of [Name.Key].
func (n Name) Hash() uint64 { return n.hash }

// Display returns the name with the casing it was created with.
func (n Name) Display() []byte { return []byte(n.disp) }

func (n Name) String() string { return n.disp }

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool { return n.key == "" }

// IsValid reports whether n is a valid field name.
func (n Name) IsValid() bool { return grammar.IsToken(n.disp) && n.key != "" }

// Equal reports whether n and val are the same names ignoring ASCII case.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return n.hash == other.hash && n.key == other.key
}

func canonicException(disp string) string {
	switch disp {
	case "Content-Md5":
		return "Content-MD5"
	case "Dnt":
		return "DNT"
	case "Etag":
		return "ETag"
	case "Te":
		return "TE"
	case "Www-Authenticate":
		return "WWW-Authenticate"
	case "X-Dns-Prefetch-Control":
		return "X-DNS-Prefetch-Control"
	case "X-Xss-Protection":
		return "X-XSS-Protection"
	case "Sec-Websocket-Accept", "Sec-Websocket-Extensions", "Sec-Websocket-Key",
		"Sec-Websocket-Protocol", "Sec-Websocket-Version":
		return "Sec-WebSocket-" + disp[len("Sec-Websocket-"):]
	default:
		return disp
	}
}

// Canonic returns the name in canonical title-case.
// The canonicalization converts the first letter and any letter following a hyphen to upper case,
// the rest are converted to lowercase. Well-known acronyms keep their usual casing,
// for example "www-authenticate" converts to "WWW-Authenticate".
func (n Name) Canonic() Name {
	if n.IsZero() {
		return n
	}
	return Name{disp: canonicException(textproto.CanonicalMIMEHeaderKey(n.disp)), key: n.key, hash: n.hash}
}

func (n Name) MarshalText() ([]byte, error) { return []byte(n.disp), nil }

func (n *Name) UnmarshalText(text []byte) error {
	v, err := ParseName(text)
	if err != nil {
		return errtrace.Wrap(err)
	}
	*n = v
	return nil
}

func (n Name) LogValue() slog.Value { return slog.StringValue(n.disp) }

// Well-known header names.
var (
	NameAccept             = MustName("Accept")
	NameAcceptEncoding     = MustName("Accept-Encoding")
	NameAcceptLanguage     = MustName("Accept-Language")
	NameAllow              = MustName("Allow")
	NameAuthorization      = MustName("Authorization")
	NameCacheControl       = MustName("Cache-Control")
	NameConnection         = MustName("Connection")
	NameContentDisposition = MustName("Content-Disposition")
	NameContentEncoding    = MustName("Content-Encoding")
	NameContentLanguage    = MustName("Content-Language")
	NameContentLength      = MustName("Content-Length")
	NameContentType        = MustName("Content-Type")
	NameCookie             = MustName("Cookie")
	NameDate               = MustName("Date")
	NameETag               = MustName("ETag")
	NameHost               = MustName("Host")
	NameIfMatch            = MustName("If-Match")
	NameIfNoneMatch        = MustName("If-None-Match")
	NameLocation           = MustName("Location")
	NameProxyAuthorization = MustName("Proxy-Authorization")
	NameServer             = MustName("Server")
	NameSetCookie          = MustName("Set-Cookie")
	NameTE                 = MustName("TE")
	NameTrailer            = MustName("Trailer")
	NameTransferEncoding   = MustName("Transfer-Encoding")
	NameUpgrade            = MustName("Upgrade")
	NameUserAgent          = MustName("User-Agent")
	NameVary               = MustName("Vary")
	NameVia                = MustName("Via")
	NameWWWAuthenticate    = MustName("WWW-Authenticate")
)

var knownNames = func() map[string]Name {
	names := []string{
		"Accept", "Accept-Encoding", "Accept-Language", "Allow", "Authorization",
		"Cache-Control", "Connection", "Content-Encoding", "Content-Language", "Content-Length",
		"Content-Type", "Cookie", "Date", "ETag", "Host", "If-Match", "If-None-Match", "Location",
		"Proxy-Authorization", "Server", "Set-Cookie", "TE", "Trailer", "Transfer-Encoding",
		"Upgrade", "User-Agent", "Vary", "Via", "WWW-Authenticate",
	}
	m := make(map[string]Name, len(names))
	for _, s := range names {
		key := util.ASCIILower(s)
		m[key] = Name{disp: s, key: key, hash: xxhash.Sum64String(key)}
	}
	return m
}()
