package stdhdr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"braces.dev/errtrace"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Disposition types (RFC 6266 Section 4.2, RFC 7578 Section 4.2).
const (
	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
	DispositionFormData   = "form-data"
)

// ContentDisposition represents the Content-Disposition header field (RFC 6266).
// Type and parameter names are lower-cased after parsing.
// Extended parameters, the ones with a trailing "*" in the name, keep their
// percent-encoded ext-value form in Params.
type ContentDisposition struct {
	Type   string
	Params Params
}

// Attachment creates an attachment disposition with the file name.
// A name that is not printable ASCII is put into filename* as a UTF-8 ext-value
// and into filename with non-ASCII bytes replaced by "_".
func Attachment(filename string) ContentDisposition {
	hdr := ContentDisposition{Type: DispositionAttachment}
	if filename == "" {
		return hdr
	}
	if isPrintableASCII(filename) {
		hdr.Params = Params{{Name: "filename", Value: filename}}
		return hdr
	}
	hdr.Params = Params{
		{Name: "filename", Value: asciiFallback(filename)},
		{Name: "filename*", Value: grammar.FormatExtValue("", filename)},
	}
	return hdr
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func asciiFallback(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			sb.WriteByte('_')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CanonicName returns the canonical name of the header.
func (ContentDisposition) CanonicName() header.Name { return header.NameContentDisposition }

// FormatRaw returns the raw form of the header.
func (hdr ContentDisposition) FormatRaw() header.Raw { return header.Single(hdr.String()) }

// ParseRaw parses the header from the raw form.
// Extended parameter values are checked to be valid ext-values.
//
//	Content-Disposition = disposition-type *( OWS ";" OWS disposition-parm )
func (hdr *ContentDisposition) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(header.NameContentDisposition, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	d, err := grammar.ParseDisposition(v)
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameContentDisposition, header.KindGrammar, "disposition", err))
	}
	for _, p := range d.Params {
		if !strings.HasSuffix(p.Name, "*") {
			continue
		}
		if _, err := grammar.ParseExtValue(p.Value); err != nil {
			return errtrace.Wrap(header.NewParseError(header.NameContentDisposition, header.KindEncoding, "ext-value",
				fmt.Errorf("parameter %q: %w", p.Name, err)))
		}
	}
	*hdr = ContentDisposition{
		Type:   d.Type,
		Params: fromGrammarParams(d.Params),
	}
	return nil
}

// IsAttachment reports whether the disposition type is attachment.
// Unknown types are handled as attachment (RFC 6266 Section 4.2).
func (hdr ContentDisposition) IsAttachment() bool {
	return !util.EqFold(hdr.Type, DispositionInline) && !util.EqFold(hdr.Type, DispositionFormData)
}

// FileName returns the file name suggested by the sender.
//
// The filename* parameter takes precedence if its charset is known, the value is decoded
// to UTF-8 with invalid sequences replaced by U+FFFD. Otherwise the filename parameter is used.
//
// The name is returned as is, it may contain path separators or point to a parent directory.
// Check it with [ValidFileName] before touching the file system.
func (hdr ContentDisposition) FileName() (string, bool) {
	if v, ok := hdr.Params.Get("filename*"); ok {
		if name, ok := decodeExtValue(v); ok {
			return name, true
		}
	}
	return hdr.Params.Get("filename")
}

func decodeExtValue(s string) (string, bool) {
	ev, err := grammar.ParseExtValue(s)
	if err != nil {
		return "", false
	}
	enc, err := ianaindex.MIME.Encoding(ev.Charset)
	if err != nil || enc == nil {
		return "", false
	}
	b, err := enc.NewDecoder().Bytes(ev.Value)
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), true
}

// ValidFileName reports whether name is a bare file name: not empty, not "." or "..",
// without path separators or NUL.
func ValidFileName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

func (hdr ContentDisposition) String() string {
	if len(hdr.Params) == 0 {
		return hdr.Type
	}
	return hdr.Type + "; " + hdr.Params.join("; ")
}

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr ContentDisposition) Format(f fmt.State, verb rune) {
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
		type hideMethods ContentDisposition
		type ContentDisposition hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), ContentDisposition(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr ContentDisposition) Clone() ContentDisposition {
	hdr.Params = hdr.Params.Clone()
	return hdr
}

// Equal compares this header with another for equality.
// The type and parameter names are compared case-insensitively.
func (hdr ContentDisposition) Equal(val any) bool {
	var other ContentDisposition
	switch v := val.(type) {
	case ContentDisposition:
		other = v
	case *ContentDisposition:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(hdr.Type, other.Type) && hdr.Params.Equal(other.Params)
}
