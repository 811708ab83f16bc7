package header

import (
	"io"

	"braces.dev/errtrace"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/ioutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// RedactedValue replaces values of sensitive headers in debug output.
const RedactedValue = "***"

// IsSensitive reports whether the header carries credentials.
// It is the default redaction predicate of [Formatter].
func IsSensitive(name Name) bool {
	switch name.Key() {
	case NameAuthorization.Key(), NameProxyAuthorization.Key(), NameCookie.Key(), NameSetCookie.Key():
		return true
	default:
		return false
	}
}

// Field is one wire header line.
type Field struct {
	Name, Value []byte
}

func (f Field) String() string { return string(f.Name) + ": " + string(f.Value) }

// Validate checks that the value can be put on the wire as is.
// CR, LF, NUL and other CTLs except HTAB are rejected.
func (f Field) Validate() error {
	if !httpguts.ValidHeaderFieldValue(string(f.Value)) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrInvalidValue, "%q", f.Name))
	}
	return nil
}

// FormatOptions are the options of [Formatter].
// Nil options are valid and mean defaults.
type FormatOptions struct {
	// CanonicNames renders names in canonical title-case instead of their stored casing.
	CanonicNames bool
	// Redact tells which headers are masked in debug output.
	// If nil, [IsSensitive] is used.
	Redact func(Name) bool
}

func (o *FormatOptions) canonic() bool { return o != nil && o.CanonicNames }

func (o *FormatOptions) redact() func(Name) bool {
	if o == nil || o.Redact == nil {
		return IsSensitive
	}
	return o.Redact
}

// Formatter renders [Headers] to wire lines.
// A nil Formatter uses default options.
type Formatter struct {
	opts *FormatOptions
}

// NewFormatter creates a new formatter.
func NewFormatter(opts *FormatOptions) *Formatter {
	return &Formatter{opts: opts}
}

func (f *Formatter) options() *FormatOptions {
	if f == nil {
		return nil
	}
	return f.opts
}

func (f *Formatter) name(n Name) []byte {
	if f.options().canonic() {
		return n.Canonic().Display()
	}
	return n.Display()
}

// Render returns the wire lines of hs in insertion order.
//
// The values of every header are joined according to its join policy:
// the policy of the typed value stored with [Set], otherwise the policy registered
// with [RegisterJoinPolicy], otherwise [OneLinePerValue].
func (f *Formatter) Render(hs *Headers) []Field {
	return f.render(hs, nil)
}

// RenderDebug is like [Formatter.Render] but masks values of sensitive headers
// with [RedactedValue]. It is meant for logs, not for the wire.
func (f *Formatter) RenderDebug(hs *Headers) []Field {
	return f.render(hs, f.options().redact())
}

func (f *Formatter) render(hs *Headers, redact func(Name) bool) []Field {
	if hs == nil {
		return nil
	}
	fields := make([]Field, 0, len(hs.entries))
	for _, e := range hs.entries {
		fields = f.appendFields(fields, e.name, e.raw, e.joinPolicy(), redact)
	}
	return fields
}

func (f *Formatter) appendFields(fields []Field, name Name, raw Raw, policy JoinPolicy, redact func(Name) bool) []Field {
	disp := f.name(name)
	if redact != nil && redact(name) {
		// one masked line per header, the number of values is not exposed either
		return append(fields, Field{Name: disp, Value: []byte(RedactedValue)})
	}
	for v := range raw.Lines(policy) {
		fields = append(fields, Field{Name: disp, Value: v})
	}
	return fields
}

// RenderHeader returns the wire lines of a single typed header.
func (f *Formatter) RenderHeader(h Header) []Field {
	if h == nil {
		return nil
	}
	raw := h.FormatRaw()
	if raw.Len() == 0 {
		raw = Raw{[]byte{}}
	}
	return f.appendFields(nil, h.CanonicName(), raw, policyOf(h), nil)
}

// RenderTo writes the wire lines of hs to w.
// Every line is terminated by CRLF, the blank line ending the header section is not written.
// If a value fails [Field.Validate], nothing is written and the error matches [ErrInvalidValue].
func (f *Formatter) RenderTo(w io.Writer, hs *Headers) (num int, err error) {
	fields := f.Render(hs)
	for _, fld := range fields {
		if err := fld.Validate(); err != nil {
			return 0, errtrace.Wrap(err)
		}
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	for _, fld := range fields {
		cw.WriteField(fld.Name, fld.Value)
	}
	return errtrace.Wrap2(cw.Result())
}

// Debug returns the redacted wire form of hs as a string.
func (f *Formatter) Debug(hs *Headers) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	cw := ioutil.GetCountingWriter(sb)
	defer ioutil.FreeCountingWriter(cw)
	for _, fld := range f.RenderDebug(hs) {
		cw.WriteField(fld.Name, fld.Value)
	}
	return sb.String()
}
