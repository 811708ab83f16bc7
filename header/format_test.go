package header_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
)

func fieldStrings(fields []header.Field) []string {
	var ss []string
	for _, f := range fields {
		ss = append(ss, f.String())
	}
	return ss
}

func TestFormatter_Render(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.MustName("host"), []byte("example.com"))
	hs.AppendRawLine(header.MustName("Accept"), []byte("text/html"))
	hs.AppendRawLine(header.MustName("Set-Cookie"), []byte("a=1; Expires=Wed, 21 Oct 2015 07:28:00 GMT"))
	hs.AppendRawLine(header.MustName("accept"), []byte("application/json"))
	hs.AppendRawLine(header.MustName("Set-Cookie"), []byte("b=2"))
	hs.AppendRawLine(header.MustName("X-Custom"), []byte("1"))
	hs.AppendRawLine(header.MustName("X-Custom"), []byte("2"))
	header.Set(hs, tagsHdr{"t1", "t2"})

	cases := []struct {
		name string
		opts *header.FormatOptions
		want []string
	}{
		{
			"stored casing",
			nil,
			[]string{
				"host: example.com",
				"Accept: text/html, application/json",
				"Set-Cookie: a=1; Expires=Wed, 21 Oct 2015 07:28:00 GMT",
				"Set-Cookie: b=2",
				"X-Custom: 1",
				"X-Custom: 2",
				"X-Tags: t1, t2",
			},
		},
		{
			"canonic names",
			&header.FormatOptions{CanonicNames: true},
			[]string{
				"Host: example.com",
				"Accept: text/html, application/json",
				"Set-Cookie: a=1; Expires=Wed, 21 Oct 2015 07:28:00 GMT",
				"Set-Cookie: b=2",
				"X-Custom: 1",
				"X-Custom: 2",
				"X-Tags: t1, t2",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := fieldStrings(header.NewFormatter(c.opts).Render(hs))
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("f.Render(hs) = %q, want %q\ndiff (-got +want):\n%v", got, c.want, diff)
			}
		})
	}
}

func TestFormatter_Render_RawAfterTypedSet(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	header.Set(hs, tagsHdr{"a", "b"})
	// raw mutation drops the typed join policy, X-Tags has no registered one
	hs.SetRaw(nameTags, header.RawStrings("a", "b"))

	got := fieldStrings((*header.Formatter)(nil).Render(hs))
	want := []string{"X-Tags: a", "X-Tags: b"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("f.Render(hs) = %q, want %q\ndiff (-got +want):\n%v", got, want, diff)
	}
}

func TestFormatter_Render_RegisteredPolicy(t *testing.T) {
	t.Parallel()

	name := header.MustName("X-Registered-List")
	header.RegisterJoinPolicy(name, header.CommaJoinSingleLine)
	if got := header.JoinPolicyOf(header.MustName("x-registered-list")); got != header.CommaJoinSingleLine {
		t.Fatalf("header.JoinPolicyOf() = %v, want %v", got, header.CommaJoinSingleLine)
	}
	if got := header.JoinPolicyOf(header.MustName("X-Not-Registered")); got != header.OneLinePerValue {
		t.Errorf("header.JoinPolicyOf(unknown) = %v, want %v", got, header.OneLinePerValue)
	}

	hs := header.New(nil)
	hs.AppendRawLine(name, []byte("a"))
	hs.AppendRawLine(name, []byte("b"))

	got := fieldStrings(header.NewFormatter(nil).Render(hs))
	if diff := cmp.Diff(got, []string{"X-Registered-List: a, b"}); diff != "" {
		t.Errorf("f.Render(hs) = %q\ndiff (-got +want):\n%v", got, diff)
	}
}

func TestFormatter_RenderDebug(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.NameAuthorization, []byte("Basic dXNlcjpwYXNz"))
	hs.AppendRawLine(header.MustName("Cookie"), []byte("sid=1"))
	hs.AppendRawLine(header.MustName("cookie"), []byte("sid=2"))
	hs.AppendRawLine(header.MustName("X-Api-Key"), []byte("secret"))
	hs.AppendRawLine(header.NameHost, []byte("example.com"))

	cases := []struct {
		name string
		opts *header.FormatOptions
		want []string
	}{
		{
			"default redaction",
			nil,
			[]string{
				"Authorization: ***",
				"Cookie: ***",
				"X-Api-Key: secret",
				"Host: example.com",
			},
		},
		{
			"custom redaction",
			&header.FormatOptions{
				Redact: func(n header.Name) bool { return header.IsSensitive(n) || n.Key() == "x-api-key" },
			},
			[]string{
				"Authorization: ***",
				"Cookie: ***",
				"X-Api-Key: ***",
				"Host: example.com",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			f := header.NewFormatter(c.opts)
			got := fieldStrings(f.RenderDebug(hs))
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("f.RenderDebug(hs) = %q, want %q\ndiff (-got +want):\n%v", got, c.want, diff)
			}
			if want := strings.Join(c.want, "\r\n") + "\r\n"; f.Debug(hs) != want {
				t.Errorf("f.Debug(hs) = %q, want %q", f.Debug(hs), want)
			}

			// the wire path is never redacted
			wire := fieldStrings(f.Render(hs))
			if wire[0] != "Authorization: Basic dXNlcjpwYXNz" {
				t.Errorf("f.Render(hs)[0] = %q, want unredacted credentials", wire[0])
			}
		})
	}
}

func TestFormatter_RenderTo(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.NameHost, []byte("example.com"))
	header.Set(hs, countHdr(10))

	var sb strings.Builder
	n, err := header.NewFormatter(nil).RenderTo(&sb, hs)
	if err != nil {
		t.Fatalf("f.RenderTo(sb, hs) error = %v, want nil", err)
	}
	want := "Host: example.com\r\nX-Count: 10\r\n"
	if got := sb.String(); got != want {
		t.Errorf("sb.String() = %q, want %q", got, want)
	}
	if n != len(want) {
		t.Errorf("f.RenderTo(sb, hs) = %d, want %d", n, len(want))
	}
}

func TestFormatter_RenderTo_InvalidValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
	}{
		{"crlf injection", "a\r\nEvil: 1"},
		{"bare lf", "a\nb"},
		{"nul", "a\x00b"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hs := header.New(nil)
			hs.AppendRawLine(header.NameHost, []byte("example.com"))
			hs.SetRaw(header.MustName("X-A"), header.Single(c.value))

			var sb strings.Builder
			n, err := header.NewFormatter(nil).RenderTo(&sb, hs)
			if diff := cmp.Diff(err, header.ErrInvalidValue, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("f.RenderTo(sb, hs) error = %v, want %v\ndiff (-got +want):\n%v", err, header.ErrInvalidValue, diff)
			}
			if n != 0 || sb.Len() != 0 {
				t.Errorf("f.RenderTo(sb, hs) wrote %d bytes %q, want nothing", n, sb.String())
			}
		})
	}
}

func TestFormatter_Render_Copy(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.NameHost, []byte("example.com"))
	for _, fld := range header.NewFormatter(nil).Render(hs) {
		fld.Value[0] = 'X'
	}

	raw, _ := hs.GetRaw(header.NameHost)
	if !raw.Equal(header.RawStrings("example.com")) {
		t.Errorf("hs.GetRaw(Host) = %q after write to rendered field, want [example.com]", raw)
	}
}

func TestField_Validate(t *testing.T) {
	t.Parallel()

	if err := (header.Field{Name: []byte("X-A"), Value: []byte("a\tb c")}).Validate(); err != nil {
		t.Errorf("Field{a\\tb c}.Validate() = %v, want nil", err)
	}
	if err := (header.Field{Name: []byte("X-A"), Value: []byte("a\rb")}).Validate(); !errors.Is(err, header.ErrInvalidValue) {
		t.Errorf("Field{a\\rb}.Validate() = %v, want %v", err, header.ErrInvalidValue)
	}
}

type failWriter struct{ after int }

var errWrite = errors.New("write failed")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errWrite
	}
	w.after--
	return len(p), nil
}

func TestFormatter_RenderTo_Error(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.NameHost, []byte("example.com"))

	_, err := header.NewFormatter(nil).RenderTo(&failWriter{after: 1}, hs)
	if diff := cmp.Diff(err, errWrite, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("f.RenderTo(w, hs) error = %v, want %v\ndiff (-got +want):\n%v", err, errWrite, diff)
	}
}

func TestFormatter_RenderHeader(t *testing.T) {
	t.Parallel()

	f := header.NewFormatter(nil)
	cases := []struct {
		name string
		hdr  header.Header
		want []string
	}{
		{"nil", nil, nil},
		{"scalar", countHdr(3), []string{"X-Count: 3"}},
		{"list", tagsHdr{"a", "b"}, []string{"X-Tags: a, b"}},
		{"empty", emptyHdr{}, []string{"X-Empty: "}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := fieldStrings(f.RenderHeader(c.hdr))
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("f.RenderHeader(hdr) = %q, want %q\ndiff (-got +want):\n%v", got, c.want, diff)
			}
		})
	}
}

func TestIsSensitive(t *testing.T) {
	t.Parallel()

	for n, want := range map[string]bool{
		"authorization":       true,
		"Proxy-Authorization": true,
		"COOKIE":              true,
		"Set-Cookie":          true,
		"Host":                false,
		"WWW-Authenticate":    false,
	} {
		if got := header.IsSensitive(header.MustName(n)); got != want {
			t.Errorf("header.IsSensitive(%q) = %v, want %v", n, got, want)
		}
	}
}

func TestJoinPolicy_String(t *testing.T) {
	t.Parallel()

	if got := header.CommaJoinSingleLine.String(); got != "comma-join-single-line" {
		t.Errorf("CommaJoinSingleLine.String() = %q", got)
	}
	if got := header.JoinPolicy(9).String(); got != "JoinPolicy(9)" {
		t.Errorf("JoinPolicy(9).String() = %q", got)
	}
}
