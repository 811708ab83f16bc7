package header_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
)

func TestParseError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	cases := []struct {
		name     string
		err      error
		wantMsg  string
		wantIs   error
		wantNot  []error
		wantKind header.ParseErrorKind
	}{
		{
			"grammar",
			header.NewParseError(header.NameDate, header.KindGrammar, "HTTP-date", cause),
			"parse Date: grammar violation (HTTP-date): boom",
			header.ErrGrammar,
			[]error{header.ErrValueCount, header.ErrEncoding},
			header.KindGrammar,
		},
		{
			"value count",
			header.NewParseError(header.NameContentLength, header.KindValueCount, "", cause),
			"parse Content-Length: wrong value count: boom",
			header.ErrValueCount,
			[]error{header.ErrGrammar, header.ErrEncoding},
			header.KindValueCount,
		},
		{
			"encoding",
			header.NewParseError(header.NameAuthorization, header.KindEncoding, "token68", nil),
			"parse Authorization: encoding failure (token68)",
			header.ErrEncoding,
			[]error{header.ErrGrammar, header.ErrValueCount},
			header.KindEncoding,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.err.Error(); got != c.wantMsg {
				t.Errorf("err.Error() = %q, want %q", got, c.wantMsg)
			}
			if diff := cmp.Diff(c.err, c.wantIs, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("errors.Is(err, %v) = false, want true", c.wantIs)
			}
			for _, not := range c.wantNot {
				if errors.Is(c.err, not) {
					t.Errorf("errors.Is(err, %v) = true, want false", not)
				}
			}
			if !errorutil.IsGrammarErr(c.err) {
				t.Errorf("errorutil.IsGrammarErr(err) = false, want true")
			}

			wrapped := fmt.Errorf("request: %w", c.err)
			var pe *header.ParseError
			if !errors.As(wrapped, &pe) {
				t.Fatalf("errors.As(wrapped, *header.ParseError) = false, want true")
			}
			if pe.Kind != c.wantKind {
				t.Errorf("pe.Kind = %v, want %v", pe.Kind, c.wantKind)
			}
		})
	}

	if !errors.Is(header.NewParseError(header.NameDate, header.KindGrammar, "", cause), cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestParseErrorKind_String(t *testing.T) {
	t.Parallel()

	for k, want := range map[header.ParseErrorKind]string{
		header.KindGrammar:    "grammar",
		header.KindValueCount: "value-count",
		header.KindEncoding:   "encoding",
		0:                     "ParseErrorKind(0)",
	} {
		if got := k.String(); got != want {
			t.Errorf("ParseErrorKind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}

func TestScalarValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     header.Raw
		want    string
		wantErr error
	}{
		{"none", nil, "", header.ErrValueCount},
		{"one", header.RawStrings("  42\t"), "42", nil},
		{"two", header.RawStrings("1", "2"), "", header.ErrValueCount},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := header.ScalarValue(nameCount, c.raw)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.ScalarValue() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			if string(got) != c.want {
				t.Errorf("header.ScalarValue() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestListItems(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     header.Raw
		want    []string
		wantErr error
	}{
		{"empty", nil, nil, nil},
		{"lines", header.RawStrings("a", "b"), []string{"a", "b"}, nil},
		{"joined", header.RawStrings("a, b"), []string{"a", "b"}, nil},
		{"mixed", header.RawStrings("a, b", "c"), []string{"a", "b", "c"}, nil},
		{"empty elements", header.RawStrings(" , a,,b ,"), []string{"a", "b"}, nil},
		{"quoted comma", header.RawStrings(`a="x, y", b`), []string{`a="x, y"`, "b"}, nil},
		{"unclosed quote", header.RawStrings(`a="x, y`), nil, header.ErrGrammar},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			items, err := header.ListItems(nameTags, c.raw)
			if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("header.ListItems() error = %v, want %v\ndiff (-got +want):\n%v", err, c.wantErr, diff)
			}
			var got []string
			for _, it := range items {
				got = append(got, string(it))
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("header.ListItems() = %q, want %q\ndiff (-got +want):\n%v", got, c.want, diff)
			}
		})
	}
}

// foreignHdr fails with the error it holds, bypassing ParseError construction.
type foreignHdr struct{ err error }

var nameForeign = header.MustName("X-Foreign")

func (foreignHdr) CanonicName() header.Name { return nameForeign }

func (foreignHdr) FormatRaw() header.Raw { return header.Single("x") }

func (h *foreignHdr) ParseRaw(header.Raw) error { return h.err }

type foreignCodec struct {
	header.Codec
	err error
}

func (c foreignCodec) Parse(raw header.Raw) (header.Header, error) {
	h := foreignHdr{err: c.err}
	if err := h.ParseRaw(raw); err != nil {
		return nil, err
	}
	return h, nil
}

func TestLookup_ForeignErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"grammar", fmt.Errorf("wrap: %w", grammar.ErrMalformedInput), header.ErrGrammar},
		{"other", errors.New("boom"), header.ErrEncoding},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			hs := header.New(nil)
			hs.SetRaw(nameForeign, header.Single("x"))
			codec := foreignCodec{Codec: header.CodecOf[foreignHdr](), err: c.err}

			_, _, err := hs.Lookup(codec)
			if diff := cmp.Diff(err, c.want, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("hs.Lookup(codec) error = %v, want %v\ndiff (-got +want):\n%v", err, c.want, diff)
			}
			if !errors.Is(err, c.err) {
				t.Errorf("hs.Lookup(codec) error = %v, want wrapping %v", err, c.err)
			}
		})
	}
}
