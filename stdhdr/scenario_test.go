package stdhdr_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/mock/gomock"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/testutil/hdrmock"
	"github.com/ghettovoice/httphdr/stdhdr"
)

func TestScenario_ContentLength(t *testing.T) {
	t.Parallel()

	// observers get the stored name with its original casing
	name := header.MustName("content-length")
	ctrl := gomock.NewController(t)
	obs := hdrmock.NewMockObserver(ctrl)
	gomock.InOrder(
		obs.EXPECT().HeaderParsed(name, gomock.Any(), nil),
		obs.EXPECT().HeaderCacheHit(name, gomock.Any()),
	)

	hs := header.New(&header.Options{Observer: obs})
	hs.SetRaw(name, header.Single("42"))

	for range 2 {
		cl, ok, err := header.Get[stdhdr.ContentLength](hs)
		if err != nil || !ok {
			t.Fatalf("header.Get[ContentLength](hs) = _, %v, %v, want true, nil", ok, err)
		}
		if cl != 42 {
			t.Errorf("header.Get[ContentLength](hs) = %d, want 42", cl)
		}
	}
}

func TestScenario_CustomHeaderMerge(t *testing.T) {
	t.Parallel()

	name := header.MustName("X-Custom")
	hs := header.New(nil)
	hs.AppendRawLine(name, []byte("a"))
	hs.AppendRawLine(header.MustName("x-custom"), []byte("b"))

	raw, ok := hs.GetRaw(name)
	if !ok {
		t.Fatalf("hs.GetRaw(X-Custom) = _, false, want true")
	}
	if diff := cmp.Diff(raw.Strings(), []string{"a", "b"}); diff != "" {
		t.Errorf("hs.GetRaw(X-Custom) = %q, want [a b]\ndiff (-got +want):\n%v", raw, diff)
	}
	if hs.Len() != 1 {
		t.Errorf("hs.Len() = %d, want 1", hs.Len())
	}

	var sb strings.Builder
	if _, err := header.NewFormatter(nil).RenderTo(&sb, hs); err != nil {
		t.Fatalf("f.RenderTo() error = %v, want nil", err)
	}
	if want := "X-Custom: a\r\nX-Custom: b\r\n"; sb.String() != want {
		t.Errorf("f.RenderTo() wrote %q, want %q", sb.String(), want)
	}
}

func TestScenario_ContentTypeRender(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	header.Set(hs, stdhdr.MediaType("text/plain"))

	raw, _ := hs.GetRaw(header.NameContentType)
	if diff := cmp.Diff(raw.Strings(), []string{"text/plain"}); diff != "" {
		t.Errorf("hs.GetRaw(Content-Type) = %q, want [text/plain]\ndiff (-got +want):\n%v", raw, diff)
	}

	fields := header.NewFormatter(nil).Render(hs)
	if len(fields) != 1 || fields[0].String() != "Content-Type: text/plain" {
		t.Errorf("f.Render(hs) = %q, want [Content-Type: text/plain]", fields)
	}
}

func TestScenario_DateParseFailure(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.SetRaw(header.NameDate, header.Single("not-a-date"))

	_, ok, err := header.Get[stdhdr.Date](hs)
	if diff := cmp.Diff(err, header.ErrGrammar, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("header.Get[Date](hs) error = %v, want %v\ndiff (-got +want):\n%v", err, header.ErrGrammar, diff)
	}
	if ok {
		t.Errorf("header.Get[Date](hs) ok = true, want false")
	}
	var pe *header.ParseError
	if !errors.As(err, &pe) || !pe.Header.Equal(header.NameDate) || pe.Rule != "HTTP-date" {
		t.Errorf("header.Get[Date](hs) error = %#v, want ParseError of Date on HTTP-date", err)
	}

	raw, ok := hs.GetRaw(header.NameDate)
	if !ok || raw.String() != "not-a-date" {
		t.Errorf("hs.GetRaw(Date) = %q, %v, want [not-a-date], true", raw, ok)
	}
}

func TestHeaders_Parsed(t *testing.T) {
	t.Parallel()

	hs := header.New(nil)
	hs.AppendRawLine(header.MustName("content-length"), []byte("7"))
	hs.AppendRawLine(header.MustName("Accept-Language"), []byte("en, de;q=0.5"))
	hs.AppendRawLine(header.MustName("X-Unknown"), []byte("1"))

	h, ok, err := hs.Parsed(header.NameContentLength)
	if err != nil || !ok {
		t.Fatalf("hs.Parsed(Content-Length) = _, %v, %v, want true, nil", ok, err)
	}
	if diff := cmp.Diff(h, header.Header(stdhdr.ContentLength(7))); diff != "" {
		t.Errorf("hs.Parsed(Content-Length) = %v, want 7\ndiff (-got +want):\n%v", h, diff)
	}

	h, _, err = hs.Parsed(header.NameAcceptLanguage)
	if err != nil {
		t.Fatalf("hs.Parsed(Accept-Language) error = %v, want nil", err)
	}
	want := stdhdr.AcceptLanguage{{Range: "en"}, stdhdr.LangRange("de", 0.5)}
	if !want.Equal(h) {
		t.Errorf("hs.Parsed(Accept-Language) = %v, want %v", h, want)
	}

	// typed and runtime access share the cache slot
	al, _, _ := header.Get[stdhdr.AcceptLanguage](hs)
	if !al.Equal(want) {
		t.Errorf("header.Get[AcceptLanguage](hs) = %v, want %v", al, want)
	}

	_, _, err = hs.Parsed(header.MustName("X-Unknown"))
	if diff := cmp.Diff(err, header.ErrNoCodec, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("hs.Parsed(X-Unknown) error = %v, want %v\ndiff (-got +want):\n%v", err, header.ErrNoCodec, diff)
	}
}

func TestCodecs(t *testing.T) {
	t.Parallel()

	for _, c := range stdhdr.Codecs() {
		got, ok := header.CodecFor(c.Name())
		if !ok {
			t.Errorf("header.CodecFor(%q) = _, false, want registered codec", c.Name())
			continue
		}
		if got.Type() != c.Type() {
			t.Errorf("header.CodecFor(%q).Type() = %v, want %v", c.Name(), got.Type(), c.Type())
		}
		if header.JoinPolicyOf(c.Name()) != c.JoinPolicy() {
			t.Errorf("header.JoinPolicyOf(%q) = %v, want %v", c.Name(), header.JoinPolicyOf(c.Name()), c.JoinPolicy())
		}
	}
}
