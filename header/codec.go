package header

import (
	"iter"
	"reflect"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/syncutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Header is a typed HTTP header value.
//
// CanonicName must return a fixed name and must work on the zero value,
// since the name is used to find the header in [Headers] before anything is parsed.
// FormatRaw must not fail for a value that was constructed successfully.
type Header interface {
	CanonicName() Name
	FormatRaw() Raw
}

// RawParser is the constraint satisfied by a pointer to a typed header H
// that can parse itself from the raw form.
//
// ParseRaw must accept both wire forms of list headers, repeated lines and comma-joined values,
// and must reject more than one value for scalar headers with a [KindValueCount] [ParseError].
type RawParser[H any] interface {
	*H
	Header
	ParseRaw(raw Raw) error
}

// Codec is the runtime form of a typed header.
// It is used when the header type is not known at compile time.
type Codec interface {
	// Name returns the canonical name of the header.
	Name() Name
	// Type returns the type of values returned by Parse.
	Type() reflect.Type
	// Parse parses the raw form into a new typed value.
	Parse(raw Raw) (Header, error)
	// JoinPolicy returns the policy used to render the header.
	JoinPolicy() JoinPolicy
}

type typedCodec[H Header, P RawParser[H]] struct {
	name   Name
	typ    reflect.Type
	policy JoinPolicy
}

// CodecOf returns a [Codec] of the typed header H.
func CodecOf[H Header, P RawParser[H]]() Codec {
	var zero H
	return typedCodec[H, P]{
		name:   zero.CanonicName(),
		typ:    reflect.TypeFor[H](),
		policy: policyOf(zero),
	}
}

func (c typedCodec[H, P]) Name() Name { return c.name }

func (c typedCodec[H, P]) Type() reflect.Type { return c.typ }

func (c typedCodec[H, P]) JoinPolicy() JoinPolicy { return c.policy }

func (c typedCodec[H, P]) Parse(raw Raw) (Header, error) {
	var h H
	if err := P(&h).ParseRaw(raw); err != nil {
		return nil, errtrace.Wrap(asParseError(c.name, err))
	}
	return h, nil
}

var codecs syncutil.Registry[Codec]

// RegisterCodec registers the codec for [Headers.Parsed] and sets its join policy
// with [RegisterJoinPolicy]. A codec registered later for the same name replaces the previous one.
// It is safe for concurrent use, but registration should finish before headers are parsed.
func RegisterCodec(c Codec) {
	codecs.Store(c.Name().Key(), c)
	RegisterJoinPolicy(c.Name(), c.JoinPolicy())
}

// UnregisterCodec removes the codec registered for the name.
func UnregisterCodec(name Name) {
	codecs.Delete(name.Key())
}

// CodecFor returns the codec registered for the name.
func CodecFor(name Name) (Codec, bool) {
	return codecs.Load(name.Key())
}

// Codecs returns a sequence over the registered codecs ordered by header name.
func Codecs() iter.Seq[Codec] {
	return func(yield func(Codec) bool) {
		for _, c := range codecs.Sorted() {
			if !yield(c) {
				return
			}
		}
	}
}

// ScalarValue returns the only value of raw with OWS trimmed.
// It fails with a [KindValueCount] [ParseError] if raw has not exactly one value.
// Helper for codecs of scalar headers.
func ScalarValue(hdr Name, raw Raw) ([]byte, error) {
	if raw.Len() != 1 {
		return nil, errtrace.Wrap(NewParseError(hdr, KindValueCount, "",
			errorutil.Errorf("got %d values, want 1", raw.Len())))
	}
	return util.TrimOWS(raw[0]), nil
}

// ListItems splits every value of raw into list elements (RFC 9110 Section 5.6.1).
// Repeated lines and comma-joined values give the same elements.
// Commas inside quoted strings don't split, empty elements are skipped.
// Helper for codecs of list headers.
func ListItems(hdr Name, raw Raw) ([][]byte, error) {
	var items [][]byte
	for _, v := range raw {
		vi, err := grammar.SplitList(v)
		if err != nil {
			return nil, errtrace.Wrap(NewParseError(hdr, KindGrammar, "#element", err))
		}
		items = append(items, vi...)
	}
	return items, nil
}
