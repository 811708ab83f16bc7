package header_test

import (
	"slices"
	"strconv"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/grammar"
)

var (
	nameCount = header.MustName("X-Count")
	nameTags  = header.MustName("X-Tags")
	nameEmpty = header.MustName("X-Empty")
)

// countHdr is a scalar header with a decimal value.
type countHdr uint64

func (countHdr) CanonicName() header.Name { return nameCount }

func (h countHdr) FormatRaw() header.Raw {
	return header.Single(strconv.FormatUint(uint64(h), 10))
}

func (h *countHdr) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(nameCount, raw)
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return header.NewParseError(nameCount, header.KindGrammar, "1*DIGIT", err)
	}
	*h = countHdr(n)
	return nil
}

// countText reads the same header as countHdr, but as text.
type countText string

func (countText) CanonicName() header.Name { return nameCount }

func (h countText) FormatRaw() header.Raw { return header.Single(h) }

func (h *countText) ParseRaw(raw header.Raw) error {
	v, err := header.ScalarValue(nameCount, raw)
	if err != nil {
		return err
	}
	*h = countText(v)
	return nil
}

// tagsHdr is a list header of tokens.
type tagsHdr []string

func (tagsHdr) CanonicName() header.Name { return nameTags }

func (tagsHdr) JoinPolicy() header.JoinPolicy { return header.CommaJoinSingleLine }

func (h tagsHdr) FormatRaw() header.Raw { return header.RawStrings(h...) }

func (h *tagsHdr) ParseRaw(raw header.Raw) error {
	items, err := header.ListItems(nameTags, raw)
	if err != nil {
		return err
	}
	tags := make(tagsHdr, 0, len(items))
	for _, it := range items {
		if !grammar.IsToken(it) {
			return header.NewParseError(nameTags, header.KindGrammar, "token", grammar.ErrMalformedInput)
		}
		tags = append(tags, string(it))
	}
	*h = tags
	return nil
}

func (h tagsHdr) Clone() tagsHdr { return slices.Clone(h) }

// emptyHdr formats to no values.
type emptyHdr struct{}

func (emptyHdr) CanonicName() header.Name { return nameEmpty }

func (emptyHdr) FormatRaw() header.Raw { return nil }

func (*emptyHdr) ParseRaw(header.Raw) error { return nil }
