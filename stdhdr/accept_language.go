package stdhdr

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/text/language"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/util"
)

// AcceptLanguage represents the Accept-Language header field.
// Ranges keep the order they were received in.
type AcceptLanguage []LanguageRange

// CanonicName returns the canonical name of the header.
func (AcceptLanguage) CanonicName() header.Name { return header.NameAcceptLanguage }

// JoinPolicy returns the policy used to render the header.
func (AcceptLanguage) JoinPolicy() header.JoinPolicy { return header.CommaJoinSingleLine }

// FormatRaw returns the raw form of the header.
func (hdr AcceptLanguage) FormatRaw() header.Raw {
	raw := make(header.Raw, 0, len(hdr))
	for _, rng := range hdr {
		raw.Push([]byte(rng.String()))
	}
	return raw
}

// ParseRaw parses the header from the raw form.
// Repeated lines and comma-joined values give the same result.
//
//	Accept-Language = #( language-range [ weight ] )
func (hdr *AcceptLanguage) ParseRaw(raw header.Raw) error {
	items, err := header.ListItems(header.NameAcceptLanguage, raw)
	if err != nil {
		return errtrace.Wrap(err)
	}
	rngs := make(AcceptLanguage, 0, len(items))
	for _, it := range items {
		var rng LanguageRange
		if err := rng.parse(it); err != nil {
			return errtrace.Wrap(err)
		}
		rngs = append(rngs, rng)
	}
	*hdr = rngs
	return nil
}

// Tags returns the language tags ordered by weight, ranges with zero weight and the wildcard are skipped.
// Ranges of the same weight keep their order.
func (hdr AcceptLanguage) Tags() []language.Tag {
	rngs := slices.Clone(hdr)
	slices.SortStableFunc(rngs, func(a, b LanguageRange) int { return cmp.Compare(b.Weight(), a.Weight()) })
	tags := make([]language.Tag, 0, len(rngs))
	for _, rng := range rngs {
		if rng.Weight() == 0 || rng.IsWildcard() {
			continue
		}
		if t, err := language.Parse(rng.Range); err == nil {
			tags = append(tags, t)
		}
	}
	return tags
}

// Match returns the best supported language for the header.
// The first supported language is the fallback when nothing matches.
func (hdr AcceptLanguage) Match(supported ...language.Tag) (tag language.Tag, idx int, conf language.Confidence) {
	if len(supported) == 0 {
		return language.Und, -1, language.No
	}
	return language.NewMatcher(supported).Match(hdr.Tags()...)
}

func (hdr AcceptLanguage) String() string { return string(hdr.FormatRaw().Joined()) }

// Format implements fmt.Formatter for custom formatting of the header.
func (hdr AcceptLanguage) Format(f fmt.State, verb rune) {
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
		type hideMethods AcceptLanguage
		type AcceptLanguage hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), AcceptLanguage(hdr))
		return
	}
}

// Clone returns a copy of the header.
func (hdr AcceptLanguage) Clone() AcceptLanguage { return slices.Clone(hdr) }

// Equal compares this header with another for equality.
func (hdr AcceptLanguage) Equal(val any) bool {
	var other AcceptLanguage
	switch v := val.(type) {
	case AcceptLanguage:
		other = v
	case *AcceptLanguage:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(hdr, other, func(rng1, rng2 LanguageRange) bool { return rng1.Equal(rng2) })
}

// LanguageRange is an element of Accept-Language.
type LanguageRange struct {
	// Range is a language tag or "*".
	Range string
	// Q is the weight in thousandths, it is used only if Weighted is set.
	// A range without weight has weight 1.
	Q        uint16
	Weighted bool
}

// LangRange creates a language range with the weight in [0, 1].
// A weight of 1 or more is omitted on output.
func LangRange(rng string, weight float64) LanguageRange {
	if weight >= 1 {
		return LanguageRange{Range: rng}
	}
	return LanguageRange{Range: rng, Q: uint16(max(weight, 0)*1000 + 0.5), Weighted: true}
}

// Weight returns the weight of the range in [0, 1].
func (rng LanguageRange) Weight() float64 {
	if !rng.Weighted {
		return 1
	}
	return float64(rng.Q) / 1000
}

// IsWildcard reports whether the range matches any language.
func (rng LanguageRange) IsWildcard() bool { return rng.Range == "*" }

// Tag returns the language tag of the range.
func (rng LanguageRange) Tag() (language.Tag, error) {
	if rng.IsWildcard() {
		return language.Und, nil
	}
	return errtrace.Wrap2(language.Parse(rng.Range))
}

func (rng LanguageRange) String() string {
	if !rng.Weighted {
		return rng.Range
	}
	return rng.Range + ";q=" + formatQ(rng.Q)
}

// Equal compares ranges case-insensitively, weights must match.
func (rng LanguageRange) Equal(val any) bool {
	var other LanguageRange
	switch v := val.(type) {
	case LanguageRange:
		other = v
	case *LanguageRange:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return util.EqFold(rng.Range, other.Range) && rng.Weight() == other.Weight()
}

func (rng *LanguageRange) parse(b []byte) error {
	r, params, _ := bytes.Cut(b, []byte(";"))
	r = bytes.TrimRight(r, " \t")
	if !isLanguageRange(r) {
		return errtrace.Wrap(header.NewParseError(header.NameAcceptLanguage, header.KindGrammar, "language-range",
			errorutil.Errorf("invalid language range %q", r)))
	}
	if string(r) != "*" {
		if _, err := language.Parse(string(r)); err != nil {
			return errtrace.Wrap(header.NewParseError(header.NameAcceptLanguage, header.KindGrammar, "language-range", err))
		}
	}
	*rng = LanguageRange{Range: string(r)}
	if len(params) == 0 {
		return nil
	}

	name, val, ok := bytes.Cut(util.TrimOWS(params), []byte("="))
	if !ok || !bytes.EqualFold(util.TrimOWS(name), []byte("q")) {
		return errtrace.Wrap(header.NewParseError(header.NameAcceptLanguage, header.KindGrammar, "weight",
			errorutil.Errorf("unexpected parameter %q", params)))
	}
	q, err := parseQ(util.TrimOWS(val))
	if err != nil {
		return errtrace.Wrap(header.NewParseError(header.NameAcceptLanguage, header.KindGrammar, "qvalue", err))
	}
	rng.Q, rng.Weighted = q, true
	return nil
}

// isLanguageRange checks the basic range syntax of RFC 4647 Section 2.1.
//
//	language-range = (1*8ALPHA *("-" 1*8alphanum)) / "*"
func isLanguageRange(b []byte) bool {
	if string(b) == "*" {
		return true
	}
	for i, sub := range bytes.Split(b, []byte("-")) {
		if len(sub) == 0 || len(sub) > 8 {
			return false
		}
		for _, c := range sub {
			isAlpha := 'a' <= c|0x20 && c|0x20 <= 'z'
			if !isAlpha && (i == 0 || c < '0' || c > '9') {
				return false
			}
		}
	}
	return true
}

// parseQ parses a qvalue into thousandths.
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
func parseQ(b []byte) (uint16, error) {
	if len(b) == 0 || len(b) > 5 || (b[0] != '0' && b[0] != '1') {
		return 0, errtrace.Wrap(errorutil.Errorf("invalid qvalue %q", b))
	}
	q := uint16(b[0]-'0') * 1000
	if len(b) == 1 {
		return q, nil
	}
	if b[1] != '.' {
		return 0, errtrace.Wrap(errorutil.Errorf("invalid qvalue %q", b))
	}
	mul := uint16(100)
	for _, c := range b[2:] {
		if c < '0' || c > '9' {
			return 0, errtrace.Wrap(errorutil.Errorf("invalid qvalue %q", b))
		}
		q += uint16(c-'0') * mul
		mul /= 10
	}
	if q > 1000 {
		return 0, errtrace.Wrap(errorutil.Errorf("qvalue %q out of range", b))
	}
	return q, nil
}

func formatQ(q uint16) string {
	if q >= 1000 {
		return "1"
	}
	s := strings.TrimRight(fmt.Sprintf("%03d", q), "0")
	if s == "" {
		return "0"
	}
	return "0." + s
}
