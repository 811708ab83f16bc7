package header

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/constraints"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Raw is the uninterpreted wire form of one header: an ordered sequence of values.
// Each value is either one header line or one part of a line the header was received as.
// Order is significant.
type Raw [][]byte

// Single returns a Raw with one value.
func Single[T constraints.Byteseq](v T) Raw { return Raw{[]byte(string(v))} }

// RawOf returns a Raw with the given values in order.
// The values are copied.
func RawOf(vals ...[]byte) Raw {
	if len(vals) == 0 {
		return nil
	}
	raw := make(Raw, len(vals))
	for i := range vals {
		raw[i] = cloneValue(vals[i])
	}
	return raw
}

// RawStrings is like [RawOf] but takes strings.
func RawStrings(vals ...string) Raw {
	if len(vals) == 0 {
		return nil
	}
	raw := make(Raw, len(vals))
	for i := range vals {
		raw[i] = []byte(vals[i])
	}
	return raw
}

func cloneValue(v []byte) []byte {
	if v == nil {
		return []byte{}
	}
	return util.CloneBytes(v)
}

// Push appends a copy of v.
func (raw *Raw) Push(v []byte) { *raw = append(*raw, cloneValue(v)) }

// Len returns the number of values.
func (raw Raw) Len() int { return len(raw) }

// At returns the i-th value.
func (raw Raw) At(i int) []byte { return raw[i] }

// All returns a sequence over the values in insertion order.
func (raw Raw) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, v := range raw {
			if !yield(v) {
				return
			}
		}
	}
}

// Strings returns the values as strings.
func (raw Raw) Strings() []string {
	if raw == nil {
		return nil
	}
	ss := make([]string, len(raw))
	for i, v := range raw {
		ss[i] = string(v)
	}
	return ss
}

// Lines returns a sequence of wire line values according to the join policy.
// [OneLinePerValue] yields every value. [CommaJoinSingleLine] yields one value
// with all values joined by ", ". Yielded values are copies.
func (raw Raw) Lines(policy JoinPolicy) iter.Seq[[]byte] {
	if policy == CommaJoinSingleLine && len(raw) > 1 {
		return func(yield func([]byte) bool) { yield(raw.Joined()) }
	}
	return func(yield func([]byte) bool) {
		for _, v := range raw {
			if !yield(util.CloneBytes(v)) {
				return
			}
		}
	}
}

// Joined returns a new slice with the values joined by ", ".
func (raw Raw) Joined() []byte {
	switch len(raw) {
	case 0:
		return nil
	case 1:
		return util.CloneBytes(raw[0])
	}
	return bytes.Join(raw, []byte(", "))
}

// Clone returns a deep copy of raw.
func (raw Raw) Clone() Raw { return RawOf(raw...) }

// Equal reports whether raw and val hold the same values in the same order.
func (raw Raw) Equal(val any) bool {
	var other Raw
	switch v := val.(type) {
	case Raw:
		other = v
	case *Raw:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(raw, other, bytes.Equal)
}

// IsZero reports whether raw has no values.
func (raw Raw) IsZero() bool { return len(raw) == 0 }

func (raw Raw) String() string { return string(raw.Joined()) }

// Format implements [fmt.Formatter].
// Verbs 's' and 'v' print the joined values, 'q' prints the list of quoted values.
func (raw Raw) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		f.Write(raw.Joined()) //nolint:errcheck
		return
	case 'q':
		f.Write([]byte{'['}) //nolint:errcheck
		for i, v := range raw {
			if i > 0 {
				f.Write([]byte{' '}) //nolint:errcheck
			}
			f.Write([]byte(strconv.Quote(string(v)))) //nolint:errcheck
		}
		f.Write([]byte{']'}) //nolint:errcheck
		return
	case 'v':
		if !f.Flag('#') {
			f.Write(raw.Joined()) //nolint:errcheck
			return
		}
		fallthrough
	default:
		type hideMethods Raw
		type Raw hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Raw(raw))
		return
	}
}

func (raw Raw) MarshalJSON() ([]byte, error) {
	ss := raw.Strings()
	if ss == nil {
		ss = []string{}
	}
	return errtrace.Wrap2(json.Marshal(ss))
}

func (raw *Raw) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return errtrace.Wrap(err)
	}
	*raw = RawStrings(ss...)
	return nil
}
