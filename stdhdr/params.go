package stdhdr

import (
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/grammar"
	"github.com/ghettovoice/httphdr/internal/util"
)

// Param is a name/value parameter of a media type or credentials.
// Names are case-insensitive and kept lower-cased after parsing.
type Param struct {
	Name, Value string
}

func (p Param) String() string { return p.Name + "=" + grammar.Quote(p.Value) }

// Validate checks that the name is a token and the value fits into a quoted-string.
func (p Param) Validate() error {
	if !grammar.IsToken(p.Name) {
		return errtrace.Wrap(errorutil.Errorf("invalid parameter name %q", p.Name))
	}
	if !grammar.IsQuotable(p.Value) {
		return errtrace.Wrap(errorutil.Errorf("invalid value of parameter %q", p.Name))
	}
	return nil
}

// Params is an ordered parameter list.
type Params []Param

// Get returns the value of the first parameter with the name.
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if util.EqFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

// Clone returns a copy of the list.
func (ps Params) Clone() Params { return slices.Clone(ps) }

// Equal compares lists by case-insensitive names and exact values, order is significant.
func (ps Params) Equal(val any) bool {
	var other Params
	switch v := val.(type) {
	case Params:
		other = v
	case *Params:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return slices.EqualFunc(ps, other, func(p1, p2 Param) bool {
		return util.EqFold(p1.Name, p2.Name) && p1.Value == p2.Value
	})
}

// join renders the list as "name=value" pairs joined by sep.
func (ps Params) join(sep string) string {
	ss := make([]string, len(ps))
	for i, p := range ps {
		ss[i] = p.String()
	}
	return strings.Join(ss, sep)
}

func fromGrammarParams(gps []grammar.Param) Params {
	if len(gps) == 0 {
		return nil
	}
	ps := make(Params, len(gps))
	for i, gp := range gps {
		ps[i] = Param(gp)
	}
	return ps
}
