package header

import (
	"strconv"

	"github.com/ghettovoice/httphdr/internal/syncutil"
)

// JoinPolicy tells how multiple values of one header are put on the wire.
type JoinPolicy uint8

const (
	// OneLinePerValue renders every value as a separate header line.
	OneLinePerValue JoinPolicy = iota
	// CommaJoinSingleLine renders all values as one line joined by ", ".
	CommaJoinSingleLine
)

func (p JoinPolicy) String() string {
	switch p {
	case OneLinePerValue:
		return "one-line-per-value"
	case CommaJoinSingleLine:
		return "comma-join-single-line"
	default:
		return "JoinPolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

var joinPolicies syncutil.Registry[JoinPolicy]

func init() {
	for _, n := range []Name{
		NameAccept, NameAcceptEncoding, NameAcceptLanguage, NameAllow, NameCacheControl,
		NameConnection, NameContentEncoding, NameContentLanguage, NameIfMatch, NameIfNoneMatch,
		NameTE, NameTrailer, NameTransferEncoding, NameUpgrade, NameVary, NameVia,
	} {
		RegisterJoinPolicy(n, CommaJoinSingleLine)
	}
	// cookies can contain commas in the Expires attribute
	RegisterJoinPolicy(NameSetCookie, OneLinePerValue)
}

// RegisterJoinPolicy sets the join policy for the header name.
// The policy is used for headers stored as raw values, typed values declare their own policy.
// It is safe for concurrent use.
func RegisterJoinPolicy(name Name, policy JoinPolicy) {
	joinPolicies.Store(name.Key(), policy)
}

// JoinPolicyOf returns the join policy registered for the header name.
// Headers without a registered policy are rendered with [OneLinePerValue].
func JoinPolicyOf(name Name) JoinPolicy {
	if p, ok := joinPolicies.Load(name.Key()); ok {
		return p
	}
	return OneLinePerValue
}

// JoinPolicyDeclarer is implemented by typed headers that declare their join policy.
type JoinPolicyDeclarer interface {
	JoinPolicy() JoinPolicy
}

func policyOf(h Header) JoinPolicy {
	if d, ok := h.(JoinPolicyDeclarer); ok {
		return d.JoinPolicy()
	}
	return JoinPolicyOf(h.CanonicName())
}
