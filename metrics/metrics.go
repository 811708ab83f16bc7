// Package metrics exports typed header access of [header.Headers] as Prometheus metrics.
package metrics

import (
	"errors"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghettovoice/httphdr/header"
)

// OtherHeader is the header label value of headers without a registered codec.
// Parsing such headers is only possible with a codec given explicitly,
// so their names are not used as label values.
const OtherHeader = "other"

// Parse results used as the result label value.
const (
	ResultSuccess  = "success"
	ResultGrammar  = "grammar"
	ResultCount    = "value_count"
	ResultEncoding = "encoding"
	ResultError    = "error"
)

// HeaderMetrics is a [header.Observer] that counts typed parses and cache hits.
//
// All metrics use the "httphdr_" prefix.
// Methods handle nil receiver gracefully, so a nil *HeaderMetrics acts as a no-op.
type HeaderMetrics struct {
	// Parses counts typed parses by header and result.
	// Labels: header, result=[success, grammar, value_count, encoding, error]
	Parses *prometheus.CounterVec

	// CacheHits counts typed values served from the cache.
	// Labels: header
	CacheHits *prometheus.CounterVec
}

// New creates the metrics and registers them with registerer.
//
// If registerer is nil, prometheus.DefaultRegisterer is used.
// Collectors already registered by a previous call are reused.
func New(registerer prometheus.Registerer) *HeaderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &HeaderMetrics{
		Parses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httphdr_typed_parses_total",
				Help: "Total typed header parses by header and result",
			},
			[]string{"header", "result"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "httphdr_typed_cache_hits_total",
				Help: "Total typed header values served from the cache",
			},
			[]string{"header"},
		),
	}
	m.Parses = registerOrReuse(registerer, m.Parses).(*prometheus.CounterVec)       //nolint:forcetypeassert
	m.CacheHits = registerOrReuse(registerer, m.CacheHits).(*prometheus.CounterVec) //nolint:forcetypeassert
	return m
}

// registerOrReuse registers a collector with the given registerer.
// If the collector is already registered, the existing one is returned.
// Panics on non-AlreadyRegisteredError failures.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// HeaderParsed implements [header.Observer].
func (m *HeaderMetrics) HeaderParsed(name header.Name, _ reflect.Type, err error) {
	if m == nil {
		return
	}
	m.Parses.WithLabelValues(headerLabel(name), resultLabel(err)).Inc()
}

// HeaderCacheHit implements [header.Observer].
func (m *HeaderMetrics) HeaderCacheHit(name header.Name, _ reflect.Type) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(headerLabel(name)).Inc()
}

func headerLabel(name header.Name) string {
	if _, ok := header.CodecFor(name); !ok {
		return OtherHeader
	}
	return name.Canonic().String()
}

func resultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}
	var pe *header.ParseError
	if !errors.As(err, &pe) {
		return ResultError
	}
	switch pe.Kind {
	case header.KindGrammar:
		return ResultGrammar
	case header.KindValueCount:
		return ResultCount
	case header.KindEncoding:
		return ResultEncoding
	default:
		return ResultError
	}
}
