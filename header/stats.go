package header

//go:generate go tool mockgen -destination=../internal/testutil/hdrmock/observer.go -package=hdrmock . Observer

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Observer is notified about typed access to [Headers].
// Implementations must be safe for concurrent use if shared between collections.
type Observer interface {
	// HeaderParsed is called after a codec parsed the raw value of the header.
	// Err is the parse error or nil.
	HeaderParsed(name Name, typ reflect.Type, err error)
	// HeaderCacheHit is called when a typed value is served from the cache without parsing.
	HeaderCacheHit(name Name, typ reflect.Type)
}

type nopObserver struct{}

func (nopObserver) HeaderParsed(Name, reflect.Type, error) {}

func (nopObserver) HeaderCacheHit(Name, reflect.Type) {}

type multiObserver []Observer

func (mo multiObserver) HeaderParsed(name Name, typ reflect.Type, err error) {
	for _, o := range mo {
		o.HeaderParsed(name, typ, err)
	}
}

func (mo multiObserver) HeaderCacheHit(name Name, typ reflect.Type) {
	for _, o := range mo {
		o.HeaderCacheHit(name, typ)
	}
}

// Observers returns an [Observer] that notifies all non-nil observers in order.
func Observers(obs ...Observer) Observer {
	mo := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			mo = append(mo, o)
		}
	}
	switch len(mo) {
	case 0:
		return nopObserver{}
	case 1:
		return mo[0]
	}
	return mo
}

// StatsReport is a snapshot of [StatsRecorder] counters.
type StatsReport struct {
	Time    time.Time     `json:"time"`
	Headers []HeaderStats `json:"headers"`
}

// HeaderStats are the typed access counters of one header name.
type HeaderStats struct {
	// Name is a canonical header name.
	Name string `json:"name"`
	// Parses is a number of successful parses.
	Parses uint64 `json:"parses"`
	// ParseErrors is a number of failed parses.
	ParseErrors uint64 `json:"parse_errors"`
	// CacheHits is a number of typed values served from the cache.
	CacheHits uint64 `json:"cache_hits"`
}

// StatsRecorder is an [Observer] that counts typed access per header name.
// The zero value is ready to use.
type StatsRecorder struct {
	stats sync.Map // map[string]*hdrStats
}

type hdrStats struct {
	name string
	parses,
	parseErrs,
	cacheHits atomic.Uint64
}

func (rcdr *StatsRecorder) load(name Name) *hdrStats {
	if v, ok := rcdr.stats.Load(name.Key()); ok {
		return v.(*hdrStats) //nolint:forcetypeassert
	}
	v, _ := rcdr.stats.LoadOrStore(name.Key(), &hdrStats{name: name.Canonic().String()})
	return v.(*hdrStats) //nolint:forcetypeassert
}

func (rcdr *StatsRecorder) HeaderParsed(name Name, _ reflect.Type, err error) {
	st := rcdr.load(name)
	if err != nil {
		st.parseErrs.Add(1)
		return
	}
	st.parses.Add(1)
}

func (rcdr *StatsRecorder) HeaderCacheHit(name Name, _ reflect.Type) {
	rcdr.load(name).cacheHits.Add(1)
}

// Report returns the counters collected so far, sorted by header name.
func (rcdr *StatsRecorder) Report() StatsReport {
	report := StatsReport{
		Time: time.Now(),
	}
	rcdr.stats.Range(func(_, value any) bool {
		st, ok := value.(*hdrStats)
		if !ok {
			return true
		}
		report.Headers = append(report.Headers, HeaderStats{
			Name:        st.name,
			Parses:      st.parses.Load(),
			ParseErrors: st.parseErrs.Load(),
			CacheHits:   st.cacheHits.Load(),
		})
		return true
	})
	slices.SortFunc(report.Headers, func(a, b HeaderStats) int { return strings.Compare(a.Name, b.Name) })
	return report
}
