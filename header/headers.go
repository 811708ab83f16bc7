package header

//go:generate go tool errtrace -w .

import (
	"encoding/json"
	"iter"
	"log/slog"
	"reflect"
	"slices"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/types"
)

// Options are the options of [Headers].
// Nil options are valid and mean defaults.
type Options struct {
	// Observer is notified about typed parses and cache hits.
	// If nil, notifications are dropped.
	Observer Observer
	// Logger is used to log ignored input.
	// If nil, the [log.Default] logger is used.
	Logger *slog.Logger
}

func (o *Options) observer() Observer {
	if o == nil || o.Observer == nil {
		return nopObserver{}
	}
	return o.Observer
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

type entry struct {
	name Name
	raw  Raw
	// cache slot, typ is nil when empty
	typ reflect.Type
	val Header
	// policy of the last typed set, valid if typed is true
	policy JoinPolicy
	typed  bool
}

func (e *entry) reset() {
	e.typ, e.val = nil, nil
	e.policy, e.typed = OneLinePerValue, false
}

func (e *entry) clone() *entry {
	e2 := *e
	e2.raw = e.raw.Clone()
	if e.val != nil {
		e2.val = cloneHeader(e.val)
	}
	return &e2
}

func (e *entry) joinPolicy() JoinPolicy {
	if e.typed {
		return e.policy
	}
	return JoinPolicyOf(e.name)
}

// Headers is an insertion-ordered collection of HTTP headers.
//
// Raw values are the source of truth. Typed values are parsed lazily on [Get] or [Headers.Lookup],
// cached per header name and dropped whenever the raw value changes.
// Setting a typed value with [Set] or [Headers.Put] regenerates the raw value and caches the typed one.
//
// Headers is not safe for concurrent use. Typed reads fill the cache,
// so even concurrent reads must be synchronized by the caller.
type Headers struct {
	entries []*entry
	index   map[string]*entry
	obs     Observer
	log     *slog.Logger
}

// New creates an empty collection.
func New(opts *Options) *Headers {
	return &Headers{
		index: make(map[string]*entry),
		obs:   opts.observer(),
		log:   opts.log(),
	}
}

func (hs *Headers) lookup(name Name) (*entry, bool) {
	if hs == nil || name.IsZero() {
		return nil, false
	}
	e, ok := hs.index[name.Key()]
	return e, ok
}

func (hs *Headers) observer() Observer {
	if hs.obs == nil {
		return nopObserver{}
	}
	return hs.obs
}

func (hs *Headers) logger() *slog.Logger {
	if hs.log == nil {
		return log.Default()
	}
	return hs.log
}

func (hs *Headers) insert(name Name) *entry {
	if hs.index == nil {
		hs.index = make(map[string]*entry)
	}
	e := &entry{name: name}
	hs.entries = append(hs.entries, e)
	hs.index[name.Key()] = e
	return e
}

// SetRaw stores raw as the value of the header and drops its cached typed value.
// An existing header keeps its position and display name, a new one is appended.
// Empty raw removes the header.
func (hs *Headers) SetRaw(name Name, raw Raw) {
	if name.IsZero() {
		hs.logger().Debug("ignore raw header with zero name", "raw", raw)
		return
	}
	if raw.Len() == 0 {
		hs.Remove(name)
		return
	}
	e, ok := hs.lookup(name)
	if !ok {
		e = hs.insert(name)
	}
	e.raw = raw.Clone()
	e.reset()
}

// GetRaw returns a copy of the raw value of the header.
func (hs *Headers) GetRaw(name Name) (Raw, bool) {
	e, ok := hs.lookup(name)
	if !ok {
		return nil, false
	}
	return e.raw.Clone(), true
}

// AppendRawLine appends the value to the header or inserts a new header.
// It is used to feed header lines in wire order.
func (hs *Headers) AppendRawLine(name Name, value []byte) {
	if name.IsZero() {
		hs.logger().Debug("ignore raw header line with zero name", "value", value)
		return
	}
	e, ok := hs.lookup(name)
	if !ok {
		e = hs.insert(name)
	} else {
		e.reset()
	}
	e.raw.Push(value)
}

// Remove deletes the header and returns its raw value.
func (hs *Headers) Remove(name Name) (Raw, bool) {
	e, ok := hs.lookup(name)
	if !ok {
		return nil, false
	}
	delete(hs.index, name.Key())
	hs.entries = slices.DeleteFunc(hs.entries, func(v *entry) bool { return v == e })
	return e.raw, true
}

// Has reports whether the header is present.
func (hs *Headers) Has(name Name) bool {
	_, ok := hs.lookup(name)
	return ok
}

// Len returns the number of distinct headers.
func (hs *Headers) Len() int {
	if hs == nil {
		return 0
	}
	return len(hs.entries)
}

// Clear removes all headers.
func (hs *Headers) Clear() {
	if hs == nil {
		return
	}
	clear(hs.entries)
	hs.entries = hs.entries[:0]
	clear(hs.index)
}

// Names returns a sequence of header names in insertion order.
// The collection must not be modified during iteration.
func (hs *Headers) Names() iter.Seq[Name] {
	return func(yield func(Name) bool) {
		if hs == nil {
			return
		}
		for _, e := range hs.entries {
			if !yield(e.name) {
				return
			}
		}
	}
}

// All returns a sequence of header names and raw values in insertion order.
// The values share memory with the collection and must not be written,
// use [Headers.GetRaw] or [Raw.Clone] to get a copy.
// The collection must not be modified during iteration.
func (hs *Headers) All() iter.Seq2[Name, Raw] {
	return func(yield func(Name, Raw) bool) {
		if hs == nil {
			return
		}
		for _, e := range hs.entries {
			if !yield(e.name, slices.Clip(e.raw)) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the collection including cached typed values.
func (hs *Headers) Clone() *Headers {
	if hs == nil {
		return nil
	}
	hs2 := &Headers{
		entries: make([]*entry, len(hs.entries)),
		index:   make(map[string]*entry, len(hs.entries)),
		obs:     hs.obs,
		log:     hs.log,
	}
	for i, e := range hs.entries {
		e2 := e.clone()
		hs2.entries[i] = e2
		hs2.index[e2.name.Key()] = e2
	}
	return hs2
}

// Equal reports whether hs and val hold the same headers with the same raw values.
// Order of distinct headers and name casing don't matter.
func (hs *Headers) Equal(val any) bool {
	var other *Headers
	switch v := val.(type) {
	case *Headers:
		other = v
	case Headers:
		other = &v
	default:
		return false
	}
	if hs == other {
		return true
	}
	if hs.Len() != other.Len() {
		return false
	}
	if hs.Len() == 0 {
		return true
	}
	for _, e := range hs.entries {
		oe, ok := other.lookup(e.name)
		if !ok || !e.raw.Equal(oe.raw) {
			return false
		}
	}
	return true
}

// Get returns the typed header H parsed from the collection.
//
// It returns false if the header is absent. A value cached for H is returned without parsing.
// Otherwise the current raw value is parsed, cached on success and returned.
// A value cached for another type is never returned, it is replaced by the fresh parse.
// On failure Get returns a [ParseError], the raw value stays untouched and nothing is cached.
//
// Values of types implementing Clone() H are cloned before they are returned.
func Get[H Header, P RawParser[H]](hs *Headers) (H, bool, error) {
	var zero H
	name := zero.CanonicName()
	e, ok := hs.lookup(name)
	if !ok {
		return zero, false, nil
	}

	typ := reflect.TypeFor[H]()
	if e.typ == typ {
		if h, ok := e.val.(H); ok {
			hs.observer().HeaderCacheHit(e.name, typ)
			return types.Clone(h), true, nil
		}
	}

	var h H
	err := P(&h).ParseRaw(slices.Clip(e.raw))
	hs.observer().HeaderParsed(e.name, typ, err)
	if err != nil {
		return zero, false, errtrace.Wrap(asParseError(e.name, err))
	}
	e.typ, e.val = typ, h
	return types.Clone(h), true, nil
}

// Lookup is like [Get] but uses a runtime codec.
func (hs *Headers) Lookup(c Codec) (Header, bool, error) {
	e, ok := hs.lookup(c.Name())
	if !ok {
		return nil, false, nil
	}

	typ := c.Type()
	if e.typ == typ && e.val != nil {
		hs.observer().HeaderCacheHit(e.name, typ)
		return cloneHeader(e.val), true, nil
	}

	h, err := c.Parse(slices.Clip(e.raw))
	if err == nil && reflect.TypeOf(h) != typ {
		err = errorutil.Errorf("codec returned %T, want %v", h, typ)
	}
	hs.observer().HeaderParsed(e.name, typ, err)
	if err != nil {
		return nil, false, errtrace.Wrap(asParseError(e.name, err))
	}
	e.typ, e.val = typ, h
	return cloneHeader(h), true, nil
}

// Parsed returns the typed header parsed by the codec registered for the name with [RegisterCodec].
// It fails with [ErrNoCodec] if the header is present but there is no codec for it.
func (hs *Headers) Parsed(name Name) (Header, bool, error) {
	if !hs.Has(name) {
		return nil, false, nil
	}
	c, ok := CodecFor(name)
	if !ok {
		return nil, false, errtrace.Wrap(errorutil.NewWrapperError(ErrNoCodec, "header %q", name))
	}
	return errtrace.Wrap3(hs.Lookup(c))
}

// Set formats the typed header and stores it replacing the previous raw and typed values.
// The value is cached, so a following [Get] of H returns it without parsing.
// If the value formats to nothing, the header is stored with a single empty value.
func Set[H Header, P RawParser[H]](hs *Headers, v H) {
	hs.put(v, reflect.TypeFor[H]())
}

// Put is like [Set] but takes the typed header as an interface value.
// The value is cached under its dynamic type.
func (hs *Headers) Put(h Header) {
	if h == nil {
		return
	}
	hs.put(h, reflect.TypeOf(h))
}

func (hs *Headers) put(h Header, typ reflect.Type) {
	name := h.CanonicName()
	if name.IsZero() {
		hs.logger().Debug("ignore typed header with zero name", "type", typ, "header", log.FmtValue(h, true))
		return
	}
	raw := h.FormatRaw()
	if raw.Len() == 0 {
		raw = Raw{[]byte{}}
	}
	e, ok := hs.lookup(name)
	if !ok {
		e = hs.insert(name)
	}
	e.raw = raw.Clone()
	e.typ, e.val = typ, cloneHeader(h)
	e.policy, e.typed = policyOf(h), true
}

// cloneHeader clones h if its type has a Clone method returning the same type.
func cloneHeader(h Header) Header {
	if c, ok := h.(types.Cloneable[Header]); ok {
		return c.Clone()
	}
	m := reflect.ValueOf(h).MethodByName("Clone")
	if !m.IsValid() {
		return h
	}
	if mt := m.Type(); mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0) != reflect.TypeOf(h) {
		return h
	}
	if c, ok := m.Call(nil)[0].Interface().(Header); ok {
		return c
	}
	return h
}

type headerJSON struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// MarshalJSON encodes the raw headers as an array of name/values objects in insertion order.
// Typed values are not encoded.
func (hs *Headers) MarshalJSON() ([]byte, error) {
	hds := make([]headerJSON, 0, hs.Len())
	for name, raw := range hs.All() {
		hds = append(hds, headerJSON{Name: name.String(), Values: raw.Strings()})
	}
	return errtrace.Wrap2(json.Marshal(hds))
}

// UnmarshalJSON decodes headers encoded by [Headers.MarshalJSON] appending them to hs.
func (hs *Headers) UnmarshalJSON(data []byte) error {
	var hds []headerJSON
	if err := json.Unmarshal(data, &hds); err != nil {
		return errtrace.Wrap(err)
	}
	var errs []error
	for _, hd := range hds {
		name, err := ParseName(hd.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, v := range hd.Values {
			hs.AppendRawLine(name, []byte(v))
		}
	}
	return errtrace.Wrap(errorutil.JoinPrefix("unmarshal headers", errs...))
}

// LogValue returns the headers as a group of attributes with sensitive values redacted.
func (hs *Headers) LogValue() slog.Value {
	if hs == nil {
		return slog.GroupValue()
	}
	attrs := make([]slog.Attr, 0, hs.Len())
	for _, e := range hs.entries {
		vals := e.raw.Strings()
		if IsSensitive(e.name) {
			for i := range vals {
				vals[i] = RedactedValue
			}
		}
		attrs = append(attrs, slog.Any(e.name.String(), vals))
	}
	return slog.GroupValue(attrs...)
}
