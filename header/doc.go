// Package header provides a typed representation of HTTP message headers
// on top of their raw wire form.
//
// # Names
//
// A [Name] is a case-insensitive header field name. It keeps the casing it was created with
// for display and compares by its ASCII lower-case key:
//
//	n, err := header.ParseName("content-type")
//	n.Equal(header.NameContentType) // true
//	n.String()                      // "content-type"
//	n.Canonic().String()            // "Content-Type"
//
// # Raw values
//
// A [Raw] is the ordered list of values of one header as it appears on the wire.
// A header received as several lines has one value per line.
//
// # Typed headers
//
// A typed header is a value type implementing [Header] whose pointer implements
// ParseRaw (see [RawParser]). The package doesn't know any concrete header grammar,
// see package stdhdr for the standard ones. A custom header looks like:
//
//	type RequestID string
//
//	func (RequestID) CanonicName() header.Name  { return requestIDName }
//	func (id RequestID) FormatRaw() header.Raw   { return header.Single(id) }
//	func (id *RequestID) ParseRaw(raw header.Raw) error {
//		v, err := header.ScalarValue(requestIDName, raw)
//		if err != nil {
//			return err
//		}
//		*id = RequestID(v)
//		return nil
//	}
//
// # Collection
//
// [Headers] stores raw values in insertion order and parses typed values lazily:
//
//	hs := header.New(nil)
//	hs.AppendRawLine(header.NameContentLength, []byte("42"))
//	cl, ok, err := header.Get[stdhdr.ContentLength](hs)
//
// The parsed value is cached until the raw value changes.
// [Set] stores a typed value, its raw form is regenerated by FormatRaw.
// A failed parse is not cached and leaves the raw value available through [Headers.GetRaw].
//
// [Headers.Lookup] and [Headers.Parsed] give the same typed access with a runtime [Codec],
// either passed explicitly or registered with [RegisterCodec].
//
// # Rendering
//
// [Formatter] renders a collection to wire lines, joining values of a header according to
// its [JoinPolicy]. Debug rendering masks sensitive headers:
//
//	f := header.NewFormatter(&header.FormatOptions{CanonicNames: true})
//	f.RenderTo(w, hs)
//	log.Print(f.Debug(hs))
package header
