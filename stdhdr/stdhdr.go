// Package stdhdr implements typed codecs of standard HTTP header fields on top of package header.
//
// Every type implements [header.Header] and its pointer implements ParseRaw,
// so it can be used with [header.Get] and [header.Set]:
//
//	cl, ok, err := header.Get[stdhdr.ContentLength](hs)
//	header.Set(hs, stdhdr.MediaType("text/plain", stdhdr.Param{Name: "charset", Value: "utf-8"}))
//
// The codecs are registered with [header.RegisterCodec] on package initialization,
// so [header.Headers.Parsed] can parse the standard headers by name.
package stdhdr

//go:generate go tool errtrace -w .

import "github.com/ghettovoice/httphdr/header"

// Codecs returns the codecs of all headers implemented by the package.
func Codecs() []header.Codec {
	return []header.Codec{
		header.CodecOf[AcceptLanguage](),
		header.CodecOf[Allow](),
		header.CodecOf[Authorization](),
		header.CodecOf[ContentDisposition](),
		header.CodecOf[ContentLength](),
		header.CodecOf[ContentType](),
		header.CodecOf[Date](),
		header.CodecOf[SetCookie](),
	}
}

// Register registers the codecs returned by [Codecs].
// It is called on package initialization and can be used to restore the codecs
// replaced with [header.RegisterCodec].
func Register() {
	for _, c := range Codecs() {
		header.RegisterCodec(c)
	}
}

func init() { Register() }
