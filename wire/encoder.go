package wire

import (
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/ioutil"
)

// Encoder writes header blocks to an output stream.
type Encoder struct {
	w io.Writer
	f *header.Formatter
}

// NewEncoder creates a new encoder writing to w.
// The format options are passed to [header.NewFormatter].
func NewEncoder(w io.Writer, opts *header.FormatOptions) *Encoder {
	return &Encoder{w: w, f: header.NewFormatter(opts)}
}

// Encode writes hs as a header block terminated by the empty line.
//
// Values that can't be put on the wire, for example containing CR or LF,
// fail the whole block with [ErrMalformedLine] and [header.ErrInvalidValue]
// before anything is written.
func (e *Encoder) Encode(hs *header.Headers) (num int, err error) {
	fields := e.f.Render(hs)
	for _, fld := range fields {
		if err := fld.Validate(); err != nil {
			return 0, errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedLine, err))
		}
	}

	cw := ioutil.GetCountingWriter(e.w)
	defer ioutil.FreeCountingWriter(cw)
	for _, fld := range fields {
		cw.WriteField(fld.Name, fld.Value)
	}
	cw.WriteString("\r\n") //nolint:errcheck
	return errtrace.Wrap2(cw.Result())
}
