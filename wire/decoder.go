// Package wire reads and writes HTTP/1.1 header blocks.
//
// A header block is a sequence of field lines terminated by an empty line:
//
//	field-line = field-name ":" OWS field-value OWS CRLF
//
// [Decoder] feeds every field line into [header.Headers.AppendRawLine] in wire order,
// [Encoder] writes the collection rendered by [header.Formatter] followed by the empty line.
package wire

//go:generate go tool errtrace -w .

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"
	"golang.org/x/net/http/httpguts"

	"github.com/ghettovoice/httphdr/header"
	"github.com/ghettovoice/httphdr/internal/errorutil"
	"github.com/ghettovoice/httphdr/internal/log"
	"github.com/ghettovoice/httphdr/internal/util"
)

const (
	// ErrMalformedLine is returned for a field line that is not "name: value"
	// or carries bytes not allowed in a field value.
	ErrMalformedLine errorutil.Error = "malformed header line"
	// ErrLineTooLong is returned when a line exceeds [DecoderOptions.MaxLineBytes].
	ErrLineTooLong errorutil.Error = "header line too long"
	// ErrTooManyFields is returned when a block has more than [DecoderOptions.MaxFields] field lines.
	ErrTooManyFields errorutil.Error = "too many header fields"
	// ErrUnexpectedFold is returned for an obs-fold continuation line that is not allowed
	// or doesn't follow a field line.
	ErrUnexpectedFold errorutil.Error = "unexpected line folding"
)

// Default limits of [Decoder].
const (
	DefaultMaxLineBytes = 8 << 10
	DefaultMaxFields    = 100
)

// DecoderOptions are the options of [Decoder].
// Nil options are valid and mean defaults.
type DecoderOptions struct {
	// MaxLineBytes limits the length of a line without the line terminator.
	// A value joined from folded lines is limited the same way.
	// If zero, [DefaultMaxLineBytes] is used.
	MaxLineBytes int
	// MaxFields limits the number of field lines in a block.
	// If zero, [DefaultMaxFields] is used.
	MaxFields int
	// AllowObsFold enables obsolete line folding (RFC 9112 Section 5.2).
	// A continuation line is joined to the previous value with a single SP.
	AllowObsFold bool
	// Logger is used to log folded and rejected lines.
	// If nil, the [log.Default] logger is used.
	Logger *slog.Logger
}

func (o *DecoderOptions) maxLineBytes() int {
	if o == nil || o.MaxLineBytes <= 0 {
		return DefaultMaxLineBytes
	}
	return o.MaxLineBytes
}

func (o *DecoderOptions) maxFields() int {
	if o == nil || o.MaxFields <= 0 {
		return DefaultMaxFields
	}
	return o.MaxFields
}

func (o *DecoderOptions) allowObsFold() bool { return o != nil && o.AllowObsFold }

func (o *DecoderOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Decoder reads header blocks from an input stream.
//
// The decoder buffers its input. If r is a [bufio.Reader] it is used directly,
// so bytes following the header block, the message body, stay readable from r.
type Decoder struct {
	r    *bufio.Reader
	opts *DecoderOptions
	line []byte
}

// NewDecoder creates a new decoder reading from r.
func NewDecoder(r io.Reader, opts *DecoderOptions) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, opts: opts}
}

// Decode reads one header block up to and including the empty line
// and appends its fields to hs in wire order.
//
// It returns [io.EOF] if the input is exhausted before the block starts
// and [io.ErrUnexpectedEOF] if it ends before the empty line.
// Fields completed before an error stay in hs, the field preceding
// the failing line is dropped.
func (d *Decoder) Decode(hs *header.Headers) error {
	fb := &fieldBuf{hs: hs, maxFields: d.opts.maxFields(), maxValue: d.opts.maxLineBytes()}
	sm := newMachine(fb)

	for lineNum := 1; ; lineNum++ {
		line, err := d.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) && lineNum > 1 {
				err = io.ErrUnexpectedEOF
			}
			return errtrace.Wrap(err)
		}

		var trig trigger
		args := []any{lineNum}
		switch {
		case len(line) == 0:
			trig = triggerEnd
		case line[0] == ' ' || line[0] == '\t':
			if !d.opts.allowObsFold() {
				d.opts.log().Debug("reject folded header line", "line", lineNum)
				return errtrace.Wrap(errorutil.NewWrapperError(ErrUnexpectedFold, "line %d", lineNum))
			}
			d.opts.log().Debug("unfold header line", "line", lineNum)
			trig = triggerFold
			args = append(args, util.TrimOWS(line))
		default:
			name, value, err := splitField(line)
			if err != nil {
				d.opts.log().Debug("reject header line", "line", lineNum, "error", err)
				return errtrace.Wrap(fmt.Errorf("%w: line %d: %w", ErrMalformedLine, lineNum, err))
			}
			trig = triggerField
			args = append(args, name, value)
		}

		if err := sm.Fire(trig, args...); err != nil {
			return errtrace.Wrap(err)
		}
		if trig == triggerEnd {
			return nil
		}
	}
}

// readLine reads a line without the line terminator. Bare LF is accepted as a terminator.
func (d *Decoder) readLine() ([]byte, error) {
	maxLen := d.opts.maxLineBytes()
	d.line = d.line[:0]
	for {
		chunk, err := d.r.ReadSlice('\n')
		d.line = append(d.line, chunk...)
		if len(d.line) > maxLen+2 {
			return nil, errtrace.Wrap(ErrLineTooLong)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(d.line) == 0 {
				return nil, io.EOF //errtrace:skip
			}
			return nil, errtrace.Wrap(io.ErrUnexpectedEOF)
		}
		return nil, errtrace.Wrap(err)
	}

	line := d.line[:len(d.line)-1]
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > maxLen {
		return nil, errtrace.Wrap(ErrLineTooLong)
	}
	return line, nil
}

// splitField splits a field line into the name and the value with OWS trimmed.
// No whitespace is allowed between the name and the colon (RFC 9112 Section 5.1).
func splitField(line []byte) (header.Name, []byte, error) {
	n, v, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return header.Name{}, nil, errtrace.Wrap(errorutil.Error("missing colon"))
	}
	name, err := header.ParseName(n)
	if err != nil {
		return header.Name{}, nil, errtrace.Wrap(err)
	}
	return name, util.TrimOWS(v), nil
}

type state uint8

const (
	stateIdle state = iota
	stateField
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateField:
		return "field"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

type trigger uint8

const (
	triggerField trigger = iota
	triggerFold
	triggerEnd
)

func (t trigger) String() string {
	switch t {
	case triggerField:
		return "field"
	case triggerFold:
		return "fold"
	case triggerEnd:
		return "end"
	default:
		return "unknown"
	}
}

// newMachine builds the line state machine of one header block.
//
//	idle  --field--> field  --end--> done
//	idle  --end----> done
//	field --field--> field (the pending field is flushed)
//	field --fold---> field (the line is joined to the pending value)
func newMachine(fb *fieldBuf) *stateless.StateMachine {
	sm := stateless.NewStateMachine(stateIdle)
	sm.SetTriggerParameters(triggerField, reflect.TypeOf(0), reflect.TypeOf(header.Name{}), reflect.TypeOf([]byte(nil)))
	sm.SetTriggerParameters(triggerFold, reflect.TypeOf(0), reflect.TypeOf([]byte(nil)))
	sm.Configure(stateIdle).
		Permit(triggerField, stateField).
		Permit(triggerEnd, stateDone)
	sm.Configure(stateField).
		OnEntryFrom(triggerField, fb.start).
		OnExit(fb.flush).
		PermitReentry(triggerField).
		InternalTransition(triggerFold, fb.fold).
		Permit(triggerEnd, stateDone)
	sm.OnUnhandledTrigger(func(_ context.Context, st stateless.State, trig stateless.Trigger, _ []string) error {
		if trig == triggerFold {
			return errtrace.Wrap(errorutil.NewWrapperError(ErrUnexpectedFold, "no field to continue"))
		}
		return errtrace.Wrap(errorutil.Errorf("unexpected %v line in %v state", trig, st))
	})
	return sm
}

// fieldBuf holds the field line being decoded until it can't be continued anymore.
type fieldBuf struct {
	hs        *header.Headers
	maxFields int
	maxValue  int
	fields    int

	line  int
	name  header.Name
	value []byte
}

func (fb *fieldBuf) start(_ context.Context, args ...any) error {
	if fb.fields >= fb.maxFields {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrTooManyFields, "limit %d", fb.maxFields))
	}
	fb.fields++
	fb.line = args[0].(int)                              //nolint:forcetypeassert
	fb.name = args[1].(header.Name)                      //nolint:forcetypeassert
	fb.value = append(fb.value[:0], args[2].([]byte)...) //nolint:forcetypeassert
	return nil
}

func (fb *fieldBuf) fold(_ context.Context, args ...any) error {
	cont := args[1].([]byte) //nolint:forcetypeassert
	if len(cont) == 0 {
		return nil
	}
	n := len(fb.value) + len(cont)
	if len(fb.value) > 0 {
		n++
	}
	if n > fb.maxValue {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrLineTooLong,
			"line %d: folded value of %q exceeds %d bytes", args[0], fb.name, fb.maxValue))
	}
	if len(fb.value) > 0 {
		fb.value = append(fb.value, ' ')
	}
	fb.value = append(fb.value, cont...)
	return nil
}

func (fb *fieldBuf) flush(context.Context, ...any) error {
	if !httpguts.ValidHeaderFieldValue(string(fb.value)) {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrMalformedLine,
			"line %d: invalid value of %q", fb.line, fb.name))
	}
	fb.hs.AppendRawLine(fb.name, fb.value)
	return nil
}

// Decode reads one header block from r into a new collection.
func Decode(r io.Reader, opts *DecoderOptions, hdrOpts *header.Options) (*header.Headers, error) {
	hs := header.New(hdrOpts)
	if err := NewDecoder(r, opts).Decode(hs); err != nil {
		return hs, errtrace.Wrap(err)
	}
	return hs, nil
}
