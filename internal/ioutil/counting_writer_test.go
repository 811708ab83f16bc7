package ioutil_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ghettovoice/httphdr/internal/ioutil"
)

var errWrite = errors.New("write failed")

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errWrite
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errWrite
	}
	return n, nil
}

func TestCountingWriter_WriteField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := ioutil.NewCountingWriter(&buf)
	cw.WriteField([]byte("Content-Length"), []byte("42")).
		WriteField([]byte("X-Empty"), nil)

	num, err := cw.Result()
	if err != nil {
		t.Fatalf("cw.Result() error = %v, want nil", err)
	}
	want := "Content-Length: 42\r\nX-Empty: \r\n"
	if got := buf.String(); got != want {
		t.Errorf("buf.String() = %q, want %q", got, want)
	}
	if num != len(want) {
		t.Errorf("cw.Result() num = %d, want %d", num, len(want))
	}
}

func TestCountingWriter_StickyError(t *testing.T) {
	t.Parallel()

	ew := &errorWriter{failAfter: 6}
	cw := ioutil.NewCountingWriter(ew)
	cw.WriteField([]byte("Date"), []byte("today"))
	if n, err := cw.WriteString("more"); n != 0 || !errors.Is(err, errWrite) {
		t.Errorf("cw.WriteString(more) = (%d, %v), want (0, %v)", n, err, errWrite)
	}

	num, err := cw.Result()
	if !errors.Is(err, errWrite) {
		t.Errorf("cw.Result() error = %v, want %v", err, errWrite)
	}
	if num != 6 {
		t.Errorf("cw.Result() num = %d, want 6", num)
	}
}

func TestCountingWriter_Pooled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := ioutil.GetCountingWriter(&buf)
	cw.WriteString("abc") //nolint:errcheck
	cw.Write([]byte("de")) //nolint:errcheck
	if got := cw.Count(); got != 5 {
		t.Errorf("cw.Count() = %d, want 5", got)
	}
	if got := buf.String(); got != "abcde" {
		t.Errorf("buf.String() = %q, want %q", got, "abcde")
	}
	ioutil.FreeCountingWriter(cw)

	cw = ioutil.GetCountingWriter(&buf)
	defer ioutil.FreeCountingWriter(cw)
	if num, err := cw.Result(); num != 0 || err != nil {
		t.Errorf("reused cw.Result() = (%d, %v), want (0, nil)", num, err)
	}
}
