// Package logwriter provides an io.Writer that mirrors written data to the
// log of a testcase.
package logwriter

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
)

// Logger writes data to an io.Writer and logs every complete line via
// testing.T.Log.
type Logger struct {
	t   *testing.T
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// New returns a Logger writing to w and t.Log.
// Logger.Flush is registered as cleanup function of t.
func New(t *testing.T, w io.Writer) *Logger {
	l := Logger{
		t: t,
		w: w,
	}

	t.Cleanup(l.Flush)

	return &l
}

func (l *Logger) Write(p []byte) (int, error) {
	l.t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.w.Write(p)
	l.buf.Write(p[:n])

	for {
		idx := bytes.IndexByte(l.buf.Bytes(), '\n')
		if idx == -1 {
			break
		}

		line := l.buf.Next(idx + 1)
		l.t.Log(strings.TrimRight(string(line), "\r\n"))
	}

	return n, err
}

// Flush logs buffered data that does not end with a newline.
func (l *Logger) Flush() {
	l.t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buf.Len() == 0 {
		return
	}

	l.t.Log(l.buf.String())
	l.buf.Reset()
}
