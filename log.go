package mincss

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is the default used whenever a caller doesn't supply its
// own logrus.FieldLogger, so library consumers who don't care about
// internals pay nothing for the trace channel.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewDebugLogger builds a logrus text-formatter logger at Debug level
// writing to w, each line prefixed "trace:" so it stays visually
// distinguishable from the "MinCSS error: …" diagnostic lines it's
// interleaved with on stderr. cmd/minicss wires this up behind --debug.
func NewDebugLogger(w io.Writer) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(&linePrefixWriter{w: w, prefix: "trace: "})
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// linePrefixWriter prepends prefix to every line logrus writes. logrus
// calls Write once per formatted entry (already newline-terminated), so
// no internal buffering across calls is needed.
type linePrefixWriter struct {
	w      io.Writer
	prefix string
}

func (p *linePrefixWriter) Write(b []byte) (int, error) {
	var buf bytes.Buffer
	buf.WriteString(p.prefix)
	buf.Write(b)
	if _, err := p.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(b), nil
}
