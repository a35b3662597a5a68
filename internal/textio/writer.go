package textio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultFormat is the fmt verb used for numbers when none is given.
const DefaultFormat = "%g"

// Writer prints the text format. The first write error is kept and every
// later call becomes a no-op; Flush reports it.
type Writer struct {
	w      *bufio.Writer
	format string
	err    error
}

// NewWriter returns a Writer printing numbers with format, or DefaultFormat
// when format is empty.
func NewWriter(w io.Writer, format string) *Writer {
	if format == "" {
		format = DefaultFormat
	}
	return &Writer{w: bufio.NewWriter(w), format: format}
}

// Num formats a single number.
func (w *Writer) Num(v float64) string {
	return fmt.Sprintf(w.format, v)
}

// Nums formats numbers separated by single spaces.
func (w *Writer) Nums(vals ...float64) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.Num(v))
	}
	return b.String()
}

// Vec3 formats a 3-vector as (x y z).
func (w *Writer) Vec3(x, y, z float64) string {
	return "(" + w.Nums(x, y, z) + ")"
}

// Line writes the parts separated by spaces, followed by a newline.
func (w *Writer) Line(parts ...string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(strings.Join(parts, " ") + "\n")
}

// Flush writes buffered output and returns the first error seen.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
