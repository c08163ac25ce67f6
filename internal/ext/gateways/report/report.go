package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/haukened/extguard/internal/ext/services/classifier"
)

const (
	maliciousFormat = "%s has a malicious file extension!\n"
	safeFormat      = "%s is safe.\n"
)

// TextWriter renders classification results as one human readable line per file.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter returns a TextWriter writing to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write prints every result in order and flushes once at the end.
func (t *TextWriter) Write(results []classifier.Result) error {
	bw := bufio.NewWriter(t.w)
	for _, r := range results {
		if _, err := fmt.Fprint(bw, Line(r)); err != nil {
			return fmt.Errorf("write report line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// Line formats a single result, including the trailing newline.
func Line(r classifier.Result) string {
	if r.Decision.Malicious {
		return fmt.Sprintf(maliciousFormat, r.Filename)
	}
	return fmt.Sprintf(safeFormat, r.Filename)
}
