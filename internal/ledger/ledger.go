// Package ledger implements the append-only, line-delimited chain of
// canonical ReasonBlock payloads (§4.8): one fprintf-equivalent write plus
// flush per line, so a crash can only ever lose a trailing, never-committed
// line.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/kolibri-labs/kolibri/internal/payload"
)

// ErrIO wraps any filesystem open/read/write/flush failure (§7); fatal for
// the tick or verify call that triggered it.
var ErrIO = errors.New("ledger: io error")

// Writer appends canonical ReasonBlock lines to a single file, flushing
// after every write so the on-disk tail is never partially written.
type Writer struct {
	f *os.File
}

// OpenWriter opens path in append mode, creating it if absent. One Writer
// must own one file for a process lifetime (§5: one writer per file).
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	return &Writer{f: f}, nil
}

// Append writes b's canonical payload as one LF-terminated line and flushes
// before returning, so the write is durable from the caller's perspective.
func (w *Writer) Append(b payload.Block) error {
	line, err := b.CanonicalPayload()
	if err != nil {
		return err
	}
	if _, err := w.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("%w: write: %v", ErrIO, err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrIO, err)
	}
	return nil
}

// Close releases the underlying file handle.
func (w *Writer) Close() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrIO, err)
	}
	return nil
}

// ReadLines reads every LF-terminated line of path verbatim, in order. It
// does not parse or validate the lines; Verify does that.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), payload.MaxPayloadLen*4)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", ErrIO, path, err)
	}
	return lines, nil
}
