package storage

import (
	"fmt"
	"os"
	"sync"

	"textmetrics/internal/analyze"
)

// ResultSink is the shared append-only analysis log. One line is appended
// per completed upload for the lifetime of the server process; the file is
// never rewritten or truncated.
type ResultSink struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenResultSink opens (or creates) the result file for appending.
func OpenResultSink(path string) (*ResultSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}

	return &ResultSink{f: f, path: path}, nil
}

// Append writes one result line plus a newline. The mutex is held across
// the whole write, so lines from concurrently completing connections never
// interleave.
func (s *ResultSink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.f.WriteString(line + "\n"); err != nil {
		return &StorageError{Op: "append", Path: s.path, Err: err}
	}

	return nil
}

// Close closes the underlying file.
func (s *ResultSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.f.Close(); err != nil {
		return &StorageError{Op: "close", Path: s.path, Err: err}
	}

	return nil
}

// ResultLine renders the log line recorded for one stored upload.
func ResultLine(storedName string, res analyze.Result) string {
	return fmt.Sprintf("%s: lines=%d, words=%d, characters=%d",
		storedName, res.Lines, res.Words, res.Chars)
}
