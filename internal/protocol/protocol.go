package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"textmetrics/internal/analyze"
)

// Request frame layout, all integers big-endian:
//
//	4 bytes   filename length
//	N bytes   filename (UTF-8, untrusted label, not a path)
//	8 bytes   content length
//	M bytes   raw file content
//
// There is no terminator, checksum or version field. The response travels
// the other way unframed: a block of UTF-8 text terminated by connection
// close.

const (
	nameLenSize    = 4
	contentLenSize = 8

	// DefaultMaxNameLen caps the declared filename length.
	DefaultMaxNameLen = 4096

	// DefaultMaxContentLen caps uploads at 1GiB.
	DefaultMaxContentLen = 1 << 30
)

// Request is one decoded upload request.
type Request struct {
	Filename string
	Content  []byte
}

// Limits bounds the length fields a peer may declare. Both fields are
// checked before any buffer is allocated, so a hostile peer cannot force
// the server to reserve memory for a frame it never sends.
type Limits struct {
	MaxNameLen    int
	MaxContentLen int64
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxNameLen:    DefaultMaxNameLen,
		MaxContentLen: DefaultMaxContentLen,
	}
}

// ErrorKind classifies framing failures.
type ErrorKind int

const (
	// IncompleteFrame means the connection closed before the declared
	// number of bytes arrived.
	IncompleteFrame ErrorKind = iota

	// OversizedField means a declared length exceeds the configured limit.
	OversizedField
)

func (k ErrorKind) String() string {
	switch k {
	case IncompleteFrame:
		return "incomplete frame"
	case OversizedField:
		return "oversized field"
	default:
		return "unknown framing error"
	}
}

// FramingError reports a malformed request frame.
type FramingError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

func (e *FramingError) Unwrap() error { return e.Err }

func incomplete(field string, err error) *FramingError {
	return &FramingError{Kind: IncompleteFrame, Field: field, Err: err}
}

func oversized(field string, declared, limit uint64) *FramingError {
	return &FramingError{
		Kind:  OversizedField,
		Field: field,
		Err:   fmt.Errorf("declared %d bytes, limit %d", declared, limit),
	}
}

// WriteRequest encodes req and writes it to w. The header and filename go
// out in a single write, followed by the content.
func WriteRequest(w io.Writer, req Request) error {
	name := []byte(req.Filename)

	buf := make([]byte, nameLenSize+len(name)+contentLenSize)
	binary.BigEndian.PutUint32(buf[:nameLenSize], uint32(len(name)))
	copy(buf[nameLenSize:], name)
	binary.BigEndian.PutUint64(buf[nameLenSize+len(name):], uint64(len(req.Content)))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing request header: %w", err)
	}
	if _, err := w.Write(req.Content); err != nil {
		return fmt.Errorf("writing request content: %w", err)
	}

	return nil
}

// ReadRequest decodes one request frame from r. Each field is read with
// io.ReadFull, so a stream that ends before a field boundary yields an
// IncompleteFrame error rather than a partial request. Declared lengths are
// validated against lim before allocation.
func ReadRequest(r io.Reader, lim Limits) (Request, error) {
	var hdr [nameLenSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Request{}, incomplete("filename length", err)
	}

	nameLen := binary.BigEndian.Uint32(hdr[:])
	if uint64(nameLen) > uint64(lim.MaxNameLen) {
		return Request{}, oversized("filename", uint64(nameLen), uint64(lim.MaxNameLen))
	}

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return Request{}, incomplete("filename", err)
	}

	var clen [contentLenSize]byte
	if _, err := io.ReadFull(r, clen[:]); err != nil {
		return Request{}, incomplete("content length", err)
	}

	contentLen := binary.BigEndian.Uint64(clen[:])
	if contentLen > uint64(lim.MaxContentLen) {
		return Request{}, oversized("content", contentLen, uint64(lim.MaxContentLen))
	}

	content := make([]byte, contentLen)
	if _, err := io.ReadFull(r, content); err != nil {
		return Request{}, incomplete("content", err)
	}

	return Request{Filename: string(name), Content: content}, nil
}

// FormatSummary renders the success response sent back to the client.
func FormatSummary(filename string, res analyze.Result) string {
	return fmt.Sprintf("File name: %s\nLines: %d, Words: %d, Chars: %d\n",
		filename, res.Lines, res.Words, res.Chars)
}

// FormatServerError renders the best-effort error response.
func FormatServerError(err error) string {
	return fmt.Sprintf("Server error: %v", err)
}
