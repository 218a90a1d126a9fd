package client

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"textmetrics/internal/protocol"
)

// Error classes, exposed so callers can map failures to distinct exit
// codes. Each returned error wraps exactly one of these.
var (
	// ErrLocalFile means the file to upload could not be read. The server
	// is never contacted in this case.
	ErrLocalFile = errors.New("local file error")

	// ErrConnect means the server could not be reached.
	ErrConnect = errors.New("connect error")

	// ErrTransfer means the exchange failed after the connection was
	// established.
	ErrTransfer = errors.New("transfer error")
)

// Send uploads the file at path to the analysis server at addr and returns
// the server's raw textual response. One connection, one request, no
// retries.
func Send(addr, path string, timeout time.Duration) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLocalFile, err)
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer conn.Close()

	req := protocol.Request{
		Filename: filepath.Base(path),
		Content:  content,
	}
	if err := protocol.WriteRequest(conn, req); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	// The response is unframed; the server closing the connection marks
	// its end.
	resp, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrTransfer, err)
	}

	return string(resp), nil
}
