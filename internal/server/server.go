package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"textmetrics/internal/analyze"
	"textmetrics/internal/protocol"
	"textmetrics/internal/storage"
)

// Server accepts upload connections and runs one handler goroutine per
// connection. All shared state (upload store, result sink, limits) is held
// here and passed explicitly to handlers; there are no package globals.
type Server struct {
	addr   string
	limits protocol.Limits
	store  *storage.UploadStore
	sink   *storage.ResultSink
	log    *slog.Logger

	ln net.Listener
	wg sync.WaitGroup
}

// New returns an unstarted server. Zero limits fall back to the defaults.
func New(addr string, limits protocol.Limits, store *storage.UploadStore, sink *storage.ResultSink) *Server {
	if limits == (protocol.Limits{}) {
		limits = protocol.DefaultLimits()
	}

	return &Server{
		addr:   addr,
		limits: limits,
		store:  store,
		sink:   sink,
		log:    slog.With("component", "server"),
	}
}

// Start binds the listener. Serve must be called afterwards to begin
// accepting connections.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	s.ln = ln
	s.log.Info("server started", "addr", ln.Addr().String())

	return nil
}

// Addr returns the bound listener address. Valid only after Start.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled, spawning one handler
// goroutine per connection. Handlers never block one another; a failing
// handler never stops the accept loop. On cancellation Serve closes the
// listener, waits for in-flight handlers and returns nil.
func (s *Server) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.ln.Close()
		case <-done:
		}
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server stopping")
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// handleConn runs the per-connection exchange: read frame, analyze, persist
// upload, append result, respond, close. Exactly one request per
// connection. Any panic is caught here so it cannot take down the accept
// loop or other connections.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log := slog.With("conn", uuid.NewString(), "remote", conn.RemoteAddr().String())
	log.Info("client connected")

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling connection", "panic", r)
		}
		log.Debug("connection closed")
	}()

	req, err := protocol.ReadRequest(conn, s.limits)
	if err != nil {
		log.Error("receiving request failed", "error", err)
		s.respondError(conn, log, err)
		return
	}

	res := analyze.Analyze(analyze.DecodeText(req.Content))

	savedPath, err := s.store.Save(req.Filename, req.Content)
	if err != nil {
		log.Error("saving upload failed", "filename", req.Filename, "error", err)
		s.respondError(conn, log, err)
		return
	}
	log.Debug("file saved", "path", savedPath)

	// A failed append loses the log line but not the upload or the
	// response; the client still gets its summary.
	storedName := filepath.Base(savedPath)
	if err := s.sink.Append(storage.ResultLine(storedName, res)); err != nil {
		log.Error("appending result failed", "filename", req.Filename, "error", err)
	}

	if _, err := io.WriteString(conn, protocol.FormatSummary(req.Filename, res)); err != nil {
		log.Error("writing response failed", "filename", req.Filename, "error", err)
		return
	}

	log.Info("file processed",
		"filename", req.Filename,
		"lines", res.Lines,
		"words", res.Words,
		"chars", res.Chars)
}

// respondError makes a best-effort attempt to tell the peer what went
// wrong. If that write fails too, the failure is only logged.
func (s *Server) respondError(conn net.Conn, log *slog.Logger, cause error) {
	if _, err := io.WriteString(conn, protocol.FormatServerError(cause)); err != nil {
		log.Debug("error response not delivered", "error", err)
	}
}
