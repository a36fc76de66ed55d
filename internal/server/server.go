package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"shopdesk/internal/models"

	"golang.org/x/crypto/blake2b"
)

// DocumentPath is where the data document is served, matching the relative
// path screens fetch it from.
const DocumentPath = "/data/data.json"

// Server publishes a read-only snapshot of the data document over HTTP.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	port       int
	logger     *slog.Logger

	mu   sync.RWMutex
	body []byte
	etag string
}

func New(port int, logger *slog.Logger) *Server {
	return &Server{port: port, logger: logger}
}

// SetDocument replaces the snapshot being served. The document is validated
// before it is published.
func (s *Server) SetDocument(data []byte) error {
	if _, err := models.ParseDocument(data); err != nil {
		return err
	}
	body := make([]byte, len(data))
	copy(body, data)

	s.mu.Lock()
	s.body = body
	s.etag = ETag(body)
	s.mu.Unlock()
	return nil
}

// ETag returns a strong entity tag for a document body.
func ETag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(DocumentPath, s.handleDocument)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = addr.Port
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("document server stopped", slog.Any("err", err))
		}
	}()

	return nil
}

func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Port is the bound port; it differs from the configured one when that was 0.
func (s *Server) Port() int {
	return s.port
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	body, etag := s.body, s.etag
	s.mu.RUnlock()

	if body == nil {
		http.Error(w, "No document loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		w.Write(body)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
