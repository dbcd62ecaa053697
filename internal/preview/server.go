// Package preview serves the current deck as a local HTML page while the
// user reviews it before export.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/deckhand/internal/deck"
	"github.com/kingrea/deckhand/internal/i18n"
	"github.com/kingrea/deckhand/internal/session"
)

// ErrDisabled is returned by Start when the server is turned off in config.
var ErrDisabled = errors.New("preview: server disabled")

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// StateReader exposes the session fields the page renders.
type StateReader interface {
	Get() session.State
}

// Server wraps the HTTP listener and handlers backing the preview.
type Server struct {
	addr     string
	disabled bool
	state    StateReader
	logger   *zap.Logger
	clock    func() time.Time

	current atomic.Pointer[deck.Result]

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Disabled makes Start refuse to bind.
func Disabled() Option {
	return func(s *Server) {
		s.disabled = true
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares a preview server bound to addr (host:port) reading
// session fields from state.
func NewServer(addr string, state StateReader, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		state:    state,
		logger:   zap.NewNop(),
		clock:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Publish makes result the deck served by the preview.
func (s *Server) Publish(result *deck.Result) {
	s.current.Store(result)
}

// Handler returns the HTTP routes without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/deck", s.handleDeck)
	mux.HandleFunc("/", s.handlePage)
	return mux
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("preview: server is nil")
	}
	if s.disabled {
		return ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("preview: listen %s: %w", s.addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("preview serve error", zap.Error(err))
		}
	}()
	s.logger.Info("preview listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Running reports whether the listener is bound.
func (s *Server) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener != nil
}

// BaseURL returns the HTTP base URL (scheme + host:port) for the running server.
func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return "http://" + s.addr
	}
	return "http://" + s.listener.Addr().String()
}

type slideView struct {
	Slide   string `json:"slide"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Edited  bool   `json:"edited"`
}

type deckView struct {
	ProjectID   string      `json:"project_id"`
	Language    string      `json:"language"`
	Phase       string      `json:"phase"`
	GeneratedAt time.Time   `json:"rendered_at"`
	Slides      []slideView `json:"slides"`
}

func (s *Server) view() deckView {
	state := session.Defaults()
	if s.state != nil {
		state = s.state.Get()
	}
	v := deckView{
		ProjectID:   state.ProjectID,
		Language:    string(state.Language),
		Phase:       state.Phase.String(),
		GeneratedAt: s.clock(),
		Slides:      []slideView{},
	}
	for _, entry := range s.current.Load().Entries() {
		v.Slides = append(v.Slides, slideView{
			Slide:   entry.SlideKey,
			Title:   i18n.Resolve(state.Language, "slide."+entry.SlideKey),
			Content: entry.Display(),
			Edited:  entry.Edited(),
		})
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	s.mu.RLock()
	started := s.startTime
	s.mu.RUnlock()
	var uptime int64
	if !started.IsZero() {
		uptime = int64(s.clock().Sub(started).Seconds())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"slides":         s.current.Load().Len(),
		"uptime_seconds": uptime,
	})
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowRead(w, r) {
		return
	}
	v := s.view()
	lang := i18n.Language(v.Language)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{
		Lang:    v.Language,
		Heading: i18n.Resolve(lang, "preview.heading"),
		Project: v.ProjectID,
		Empty:   i18n.Resolve(lang, "preview.empty"),
		Edited:  i18n.Resolve(lang, "preview.edited"),
		Slides:  v.Slides,
	}); err != nil {
		s.logger.Warn("preview render failed", zap.Error(err))
	}
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
