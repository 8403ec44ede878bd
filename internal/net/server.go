package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skelrealm/server/internal/config"
	"go.uber.org/zap"
)

// Server accepts WebSocket connections and creates Sessions.
// New sessions are handed to the game loop over a channel.
type Server struct {
	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader
	newConns chan *Session
	opts     SessionOptions
	open     atomic.Int64
	log      *zap.Logger
	closeCh  chan struct{}
}

// NewServer binds the listener. Call Serve to start accepting.
func NewServer(cfg config.NetworkConfig, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}
	s := &Server{
		listener: ln,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		newConns: make(chan *Session, 64),
		opts: SessionOptions{
			InQueueSize:     cfg.InQueueSize,
			OutQueueSize:    cfg.OutQueueSize,
			EventsPerSecond: cfg.EventsPerSecond,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			MaxMessageSize:  cfg.MaxMessageSize,
		},
		log:     log,
		closeCh: make(chan struct{}),
	}

	path := cfg.Path
	if path == "" {
		path = "/ws"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.http = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Serve runs the HTTP server until Shutdown. Run it in its own goroutine.
func (s *Server) Serve() error {
	err := s.http.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// originChecker accepts requests without an Origin header (non-browser
// clients) and, when allowed is non-empty, browsers from a listed origin.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.closeCh:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	sess := NewSession(conn, id, s.opts, s.log)
	sess.Start()
	s.open.Add(1)
	go func() {
		<-sess.Done()
		s.open.Add(-1)
	}()

	s.log.Info("client connected", zap.String("session", id), zap.String("ip", sess.IP))

	select {
	case s.newConns <- sess:
	default:
		s.log.Warn("connection queue full, rejecting client")
		sess.Close()
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	Connections int64  `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Connections: s.open.Load()})
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Shutdown stops accepting new connections and waits for in-flight HTTP
// handlers. Existing sessions are closed by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.closeCh)
	return s.http.Shutdown(ctx)
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
