// Package server is the HTTP boundary: it serves the current snapshot
// from the content store and pushes reload signals to connected
// browsers over a websocket hub.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/breach/internal/config"
	"github.com/conneroisu/breach/internal/content"
	"github.com/conneroisu/breach/internal/logging"
)

// client is one connected live-reload subscriber.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server serves the published document with live reload.
type Server struct {
	config     *config.Config
	store      *content.Store
	logger     logging.Logger
	httpServer *http.Server

	clients      map[*websocket.Conn]*client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *client
	unregister   chan *websocket.Conn

	shutdownOnce sync.Once
}

// New creates a server reading from store. Nothing is listening until
// Start is called.
func New(cfg *config.Config, store *content.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	s := &Server{
		config:     cfg,
		store:      store,
		logger:     logger,
		clients:    make(map[*websocket.Conn]*client),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/style.css", s.handleStyle)
	mux.HandleFunc("/script.js", s.handleScript)
	mux.HandleFunc("/favicon.ico", s.handleFavicon)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Handler exposes the route table; the hub must be running for /ws.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the websocket hub and serves HTTP until ctx is cancelled
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	go s.runHub(ctx)

	s.logger.Info(ctx, "listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.httpServer.Shutdown(ctx)
	})
	return err
}

// Broadcast queues one reload signal for every connected client. It
// satisfies the watcher's Notifier interface.
func (s *Server) Broadcast() {
	s.broadcast <- []byte("reload")
}
