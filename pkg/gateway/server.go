package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/metrics"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/indexer"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/memory"
	"github.com/harini-paramasivam/personal-memory-search-engine/pkg/search"
)

// Options configures the HTTP gateway.
type Options struct {
	Host string
	Port int
}

// Server exposes indexing and search over HTTP, plus a websocket stream of
// indexing events.
type Server struct {
	options   Options
	server    *http.Server
	engine    *search.Engine
	indexer   *indexer.Indexer
	store     *memory.Store
	cache     *search.Cache // may be nil; /api/related returns 404 then
	logger    zerolog.Logger
	startTime time.Time
	upgrader  websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[string]*websocket.Conn
}

// NewServer creates the gateway.
func NewServer(options Options, engine *search.Engine, ix *indexer.Indexer, store *memory.Store, cache *search.Cache, logger zerolog.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("search engine is required")
	}
	if ix == nil {
		return nil, fmt.Errorf("indexer is required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}

	if options.Port == 0 {
		options.Port = 8480
	}
	if options.Host == "" {
		options.Host = "127.0.0.1"
	}

	return &Server{
		options:   options,
		engine:    engine,
		indexer:   ix,
		store:     store,
		cache:     cache,
		logger:    logger,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[string]*websocket.Conn),
	}, nil
}

// Start begins serving. It blocks until the listener fails or Stop is
// called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/index", s.handleIndex)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/related", s.handleRelated)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // indexing runs can be slow
	}

	s.logger.Info().Str("addr", addr).Msg("Gateway listening")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.Broadcast("server.shutdown", nil)

	s.clientsMu.Lock()
	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleWebSocket upgrades the connection and registers the client for
// event broadcasts. Inbound messages are discarded; the stream is one-way.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	clientID, _ := gonanoid.New()

	s.clientsMu.Lock()
	s.clients[clientID] = conn
	s.clientsMu.Unlock()

	s.logger.Info().Str("clientId", clientID).Str("ip", r.RemoteAddr).Msg("Client connected")

	go func() {
		defer func() {
			conn.Close()
			s.clientsMu.Lock()
			delete(s.clients, clientID)
			s.clientsMu.Unlock()
			s.logger.Info().Str("clientId", clientID).Msg("Client disconnected")
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					s.logger.Error().Err(err).Str("clientId", clientID).Msg("WebSocket error")
				}
				return
			}
		}
	}()
}

// Broadcast sends an event to every connected websocket client.
func (s *Server) Broadcast(event string, data interface{}) {
	msg := EventMessage{
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for id, conn := range s.clients {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Warn().Err(err).Str("clientId", id).Msg("Failed to send event")
		}
	}
}
