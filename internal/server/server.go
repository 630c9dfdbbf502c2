package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/internal/cache"
	"github.com/gravitas-games/hexext/internal/config"
	"github.com/gravitas-games/hexext/internal/store"
)

// Server serves hex queries over WebSocket
type Server struct {
	config       *config.Config
	session      *Session
	upgrader     websocket.Upgrader
	httpSrv      *http.Server
	jwtValidator *JWTValidator
	cache        *cache.Cache
	store        *store.Store

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance: it connects the optional Redis cache,
// loads or generates the map and prepares token validation when configured.
func New(cfg *config.Config) (*Server, error) {
	log.Println("Initializing server...")

	ctx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		config:      cfg,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	if cfg.Redis.Address != "" {
		c, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			cancel()
			return nil, err
		}
		srv.cache = c
		log.Println("Connected to Redis")
	}

	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			srv.closeBackends()
			cancel()
			return nil, fmt.Errorf("failed to open map store: %w", err)
		}
		srv.store = st
	}

	world, mapID, err := srv.loadMap(ctx)
	if err != nil {
		srv.closeBackends()
		cancel()
		return nil, err
	}

	if cfg.JWT.PublicKeyPath != "" {
		v, err := NewJWTValidator(cfg.JWT, srv.cache)
		if err != nil {
			srv.closeBackends()
			cancel()
			return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
		}
		srv.jwtValidator = v
	}

	srv.session = NewSession("main", mapID, world, srv.cache, cfg.Query)

	log.Println("Server initialized successfully")
	return srv, nil
}

// loadMap loads the configured map from the store, or generates one from
// the configured seed. A generated map is saved when a store is open.
func (s *Server) loadMap(ctx context.Context) (*grid.Map, string, error) {
	if s.config.Map.ID != "" {
		if s.store == nil {
			return nil, "", fmt.Errorf("map id %s configured but no store path set", s.config.Map.ID)
		}
		m, err := s.store.LoadMap(ctx, s.config.Map.ID)
		if err != nil {
			return nil, "", err
		}
		log.Printf("Loaded map %s: %s", s.config.Map.ID, m)
		return m, s.config.Map.ID, nil
	}

	m := grid.Generate(s.config.Map.GenConfig())
	mapID := fmt.Sprintf("generated-%d", m.Seed)
	if s.store != nil {
		id, err := s.store.SaveMap(ctx, mapID, m)
		if err != nil {
			return nil, "", fmt.Errorf("failed to save generated map: %w", err)
		}
		mapID = id
	}
	log.Printf("Generated map %s: %s", mapID, m)
	return m, mapID, nil
}

// Handler returns the HTTP routes served by Start
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	log.Printf("Starting WebSocket server on %s", addr)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("WebSocket endpoint: ws://%s/ws", addr)
	log.Printf("Health endpoint: http://%s/health", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	// Close outside connMu; handleWebSocket takes it to unregister.
	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}

	s.closeBackends()

	log.Println("Server shutdown complete")
	return nil
}

func (s *Server) closeBackends() {
	if err := s.cache.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("Store close error: %v", err)
		}
	}
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log.Printf("New WebSocket connection request from %s", r.RemoteAddr)

	var subject string
	if s.jwtValidator != nil {
		tokenString := extractTokenFromHeader(r)
		if tokenString == "" {
			log.Printf("Missing JWT token from %s", r.RemoteAddr)
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		sub, err := s.jwtValidator.ValidateToken(r.Context(), tokenString)
		if err != nil {
			log.Printf("Invalid JWT token from %s: %v", r.RemoteAddr, err)
			http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
			return
		}
		subject = sub
		log.Printf("Authenticated %s from %s", subject, r.RemoteAddr)
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewConnection(ws, s, subject)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	// Handle connection (blocking)
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	log.Printf("WebSocket connection closed (%s)", r.RemoteAddr)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
