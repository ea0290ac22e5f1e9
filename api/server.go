package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arcadelab/arena-relay/transport/websocket"
)

// Server is the HTTP surface of the relay: websocket upgrades, a health
// probe for process supervisors, a small status endpoint, and the static
// browser client. It shares one listener with the relay itself.
type Server struct {
	hub       *websocket.Hub
	staticDir string
	started   time.Time
	router    *mux.Router
}

// NewServer creates the HTTP server around an already-running hub.
func NewServer(hub *websocket.Hub, staticDir string) *Server {
	s := &Server{
		hub:       hub,
		staticDir: staticDir,
		started:   time.Now(),
		router:    mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static client assets
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleHealth answers uptime probes. Supervisors poll this with HEAD, which
// must get the 2xx status and no body; there are no side effects either way.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports live connection and player counts. The counts come
// from the hub run loop, so they are consistent with each other.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.hub.Stats()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"connections": stats.Connections,
		"players":     stats.Players,
		"uptime":      time.Since(s.started).Round(time.Second).String(),
	})
}

// handleWebSocket hands the request to the hub for upgrade.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}
