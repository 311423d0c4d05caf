// Package admin stands up a small introspection HTTP surface alongside a
// running scheduler, in the same spirit as the teacher repository's mux-
// routed status endpoints next to its gRPC services.
package admin

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

// StatusProvider is anything that can report a current status snapshot —
// typically a scheduler's queue depth, running-actor count, and per-actor
// firing counts. The value is serialized as-is, so schedulers define their
// own concrete status type without admin depending on theirs.
type StatusProvider interface {
	Status() interface{}
}

// Server serves /status for a StatusProvider over HTTP.
type Server struct {
	mu       sync.RWMutex
	provider StatusProvider
	router   *mux.Router
}

// NewServer constructs an admin Server backed by provider.
func NewServer(provider StatusProvider) *Server {
	s := &Server{provider: provider, router: mux.NewRouter()}
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	return s
}

// Handler returns the server's http.Handler for use with http.ListenAndServe.
func (s *Server) Handler() http.Handler { return s.router }

// SetProvider swaps the StatusProvider the server reports on.
func (s *Server) SetProvider(provider StatusProvider) {
	s.mu.Lock()
	s.provider = provider
	s.mu.Unlock()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	provider := s.provider
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if provider == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	_ = json.NewEncoder(w).Encode(provider.Status())
}
