// Package http exposes conversation sessions over a small JSON API. Each
// session owns one engine instance; context snapshots are persisted through a
// ports.ContextStore so sessions survive deletion and process restarts.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/ports"
)

// Session is the per-conversation engine surface the server drives.
// *parley.Engine satisfies it.
type Session interface {
	UserInput(text string) []string
	GetState() string
	Shutdown(sink func(serializedContext string))
}

// SessionFactory builds a new engine seeded with a context snapshot. The
// factory is where the host wires its NLU and skills.
type SessionFactory func(contextJSON string) (Session, error)

// Server manages live sessions and routes requests to them.
type Server struct {
	factory SessionFactory
	store   ports.ContextStore
	log     *slog.Logger

	mu       sync.Mutex
	sessions map[string]Session
}

// NewServer creates a session server. The store holds context snapshots of
// deleted sessions; pass an in-memory one when persistence is not needed.
func NewServer(factory SessionFactory, store ports.ContextStore, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		factory:  factory,
		store:    store,
		log:      log,
		sessions: make(map[string]Session),
	}
}

// Handler returns the server's route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/input", s.postInput)
			r.Get("/state", s.getState)
			r.Delete("/", s.deleteSession)
		})
	})
	return r
}

type createSessionRequest struct {
	ID string `json:"id,omitempty"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type inputRequest struct {
	Text string `json:"text"`
}

type inputResponse struct {
	Replies []string `json:"replies"`
	State   string   `json:"state"`
}

// createSession starts a new session. A stored context snapshot for the same
// ID seeds the engine, so a deleted or restarted session picks up its context.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	id := strings.TrimSpace(body.ID)
	if id == "" {
		id = newSessionID()
	}

	snapshot := ""
	if s.store != nil {
		stored, err := s.store.Load(r.Context(), id)
		switch {
		case err == nil:
			snapshot = stored
		case errors.Is(err, domain.ErrSessionNotFound):
			// Fresh session.
		default:
			s.log.Error("context store load failed", "session", id, "err", err)
			http.Error(w, "context store unavailable", http.StatusInternalServerError)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		http.Error(w, fmt.Sprintf("session %q already exists", id), http.StatusConflict)
		return
	}

	session, err := s.factory(snapshot)
	if err != nil {
		s.log.Error("session factory failed", "session", id, "err", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	s.sessions[id] = session

	s.log.Info("session created", "session", id, "seeded", snapshot != "")
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, State: session.GetState()})
}

// postInput feeds one user turn into the session.
func (s *Server) postInput(w http.ResponseWriter, r *http.Request) {
	session, id, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var body inputRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	text, err := SanitizeInput(body.Text)
	if err != nil {
		s.log.Warn("input rejected", "session", id, "err", err)
		http.Error(w, fmt.Sprintf("invalid input: %v", err), http.StatusBadRequest)
		return
	}

	replies := session.UserInput(text)
	s.log.Debug("turn processed", "session", id, "replies", len(replies))
	writeJSON(w, http.StatusOK, inputResponse{Replies: replies, State: session.GetState()})
}

// getState reports the session's observable state.
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	session, id, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, State: session.GetState()})
}

// deleteSession shuts the engine down and persists its context snapshot.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	session.Shutdown(func(serialized string) {
		if s.store == nil {
			return
		}
		if err := s.store.Save(r.Context(), id, serialized); err != nil {
			s.log.Error("context snapshot save failed", "session", id, "err", err)
		}
	})

	s.log.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (Session, string, bool) {
	id := chi.URLParam(r, "sessionID")

	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, id, false
	}
	return session, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("session id generation: %v", err))
	}
	return hex.EncodeToString(buf)
}
