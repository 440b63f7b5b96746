package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// Server is the thin HTTP surface over the core services. Handlers
// validate, delegate, and translate errors; no business logic lives
// here.
type Server struct {
	chat   *ChatService
	pack   *PackService
	cache  *ContentCache
	logger *log.Logger
}

func NewServer(chat *ChatService, pack *PackService, cache *ContentCache, logger *log.Logger) *Server {
	return &Server{chat: chat, pack: pack, cache: cache, logger: logger}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Post("/repo/pack", s.handlePack)
	r.Get("/repo/status/{cacheKey}", s.handleStatus)
	r.Delete("/repo/cache/{cacheKey}", s.handleDelete)

	return cors.Default().Handler(r)
}

type chatRequest struct {
	Message             string        `json:"message"`
	CacheKey            string        `json:"cacheKey,omitempty"`
	ConversationHistory []ChatMessage `json:"conversationHistory,omitempty"`
}

type chatResponse struct {
	Response  string           `json:"response"`
	ToolCalls []ToolInvocation `json:"toolCalls,omitempty"`
	Usage     Usage            `json:"usage"`
	CacheKey  string           `json:"cacheKey,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.chat.Chat(r.Context(), ChatInput{
		Message:  req.Message,
		CacheKey: req.CacheKey,
		History:  req.ConversationHistory,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		Response:  out.Response,
		ToolCalls: out.ToolCalls,
		Usage:     out.Usage,
		CacheKey:  out.CacheKey,
	})
}

type packRequest struct {
	RepoURL      string `json:"repoUrl"`
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.pack.Process(r.Context(), PackInput{
		RepoURL:      req.RepoURL,
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	key, err := ParseCacheKey(chi.URLParam(r, "cacheKey"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.pack.Status(key)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"exists":   true,
		"cacheKey": out.CacheKey,
		"metadata": out,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, err := ParseCacheKey(chi.URLParam(r, "cacheKey"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.pack.Delete(key); err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"deleted":  true,
		"cacheKey": key.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingMessage),
		errors.Is(err, ErrMissingRepoURL),
		errors.Is(err, ErrInvalidKey),
		errors.Is(err, ErrUnsupportedSource):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
