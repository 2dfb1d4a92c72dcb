// Package httpapi exposes the thread CRUD surface and the SSE stream
// for one user turn per request.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rp-bot/AbletonBuddy/internal/pipeline"
	"github.com/rp-bot/AbletonBuddy/internal/store"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

type Server struct {
	store   types.ThreadStore
	orch    *pipeline.Orchestrator
	streams *pipeline.Streams
	logger  *slog.Logger
	origins []string
}

func New(st types.ThreadStore, orch *pipeline.Orchestrator, streams *pipeline.Streams, origins []string, logger *slog.Logger) *Server {
	return &Server{
		store:   st,
		orch:    orch,
		streams: streams,
		logger:  logger,
		origins: origins,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Route("/threads", func(r chi.Router) {
		r.Get("/", s.handleListThreads)
		r.Post("/", s.handleCreateThread)
		r.Route("/{threadID}", func(r chi.Router) {
			r.Get("/", s.handleGetThread)
			r.Delete("/", s.handleDeleteThread)
			r.Post("/stream", s.handleStream)
			r.Delete("/stream", s.handleCancelStream)
		})
	})
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Ableton Buddy API",
		"status":  "ok",
	})
}

// ThreadSummary is the list-view projection of a thread.
type ThreadSummary struct {
	ThreadID     types.ThreadID `json:"thread_id"`
	CreatedAt    string         `json:"created_at"`
	MessageCount int            `json:"message_count"`
	Summary      string         `json:"summary"`
}

const maxSummaryLen = 100

func summarize(t *types.Thread) string {
	summary := t.Title
	if summary == "" {
		summary = t.Preview
	}
	if summary == "" {
		summary = fmt.Sprintf("Thread with %d messages", t.MessageCount)
	}
	if len(summary) > maxSummaryLen {
		summary = summary[:maxSummaryLen] + "..."
	}
	return summary
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.List(r.Context())
	if err != nil {
		s.internalError(w, "list threads", err)
		return
	}
	summaries := make([]ThreadSummary, 0, len(threads))
	for _, t := range threads {
		summaries = append(summaries, ThreadSummary{
			ThreadID:     t.ID,
			CreatedAt:    t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			MessageCount: t.MessageCount,
			Summary:      summarize(t),
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Create(r.Context())
	if err != nil {
		s.internalError(w, "create thread", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]types.ThreadID{"thread_id": t.ID})
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	id := types.ThreadID(chi.URLParam(r, "threadID"))
	if _, err := s.store.Get(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	msgs, err := s.store.Messages(r.Context(), id)
	if err != nil {
		s.internalError(w, "load messages", err)
		return
	}

	// agent-status entries are audit detail, hidden unless asked for
	includeDetails := r.URL.Query().Get("include_details") == "true"
	visible := make([]*types.Message, 0, len(msgs))
	for _, m := range msgs {
		if includeDetails || m.Role != types.RoleStatus {
			visible = append(visible, m)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"thread_id": id,
		"messages":  visible,
	})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	id := types.ThreadID(chi.URLParam(r, "threadID"))
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCancelStream(w http.ResponseWriter, r *http.Request) {
	id := types.ThreadID(chi.URLParam(r, "threadID"))
	if err := s.streams.Cancel(id); err != nil {
		writeError(w, http.StatusNotFound, "no active stream for thread")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "thread not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what+" failed", "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
