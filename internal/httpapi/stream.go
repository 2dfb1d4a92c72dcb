package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rp-bot/AbletonBuddy/internal/pipeline"
	"github.com/rp-bot/AbletonBuddy/internal/store"
	"github.com/rp-bot/AbletonBuddy/internal/types"
)

type streamRequest struct {
	Message string `json:"message"`
}

// handleStream runs one user turn and relays its events as SSE until
// the terminal event. Cancellation is out of band via DELETE .../stream.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := types.ThreadID(chi.URLParam(r, "threadID"))

	var req streamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	h, err := s.orch.StartTurn(r.Context(), id, req.Message)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "thread not found")
		return
	case errors.Is(err, pipeline.ErrActiveRun):
		writeError(w, http.StatusConflict, "thread already has an active stream")
		return
	case err != nil:
		s.internalError(w, "start turn", err)
		return
	}
	defer s.orch.Release(h)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	send := func(e types.Event) bool {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, e.Data)
		flusher.Flush()
		return e.Terminal()
	}

	for {
		select {
		case e := <-h.Relay.Events():
			if send(e) {
				return
			}
		case <-h.Done():
			// run finished; flush whatever is still buffered
			for {
				select {
				case e := <-h.Relay.Events():
					if send(e) {
						return
					}
				default:
					return
				}
			}
		case <-r.Context().Done():
			// client went away; stop the run, nobody is reading
			s.logger.Info("stream client disconnected", "thread", id)
			h.Cancel()
			return
		}
	}
}
