package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleAgentQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", contractx.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
	defer cancel()

	result, err := s.agent.HandleQuery(ctx, req.SessionID, req.Query)
	if err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("query failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAgentQueryStream runs the same pipeline over server-sent events.
// Once the stream is open all failures travel as error events, never as
// HTTP statuses.
func (s *Server) handleAgentQueryStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, fmt.Errorf("%w: streaming unsupported", contractx.ErrInternal))
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", contractx.ErrValidation))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
	defer cancel()

	emit := func(ev contractx.Event) error {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", ev.Name, err)
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := s.agent.HandleQueryStream(ctx, req.SessionID, req.Query, emit); err != nil {
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("streaming query failed")
	}
}
