package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// maxEventBytes bounds the request body of a chat event.
const maxEventBytes = 64 * 1024

// handleHealth reports liveness. No auth, no detail.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleChatEvent applies one UI event and returns the refreshed chat
// state for the session.
func (s *Server) handleChatEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.UIEvent
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err := dec.Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	state, err := s.coach.HandleEvent(r.Context(), ev)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleHistory returns the chat state of an existing session.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	state, err := s.coach.History(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleWebSocket upgrades the connection and runs the event loop: one
// inbound UIEvent produces one outbound ChatState frame.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket client connected")

	for {
		var ev domain.UIEvent
		if err := conn.ReadJSON(&ev); err != nil {
			s.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("websocket client disconnected")
			return
		}

		state, err := s.coach.HandleEvent(r.Context(), ev)
		if err != nil {
			if werr := conn.WriteJSON(map[string]string{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(state); err != nil {
			return
		}
	}
}

// handleNotFound returns a JSON 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
