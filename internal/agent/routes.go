package agent

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/crukhq/supporter-engagement/internal/api"
)

// RegisterRoutes mounts the agent API routes.
func RegisterRoutes(r chi.Router, a *Agent) {
	r.Post("/agent", a.handleTurn)
	r.Post("/agent/end", a.handleEnd)
	r.Get("/agent/ws", a.handleWebSocket)
}

// turnRequest is the POST /agent body. Without a sessionId the call
// starts a new session; the message is then optional.
type turnRequest struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
}

type endRequest struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

func (a *Agent) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&req) != nil {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingBody,
			Message:     "request body must be valid JSON",
			UserMessage: "We couldn't read your message.",
		})
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		api.MissingUserID(w)
		return
	}

	if req.SessionID == "" && strings.TrimSpace(req.Message) == "" {
		resp, err := a.InitializeSession(r.Context(), req.UserID)
		if err != nil {
			a.log.Error().Err(err).Str("user", req.UserID).Msg("initializing session")
			api.Internal(w)
			return
		}
		api.WriteJSON(w, http.StatusOK, resp)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingFields,
			Message:     "message is required",
			UserMessage: "Please type a message.",
		})
		return
	}

	resp, err := a.ProcessInput(r.Context(), req.UserID, req.Message, req.SessionID)
	if err != nil {
		a.log.Error().Err(err).Str("user", req.UserID).Msg("processing turn")
		api.Internal(w)
		return
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

func (a *Agent) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if r.Body == nil || json.NewDecoder(r.Body).Decode(&req) != nil {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingBody,
			Message:     "request body must be valid JSON",
			UserMessage: "We couldn't read your request.",
		})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		api.MissingUserID(w)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingFields,
			Message:     "sessionId is required",
			UserMessage: "We couldn't find your conversation.",
		})
		return
	}

	if err := a.EndSession(r.Context(), req.UserID, req.SessionID); err != nil {
		a.log.Error().Err(err).Str("session", req.SessionID).Msg("ending session")
		api.Internal(w)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"ended": true})
}
