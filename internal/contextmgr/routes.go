package contextmgr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crukhq/supporter-engagement/internal/api"
	"github.com/crukhq/supporter-engagement/internal/model"
)

// RegisterRoutes mounts the context management API routes.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/context", func(r chi.Router) {
		r.Get("/{userID}", handleGetContext(m))
		r.Get("/{userID}/history", handleHistory(m))
		r.Post("/{userID}", handleUpdateContext(m))
	})
}

func handleGetContext(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			api.MissingUserID(w)
			return
		}

		uc, err := m.GetContext(r.Context(), userID)
		if errors.Is(err, model.ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, api.ErrorBody{
				Code:        api.CodeContextNotFound,
				Message:     "no context exists for the given userId",
				UserMessage: "We don't have any engagement history for you yet.",
			})
			return
		}
		if err != nil {
			m.log.Error().Err(err).Str("user", userID).Msg("getting context")
			api.Internal(w)
			return
		}

		api.WriteJSON(w, http.StatusOK, uc)
	}
}

func handleHistory(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			api.MissingUserID(w)
			return
		}

		limit := 10
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		history, err := m.ContextHistory(r.Context(), userID, limit)
		if err != nil {
			m.log.Error().Err(err).Str("user", userID).Msg("getting context history")
			api.Internal(w)
			return
		}
		if history == nil {
			history = []model.UserContext{}
		}

		api.WriteJSON(w, http.StatusOK, history)
	}
}

func handleUpdateContext(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			api.MissingUserID(w)
			return
		}

		var update model.ContextUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
				Code:        api.CodeMissingBody,
				Message:     "request body must be a JSON context update",
				UserMessage: "We couldn't read that update.",
			})
			return
		}

		uc, err := m.UpdateContext(r.Context(), userID, update)
		if errors.Is(err, model.ErrVersionConflict) {
			api.WriteError(w, http.StatusConflict, api.ErrorBody{
				Code:            api.CodeVersionConflict,
				Message:         "context was updated concurrently",
				UserMessage:     "Your profile was being updated elsewhere.",
				Retryable:       true,
				SuggestedAction: "Please retry the update.",
			})
			return
		}
		if err != nil {
			m.log.Error().Err(err).Str("user", userID).Msg("updating context")
			api.Internal(w)
			return
		}

		api.WriteJSON(w, http.StatusOK, uc)
	}
}
