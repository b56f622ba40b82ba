// Package search serves knowledge-base search over patient information
// articles.
package search

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/api"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// Handler serves the search endpoint.
type Handler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewHandler creates a search handler.
func NewHandler(s *store.Store, log zerolog.Logger) *Handler {
	return &Handler{store: s, log: log.With().Str("component", "search").Logger()}
}

// RegisterRoutes mounts the search API route.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/search", h.handleSearch)
}

// searchRequest is the POST /search body.
type searchRequest struct {
	UserID  string         `json:"userId"`
	Query   string         `json:"query"`
	Filters *searchFilters `json:"filters,omitempty"`
	Limit   int            `json:"limit,omitempty"`
}

type searchFilters struct {
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CancerTypes []string `json:"cancerTypes,omitempty"`
}

// searchResponse is the POST /search payload.
type searchResponse struct {
	Query        string                   `json:"query"`
	Articles     []model.KnowledgeArticle `json:"articles"`
	TotalResults int                      `json:"totalResults"`
	Source       string                   `json:"source"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil || r.ContentLength == 0 {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingBody,
			Message:     "request body is required",
			UserMessage: "We couldn't read your search.",
		})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingBody,
			Message:     "request body must be valid JSON",
			UserMessage: "We couldn't read your search.",
		})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		api.WriteError(w, http.StatusBadRequest, api.ErrorBody{
			Code:        api.CodeMissingFields,
			Message:     "query is required",
			UserMessage: "Please tell us what to search for.",
		})
		return
	}

	q := model.SearchQuery{Query: req.Query, Limit: req.Limit}
	if req.Filters != nil {
		q.Category = req.Filters.Category
		q.Tags = req.Filters.Tags
		q.CancerTypes = req.Filters.CancerTypes
	}

	articles, err := h.store.SearchArticles(r.Context(), q)
	if err != nil {
		h.log.Error().Err(err).Str("query", req.Query).Msg("searching articles")
		api.Internal(w)
		return
	}
	if articles == nil {
		articles = []model.KnowledgeArticle{}
	}

	// Record the search for personalization; a failure here never
	// blocks the response.
	if req.UserID != "" {
		err := h.store.RecordEngagement(r.Context(), req.UserID, model.EngagementRecord{
			Type: "search",
			Details: map[string]any{
				"query":   req.Query,
				"results": len(articles),
			},
		})
		if err != nil {
			h.log.Warn().Err(err).Str("user", req.UserID).Msg("recording search engagement")
		}
	}

	api.WriteJSON(w, http.StatusOK, searchResponse{
		Query:        req.Query,
		Articles:     articles,
		TotalResults: len(articles),
		Source:       "knowledge_base",
	})
}
