package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/api"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// donationListLimit caps how many donations the profile response carries.
const donationListLimit = 50

// Handler serves the profile endpoints.
type Handler struct {
	store *store.Store
	log   zerolog.Logger
}

// NewHandler creates a profile handler.
func NewHandler(s *store.Store, log zerolog.Logger) *Handler {
	return &Handler{store: s, log: log.With().Str("component", "profile").Logger()}
}

// RegisterRoutes mounts the profile API routes. The user ID is accepted
// both as a query parameter and as a path segment.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/profile", h.handleGetProfile)
	r.Get("/profile/{userID}", h.handleGetProfile)
}

// profileResponse is the GET /profile payload.
type profileResponse struct {
	Profile              *model.UserProfile `json:"profile"`
	Donations            []model.Donation   `json:"donations"`
	ProfileType          model.ProfileType  `json:"profileType"`
	HasEngagementContext bool               `json:"hasEngagementContext"`
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		userID = r.URL.Query().Get("userId")
	}
	if userID == "" {
		api.MissingUserID(w)
		return
	}

	p, err := h.store.GetProfile(r.Context(), userID)
	if errors.Is(err, model.ErrNotFound) {
		api.UserNotFound(w)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("loading profile")
		api.Internal(w)
		return
	}

	donations, err := h.store.ListDonations(r.Context(), userID, donationListLimit)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("loading donations")
		api.Internal(w)
		return
	}
	if donations == nil {
		donations = []model.Donation{}
	}

	// Engagement context follows from the classification: a returning
	// supporter by definition has engagement history behind their type.
	profileType := DetermineProfileType(p, donations)

	api.WriteJSON(w, http.StatusOK, profileResponse{
		Profile:              p,
		Donations:            donations,
		ProfileType:          profileType,
		HasEngagementContext: profileType == model.ProfileReturningUser,
	})
}
