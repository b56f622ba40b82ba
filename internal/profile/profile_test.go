package profile

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

func TestDetermineProfileType(t *testing.T) {
	tests := []struct {
		name      string
		profile   *model.UserProfile
		donations []model.Donation
		want      model.ProfileType
	}{
		{"nil profile", nil, nil, model.ProfileNewUser},
		{"completely empty", &model.UserProfile{}, nil, model.ProfileNewUser},
		{"donations only", &model.UserProfile{}, []model.Donation{{Amount: 10}}, model.ProfileReturningUser},
		{"donation count only", &model.UserProfile{DonationCount: 2}, nil, model.ProfileReturningUser},
		{"interests and events", &model.UserProfile{Interests: []string{"research"}, HasAttendedEvents: true}, nil, model.ProfileReturningUser},
		{"fundraiser", &model.UserProfile{Interests: []string{"research"}, HasFundraised: true}, nil, model.ProfileReturningUser},
		{"interests only", &model.UserProfile{Interests: []string{"research"}}, nil, model.ProfileBasicInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineProfileType(tt.profile, tt.donations)
			if got != tt.want {
				t.Errorf("DetermineProfileType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func setupHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database, zerolog.Nop())
	return NewHandler(s, zerolog.Nop()), s
}

func serve(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetProfileMissingUserID(t *testing.T) {
	h, _ := setupHandler(t)
	srv := serve(t, h)

	resp, err := srv.Client().Get(srv.URL + "/profile")
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.Error.Code != "MISSING_USER_ID" {
		t.Errorf("expected MISSING_USER_ID, got %q", env.Error.Code)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	h, _ := setupHandler(t)
	srv := serve(t, h)

	resp, err := srv.Client().Get(srv.URL + "/profile?userId=nobody")
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetProfileFull(t *testing.T) {
	h, s := setupHandler(t)
	ctx := context.Background()

	err := s.PutProfile(ctx, &model.UserProfile{
		UserID:        "user-1",
		FirstName:     "Jo",
		DonationCount: 2,
	})
	if err != nil {
		t.Fatalf("PutProfile() error: %v", err)
	}
	for i := 0; i < 2; i++ {
		err := s.AddDonation(ctx, &model.Donation{
			UserID:       "user-1",
			Amount:       25,
			ReceivedDate: time.Now().UTC().AddDate(0, -i, 0),
		})
		if err != nil {
			t.Fatalf("AddDonation() error: %v", err)
		}
	}
	srv := serve(t, h)
	for _, url := range []string{"/profile?userId=user-1", "/profile/user-1"} {
		resp, err := srv.Client().Get(srv.URL + url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("GET %s: expected 200, got %d", url, resp.StatusCode)
		}

		var body struct {
			Profile              *model.UserProfile `json:"profile"`
			Donations            []model.Donation   `json:"donations"`
			ProfileType          model.ProfileType  `json:"profileType"`
			HasEngagementContext bool               `json:"hasEngagementContext"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if body.Profile == nil || body.Profile.FirstName != "Jo" {
			t.Errorf("profile mismatch: %+v", body.Profile)
		}
		if len(body.Donations) != 2 {
			t.Errorf("expected 2 donations, got %d", len(body.Donations))
		}
		if body.ProfileType != model.ProfileReturningUser {
			t.Errorf("expected RETURNING_USER, got %q", body.ProfileType)
		}
		// No context record was stored; engagement context reflects the
		// returning classification, not conversation history.
		if !body.HasEngagementContext {
			t.Error("expected hasEngagementContext true")
		}
	}
}

func TestGetProfileNewUser(t *testing.T) {
	h, s := setupHandler(t)
	ctx := context.Background()

	err := s.PutProfile(ctx, &model.UserProfile{UserID: "user-2"})
	if err != nil {
		t.Fatalf("PutProfile() error: %v", err)
	}
	// A stored context record does not make a new user "engaged".
	err = s.PutContext(ctx, &model.UserContext{UserID: "user-2", Version: 1, Timestamp: time.Now().UTC()})
	if err != nil {
		t.Fatalf("PutContext() error: %v", err)
	}

	srv := serve(t, h)
	resp, err := srv.Client().Get(srv.URL + "/profile?userId=user-2")
	if err != nil {
		t.Fatalf("GET /profile: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		ProfileType          model.ProfileType `json:"profileType"`
		HasEngagementContext bool              `json:"hasEngagementContext"`
		Donations            []model.Donation  `json:"donations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.ProfileType != model.ProfileNewUser {
		t.Errorf("expected NEW_USER, got %q", body.ProfileType)
	}
	if body.HasEngagementContext {
		t.Error("expected hasEngagementContext false")
	}
	if body.Donations == nil {
		t.Error("donations should encode as [], not null")
	}
}
