package contextmgr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

func setupManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database, zerolog.Nop())
	return New(s, zerolog.Nop()), s
}

func TestEnsureContextFromProfile(t *testing.T) {
	m, s := setupManager(t)
	ctx := context.Background()

	profile := &model.UserProfile{
		UserID:          "user-1",
		FirstName:       "Sam",
		Interests:       []string{"breast cancer"},
		PreferredCauses: []string{"research"},
		CommunicationPreferences: model.CommunicationPreferences{
			Email: true,
		},
	}
	if err := s.PutProfile(ctx, profile); err != nil {
		t.Fatalf("PutProfile() error: %v", err)
	}

	uc, err := m.EnsureContext(ctx, "user-1")
	if err != nil {
		t.Fatalf("EnsureContext() error: %v", err)
	}
	if uc.Version != 1 {
		t.Errorf("expected version 1, got %d", uc.Version)
	}
	if uc.Profile == nil || uc.Profile.FirstName != "Sam" {
		t.Errorf("expected profile snapshot, got %+v", uc.Profile)
	}
	if len(uc.Preferences.Interests) != 1 || uc.Preferences.Interests[0] != "breast cancer" {
		t.Errorf("expected interests copied, got %v", uc.Preferences.Interests)
	}
	if !uc.Preferences.CommunicationPreferences.Email {
		t.Error("expected communication preferences copied")
	}

	// A second call returns the same version, not a new one.
	again, err := m.EnsureContext(ctx, "user-1")
	if err != nil {
		t.Fatalf("second EnsureContext() error: %v", err)
	}
	if again.Version != 1 {
		t.Errorf("expected version 1 on repeat, got %d", again.Version)
	}
}

func TestEnsureContextWithoutProfile(t *testing.T) {
	m, _ := setupManager(t)

	uc, err := m.EnsureContext(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("EnsureContext() error: %v", err)
	}
	if uc.Version != 1 || uc.Profile != nil {
		t.Errorf("expected empty version-1 context, got %+v", uc)
	}
}

func TestUpdateContextVersionMonotonic(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 4; i++ {
		uc, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{
			Preferences: &model.UserPreferences{Interests: []string{"lung cancer"}},
		})
		if err != nil {
			t.Fatalf("UpdateContext() error: %v", err)
		}
		if uc.Version <= last {
			t.Fatalf("version not monotonic: %d after %d", uc.Version, last)
		}
		last = uc.Version
	}

	// Retrieval returns the freshest version.
	current, err := m.GetContext(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	if current.Version != last {
		t.Errorf("expected version %d, got %d", last, current.Version)
	}
}

func TestUpdateReplacesMergeUnions(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	_, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("UpdateContext() error: %v", err)
	}

	// Update replaces the slice wholesale.
	uc, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: []string{"c"}},
	})
	if err != nil {
		t.Fatalf("UpdateContext() error: %v", err)
	}
	if len(uc.Preferences.Interests) != 1 || uc.Preferences.Interests[0] != "c" {
		t.Errorf("expected replaced interests [c], got %v", uc.Preferences.Interests)
	}

	// Merge unions, preserving order and dropping duplicates.
	uc, err = m.MergeContext(ctx, "user-1", model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: []string{"c", "d"}},
	})
	if err != nil {
		t.Fatalf("MergeContext() error: %v", err)
	}
	if len(uc.Preferences.Interests) != 2 || uc.Preferences.Interests[0] != "c" || uc.Preferences.Interests[1] != "d" {
		t.Errorf("expected merged interests [c d], got %v", uc.Preferences.Interests)
	}
}

func TestMergeAppendsHistory(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.AddEngagementRecord(ctx, "user-1", model.EngagementRecord{Type: "search"})
		if err != nil {
			t.Fatalf("AddEngagementRecord() error: %v", err)
		}
	}

	uc, err := m.GetContext(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	if len(uc.EngagementHistory) != 3 {
		t.Errorf("expected 3 history records, got %d", len(uc.EngagementHistory))
	}
}

func TestOldVersionsImmutable(t *testing.T) {
	m, s := setupManager(t)
	ctx := context.Background()

	_, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: []string{"original"}},
	})
	if err != nil {
		t.Fatalf("UpdateContext() error: %v", err)
	}
	_, err = m.UpdateContext(ctx, "user-1", model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: []string{"changed"}},
	})
	if err != nil {
		t.Fatalf("second UpdateContext() error: %v", err)
	}

	// Version 2 (the first update) still holds its original data.
	v2, err := s.GetContext(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("GetContext(v2) error: %v", err)
	}
	if len(v2.Preferences.Interests) != 1 || v2.Preferences.Interests[0] != "original" {
		t.Errorf("old version mutated: %v", v2.Preferences.Interests)
	}
}

func TestFlowStateLifecycle(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	uc, err := m.UpdateFlowState(ctx, "user-1", &model.FlowState{
		FlowType:    model.FlowInformation,
		CurrentStep: "gathering_feedback",
		CanResume:   true,
	})
	if err != nil {
		t.Fatalf("UpdateFlowState() error: %v", err)
	}
	if uc.CurrentFlow == nil || uc.CurrentFlow.FlowType != model.FlowInformation {
		t.Fatalf("expected flow state, got %+v", uc.CurrentFlow)
	}
	if uc.CurrentFlow.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped")
	}

	uc, err = m.ClearFlowState(ctx, "user-1")
	if err != nil {
		t.Fatalf("ClearFlowState() error: %v", err)
	}
	if uc.CurrentFlow != nil {
		t.Errorf("expected cleared flow, got %+v", uc.CurrentFlow)
	}
}

func TestHistoryEndpointAndRoutes(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{}); err != nil {
			t.Fatalf("UpdateContext() error: %v", err)
		}
	}

	r := chi.NewRouter()
	RegisterRoutes(r, m)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/context/user-1")
	if err != nil {
		t.Fatalf("GET context: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var uc model.UserContext
	if err := json.NewDecoder(resp.Body).Decode(&uc); err != nil {
		t.Fatalf("decoding context: %v", err)
	}
	if uc.Version != 4 {
		t.Errorf("expected version 4, got %d", uc.Version)
	}

	resp, err = srv.Client().Get(srv.URL + "/context/user-1/history?limit=2")
	if err != nil {
		t.Fatalf("GET history: %v", err)
	}
	defer resp.Body.Close()
	var history []model.UserContext
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(history) != 2 || history[0].Version != 4 {
		t.Errorf("expected newest-first history of 2, got %+v", history)
	}

	// Unknown user yields the not-found envelope.
	resp, err = srv.Client().Get(srv.URL + "/context/nobody")
	if err != nil {
		t.Fatalf("GET missing context: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateRouteAppliesPartialUpdate(t *testing.T) {
	m, _ := setupManager(t)

	r := chi.NewRouter()
	RegisterRoutes(r, m)
	srv := httptest.NewServer(r)
	defer srv.Close()

	body := `{"preferences":{"interests":["screening"],"communicationPreferences":{"email":true}}}`
	resp, err := srv.Client().Post(srv.URL+"/context/user-9", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST context: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var uc model.UserContext
	if err := json.NewDecoder(resp.Body).Decode(&uc); err != nil {
		t.Fatalf("decoding context: %v", err)
	}
	if uc.Version != 2 {
		t.Errorf("expected version 2 (after ensure), got %d", uc.Version)
	}
	if len(uc.Preferences.Interests) != 1 || uc.Preferences.Interests[0] != "screening" {
		t.Errorf("interests not applied: %v", uc.Preferences.Interests)
	}
}

func TestWriteConflictSurfacesAfterRetries(t *testing.T) {
	m, s := setupManager(t)
	ctx := context.Background()

	if _, err := m.EnsureContext(ctx, "user-1"); err != nil {
		t.Fatalf("EnsureContext() error: %v", err)
	}

	// Occupy the next three versions so every retry collides.
	for v := int64(2); v <= 10; v++ {
		err := s.PutContext(ctx, &model.UserContext{UserID: "user-1", Version: v})
		if err != nil {
			t.Fatalf("PutContext(v%d) error: %v", v, err)
		}
	}

	// The manager re-reads on each retry, so it lands above version 10.
	uc, err := m.UpdateContext(ctx, "user-1", model.ContextUpdate{})
	if err != nil {
		t.Fatalf("UpdateContext() error: %v", err)
	}
	if uc.Version != 11 {
		t.Errorf("expected version 11 after catching up, got %d", uc.Version)
	}
}

func TestConcurrentUpdatesAllLand(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	if _, err := m.EnsureContext(ctx, "user-1"); err != nil {
		t.Fatalf("EnsureContext() error: %v", err)
	}

	const writers = 4
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			_, err := m.AddEngagementRecord(ctx, "user-1", model.EngagementRecord{Type: "chat"})
			errs <- err
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-errs; err != nil && !errors.Is(err, model.ErrVersionConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	uc, err := m.GetContext(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetContext() error: %v", err)
	}
	// Serialized writers each got their own version.
	if uc.Version < 2 {
		t.Errorf("expected at least one successful update, version %d", uc.Version)
	}
}
