package search

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

func setupSearch(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database, zerolog.Nop())

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(s, zerolog.Nop()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func TestSearchMissingBody(t *testing.T) {
	srv, _ := setupSearch(t)

	resp, err := srv.Client().Post(srv.URL+"/search", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.Error.Code != "MISSING_BODY" {
		t.Errorf("expected MISSING_BODY, got %q", env.Error.Code)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	srv, _ := setupSearch(t)

	resp, err := srv.Client().Post(srv.URL+"/search", "application/json", strings.NewReader(`{"userId":"u1"}`))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if env.Error.Code != "MISSING_REQUIRED_FIELDS" {
		t.Errorf("expected MISSING_REQUIRED_FIELDS, got %q", env.Error.Code)
	}
}

func TestSearchReturnsResultsAndRecordsEngagement(t *testing.T) {
	srv, s := setupSearch(t)
	ctx := context.Background()

	err := s.PutArticle(ctx, &model.KnowledgeArticle{
		Title:   "Understanding immunotherapy",
		Summary: "How the immune system fights cancer",
	})
	if err != nil {
		t.Fatalf("PutArticle() error: %v", err)
	}

	resp, err := srv.Client().Post(srv.URL+"/search", "application/json",
		strings.NewReader(`{"userId":"u1","query":"immunotherapy"}`))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Query        string                   `json:"query"`
		Articles     []model.KnowledgeArticle `json:"articles"`
		TotalResults int                      `json:"totalResults"`
		Source       string                   `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.TotalResults != 1 || len(body.Articles) != 1 {
		t.Errorf("expected 1 result, got %+v", body)
	}
	if body.Source != "knowledge_base" {
		t.Errorf("expected knowledge_base source, got %q", body.Source)
	}

	records, err := s.ListEngagements(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListEngagements() error: %v", err)
	}
	if len(records) != 1 || records[0].Type != "search" {
		t.Errorf("expected one search engagement, got %+v", records)
	}
}

func TestSearchNoResultsIsEmptyArray(t *testing.T) {
	srv, _ := setupSearch(t)

	resp, err := srv.Client().Post(srv.URL+"/search", "application/json",
		strings.NewReader(`{"query":"nothing here"}`))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Articles     []model.KnowledgeArticle `json:"articles"`
		TotalResults int                      `json:"totalResults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Articles == nil || body.TotalResults != 0 {
		t.Errorf("expected empty results array, got %+v", body)
	}
}
