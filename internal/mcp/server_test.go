package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

func setupMCP(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database, zerolog.Nop())
	return NewServer(s), s
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_knowledge_base", searchKnowledgeBaseTool, "search_knowledge_base"},
		{"list_research_papers", listResearchPapersTool, "list_research_papers"},
		{"get_supporter_profile", getSupporterProfileTool, "get_supporter_profile"},
		{"get_supporter_context", getSupporterContextTool, "get_supporter_context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, s := setupMCP(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store != s {
		t.Error("store not set correctly")
	}
}

func TestHandleSearchKnowledgeBase(t *testing.T) {
	srv, s := setupMCP(t)
	ctx := context.Background()

	err := s.PutArticle(ctx, &model.KnowledgeArticle{
		Title:    "Understanding immunotherapy",
		Summary:  "How the immune system fights cancer.",
		Category: "treatment",
	})
	if err != nil {
		t.Fatalf("PutArticle() error: %v", err)
	}

	t.Run("basic search", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "immunotherapy"}

		result, err := srv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := textOf(t, result); !strings.Contains(text, "Understanding immunotherapy") {
			t.Errorf("expected article title in output, got %q", text)
		}
	})

	t.Run("category filter excludes", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "immunotherapy", "category": "prevention"}

		result, err := srv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text := textOf(t, result); !strings.Contains(text, "No articles matched") {
			t.Errorf("expected no-match message, got %q", text)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchKnowledgeBase(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleListResearchPapers(t *testing.T) {
	srv, s := setupMCP(t)
	ctx := context.Background()

	err := s.PutResearchPaper(ctx, &model.ResearchPaper{
		Title:     "CAR-T advances",
		Tags:      []string{"immunotherapy"},
		Citations: 40,
		Featured:  true,
	})
	if err != nil {
		t.Fatalf("PutResearchPaper() error: %v", err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"topics": "immunotherapy, breast cancer"}

	result, err := srv.handleListResearchPapers(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if text := textOf(t, result); !strings.Contains(text, "CAR-T advances") {
		t.Errorf("expected paper title in output, got %q", text)
	}
}

func TestHandleGetSupporterProfile(t *testing.T) {
	srv, s := setupMCP(t)
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"user_id": "nobody"}

		result, err := srv.handleGetSupporterProfile(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown user")
		}
	})

	t.Run("known user", func(t *testing.T) {
		err := s.PutProfile(ctx, &model.UserProfile{UserID: "u1", FirstName: "Sam"})
		if err != nil {
			t.Fatalf("PutProfile() error: %v", err)
		}
		err = s.AddDonation(ctx, &model.Donation{UserID: "u1", Amount: 25, ReceivedDate: time.Now().UTC()})
		if err != nil {
			t.Fatalf("AddDonation() error: %v", err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"user_id": "u1"}

		result, err := srv.handleGetSupporterProfile(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := textOf(t, result)
		if !strings.Contains(text, "Sam") || !strings.Contains(text, "donationSummary") {
			t.Errorf("expected profile JSON with donation summary, got %q", text)
		}
	})
}

func TestHandleGetSupporterContext(t *testing.T) {
	srv, s := setupMCP(t)
	ctx := context.Background()

	t.Run("no context", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"user_id": "nobody"}

		result, err := srv.handleGetSupporterContext(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error when no context exists")
		}
	})

	t.Run("latest version", func(t *testing.T) {
		err := s.PutContext(ctx, &model.UserContext{
			UserID:    "u1",
			Version:   1,
			Timestamp: time.Now().UTC(),
			Preferences: model.UserPreferences{
				Interests: []string{"research"},
			},
		})
		if err != nil {
			t.Fatalf("PutContext() error: %v", err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"user_id": "u1"}

		result, err := srv.handleGetSupporterContext(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := textOf(t, result); !strings.Contains(text, "research") {
			t.Errorf("expected interests in context JSON, got %q", text)
		}
	})
}
