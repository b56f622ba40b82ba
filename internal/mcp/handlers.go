package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// handleSearchKnowledgeBase searches articles and formats them for an
// AI assistant.
func (s *Server) handleSearchKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	articles, err := s.store.SearchArticles(ctx, model.SearchQuery{
		Query:    query,
		Category: request.GetString("category", ""),
		Limit:    limit,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(articles) == 0 {
		return mcp.NewToolResultText("No articles matched. Try broader terms or drop the category filter."), nil
	}

	return mcp.NewToolResultText(formatArticles(articles)), nil
}

// handleListResearchPapers lists papers for the given topics.
func (s *Server) handleListResearchPapers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	var tags []string
	for _, t := range strings.Split(request.GetString("topics", ""), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	papers, err := s.store.SearchResearchPapers(ctx, tags, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("paper lookup failed: %v", err)), nil
	}

	if len(papers) == 0 {
		return mcp.NewToolResultText("No research papers matched those topics."), nil
	}

	return mcp.NewToolResultText(formatPapers(papers)), nil
}

// handleGetSupporterProfile returns a profile plus donation summary as JSON.
func (s *Server) handleGetSupporterProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}

	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no profile found for user %q", userID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("profile lookup failed: %v", err)), nil
	}

	summary, err := s.store.DonationSummary(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("donation summary failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(map[string]any{
		"profile":         p,
		"donationSummary": summary,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding profile: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetSupporterContext returns the latest versioned context as JSON.
func (s *Server) handleGetSupporterContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: user_id"), nil
	}

	uc, err := s.store.GetLatestContext(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no engagement context exists for user %q", userID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context lookup failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(uc, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding context: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// formatArticles converts articles into a text format for AI agent consumption.
func formatArticles(articles []model.KnowledgeArticle) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d article(s):\n", len(articles)))

	for i, a := range articles {
		sb.WriteString(fmt.Sprintf("\n--- Article %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", a.Title))
		if a.Category != "" {
			sb.WriteString(fmt.Sprintf("Category: %s\n", a.Category))
		}
		if len(a.CancerTypes) > 0 {
			sb.WriteString(fmt.Sprintf("Cancer types: %s\n", strings.Join(a.CancerTypes, ", ")))
		}
		if a.URL != "" {
			sb.WriteString(fmt.Sprintf("URL: %s\n", a.URL))
		}
		if a.Summary != "" {
			sb.WriteString("\n")
			sb.WriteString(a.Summary)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatPapers converts research papers into a text format.
func formatPapers(papers []model.ResearchPaper) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d paper(s):\n", len(papers)))

	for i, p := range papers {
		sb.WriteString(fmt.Sprintf("\n--- Paper %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Title: %s\n", p.Title))
		if len(p.Authors) > 0 {
			sb.WriteString(fmt.Sprintf("Authors: %s\n", strings.Join(p.Authors, ", ")))
		}
		sb.WriteString(fmt.Sprintf("Citations: %d\n", p.Citations))
		if p.Featured {
			sb.WriteString("Featured: yes\n")
		}
		if p.URL != "" {
			sb.WriteString(fmt.Sprintf("URL: %s\n", p.URL))
		}
		if p.Abstract != "" {
			sb.WriteString("\n")
			sb.WriteString(p.Abstract)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
