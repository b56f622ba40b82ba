package model

import "time"

// KnowledgeArticle is one entry in the patient information knowledge base.
type KnowledgeArticle struct {
	ArticleID   string    `json:"articleId"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CancerTypes []string  `json:"cancerTypes,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// ResearchPaper is a published research output surfaced on dashboards.
type ResearchPaper struct {
	PaperID     string    `json:"paperId"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors,omitempty"`
	Abstract    string    `json:"abstract,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Citations   int       `json:"citations"`
	Featured    bool      `json:"featured"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// SearchQuery is a knowledge-base search request.
type SearchQuery struct {
	Query       string   `json:"query"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CancerTypes []string `json:"cancerTypes,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}
