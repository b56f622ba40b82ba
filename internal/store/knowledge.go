package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// PutArticle inserts or replaces a knowledge article.
func (s *Store) PutArticle(ctx context.Context, a *model.KnowledgeArticle) error {
	if a.ArticleID == "" {
		a.ArticleID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO articles (article_id, title, summary, content, category, tags, cancer_types, url, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ArticleID, a.Title, a.Summary, a.Content, a.Category,
		marshalStrings(a.Tags), marshalStrings(a.CancerTypes), a.URL, a.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("putting article: %w", err)
	}
	return nil
}

// SearchArticles performs a substring search over the knowledge base.
// The query matches title, summary, and content; category is an exact
// filter; tags and cancer types match when any requested value appears.
func (s *Store) SearchArticles(ctx context.Context, q model.SearchQuery) ([]model.KnowledgeArticle, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT article_id, title, summary, content, category, tags, cancer_types, url, published_at
		 FROM articles WHERE (title LIKE ? OR summary LIKE ? OR content LIKE ?)`
	like := "%" + q.Query + "%"
	args := []any{like, like, like}

	if q.Category != "" {
		query += " AND category = ?"
		args = append(args, q.Category)
	}
	for _, clause := range []struct {
		column string
		values []string
	}{
		{"tags", q.Tags},
		{"cancer_types", q.CancerTypes},
	} {
		if len(clause.values) == 0 {
			continue
		}
		query += " AND ("
		for i, v := range clause.values {
			if i > 0 {
				query += " OR "
			}
			query += clause.column + " LIKE ?"
			args = append(args, `%"`+v+`"%`)
		}
		query += ")"
	}

	query += " ORDER BY published_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}
	defer rows.Close()

	var articles []model.KnowledgeArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func scanArticle(rows *sql.Rows) (*model.KnowledgeArticle, error) {
	var (
		a           model.KnowledgeArticle
		tags        string
		cancerTypes string
		publishedAt sql.NullTime
	)
	if err := rows.Scan(&a.ArticleID, &a.Title, &a.Summary, &a.Content, &a.Category,
		&tags, &cancerTypes, &a.URL, &publishedAt); err != nil {
		return nil, fmt.Errorf("scanning article: %w", err)
	}
	a.Tags = unmarshalStrings(tags)
	a.CancerTypes = unmarshalStrings(cancerTypes)
	if publishedAt.Valid {
		a.PublishedAt = publishedAt.Time
	}
	return &a, nil
}

// PutResearchPaper inserts or replaces a research paper.
func (s *Store) PutResearchPaper(ctx context.Context, p *model.ResearchPaper) error {
	if p.PaperID == "" {
		p.PaperID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO research_papers (paper_id, title, authors, abstract, tags, citations, featured, url, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PaperID, p.Title, marshalStrings(p.Authors), p.Abstract,
		marshalStrings(p.Tags), p.Citations, p.Featured, p.URL, p.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("putting research paper: %w", err)
	}
	return nil
}

// SearchResearchPapers finds papers matching any of the given tags,
// featured papers first, then by citation count. Empty tags returns the
// top papers overall.
func (s *Store) SearchResearchPapers(ctx context.Context, tags []string, limit int) ([]model.ResearchPaper, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `SELECT paper_id, title, authors, abstract, tags, citations, featured, url, published_at
		 FROM research_papers`
	var args []any

	if len(tags) > 0 {
		query += " WHERE "
		for i, tag := range tags {
			if i > 0 {
				query += " OR "
			}
			query += "tags LIKE ?"
			args = append(args, `%"`+tag+`"%`)
		}
	}

	query += " ORDER BY featured DESC, citations DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching research papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// FeaturedPapers returns the featured research papers by citation count.
func (s *Store) FeaturedPapers(ctx context.Context, limit int) ([]model.ResearchPaper, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title, authors, abstract, tags, citations, featured, url, published_at
		 FROM research_papers WHERE featured = 1 ORDER BY citations DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying featured papers: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

func scanPapers(rows *sql.Rows) ([]model.ResearchPaper, error) {
	var papers []model.ResearchPaper
	for rows.Next() {
		var (
			p           model.ResearchPaper
			authors     string
			tags        string
			publishedAt sql.NullTime
		)
		if err := rows.Scan(&p.PaperID, &p.Title, &authors, &p.Abstract, &tags,
			&p.Citations, &p.Featured, &p.URL, &publishedAt); err != nil {
			return nil, fmt.Errorf("scanning research paper: %w", err)
		}
		p.Authors = unmarshalStrings(authors)
		p.Tags = unmarshalStrings(tags)
		if publishedAt.Valid {
			p.PublishedAt = publishedAt.Time
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
