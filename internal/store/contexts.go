package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// PutContext inserts a new context version. The (user_id, version)
// primary key acts as the conditional-write token: if that exact
// version already exists the insert fails and model.ErrVersionConflict
// is returned, letting the caller re-read and retry.
func (s *Store) PutContext(ctx context.Context, uc *model.UserContext) error {
	doc, err := json.Marshal(uc)
	if err != nil {
		return fmt.Errorf("encoding context: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contexts (user_id, version, timestamp, document) VALUES (?, ?, ?, ?)`,
		uc.UserID, uc.Version, uc.Timestamp, string(doc),
	)
	if isConstraintErr(err) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("inserting context version: %w", err)
	}
	return nil
}

// GetLatestContext returns the highest version of a supporter's context,
// or model.ErrNotFound when none exists.
func (s *Store) GetLatestContext(ctx context.Context, userID string) (*model.UserContext, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM contexts WHERE user_id = ? ORDER BY version DESC LIMIT 1`,
		userID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest context: %w", err)
	}
	return decodeContext(doc)
}

// GetContext returns one specific context version.
func (s *Store) GetContext(ctx context.Context, userID string, version int64) (*model.UserContext, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM contexts WHERE user_id = ? AND version = ?`,
		userID, version,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting context version: %w", err)
	}
	return decodeContext(doc)
}

// ContextHistory returns the most recent context versions, newest first.
func (s *Store) ContextHistory(ctx context.Context, userID string, limit int) ([]model.UserContext, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM contexts WHERE user_id = ? ORDER BY version DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying context history: %w", err)
	}
	defer rows.Close()

	var history []model.UserContext
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning context: %w", err)
		}
		uc, err := decodeContext(doc)
		if err != nil {
			return nil, err
		}
		history = append(history, *uc)
	}
	return history, rows.Err()
}

func decodeContext(doc string) (*model.UserContext, error) {
	var uc model.UserContext
	if err := json.Unmarshal([]byte(doc), &uc); err != nil {
		return nil, fmt.Errorf("decoding context: %w", err)
	}
	return &uc, nil
}
