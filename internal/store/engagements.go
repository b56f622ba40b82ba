package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// RecordEngagement appends an interaction record for a supporter.
func (s *Store) RecordEngagement(ctx context.Context, userID string, rec model.EngagementRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO engagements (id, user_id, type, timestamp, details) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, userID, rec.Type, rec.Timestamp, marshal(rec.Details),
	)
	if err != nil {
		return fmt.Errorf("recording engagement: %w", err)
	}
	return nil
}

// ListEngagements returns a supporter's interaction records, newest first.
func (s *Store) ListEngagements(ctx context.Context, userID string, limit int) ([]model.EngagementRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, timestamp, details FROM engagements
		 WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying engagements: %w", err)
	}
	defer rows.Close()

	var records []model.EngagementRecord
	for rows.Next() {
		var (
			rec     model.EngagementRecord
			details string
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Timestamp, &details); err != nil {
			return nil, fmt.Errorf("scanning engagement: %w", err)
		}
		if details != "" && details != "{}" {
			json.Unmarshal([]byte(details), &rec.Details)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
