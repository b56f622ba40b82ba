package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// PutSession inserts or replaces a session document.
func (s *Store) PutSession(ctx context.Context, sess *model.SessionContext) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (session_id, user_id, document, created_at, last_activity)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.SessionID, sess.UserID, string(doc), sess.CreatedAt, sess.LastActivity,
	)
	if err != nil {
		return fmt.Errorf("putting session: %w", err)
	}
	return nil
}

// GetSession loads a session. Sessions idle longer than ttl are treated
// as expired: the row is deleted and model.ErrSessionExpired returned.
// A ttl of zero disables expiry.
func (s *Store) GetSession(ctx context.Context, sessionID string, ttl time.Duration) (*model.SessionContext, error) {
	var (
		doc          string
		lastActivity time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT document, last_activity FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&doc, &lastActivity)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if ttl > 0 && time.Since(lastActivity) > ttl {
		// Cleanup is best-effort; the purge sweep catches leftovers.
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("removing expired session")
		}
		return nil, model.ErrSessionExpired
	}

	var sess model.SessionContext
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes all sessions idle longer than ttl and
// returns how many were removed.
func (s *Store) PurgeExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-ttl)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
