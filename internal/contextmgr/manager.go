// Package contextmgr maintains the versioned user context store. Every
// update writes a new immutable version; concurrent writers are
// serialized with a conditional insert on (user, version).
package contextmgr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// maxWriteRetries bounds how often a conflicting update is retried
// before ErrVersionConflict is surfaced to the caller.
const maxWriteRetries = 3

// Manager coordinates reads and versioned writes of user contexts.
type Manager struct {
	store *store.Store
	log   zerolog.Logger
}

// New creates a context manager over the given store.
func New(s *store.Store, log zerolog.Logger) *Manager {
	return &Manager{store: s, log: log.With().Str("component", "contextmgr").Logger()}
}

// GetContext returns the current (highest-version) context for a user.
// Returns model.ErrNotFound when the user has no context yet.
func (m *Manager) GetContext(ctx context.Context, userID string) (*model.UserContext, error) {
	return m.store.GetLatestContext(ctx, userID)
}

// EnsureContext returns the current context, deriving and persisting a
// version-1 context from the user's profile when none exists. Users
// without a stored profile still get a minimal context.
func (m *Manager) EnsureContext(ctx context.Context, userID string) (*model.UserContext, error) {
	current, err := m.store.GetLatestContext(ctx, userID)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	initial, err := m.initialContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := m.store.PutContext(ctx, initial); err != nil {
		// Another writer created version 1 first; theirs wins.
		if errors.Is(err, model.ErrVersionConflict) {
			return m.store.GetLatestContext(ctx, userID)
		}
		return nil, err
	}
	return initial, nil
}

// initialContext builds a version-1 context from the stored profile.
func (m *Manager) initialContext(ctx context.Context, userID string) (*model.UserContext, error) {
	initial := &model.UserContext{
		UserID:            userID,
		Version:           1,
		Timestamp:         time.Now().UTC(),
		EngagementHistory: []model.EngagementRecord{},
	}

	profile, err := m.store.GetProfile(ctx, userID)
	switch {
	case err == nil:
		initial.Profile = profile
		initial.Preferences = model.UserPreferences{
			Interests:                append([]string(nil), profile.Interests...),
			CauseAreas:               append([]string(nil), profile.PreferredCauses...),
			CommunicationPreferences: profile.CommunicationPreferences,
		}
	case errors.Is(err, model.ErrNotFound):
		// No profile on file: start from an empty context.
	default:
		return nil, fmt.Errorf("loading profile for initial context: %w", err)
	}

	return initial, nil
}

// UpdateContext applies a partial update and writes it as a new version.
// On a write conflict the current context is re-read and the update
// re-applied, up to maxWriteRetries times.
func (m *Manager) UpdateContext(ctx context.Context, userID string, update model.ContextUpdate) (*model.UserContext, error) {
	return m.writeNewVersion(ctx, userID, func(current *model.UserContext) *model.UserContext {
		return applyUpdate(current, update)
	})
}

// MergeContext folds an update into the current context rather than
// replacing fields: engagement history is appended, interests and cause
// areas are unioned, and communication preferences are taken from the
// update when present.
func (m *Manager) MergeContext(ctx context.Context, userID string, update model.ContextUpdate) (*model.UserContext, error) {
	return m.writeNewVersion(ctx, userID, func(current *model.UserContext) *model.UserContext {
		return mergeUpdate(current, update)
	})
}

// UpdateFlowState writes a new version carrying only a flow change.
func (m *Manager) UpdateFlowState(ctx context.Context, userID string, fs *model.FlowState) (*model.UserContext, error) {
	if fs != nil && fs.UpdatedAt.IsZero() {
		fs.UpdatedAt = time.Now().UTC()
	}
	return m.UpdateContext(ctx, userID, model.ContextUpdate{CurrentFlow: fs})
}

// ClearFlowState removes the active flow from the context.
func (m *Manager) ClearFlowState(ctx context.Context, userID string) (*model.UserContext, error) {
	return m.UpdateContext(ctx, userID, model.ContextUpdate{ClearFlow: true})
}

// AddEngagementRecord appends one interaction to the context history.
func (m *Manager) AddEngagementRecord(ctx context.Context, userID string, rec model.EngagementRecord) (*model.UserContext, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	return m.MergeContext(ctx, userID, model.ContextUpdate{
		EngagementHistory: []model.EngagementRecord{rec},
	})
}

// ContextHistory returns the most recent versions, newest first.
func (m *Manager) ContextHistory(ctx context.Context, userID string, limit int) ([]model.UserContext, error) {
	return m.store.ContextHistory(ctx, userID, limit)
}

// writeNewVersion runs the read-transform-write loop. The transform is
// applied to a fresh read on every attempt so a retry never resurrects
// stale state.
func (m *Manager) writeNewVersion(ctx context.Context, userID string, transform func(*model.UserContext) *model.UserContext) (*model.UserContext, error) {
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		current, err := m.EnsureContext(ctx, userID)
		if err != nil {
			return nil, err
		}

		next := transform(current)
		next.UserID = userID
		next.Version = current.Version + 1
		next.Timestamp = time.Now().UTC()

		err = m.store.PutContext(ctx, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
		m.log.Debug().Str("user", userID).Int64("version", next.Version).Int("attempt", attempt+1).
			Msg("context version conflict, retrying")
	}
	return nil, model.ErrVersionConflict
}
