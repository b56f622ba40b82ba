package model

import "time"

// UserContext is one immutable version of a supporter's engagement
// context. Versions are append-only; the highest version is current.
type UserContext struct {
	UserID            string             `json:"userId"`
	Version           int64              `json:"version"`
	Timestamp         time.Time          `json:"timestamp"`
	Profile           *UserProfile       `json:"profile,omitempty"`
	EngagementHistory []EngagementRecord `json:"engagementHistory"`
	Preferences       UserPreferences    `json:"preferences"`
	CurrentFlow       *FlowState         `json:"currentFlow,omitempty"`
}

// UserPreferences captures what the supporter has told us they care about.
type UserPreferences struct {
	Interests                []string                 `json:"interests,omitempty"`
	CauseAreas               []string                 `json:"causeAreas,omitempty"`
	CommunicationPreferences CommunicationPreferences `json:"communicationPreferences"`
}

// EngagementRecord is one interaction appended to the context history.
type EngagementRecord struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// FlowState tracks an in-progress conversational flow so it can be
// resumed in a later session.
type FlowState struct {
	FlowType       string         `json:"flowType"`
	CurrentStep    string         `json:"currentStep"`
	CompletedSteps []string       `json:"completedSteps,omitempty"`
	CollectedData  map[string]any `json:"collectedData,omitempty"`
	CanResume      bool           `json:"canResume"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ContextUpdate is a partial update applied to the current context.
// Nil fields are left unchanged; slices replace rather than append.
// MergeContext semantics (append history, union interests) are layered
// on top of this by the context manager.
type ContextUpdate struct {
	Profile           *UserProfile       `json:"profile,omitempty"`
	EngagementHistory []EngagementRecord `json:"engagementHistory,omitempty"`
	Preferences       *UserPreferences   `json:"preferences,omitempty"`
	CurrentFlow       *FlowState         `json:"currentFlow,omitempty"`
	ClearFlow         bool               `json:"clearFlow,omitempty"`
}
