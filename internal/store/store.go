// Package store persists supporter engagement data in SQLite. Nested
// documents are kept as JSON columns; fields the queries filter or
// order on get real columns.
package store

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/db"
)

// Store provides access to all supporter engagement tables.
type Store struct {
	db  *db.DB
	log zerolog.Logger
}

// New creates a store over the given database.
func New(database *db.DB, log zerolog.Logger) *Store {
	return &Store{db: database, log: log.With().Str("component", "store").Logger()}
}

// marshal serializes v for a JSON column. Marshal failures collapse to
// an empty object so a bad value never blocks a write.
func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// marshalStrings serializes a string slice, defaulting to "[]".
func marshalStrings(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func unmarshalStrings(s string) []string {
	var out []string
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// isConstraintErr reports whether err is a unique-constraint violation.
// The sqlite driver surfaces these as plain errors, so we match on the
// message.
func isConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
