package db

import (
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by querying each one.
	tables := []string{
		"users", "donations", "contexts", "sessions",
		"engagements", "articles", "research_papers", "fundraising_pages",
	}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestContextVersionConflict(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// The composite primary key rejects duplicate (user_id, version) pairs.
	_, err = d.Exec(`INSERT INTO contexts (user_id, version, document) VALUES ('u1', 1, '{}')`)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = d.Exec(`INSERT INTO contexts (user_id, version, document) VALUES ('u1', 1, '{}')`)
	if err == nil {
		t.Fatal("expected duplicate (user_id, version) insert to fail")
	}
}
