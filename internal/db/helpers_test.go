package db

import (
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB points the package at a fresh database file for one test.
func setupTestDB(t *testing.T) string {
	t.Helper()

	if err := CloseDB(); err != nil {
		t.Fatalf("Failed to close previous pool: %v", err)
	}
	path := filepath.Join(t.TempDir(), "pullfeed.db")
	orig := dbPathFunc
	dbPathFunc = func() (string, error) { return path, nil }

	t.Cleanup(func() {
		CloseDB()
		dbPathFunc = orig
	})
	return path
}

func status(id int64, screenName, text string, created time.Time) Status {
	return Status{
		ID:         id,
		ScreenName: screenName,
		Name:       screenName,
		Text:       text,
		CreatedAt:  created,
	}
}

func ids(statuses []Status) []int64 {
	out := make([]int64, len(statuses))
	for i, s := range statuses {
		out[i] = s.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
