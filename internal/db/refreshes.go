package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Refresh is one entry of the refresh log.
type Refresh struct {
	ID         string
	Trigger    string // "pull", "manual", "auto", "more", "gap"
	StartedAt  time.Time
	FinishedAt time.Time // Zero while running
	NewCount   int
	Error      string
}

// Running reports whether the refresh has not finished.
func (r Refresh) Running() bool { return r.FinishedAt.IsZero() }

// BeginRefresh records the start of a refresh and returns its id.
func BeginRefresh(trigger string) (string, error) {
	db, err := GetDB()
	if err != nil {
		return "", fmt.Errorf("failed to get database connection: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate refresh id: %w", err)
	}

	_, err = db.Exec(`INSERT INTO refreshes (id, trigger, started_at) VALUES (?, ?, ?)`,
		id.String(), trigger, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("failed to record refresh: %w", err)
	}
	return id.String(), nil
}

// FinishRefresh completes a refresh log entry.
func FinishRefresh(id string, newCount int, refreshErr error) error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	var errText sql.NullString
	if refreshErr != nil {
		errText = sql.NullString{String: refreshErr.Error(), Valid: true}
	}

	result, err := db.Exec(`UPDATE refreshes SET finished_at = ?, new_count = ?, error = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), newCount, errText, id)
	if err != nil {
		return fmt.Errorf("failed to finish refresh: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("refresh %s not found", id)
	}
	return nil
}

// RecentRefreshes returns the latest n log entries, newest first.
func RecentRefreshes(n int) ([]Refresh, error) {
	db, err := GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	// UUIDv7 ids sort by creation time.
	rows, err := db.Query(`SELECT id, trigger, started_at, finished_at, new_count, error
		FROM refreshes ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query refreshes: %w", err)
	}
	defer rows.Close()

	var refreshes []Refresh
	for rows.Next() {
		var r Refresh
		var started string
		var finished, errText sql.NullString
		if err := rows.Scan(&r.ID, &r.Trigger, &started, &finished, &r.NewCount, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan refresh: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		r.Error = errText.String
		refreshes = append(refreshes, r)
	}
	return refreshes, rows.Err()
}
