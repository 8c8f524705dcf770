package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavePosition remembers which status a timeline was showing.
func SavePosition(timeline string, statusID int64) error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	_, err = db.Exec(`INSERT INTO positions (timeline, status_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(timeline) DO UPDATE SET status_id = excluded.status_id, updated_at = excluded.updated_at`,
		timeline, statusID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

// LoadPosition returns the saved status id for a timeline. ok is false
// when nothing was saved.
func LoadPosition(timeline string) (statusID int64, ok bool, err error) {
	db, err := GetDB()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get database connection: %w", err)
	}

	err = db.QueryRow(`SELECT status_id FROM positions WHERE timeline = ?`, timeline).Scan(&statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load position: %w", err)
	}
	return statusID, true, nil
}
