package db

import (
	"errors"
	"testing"
)

func TestPositions(t *testing.T) {
	setupTestDB(t)

	if _, ok, err := LoadPosition("home"); err != nil || ok {
		t.Fatalf("expected no saved position, got ok=%v err=%v", ok, err)
	}

	if err := SavePosition("home", 1234); err != nil {
		t.Fatalf("SavePosition failed: %v", err)
	}
	if err := SavePosition("home", 5678); err != nil {
		t.Fatalf("SavePosition overwrite failed: %v", err)
	}

	id, ok, err := LoadPosition("home")
	if err != nil || !ok || id != 5678 {
		t.Errorf("LoadPosition = %d, %v, %v; want 5678", id, ok, err)
	}
}

func TestRefreshLog(t *testing.T) {
	setupTestDB(t)

	first, err := BeginRefresh("pull")
	if err != nil {
		t.Fatalf("BeginRefresh failed: %v", err)
	}
	second, err := BeginRefresh("manual")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("refresh ids must be unique")
	}

	if err := FinishRefresh(first, 3, nil); err != nil {
		t.Fatalf("FinishRefresh failed: %v", err)
	}
	if err := FinishRefresh(second, 0, errors.New("timeout")); err != nil {
		t.Fatal(err)
	}
	if err := FinishRefresh("missing", 0, nil); err == nil {
		t.Error("expected error for unknown refresh id")
	}

	log, err := RecentRefreshes(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(log))
	}
	// Newest first
	if log[0].ID != second || log[0].Error != "timeout" || log[0].Trigger != "manual" {
		t.Errorf("unexpected newest entry %+v", log[0])
	}
	if log[1].NewCount != 3 || log[1].Running() {
		t.Errorf("unexpected oldest entry %+v", log[1])
	}
}
