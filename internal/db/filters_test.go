package db

import (
	"testing"
	"time"
)

func TestFiltersHideStatuses(t *testing.T) {
	setupTestDB(t)
	now := time.Now()
	_, err := UpsertStatuses([]Status{
		status(1, "Alice", "hello world", now),
		status(2, "bob", "Spoilers for the finale", now),
		status(3, "carol", "nothing to see", now),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := AddFilter(FilterUser, "@ALICE"); err != nil {
		t.Fatalf("AddFilter user failed: %v", err)
	}
	if _, err := AddFilter(FilterKeyword, "spoilers"); err != nil {
		t.Fatalf("AddFilter keyword failed: %v", err)
	}

	got, err := GetTimeline(TimelineQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(ids(got), []int64{3}) {
		t.Errorf("expected only status 3 visible, got %v", ids(got))
	}

	removed, err := RemoveFilter(FilterUser, "alice")
	if err != nil || !removed {
		t.Fatalf("RemoveFilter = %v, %v", removed, err)
	}
	got, _ = GetTimeline(TimelineQuery{})
	if !equalIDs(ids(got), []int64{3, 1}) {
		t.Errorf("expected alice back, got %v", ids(got))
	}
}

func TestListFilters(t *testing.T) {
	setupTestDB(t)

	for _, f := range []Filter{{FilterKeyword, "zzz"}, {FilterUser, "mallory"}, {FilterKeyword, "aaa"}} {
		if _, err := AddFilter(f.Kind, f.Value); err != nil {
			t.Fatal(err)
		}
	}
	// Duplicate is ignored
	if _, err := AddFilter(FilterUser, "Mallory"); err != nil {
		t.Fatal(err)
	}

	filters, err := ListFilters()
	if err != nil {
		t.Fatal(err)
	}
	want := []Filter{{FilterKeyword, "aaa"}, {FilterKeyword, "zzz"}, {FilterUser, "mallory"}}
	if len(filters) != len(want) {
		t.Fatalf("got %v, want %v", filters, want)
	}
	for i := range want {
		if filters[i] != want[i] {
			t.Errorf("filter %d = %v, want %v", i, filters[i], want[i])
		}
	}

	removed, err := RemoveFilter(FilterKeyword, "missing")
	if err != nil || removed {
		t.Errorf("removing unknown filter = %v, %v", removed, err)
	}
}

func TestNormalizeFilter(t *testing.T) {
	tests := []struct {
		kind, value string
		want        string
		wantErr     bool
	}{
		{kind: FilterUser, value: " @Bob ", want: "bob"},
		{kind: FilterKeyword, value: "Go Lang", want: "go lang"},
		{kind: FilterUser, value: "@", wantErr: true},
		{kind: "hashtag", value: "go", wantErr: true},
	}

	for _, tt := range tests {
		f, err := NormalizeFilter(tt.kind, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeFilter(%q, %q) error = %v", tt.kind, tt.value, err)
			continue
		}
		if err == nil && f.Value != tt.want {
			t.Errorf("NormalizeFilter(%q, %q) = %q, want %q", tt.kind, tt.value, f.Value, tt.want)
		}
	}

	if s := (Filter{Kind: FilterUser, Value: "bob"}).String(); s != "@bob" {
		t.Errorf("user filter String() = %q", s)
	}
}
