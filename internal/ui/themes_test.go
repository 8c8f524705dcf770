package ui

import (
	"testing"
)

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"cyan", "cyan", true},
		{"MONOKAI", "monokai", true},
		{"light", "light", true},
		{"solarized", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ThemeByName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ThemeByName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if got.Name != tt.want {
				t.Errorf("ThemeByName(%q) = %q, want %q", tt.name, got.Name, tt.want)
			}
		})
	}
}

func TestNextThemeWraps(t *testing.T) {
	theme := CyanTheme
	seen := map[string]bool{}
	for range AvailableThemes {
		theme = NextTheme(theme)
		seen[theme.Name] = true
	}
	if theme.Name != CyanTheme.Name {
		t.Errorf("cycling %d times should return to cyan, got %s", len(AvailableThemes), theme.Name)
	}
	if len(seen) != len(AvailableThemes) {
		t.Errorf("cycle visited %d themes, want %d", len(seen), len(AvailableThemes))
	}

	if got := NextTheme(StyleTheme{Name: "unknown"}); got.Name != AvailableThemes[0].Name {
		t.Errorf("unknown theme should restart at %s, got %s", AvailableThemes[0].Name, got.Name)
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		position float64
		want     string
	}{
		{0, "#000000"},
		{1, "#FFFFFF"},
		{0.5, "#7F7F7F"},
		{-1, "#000000"},
		{2, "#FFFFFF"},
	}
	for _, tt := range tests {
		if got := InterpolateColor("#000000", "#FFFFFF", tt.position); got != tt.want {
			t.Errorf("InterpolateColor at %v = %s, want %s", tt.position, got, tt.want)
		}
	}

	if got := InterpolateColor("bogus", "#FFFFFF", 0.5); got != "bogus" {
		t.Errorf("invalid start color should fall back, got %s", got)
	}
}

func TestToGlamourStyleUsesTheme(t *testing.T) {
	style := MonokaiTheme.ToGlamourStyle()
	if style.Link.Color == nil || *style.Link.Color != string(MonokaiTheme.Purple) {
		t.Errorf("link color = %v, want %s", style.Link.Color, MonokaiTheme.Purple)
	}
	if style.Document.Margin == nil || *style.Document.Margin != 0 {
		t.Error("document margin should be zero")
	}
}
