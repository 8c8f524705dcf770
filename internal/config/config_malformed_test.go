package config

import (
	"testing"
)

func TestLoadConfig_MalformedTOML(t *testing.T) {
	// Malformed TOML should fail gracefully, not panic
	writeConfig(t, `[api]
key = "test-key
# Missing closing quote

[tui
# Missing closing bracket
refresh_interval = not_a_number
`)

	config, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error for malformed TOML, got nil")
	}
	if config != nil {
		t.Error("Expected nil config for malformed TOML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "distance zero", content: "[pull]\ndistance = 0.0\n"},
		{name: "distance above one", content: "[pull]\ndistance = 1.5\n"},
		{name: "negative slop", content: "[pull]\ntouch_slop = -1\n"},
		{name: "negative delay", content: "[pull]\nminimize_delay_ms = -10\n"},
		{name: "unknown layout", content: "[pull]\nheader_layout = \"banner\"\n"},
		{name: "negative refresh", content: "[tui]\nrefresh_interval = -5\n"},
		{name: "page size too big", content: "[tui]\npage_size = 500\n"},
		{name: "bad log level", content: "[log]\nlevel = \"chatty\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)

			config, err := LoadConfig()
			if err == nil {
				t.Fatalf("Expected validation error, got config %+v", config)
			}
			if err.Error() == "" {
				t.Error("Expected descriptive error message")
			}
		})
	}
}
