package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestQueryArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"beach holiday in greece", "-server", ""},
			expected: []string{"-server", "", "beach holiday in greece"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-server", "", "beach holiday in greece"},
			expected: []string{"-server", "", "beach holiday in greece"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"beach holiday in greece"},
			expected: []string{"beach holiday in greece"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-config", "x.yaml"},
			expected: []string{"-config", "x.yaml", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("queryArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"lisbon"}, "lisbon"},
		{"multiple words", []string{"week", "in", "lisbon"}, "week in lisbon"},
		{"single quoted phrase", []string{"week in lisbon"}, "week in lisbon"},
		{"surrounding whitespace trimmed", []string{" week ", ""}, "week"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQueryText(tt.args); got != tt.expected {
				t.Errorf("buildQueryText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLoadConfigCwdFallback(t *testing.T) {
	dir := t.TempDir()
	content := []byte("debug: true\nserver:\n  port: 9090\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644); err != nil {
		t.Fatal(err)
	}
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(orig)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.Server.Port != 9090 {
		t.Errorf("fallback config not applied: %+v", cfg)
	}
	if filepath.Base(resolved) != "config.yaml" {
		t.Errorf("resolved path: got %q", resolved)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if resolved != path {
		t.Errorf("resolved path: got %q, want %q", resolved, path)
	}
}
