package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifjc.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"hours", "24h", 24 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "week", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Strict() {
		t.Error("strict mutability off by default")
	}
	if !cfg.CacheEnabled() {
		t.Error("cache off by default")
	}
	if cfg.Output.Emit != "code" || cfg.Output.ASTFormat != "text" || cfg.Output.Color != "auto" {
		t.Errorf("output defaults = %+v", cfg.Output)
	}
	if cfg.Cache.MaxAge.Duration != 7*24*time.Hour {
		t.Errorf("cache.max_age = %v", cfg.Cache.MaxAge.Duration)
	}
	if cfg.Cache.Dir == "" {
		t.Error("empty cache dir")
	}
	if err := cfg.CheckVersion("0.0.1"); err != nil {
		t.Errorf("CheckVersion without min_version: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[compile]
strict_mutability = false
min_version = "1.0.0"

[output]
emit = "ast"
ast_format = "yaml"
comments = true
color = "never"

[cache]
enabled = false
dir = "/tmp/ifjc-test"
max_age = "1h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strict() {
		t.Error("strict_mutability = false ignored")
	}
	if cfg.CacheEnabled() {
		t.Error("cache.enabled = false ignored")
	}
	if cfg.Output.Emit != "ast" || cfg.Output.ASTFormat != "yaml" || !cfg.Output.Comments || cfg.Output.Color != "never" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Cache.Dir != "/tmp/ifjc-test" || cfg.Cache.MaxAge.Duration != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[output]\ncomments = true\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Strict() || cfg.Output.Emit != "code" || !cfg.Output.Comments {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[output\n", "failed to parse config"},
		{"unknown_key", "[output]\nfoo = 1\n", "unknown key output.foo"},
		{"bad_emit", "[output]\nemit = \"ssa\"\n", "output.emit"},
		{"bad_format", "[output]\nast_format = \"xml\"\n", "output.ast_format"},
		{"bad_color", "[output]\ncolor = \"blue\"\n", "output.color"},
		{"bad_version", "[compile]\nmin_version = \"one\"\n", "compile.min_version"},
		{"bad_duration", "[cache]\nmax_age = \"soon\"\n", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestFind(t *testing.T) {
	explicit := writeConfig(t, "[output]\nemit = \"tokens\"\n")
	fromEnv := writeConfig(t, "[output]\nemit = \"ast\"\n")

	t.Setenv(EnvVar, fromEnv)
	cfg, err := Find(explicit)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Emit != "tokens" {
		t.Errorf("explicit path not preferred: emit = %s", cfg.Output.Emit)
	}

	cfg, err = Find("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Emit != "ast" {
		t.Errorf("$%s not used: emit = %s", EnvVar, cfg.Output.Emit)
	}

	t.Setenv(EnvVar, "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	cfg, err = Find("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		t.Errorf("defaults expected, loaded %s", cfg.Path)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		min     string
		version string
		wantErr bool
	}{
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.2.3", false},
		{"1.2", "1.1.9", true},
		{"2.0.0", "1.9.0", true},
		{"", "0.1.0", false},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Compile.MinVersion = tt.min
		err := cfg.CheckVersion(tt.version)
		if (err != nil) != tt.wantErr {
			t.Errorf("min %q, version %q: err = %v, wantErr %v", tt.min, tt.version, err, tt.wantErr)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal configurations differ")
	}
	b.Output.Comments = true
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("comments do not change the fingerprint")
	}
	b.Output.Color = "never"
	b.Output.Comments = false
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("color changes the fingerprint")
	}
}
