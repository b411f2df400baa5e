package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Frame.Theme != "light" {
		t.Errorf("expected light theme, got %q", cfg.Frame.Theme)
	}
	if !cfg.Log.Timestamp || cfg.Log.TimestampFormat != "15:04:05" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	src := `
[frame]
theme = "double"

[frame.glyphs]
cross = "*"

[log]
prefix = ">> "
timestamp = false

[demo]
tick_ms = 50
panes = 3
`
	cfg, err := LoadFrom(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Frame.Theme != "double" {
		t.Errorf("expected double theme, got %q", cfg.Frame.Theme)
	}
	if cfg.Frame.Glyphs["cross"] != "*" {
		t.Errorf("expected cross override, got %v", cfg.Frame.Glyphs)
	}
	if cfg.Log.Prefix != ">> " || cfg.Log.Timestamp {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Demo.TickMillis != 50 || cfg.Demo.Panes != 3 {
		t.Errorf("unexpected demo config: %+v", cfg.Demo)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestLoadFromKeepsDefaultsForUnsetKeys(t *testing.T) {
	cfg, err := LoadFrom(strings.NewReader("[frame]\ntheme = \"ascii\"\n"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Demo.TickMillis != 200 {
		t.Errorf("unset keys should keep defaults, got tick %d", cfg.Demo.TickMillis)
	}
	if cfg.Frame.Theme != "ascii" {
		t.Errorf("expected ascii theme, got %q", cfg.Frame.Theme)
	}
}

func TestLoadFromParseError(t *testing.T) {
	_, err := LoadFrom(strings.NewReader("frame = = broken"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Frame.Theme != "light" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termpane.toml")
	if err := os.WriteFile(path, []byte("[demo]\npanes = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Demo.Panes != 4 {
		t.Errorf("expected 4 panes, got %d", cfg.Demo.Panes)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Frame.Theme = "neon"
	cfg.Frame.Glyphs = map[string]string{
		"cross":   "ab", // two runes
		"unknown": "x",
	}
	cfg.Demo.TickMillis = 0
	cfg.Demo.Panes = 99

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *ValidationErrors, got %T", err)
	}
	if len(verrs.Errors) != 5 {
		t.Errorf("expected 5 errors, got %d: %v", len(verrs.Errors), err)
	}

	paths := make(map[string]bool)
	for _, ve := range verrs.Errors {
		paths[ve.Path] = true
	}
	for _, want := range []string{"frame.theme", "frame.glyphs.cross", "frame.glyphs.unknown", "demo.tick_ms", "demo.panes"} {
		if !paths[want] {
			t.Errorf("expected a validation error at %s", want)
		}
	}
}

func TestValidateTimestampFormatRequired(t *testing.T) {
	cfg := Default()
	cfg.Log.TimestampFormat = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected error: timestamp enabled without format")
	}

	cfg.Log.Timestamp = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("format may be empty when timestamp disabled: %v", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := &ValidationErrors{}
	errs.Add("a.b", "bad")
	if got := errs.Error(); got != "a.b: bad" {
		t.Errorf("single error message: got %q", got)
	}
	errs.Add("c", "worse")
	if got := errs.Error(); !strings.Contains(got, "2 validation errors") {
		t.Errorf("multi error message: got %q", got)
	}
}
