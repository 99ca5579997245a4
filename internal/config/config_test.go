package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Copyedit.Enabled || !cfg.Copyedit.HighlightURLs {
		t.Error("expected annotation and URL highlighting on by default")
	}
	if cfg.Categories() != category.All() {
		t.Errorf("expected all categories, got %v", cfg.Categories())
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("Debounce() = %v, want 300ms", cfg.Debounce())
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want INFO", cfg.LogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"unknown part of speech", func(c *Config) { c.Copyedit.EnabledPartsOfSpeech = []string{"nouns", "pronouns"} }, "copyedit.enabled_parts_of_speech"},
		{"url in parts of speech", func(c *Config) { c.Copyedit.EnabledPartsOfSpeech = []string{"urls"} }, "copyedit.enabled_parts_of_speech"},
		{"debounce too small", func(c *Config) { c.Copyedit.DebounceMS = 1 }, "copyedit.debounce_ms"},
		{"debounce too large", func(c *Config) { c.Copyedit.DebounceMS = MaxDebounceMS + 1 }, "copyedit.debounce_ms"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Path != tt.path {
				t.Errorf("expected path %q, got %v", tt.path, err)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	cfg := Default()
	cfg.Copyedit.EnabledPartsOfSpeech = []string{"nouns", "Verbs"}

	expected := category.NewSet(category.Noun, category.Verb)
	if cfg.Categories() != expected {
		t.Errorf("Categories() = %v, want %v", cfg.Categories(), expected)
	}

	cfg.Copyedit.EnabledPartsOfSpeech = []string{}
	if !cfg.Categories().IsEmpty() {
		t.Errorf("expected empty list to disable every category, got %v", cfg.Categories())
	}
	if cfg.Equal(Default()) {
		t.Error("empty list should differ from the unset default")
	}
}

func TestLoad_EmptyPartsOfSpeech(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"copyedit.toml": "[copyedit]\nenabled_parts_of_speech = []\n",
		"copyedit.yaml": "copyedit:\n  enabled_parts_of_speech: []\n",
		"settings.json": `{"general":{"copyedit":{"enabledPartsOfSpeech":[]}}}`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, dir, name, content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !cfg.Categories().IsEmpty() {
				t.Errorf("expected no categories, got %v", cfg.Categories())
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	dir := t.TempDir()

	tomlPath := writeFile(t, dir, "copyedit.toml", `
[copyedit]
enabled_parts_of_speech = ["nouns", "adverbs"]
highlight_urls = false
debounce_ms = 150
filter_script = "filters/skip.lua"

[log]
level = "debug"
`)
	yamlPath := writeFile(t, dir, "copyedit.yaml", `
copyedit:
  enabled_parts_of_speech: [nouns, adverbs]
  highlight_urls: false
  debounce_ms: 150
  filter_script: filters/skip.lua
log:
  level: debug
`)
	jsonPath := writeFile(t, dir, "settings.json", `{
  "general": {
    "theme": "dark",
    "logLevel": "debug",
    "copyedit": {
      "enabledPartsOfSpeech": ["nouns", "adverbs"],
      "highlightUrls": false,
      "debounceMs": 150,
      "filterScript": "filters/skip.lua"
    }
  }
}`)

	for _, path := range []string{tomlPath, yamlPath, jsonPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Categories() != category.NewSet(category.Noun, category.Adverb) {
				t.Errorf("Categories() = %v", cfg.Categories())
			}
			if cfg.Copyedit.HighlightURLs {
				t.Error("expected highlight_urls false")
			}
			if !cfg.Copyedit.Enabled {
				t.Error("unset enabled should keep its default")
			}
			if cfg.Debounce() != 150*time.Millisecond {
				t.Errorf("Debounce() = %v, want 150ms", cfg.Debounce())
			}
			if cfg.LogLevel() != logging.LevelDebug {
				t.Errorf("LogLevel() = %v, want DEBUG", cfg.LogLevel())
			}
			want := filepath.Join(dir, "filters", "skip.lua")
			if cfg.Copyedit.FilterScript != want {
				t.Errorf("FilterScript = %q, want %q", cfg.Copyedit.FilterScript, want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if !cfg.Equal(Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("unsupported", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "copyedit.ini"))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("toml syntax", func(t *testing.T) {
		path := writeFile(t, dir, "bad.toml", "[copyedit]\nhighlight_urls = \n")
		_, err := Load(path)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if pe.Line == 0 {
			t.Error("expected a line number")
		}
	})

	t.Run("json syntax", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"general": `)
		_, err := Load(path)
		if !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("expected ErrInvalidJSON, got %v", err)
		}
	})

	t.Run("json parts not array", func(t *testing.T) {
		path := writeFile(t, dir, "scalar.json", `{"general": {"copyedit": {"enabledPartsOfSpeech": "nouns"}}}`)
		_, err := Load(path)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("expected ParseError, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		path := writeFile(t, dir, "invalid.yaml", "copyedit:\n  enabled_parts_of_speech: [gerunds]\n")
		_, err := Load(path)
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected ErrValidationFailed, got %v", err)
		}
	})
}

func TestSettings_PartsOfSpeech(t *testing.T) {
	doc := `{"general":{"theme":"dark"}}`

	if PartsOfSpeech(doc) != category.All() {
		t.Error("unset parts of speech should read as all")
	}

	doc, err := TogglePartOfSpeech(doc, category.Verb)
	if err != nil {
		t.Fatalf("TogglePartOfSpeech failed: %v", err)
	}
	if got := PartsOfSpeech(doc); got != category.All().Without(category.Verb) {
		t.Errorf("after toggle, got %v", got)
	}

	doc, err = TogglePartOfSpeech(doc, category.Verb)
	if err != nil {
		t.Fatalf("TogglePartOfSpeech failed: %v", err)
	}
	if got := PartsOfSpeech(doc); got != category.All() {
		t.Errorf("after second toggle, got %v", got)
	}

	doc, err = SetPartsOfSpeech(doc, category.NewSet(category.Adjective))
	if err != nil {
		t.Fatalf("SetPartsOfSpeech failed: %v", err)
	}
	cfg, err := Parse(FormatJSON, "settings.json", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Categories() != category.NewSet(category.Adjective) {
		t.Errorf("Categories() = %v, want {adjectives}", cfg.Categories())
	}

	if _, err := TogglePartOfSpeech(doc, category.URL); !errors.Is(err, category.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory for url, got %v", err)
	}
	if _, err := SetPartsOfSpeech("{", category.All()); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestSettings_ToggleLastPartOfSpeech(t *testing.T) {
	doc := `{"general":{"copyedit":{"enabledPartsOfSpeech":["nouns"]}}}`

	doc, err := TogglePartOfSpeech(doc, category.Noun)
	if err != nil {
		t.Fatalf("TogglePartOfSpeech failed: %v", err)
	}
	if !strings.Contains(doc, `"enabledPartsOfSpeech":[]`) {
		t.Errorf("expected an empty list, got %s", doc)
	}
	if got := PartsOfSpeech(doc); !got.IsEmpty() {
		t.Errorf("PartsOfSpeech() = %v, want {}", got)
	}
	cfg, err := Parse(FormatJSON, "settings.json", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Categories().IsEmpty() {
		t.Errorf("Categories() = %v, want {}", cfg.Categories())
	}

	doc, err = TogglePartOfSpeech(doc, category.Noun)
	if err != nil {
		t.Fatalf("TogglePartOfSpeech failed: %v", err)
	}
	if got := PartsOfSpeech(doc); got != category.NewSet(category.Noun) {
		t.Errorf("after toggling back, got %v", got)
	}
}

func TestSettings_PreservesOtherKeys(t *testing.T) {
	doc := `{"general":{"theme":"dark","copyedit":{"highlightUrls":true}},"editor":{"tabSize":2}}`

	out, err := SetHighlightURLs(doc, false)
	if err != nil {
		t.Fatalf("SetHighlightURLs failed: %v", err)
	}
	out, err = SetPartsOfSpeech(out, category.NewSet(category.Noun))
	if err != nil {
		t.Fatalf("SetPartsOfSpeech failed: %v", err)
	}

	cfg, err := Parse(FormatJSON, "settings.json", []byte(out))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Copyedit.HighlightURLs {
		t.Error("expected highlightUrls false")
	}
	for _, want := range []string{`"theme":"dark"`, `"tabSize":2`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s preserved in %s", want, out)
		}
	}
}
