package config

import (
	"fmt"
	"time"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/logging"
)

// Debounce bounds in milliseconds.
const (
	DefaultDebounceMS = 300
	MinDebounceMS     = 10
	MaxDebounceMS     = 10000
)

// Config is the complete settings model.
type Config struct {
	Copyedit CopyeditConfig `toml:"copyedit" yaml:"copyedit" json:"copyedit"`
	Log      LogConfig      `toml:"log" yaml:"log" json:"log"`
}

// CopyeditConfig holds the annotation settings.
type CopyeditConfig struct {
	// Enabled switches annotation on or off.
	Enabled bool `toml:"enabled" yaml:"enabled" json:"enabled"`

	// EnabledPartsOfSpeech lists plural category names ("nouns", "verbs",
	// ...). Unset (nil) means all of them; an empty list disables every
	// part of speech.
	EnabledPartsOfSpeech []string `toml:"enabled_parts_of_speech" yaml:"enabled_parts_of_speech" json:"enabledPartsOfSpeech"`

	// HighlightURLs switches URL highlighting independently of the parts
	// of speech.
	HighlightURLs bool `toml:"highlight_urls" yaml:"highlight_urls" json:"highlightUrls"`

	// DebounceMS is the delay between the last edit and re-analysis.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" json:"debounceMs"`

	// FilterScript is an optional Lua script defining filter(). Relative
	// paths resolve against the config file's directory.
	FilterScript string `toml:"filter_script" yaml:"filter_script" json:"filterScript"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
}

// Default returns the zero-config settings: everything enabled.
func Default() Config {
	return Config{
		Copyedit: CopyeditConfig{
			Enabled:       true,
			HighlightURLs: true,
			DebounceMS:    DefaultDebounceMS,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and returns the first problem found.
func (c Config) Validate() error {
	for _, name := range c.Copyedit.EnabledPartsOfSpeech {
		cat, err := category.Parse(name)
		if err != nil {
			return &ValidationError{
				Path:    "copyedit.enabled_parts_of_speech",
				Message: "unknown part of speech",
				Value:   name,
				Err:     err,
			}
		}
		if !cat.IsGrammatical() {
			return &ValidationError{
				Path:    "copyedit.enabled_parts_of_speech",
				Message: "urls are controlled by highlight_urls",
				Value:   name,
			}
		}
	}

	if c.Copyedit.DebounceMS < MinDebounceMS || c.Copyedit.DebounceMS > MaxDebounceMS {
		return &ValidationError{
			Path:    "copyedit.debounce_ms",
			Message: fmt.Sprintf("must be between %d and %d", MinDebounceMS, MaxDebounceMS),
			Value:   c.Copyedit.DebounceMS,
		}
	}

	if !logging.IsLevel(c.Log.Level) {
		return &ValidationError{
			Path:    "log.level",
			Message: "unknown log level",
			Value:   c.Log.Level,
		}
	}
	return nil
}

// Categories returns the enabled part-of-speech set. An unset list yields
// every category; invalid names are skipped.
func (c Config) Categories() category.Set {
	if c.Copyedit.EnabledPartsOfSpeech == nil {
		return category.All()
	}
	var set category.Set
	for _, name := range c.Copyedit.EnabledPartsOfSpeech {
		if cat, err := category.Parse(name); err == nil {
			set = set.With(cat)
		}
	}
	return set
}

// Debounce returns the edit debounce interval.
func (c Config) Debounce() time.Duration {
	ms := c.Copyedit.DebounceMS
	if ms <= 0 {
		ms = DefaultDebounceMS
	}
	return time.Duration(ms) * time.Millisecond
}

// LogLevel returns the configured level, falling back to info.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Equal reports whether two configs hold the same settings.
func (c Config) Equal(other Config) bool {
	a, b := c.Copyedit, other.Copyedit
	if a.Enabled != b.Enabled || a.HighlightURLs != b.HighlightURLs ||
		a.DebounceMS != b.DebounceMS || a.FilterScript != b.FilterScript ||
		c.Log != other.Log {
		return false
	}
	return c.Categories() == other.Categories()
}
