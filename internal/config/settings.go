package config

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/copyedit/internal/annotate/category"
)

// Paths of the annotation keys inside the host settings JSON.
const (
	SettingsRoot      = "general.copyedit"
	PartsOfSpeechPath = SettingsRoot + ".enabledPartsOfSpeech"
	HighlightURLsPath = SettingsRoot + ".highlightUrls"
	LogLevelPath      = "general.logLevel"
)

// parseSettings reads the annotation keys out of a host settings file.
// Keys that are absent keep their defaults; unrelated keys are ignored.
func parseSettings(source string, data []byte, cfg *Config) error {
	if !gjson.ValidBytes(data) {
		return &ParseError{Path: source, Message: "not valid JSON", Err: ErrInvalidJSON}
	}

	root := gjson.GetBytes(data, SettingsRoot)
	if v := root.Get("enabled"); v.Exists() {
		cfg.Copyedit.Enabled = v.Bool()
	}
	if v := root.Get("enabledPartsOfSpeech"); v.Exists() {
		if !v.IsArray() {
			return &ParseError{Path: source, Message: PartsOfSpeechPath + " must be an array", Err: ErrInvalidJSON}
		}
		cfg.Copyedit.EnabledPartsOfSpeech = stringArray(v)
	}
	if v := root.Get("highlightUrls"); v.Exists() {
		cfg.Copyedit.HighlightURLs = v.Bool()
	}
	if v := root.Get("debounceMs"); v.Exists() {
		cfg.Copyedit.DebounceMS = int(v.Int())
	}
	if v := root.Get("filterScript"); v.Exists() {
		cfg.Copyedit.FilterScript = v.String()
	}
	if v := gjson.GetBytes(data, LogLevelPath); v.Exists() {
		cfg.Log.Level = v.String()
	}
	return nil
}

// stringArray never returns nil: a present but empty array stays empty.
func stringArray(v gjson.Result) []string {
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

// PartsOfSpeech returns the enabled set stored in a settings document.
// Unset or unreadable values yield every category; an empty array
// yields none.
func PartsOfSpeech(json string) category.Set {
	v := gjson.Get(json, PartsOfSpeechPath)
	if !v.IsArray() {
		return category.All()
	}
	cfg := Config{Copyedit: CopyeditConfig{EnabledPartsOfSpeech: stringArray(v)}}
	return cfg.Categories()
}

// SetPartsOfSpeech rewrites the enabled part-of-speech list in a settings
// document, leaving every other key untouched.
func SetPartsOfSpeech(json string, set category.Set) (string, error) {
	if json == "" {
		json = "{}"
	}
	if !gjson.Valid(json) {
		return "", ErrInvalidJSON
	}
	out, err := sjson.Set(json, PartsOfSpeechPath, set.ConfigNames())
	if err != nil {
		return "", fmt.Errorf("setting %s: %w", PartsOfSpeechPath, err)
	}
	return out, nil
}

// TogglePartOfSpeech flips one category in a settings document, the way a
// preference checkbox does.
func TogglePartOfSpeech(json string, c category.Category) (string, error) {
	if !c.IsGrammatical() {
		return "", fmt.Errorf("%w: %s is not a part of speech", category.ErrInvalidCategory, c)
	}
	return SetPartsOfSpeech(json, PartsOfSpeech(json).Toggle(c))
}

// SetHighlightURLs rewrites the URL highlighting switch in a settings
// document.
func SetHighlightURLs(json string, on bool) (string, error) {
	if json == "" {
		json = "{}"
	}
	if !gjson.Valid(json) {
		return "", ErrInvalidJSON
	}
	out, err := sjson.Set(json, HighlightURLsPath, on)
	if err != nil {
		return "", fmt.Errorf("setting %s: %w", HighlightURLsPath, err)
	}
	return out, nil
}
