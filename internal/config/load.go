package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem abstracts file reads for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem {
	return osFS{}
}

// Format is a config file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and validates the config file at path. A missing file yields
// Default.
func Load(path string) (Config, error) {
	return LoadFS(DefaultFS(), path)
}

// LoadFS is Load with a custom file system.
func LoadFS(fsys FileSystem, path string) (Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Config{}, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(format, path, data)
	if err != nil {
		return Config{}, err
	}
	cfg.Copyedit.FilterScript = resolveScript(path, cfg.Copyedit.FilterScript)
	return cfg, nil
}

// Parse decodes data over Default and validates the result. source names
// the input in errors.
func Parse(format Format, source string, data []byte) (Config, error) {
	cfg := Default()

	var err error
	switch format {
	case FormatTOML:
		err = parseTOML(source, data, &cfg)
	case FormatYAML:
		err = parseYAML(source, data, &cfg)
	case FormatJSON:
		err = parseSettings(source, data, &cfg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

func parseTOML(source string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

func parseYAML(source string, data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return nil
}

// resolveScript makes a relative filter script path relative to the
// config file's directory.
func resolveScript(configPath, script string) string {
	if script == "" || filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(filepath.Dir(configPath), script)
}
