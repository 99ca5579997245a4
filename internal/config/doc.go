// Package config loads the annotation settings.
//
// Settings come from one file whose extension selects the format:
//
//	.toml         native format
//	.yaml, .yml   same keys as TOML
//	.json         the host application's settings file; annotation keys
//	              live under "general.copyedit"
//
// A missing file yields Default. Watcher reloads the file when it changes
// on disk and hands the new Config to registered handlers.
package config
