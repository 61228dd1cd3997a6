// Package config loads the settings of the pcbdoc command line tool.
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables with the PCBDOC_ prefix.
package config

// Config holds all settings of the tool.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Document DocumentConfig `koanf:"document"`
	Output   OutputConfig   `koanf:"output"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DocumentConfig holds settings for writing documents.
type DocumentConfig struct {
	// FormatVersion is the file format version written on save.
	FormatVersion string `koanf:"format_version"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	Color bool `koanf:"color"`
}
