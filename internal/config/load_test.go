package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcbdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0.2", cfg.Document.FormatVersion)
	assert.Equal(t, "0.2", cfg.Document.Version().String())
	assert.True(t, cfg.Output.Color)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\noutput:\n  color: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("PCBDOC_LOG_LEVEL", "warn")
	t.Setenv("PCBDOC_DOCUMENT_FORMAT_VERSION", "0.1")
	t.Setenv("PCBDOC_OUTPUT_COLOR", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "0.1", cfg.Document.FormatVersion)
	assert.False(t, cfg.Output.Color)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("PCBDOC_LOG_FORMAT", "xml")
	t.Setenv("PCBDOC_DOCUMENT_FORMAT_VERSION", "latest")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "document.format_version")
}

func TestBuildEnvLookup(t *testing.T) {
	lookup := buildEnvLookup([]string{"log.level", "document.format_version"})
	assert.Equal(t, "document.format_version", lookup["document_format_version"])
	assert.Equal(t, "log.level", lookup["log_level"])
}
