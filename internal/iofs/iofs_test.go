package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnexpr/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs verifies all required directories are created and
// repeated calls succeed.
func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	for range 2 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "gnexpr"),
		filepath.Join(tmpDir, ".cache", "gnexpr"),
		filepath.Join(tmpDir, ".local", "share", "gnexpr"),
		filepath.Join(tmpDir, ".local", "share", "gnexpr", "logs"),
	}
	for _, v := range dirs {
		info, err := os.Stat(v)
		require.NoError(t, err, v)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), v)
	}
}

// TestTouchDir_ExistingDirectory verifies existing directory
// is not modified.
func TestTouchDir_ExistingDirectory(t *testing.T) {
	existingDir := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.MkdirAll(existingDir, 0700))

	require.NoError(t, touchDir(existingDir))

	info, err := os.Stat(existingDir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

// TestEnsureConfigFile verifies the default config is written once and
// a user's config is never overwritten.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	configPath := filepath.Join(tmpDir, ".config", "gnexpr", "config.yaml")
	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(content))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	customContent := "# Custom config\nreport:\n  p_value: 0.01\n"
	require.NoError(t, os.WriteFile(configPath, []byte(customContent), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))

	content, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, customContent, string(content),
		"Existing config file should not be overwritten")
}

// TestEnsureConfigFile_NoDir verifies a missing config directory gives
// an error.
func TestEnsureConfigFile_NoDir(t *testing.T) {
	err := EnsureConfigFile(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

// TestConfigYAML_Defaults verifies the embedded config documents the
// same values as built-in defaults.
func TestConfigYAML_Defaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &cfg))

	def := config.New()
	assert.Equal(t, def.Repository.URL, cfg.Repository.URL)
	assert.Equal(t, def.Repository.QueryURL, cfg.Repository.QueryURL)
	assert.Equal(t, def.Repository.Timeout, cfg.Repository.Timeout)
	require.NotNil(t, cfg.Repository.WithProgress)
	assert.Equal(t, *def.Repository.WithProgress, *cfg.Repository.WithProgress)
	assert.Equal(t, def.Annotation, cfg.Annotation)
	assert.Equal(t, def.Database, cfg.Database)
	assert.Equal(t, def.Analysis, cfg.Analysis)
	assert.Equal(t, def.Report, cfg.Report)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, 0, cfg.JobsNumber)
}
