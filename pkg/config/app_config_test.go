package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	t.Setenv("DEBUG", "")

	conf, err := NewAppConfig("pgpdump", "1.0", "abc", "today", false)
	require.NoError(t, err)
	assert.Equal(t, dir, conf.ConfigDir)
	assert.False(t, conf.Debug)
	assert.Equal(t, filepath.Join(dir, "config.yml"), conf.ConfigFilename())

	def := GetDefaultConfig()
	assert.Equal(t, &def, conf.UserConfig)
}

func TestNewAppConfigCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "pgpdump")
	t.Setenv(ConfigDirEnv, dir)
	t.Setenv("DEBUG", "TRUE")

	conf, err := NewAppConfig("pgpdump", "", "", "", false)
	require.NoError(t, err)
	assert.True(t, conf.Debug)
	assert.DirExists(t, dir)
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	content := "output:\n  format: json\n  pretty: true\ndump:\n  grips: true\n  rawLimit: 64\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))

	conf, err := NewAppConfig("pgpdump", "", "", "", false)
	require.NoError(t, err)
	uc := conf.UserConfig
	assert.Equal(t, FormatJSON, uc.Output.Format)
	assert.True(t, uc.Output.Pretty)
	assert.False(t, uc.Output.Color)
	assert.True(t, uc.Dump.Grips)
	assert.False(t, uc.Dump.Raw)
	assert.Equal(t, 64, uc.Dump.RawLimit)
	assert.Equal(t, 2048, uc.Dump.JSONRawLimit)
}

func TestUserConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("output: [\n"), 0o644))

	_, err := NewAppConfig("pgpdump", "", "", "", false)
	assert.Error(t, err)
}
