package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/doxyrst/pkg/config"
)

func TestFromTOML(t *testing.T) {
	t.Run("parses valid TOML", func(t *testing.T) {
		data := []byte(`
output = "docs/rst"
location_roots = ["src"]

[index]
enabled = false
`)
		cfg, err := config.FromTOML(data)
		require.NoError(t, err)
		assert.Equal(t, "docs/rst", cfg.Output)
		assert.Equal(t, []string{"src"}, cfg.LocationRoots)
		assert.False(t, cfg.IndexEnabled())
		assert.Nil(t, cfg.KeepExisting)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := config.FromTOML([]byte("[index]\ndepth = 2\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index.depth")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := config.FromTOML([]byte("output = \n"))
		require.Error(t, err)
	})
}

func TestConfigToTOML(t *testing.T) {
	var nilConfig *config.Config
	data, err := nilConfig.ToTOML()
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = persisted().ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "[subdirs]")

	cfg, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, persisted(), cfg)
}
