package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/doxyrst/pkg/config"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{
		Output:       "docs",
		KeepExisting: config.Bool(true),
		OpaqueBases:  []string{},
		Subdirs:      config.SubdirsConfig{Enums: "enumerations"},
		Index:        config.IndexConfig{Enabled: config.Bool(false)},
	}

	got := merge(base, override)

	assert.Equal(t, "docs", got.Output)
	assert.Equal(t, config.DefaultInput, got.Input, "unset scalars keep the base value")
	assert.True(t, got.KeepExistingEnabled())
	assert.Empty(t, got.OpaqueBases, "an empty slice replaces the base")
	assert.Equal(t, base.LocationRoots, got.LocationRoots, "a nil slice keeps the base")
	assert.Equal(t, "enumerations", got.Subdirs.Enums)
	assert.Equal(t, "classes", got.Subdirs.Classes)
	assert.False(t, got.IndexEnabled())
	assert.True(t, got.IndexGlob())
	assert.Equal(t, config.DefaultMaxDepth, got.IndexMaxDepth())

	assert.Equal(t, config.DefaultOutput, base.Output, "base must not be modified")
}

func TestMerge_FalseOverridesTrue(t *testing.T) {
	t.Parallel()

	base := &config.Config{KeepExisting: config.Bool(true), Index: config.IndexConfig{Glob: config.Bool(true)}}
	override := &config.Config{KeepExisting: config.Bool(false), Index: config.IndexConfig{Glob: config.Bool(false)}}

	got := merge(base, override)
	assert.False(t, got.KeepExistingEnabled())
	assert.False(t, got.IndexGlob())
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Same(t, cfg, merge(nil, cfg))
	assert.Same(t, cfg, merge(cfg, nil))
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	assert.Nil(t, MergeAll())

	got := MergeAll(
		config.NewConfig(),
		&config.Config{Output: "a", Jobs: 2},
		&config.Config{Output: "b", Watch: true},
	)
	assert.Equal(t, "b", got.Output)
	assert.Equal(t, 2, got.Jobs)
	assert.True(t, got.Watch)
}
