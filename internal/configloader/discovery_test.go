package configloader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	root := projectDir(t)
	nested := filepath.Join(root, "a", "b")
	writeFile(t, filepath.Join(nested, "keep"), "")

	got, err := FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Empty(t, got, "search stops at the VCS root")

	writeFile(t, filepath.Join(root, "doxyrst.toml"), "")
	writeFile(t, filepath.Join(root, ".doxyrst.yaml"), "")

	got, err = FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".doxyrst.yaml"), got, "dotfiles are preferred")

	writeFile(t, filepath.Join(root, "a", ".doxyrst.toml"), "")
	got, err = FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", ".doxyrst.toml"), got, "nearest directory wins")
}

func TestDiscoverPaths_DotEnv(t *testing.T) {
	t.Parallel()

	root := projectDir(t)

	paths, err := DiscoverPaths(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, paths.DotEnv)

	writeFile(t, filepath.Join(root, ".env"), "DOXYRST_JOBS=1\n")
	paths, err = DiscoverPaths(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".env"), paths.DotEnv)
}

func TestDiscoverPaths_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DiscoverPaths(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
