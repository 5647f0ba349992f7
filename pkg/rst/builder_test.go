package rst_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/doxyrst/pkg/rst"
)

func TestBuilder_NestedBlocksIndent(t *testing.T) {
	t.Parallel()

	b := rst.New()
	b.Line("top")
	b.StartBlock(rst.DirectiveCard, "Title")
	b.Line("inside")
	b.StartBlock(rst.DirectiveCodeBlock, "cpp", rst.Option{Key: "linenos"})
	b.Append("int x;")
	require.NoError(t, b.EndBlock(rst.DirectiveCodeBlock))
	require.NoError(t, b.EndBlock(rst.DirectiveCard))
	b.Line("after")

	got, err := b.Render()
	require.NoError(t, err)

	want := "top\n" +
		"\n" +
		".. card:: Title\n" +
		"\n" +
		"    inside\n" +
		"\n" +
		"    .. code-block:: cpp\n" +
		"        :linenos:\n" +
		"\n" +
		"        int x;\n" +
		"\n" +
		"after\n"
	assert.Equal(t, want, got)
}

func TestBuilder_IndentTracksDepth(t *testing.T) {
	t.Parallel()

	// Each content line records the depth it was written at in its text.
	b := rst.New()
	kinds := []string{"card", "dropdown", "tab-set", "tab-item"}
	for _, kind := range kinds {
		b.Append("depth-" + string(rune('0'+b.Depth())))
		b.StartBlock(kind, "")
	}
	for i := len(kinds) - 1; i >= 0; i-- {
		b.Append("depth-" + string(rune('0'+b.Depth())))
		require.NoError(t, b.EndBlock(kinds[i]))
	}

	got, err := b.Render()
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		content := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(content, "depth-") {
			continue
		}
		depth := int(content[len("depth-")] - '0')
		assert.Equal(t, 4*depth, len(line)-len(content), "line %q", line)
	}
}

func TestBuilder_EndBlockMismatch(t *testing.T) {
	t.Parallel()

	build := func(withBadEnd bool) (*rst.Builder, error) {
		b := rst.New()
		b.StartBlock(rst.DirectiveCard, "")
		b.Append("body")
		var badErr error
		if withBadEnd {
			badErr = b.EndBlock(rst.DirectiveDropdown)
		}
		if err := b.EndBlock(rst.DirectiveCard); err != nil {
			return nil, err
		}
		return b, badErr
	}

	b, badErr := build(true)
	require.Error(t, badErr)
	assert.ErrorIs(t, badErr, rst.ErrStructural)

	var structural *rst.StructuralError
	require.ErrorAs(t, badErr, &structural)
	assert.Equal(t, "dropdown", structural.Want)
	assert.Equal(t, "card", structural.Got)

	// The failed call must not have written anything.
	reference, err := build(false)
	require.NoError(t, err)
	got, err := b.Render()
	require.NoError(t, err)
	want, err := reference.Render()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBuilder_EndBlockNothingOpen(t *testing.T) {
	t.Parallel()

	err := rst.New().EndBlock(rst.DirectiveCard)
	require.ErrorIs(t, err, rst.ErrStructural)
	assert.Contains(t, err.Error(), "nothing open")
}

func TestBuilder_Lists(t *testing.T) {
	t.Parallel()

	t.Run("items use the innermost marker", func(t *testing.T) {
		t.Parallel()

		b := rst.New()
		b.StartList("-")
		require.NoError(t, b.AddListItem("a"))
		require.NoError(t, b.AddListItem("b"))
		require.NoError(t, b.EndList("-"))

		got, err := b.Render()
		require.NoError(t, err)
		assert.Equal(t, "- a\n- b\n", got)
	})

	t.Run("item without list", func(t *testing.T) {
		t.Parallel()

		err := rst.New().AddListItem("orphan")
		assert.ErrorIs(t, err, rst.ErrStructural)
	})

	t.Run("mismatched marker", func(t *testing.T) {
		t.Parallel()

		b := rst.New()
		b.StartList("-")
		err := b.EndList("*")
		require.ErrorIs(t, err, rst.ErrStructural)

		// The list is still open.
		require.NoError(t, b.EndList("-"))
	})

	t.Run("lists and blocks are independent", func(t *testing.T) {
		t.Parallel()

		b := rst.New()
		b.StartBlock(rst.DirectiveDropdown, "References")
		b.StartList("-")
		require.NoError(t, b.AddListItem("x"))
		require.NoError(t, b.EndList("-"))
		require.NoError(t, b.EndBlock(rst.DirectiveDropdown))

		got, err := b.Render()
		require.NoError(t, err)
		assert.Equal(t, ".. dropdown:: References\n\n    - x\n", got)
	})
}

func TestBuilder_RenderUnclosed(t *testing.T) {
	t.Parallel()

	t.Run("block", func(t *testing.T) {
		t.Parallel()

		b := rst.New()
		b.StartBlock(rst.DirectiveCard, "")
		b.StartBlock(rst.DirectiveCodeBlock, "cpp")

		_, err := b.Render()
		var structural *rst.StructuralError
		require.ErrorAs(t, err, &structural)
		assert.Equal(t, []string{"card", "code-block"}, structural.Open)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		b := rst.New()
		b.StartList("-")

		_, err := b.Render()
		require.ErrorIs(t, err, rst.ErrStructural)
		assert.Contains(t, err.Error(), "list -")
	})
}

func TestBuilder_TargetsAndSections(t *testing.T) {
	t.Parallel()

	b := rst.New()
	b.AddTarget("classDomaine__IJK")
	b.AddTarget("class-domaine-ijk")
	b.StartSection(rst.EscapeProse("Domaine_IJK"), rst.MarkerTitle)
	b.Line("Brief.")
	b.StartSection("ドキュメント", rst.MarkerSection)

	got, err := b.Render()
	require.NoError(t, err)

	want := ".. _classDomaine__IJK:\n" +
		"\n" +
		".. _class-domaine-ijk:\n" +
		"\n" +
		"Domaine\\_IJK\n" +
		"============\n" +
		"\n" +
		"Brief.\n" +
		"\n" +
		"ドキュメント\n" +
		"------------\n"
	assert.Equal(t, want, got)
}

func TestBuilder_Merge(t *testing.T) {
	t.Parallel()

	child := rst.New()
	child.StartList("-")
	require.NoError(t, child.AddListItem("a"))
	require.NoError(t, child.AddListItem("b"))
	require.NoError(t, child.EndList("-"))
	child.StartBlock(rst.DirectiveCodeBlock, "cpp")
	child.Append("x")
	require.NoError(t, child.EndBlock(rst.DirectiveCodeBlock))

	parent := rst.New()
	parent.StartBlock(rst.DirectiveDropdown, "Refs")
	require.NoError(t, parent.Merge(child))
	require.NoError(t, parent.EndBlock(rst.DirectiveDropdown))
	parent.Line("after")

	got, err := parent.Render()
	require.NoError(t, err)

	want := ".. dropdown:: Refs\n" +
		"\n" +
		"    - a\n" +
		"    - b\n" +
		"\n" +
		"    .. code-block:: cpp\n" +
		"\n" +
		"        x\n" +
		"\n" +
		"after\n"
	assert.Equal(t, want, got)
}

func TestBuilder_MergeAfterContent(t *testing.T) {
	t.Parallel()

	child := rst.New()
	child.Line("child")

	parent := rst.New()
	parent.Append("parent")
	require.NoError(t, parent.Merge(child))
	parent.Append("tail")

	got, err := parent.Render()
	require.NoError(t, err)
	assert.Equal(t, "parent\nchild\ntail\n", got)
}

func TestBuilder_MergeUnclosedChild(t *testing.T) {
	t.Parallel()

	child := rst.New()
	child.StartBlock(rst.DirectiveCard, "")

	err := rst.New().Merge(child)
	assert.ErrorIs(t, err, rst.ErrStructural)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only blanks", "\n   \n\t\n", ""},
		{"collapses blank runs", "a\n\n\n\nb\n", "a\n\nb\n"},
		{"strips leading blanks", "\n\n    \na\n", "a\n"},
		{"strips trailing whitespace", "a   \n    \nb\t\n", "a\n\nb\n"},
		{"adds final newline", "a", "a\n"},
		{"keeps indentation", "a\n    b\n", "a\n    b\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := rst.Normalize(testCase.in)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, got, rst.Normalize(got), "Normalize must be idempotent")
			assert.NotContains(t, got, "\n\n\n")
		})
	}
}

func TestBuilder_WriteToPath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	page := func(text string) *rst.Builder {
		b := rst.New()
		b.Line(text)
		return b
	}

	t.Run("creates parents and sanitises the name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		result, err := page("hello").WriteToPath(ctx, filepath.Join(dir, "classes", "ICoCo::Problem.rst"), false)
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.Equal(t, filepath.Join(dir, "classes", "ICoCo__Problem.rst"), result.Path)

		got, err := os.ReadFile(result.Path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(got))
	})

	t.Run("keeps existing files", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "Foo.rst")
		require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

		result, err := page("regenerated").WriteToPath(ctx, path, false)
		require.NoError(t, err)
		assert.False(t, result.Written)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "previous\n", string(got))
	})

	t.Run("overwrite replaces only changed content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "index.rst")
		require.NoError(t, os.WriteFile(path, []byte("same\n"), 0o644))

		result, err := page("same").WriteToPath(ctx, path, true)
		require.NoError(t, err)
		assert.False(t, result.Written)

		result, err = page("different").WriteToPath(ctx, path, true)
		require.NoError(t, err)
		assert.True(t, result.Written)
	})

	t.Run("structural error writes nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.rst")
		b := rst.New()
		b.StartBlock(rst.DirectiveCard, "")

		_, err := b.WriteToPath(ctx, path, true)
		require.True(t, errors.Is(err, rst.ErrStructural))

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}
