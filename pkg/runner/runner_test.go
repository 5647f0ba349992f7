package runner_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/doxyrst/pkg/config"
	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
	"github.com/yaklabco/doxyrst/pkg/rst"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

const testInput = "testdata/xml"

func newRunner() *runner.Runner {
	return runner.New(doxygen.NewDirSource(testInput), convert.New(convert.DefaultOptions()))
}

func defaultOptions(output string) runner.Options {
	return runner.Options{
		Output: output,
		Jobs:   2,
		Index: runner.IndexOptions{
			Enabled:      true,
			IndexOptions: convert.IndexOptions{Glob: true, MaxDepth: 1},
		},
	}
}

// snapshot reads every file below root, keyed by slash path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestSelect(t *testing.T) {
	t.Parallel()

	index := &doxygen.Index{Compounds: []doxygen.IndexEntry{
		{RefID: "classDomaine__IJK", Kind: doxygen.KindClass, Name: "Domaine_IJK"},
		{RefID: "structPoint", Kind: doxygen.KindStruct, Name: "Point"},
		{RefID: "namespaceICoCo", Kind: doxygen.KindNamespace, Name: "ICoCo"},
		{RefID: "Motcle_8h", Kind: doxygen.KindFile, Name: "Motcle.h"},
		{RefID: "dir_1234", Kind: "dir", Name: "src"},
		{RefID: "group__io", Kind: "group", Name: "io"},
		{RefID: "classDomaine__IJK", Kind: doxygen.KindClass, Name: "Domaine_IJK"},
	}}

	refids := func(entries []doxygen.IndexEntry) []string {
		out := make([]string, 0, len(entries))
		for _, entry := range entries {
			out = append(out, entry.RefID)
		}
		return out
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "supported kinds once each",
			want: []string{"classDomaine__IJK", "structPoint", "namespaceICoCo", "Motcle_8h"},
		},
		{
			name: "test mode collapses doubled underscores",
			opts: runner.Options{Test: true, TestEntities: []string{"Domaine_IJK", "ICoCo"}},
			want: []string{"classDomaine__IJK", "namespaceICoCo"},
		},
		{
			name: "test mode with default names",
			opts: runner.Options{Test: true, TestEntities: config.DefaultTestEntities()},
			want: []string{"classDomaine__IJK", "namespaceICoCo"},
		},
		{
			name: "test mode without names selects nothing",
			opts: runner.Options{Test: true, TestEntities: []string{""}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, refids(runner.Select(index, tt.opts)))
		})
	}

	assert.Nil(t, runner.Select(nil, runner.Options{}))
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "rst")
	result, err := newRunner().Run(context.Background(), defaultOptions(output))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 6, result.Stats.EntitiesDiscovered)
	assert.Equal(t, 5, result.Stats.EntitiesSelected)
	assert.Equal(t, 3, result.Stats.EntitiesConverted)
	assert.Equal(t, 2, result.Stats.EntitiesSkipped)

	// Outcomes follow index order regardless of completion order.
	order := make([]string, 0, len(result.Entities))
	for _, entity := range result.Entities {
		order = append(order, entity.Entry.RefID)
	}
	assert.Equal(t, []string{"classDomaine__IJK", "classBroken", "classMissing", "namespaceICoCo", "Motcle_8h"}, order)

	broken := result.Entities[1]
	assert.True(t, broken.Skipped)
	require.NotEmpty(t, broken.Warnings)
	assert.Equal(t, convert.SourceDoxygen, broken.Warnings[0].Source)
	assert.Contains(t, broken.Warnings[0].Message, "classBroken")
	assert.True(t, result.HasWarnings())
	assert.GreaterOrEqual(t, result.Stats.WarningsBySource[convert.SourceDoxygen], 2)

	files := snapshot(t, output)
	for _, name := range []string{
		"classes/Domaine_IJK.rst",
		"namespaces/ICoCo.rst",
		"enums/Color.rst",
		"doxy_classes.rst",
		"doxy_templates.rst",
		"doxy_namespaces.rst",
		"doxy_enums.rst",
		"index.rst",
	} {
		assert.Contains(t, files, name)
	}
	assert.Len(t, files, 8)
	assert.Contains(t, files["classes/Domaine_IJK.rst"], ".. _classDomaine__IJK:")
	assert.Len(t, result.IndexPages, 5)
	assert.Equal(t, 8, result.Stats.PagesGenerated)
	assert.Equal(t, 8, result.Stats.PagesWritten)
}

func TestRunner_Run_CleansOutput(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	stale := filepath.Join(output, "classes", "Gone.rst")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("stale\n"), 0o644))

	_, err := newRunner().Run(context.Background(), defaultOptions(output))
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "stale page should be removed")
}

func TestRunner_Run_KeepExistingIsByteStable(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	opts := defaultOptions(output)
	opts.KeepExisting = true

	_, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)
	before := snapshot(t, output)

	// A hand-edited page survives as well.
	edited := filepath.Join(output, "classes", "Domaine_IJK.rst")
	require.NoError(t, os.WriteFile(edited, []byte("edited\n"), 0o644))
	before["classes/Domaine_IJK.rst"] = "edited\n"

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, output))
	assert.Zero(t, result.Stats.PagesWritten)
	assert.Equal(t, result.Stats.PagesGenerated, result.Stats.PagesKept)
}

func TestRunner_Run_ExplicitIndex(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	opts := defaultOptions(output)
	opts.Index.Glob = false

	_, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	files := snapshot(t, output)
	assert.Equal(t, "Classes\n"+
		"-------\n"+
		"\n"+
		".. toctree::\n"+
		"    :maxdepth: 1\n"+
		"\n"+
		"    ./classes/Domaine_IJK\n", files["doxy_classes.rst"])
	assert.Contains(t, files["doxy_enums.rst"], "    ./enums/Color\n")
}

func TestRunner_Run_IndexDisabled(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	opts := defaultOptions(output)
	opts.Index.Enabled = false

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Empty(t, result.IndexPages)
	assert.NotContains(t, snapshot(t, output), "index.rst")
}

func TestRunner_Run_TestMode(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	opts := defaultOptions(output)
	opts.Test = true
	opts.TestEntities = []string{"ICoCo"}

	result, err := newRunner().Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "namespaceICoCo", result.Entities[0].Entry.RefID)
	assert.Contains(t, snapshot(t, output), "namespaces/ICoCo.rst")
}

func TestRunner_Run_WriteErrorAborts(t *testing.T) {
	t.Parallel()

	output := t.TempDir()
	// A file where the classes directory should be makes the class page fail.
	require.NoError(t, os.WriteFile(filepath.Join(output, "classes"), nil, 0o644))

	opts := defaultOptions(output)
	opts.KeepExisting = true

	result, err := newRunner().Run(context.Background(), opts)
	require.Error(t, err)
	require.NotNil(t, result)

	var entityErr *runner.EntityError
	require.ErrorAs(t, err, &entityErr)
	assert.Equal(t, "classDomaine__IJK", entityErr.RefID)
	assert.Equal(t, "Domaine_IJK", entityErr.Name)
	assert.False(t, runner.IsStructural(err))
	assert.Empty(t, result.IndexPages)
}

func TestRunner_Run_MissingIndex(t *testing.T) {
	t.Parallel()

	r := runner.New(doxygen.NewDirSource(t.TempDir()), convert.New(convert.DefaultOptions()))
	result, err := r.Run(context.Background(), defaultOptions(t.TempDir()))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestRunner_Run_NoOutput(t *testing.T) {
	t.Parallel()

	_, err := newRunner().Run(context.Background(), runner.Options{})
	assert.ErrorIs(t, err, runner.ErrNoOutput)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, defaultOptions(t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntityError(t *testing.T) {
	t.Parallel()

	err := &runner.EntityError{
		RefID: "classFoo",
		Name:  "Foo",
		Err:   &rst.StructuralError{Op: "end block", Want: "card", Got: "dropdown"},
	}

	assert.True(t, runner.IsStructural(err))
	assert.Contains(t, err.Error(), "entity classFoo (Foo)")

	var structural *rst.StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "card", structural.Want)
}

func TestResult_NilSafe(t *testing.T) {
	t.Parallel()

	var result *runner.Result
	assert.False(t, result.HasWarnings())
	assert.Nil(t, result.Warnings())
}

// enumSource serves file compounds that each declare one enum named Mode.
// Compounds listed in slow are returned after a delay.
type enumSource struct {
	values map[string]string
	slow   map[string]bool
}

func (s *enumSource) Index(context.Context) (*doxygen.Index, error) {
	return &doxygen.Index{Compounds: []doxygen.IndexEntry{
		{RefID: "a_8h", Kind: doxygen.KindFile, Name: "a.h"},
		{RefID: "b_8h", Kind: doxygen.KindFile, Name: "b.h"},
	}}, nil
}

func (s *enumSource) Compound(ctx context.Context, refid string) (*doxygen.Compound, error) {
	if s.slow[refid] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	return &doxygen.Compound{
		ID:   refid,
		Kind: doxygen.KindFile,
		Name: strings.TrimSuffix(refid, "_8h") + ".h",
		Sections: []doxygen.Section{{
			Kind: "enum",
			Members: []doxygen.Member{{
				ID:         refid + "_1mode",
				Kind:       doxygen.KindEnum,
				Name:       "Mode",
				EnumValues: []doxygen.EnumValue{{ID: refid + "_1value", Name: s.values[refid]}},
				Location:   &doxygen.Location{File: refid + ".h", Line: "3"},
			}},
		}},
	}, nil
}

func TestRunner_Run_SameEnumKeepsFirstInIndex(t *testing.T) {
	t.Parallel()

	for _, jobs := range []int{1, 2} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			t.Parallel()

			source := &enumSource{
				values: map[string]string{"a_8h": "Alpha", "b_8h": "Beta"},
				slow:   map[string]bool{"a_8h": true},
			}
			output := t.TempDir()
			r := runner.New(source, convert.New(convert.DefaultOptions()))

			result, err := r.Run(context.Background(), runner.Options{Output: output, Jobs: jobs})
			require.NoError(t, err)

			content, err := os.ReadFile(filepath.Join(output, "enums", "Mode.rst"))
			require.NoError(t, err)
			assert.Contains(t, string(content), "Alpha")
			assert.NotContains(t, string(content), "Beta")

			require.Len(t, result.Entities, 2)
			assert.Len(t, result.Entities[0].Pages, 1)
			assert.Empty(t, result.Entities[1].Pages)

			require.Len(t, result.Entities[1].Warnings, 1)
			warning := result.Entities[1].Warnings[0]
			assert.Equal(t, convert.SourceGenerator, warning.Source)
			assert.Contains(t, warning.Message, "already generated for a.h")
			assert.Equal(t, 1, result.Stats.WarningsBySource[convert.SourceGenerator])
		})
	}
}
