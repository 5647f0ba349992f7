package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/doxyrst/internal/cli"
	"github.com/yaklabco/doxyrst/pkg/reporter"
)

// testInput is a small Doxygen XML tree shared with the runner tests.
var testInput = filepath.Join("..", "..", "pkg", "runner", "testdata", "xml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestIntegration_GenerateJSON(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "rst")
	stdout, err := execute(t, "generate",
		"--input", testInput,
		"--output", output,
		"--format", "json",
		"--color", "never",
	)
	require.NoError(t, err)
	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(err))

	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Summary.EntitiesConverted)
	assert.Equal(t, 2, report.Summary.EntitiesSkipped)
	assert.Equal(t, 8, report.Summary.PagesWritten)
	assert.Positive(t, report.Summary.BySource["doxygen"])

	for _, name := range []string{"classes/Domaine_IJK.rst", "enums/Color.rst", "index.rst"} {
		assert.FileExists(t, filepath.Join(output, filepath.FromSlash(name)))
	}
}

func TestIntegration_GenerateText(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "rst")
	stdout, err := execute(t, "gen",
		"--input", testInput,
		"--output", output,
		"--show-pages",
		"--color", "never",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "wrote classes/Domaine_IJK.rst")
	assert.Contains(t, stdout, "[doxygen]")
	assert.Contains(t, stdout, "Generated 8 pages for 3 entities")
}

func TestIntegration_KeepExisting(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "rst")
	_, err := execute(t, "generate", "--input", testInput, "--output", output, "--format", "summary")
	require.NoError(t, err)

	page := filepath.Join(output, "classes", "Domaine_IJK.rst")
	require.NoError(t, os.WriteFile(page, []byte("edited\n"), 0o644))

	stdout, err := execute(t, "generate",
		"--input", testInput,
		"--output", output,
		"--keep-existing",
		"--format", "json",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, "edited\n", string(data), "existing entity pages are kept")

	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 0, report.Summary.PagesWritten)
}

func TestIntegration_TestMode(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "rst")
	stdout, err := execute(t, "generate",
		"--input", testInput,
		"--output", output,
		"--test",
		"--format", "json",
	)
	require.NoError(t, err)

	var report reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	refids := make([]string, 0, len(report.Entities))
	for _, entity := range report.Entities {
		refids = append(refids, entity.RefID)
	}
	assert.Equal(t, []string{"classDomaine__IJK", "namespaceICoCo"}, refids)
}

func TestIntegration_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "api")
	cfgFile := filepath.Join(dir, "doxyrst.toml")
	input, err := filepath.Abs(testInput)
	require.NoError(t, err)

	content := "input = " + quote(input) + "\noutput = " + quote(output) + "\n\n[subdirs]\nclasses = \"cls\"\n\n[index]\nenabled = false\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	_, err = execute(t, "generate", "--config", cfgFile, "--format", "summary")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(output, "cls", "Domaine_IJK.rst"))
	assert.NoFileExists(t, filepath.Join(output, "index.rst"))
}

func TestIntegration_Errors(t *testing.T) {
	t.Parallel()

	badConfig := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(badConfig, []byte("ouput: typo\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"generate", "--nope"}, cli.ExitInvalidUsage},
		{"bad format", []string{"generate", "--format", "sarif"}, cli.ExitInvalidUsage},
		{"bad config", []string{"generate", "--config", badConfig}, cli.ExitConfigError},
		{"same dirs", []string{"generate", "--input", testInput, "--output", testInput}, cli.ExitConfigError},
		{"missing input", []string{
			"generate",
			"--input", filepath.Join(t.TempDir(), "none"),
			"--output", filepath.Join(t.TempDir(), "rst"),
		}, cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cfg.toml")
	_, err := execute(t, "init", "--format", "toml", "--output", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	// stdin is not a terminal under go test.
	_, err = execute(t, "init", "--format", "toml", "--output", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func quote(s string) string {
	data, _ := json.Marshal(s) //nolint:errcheck // Marshalling a string cannot fail.
	return string(data)
}
