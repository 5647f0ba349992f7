package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/doxyrst/internal/logging"
	"github.com/yaklabco/doxyrst/pkg/config"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new doxyrst configuration file",
		Long: `Create a new .doxyrst.yml configuration file in the current directory.
Every setting is documented in the file; by default they are commented out
so the built-in defaults apply until you change them.`,
		Example: `  doxyrst init                      Create .doxyrst.yml with settings commented out
  doxyrst init --full               Write every setting with its default value
  doxyrst init --format toml        Create .doxyrst.toml instead
  doxyrst init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		Annotations: map[string]string{
			annotationConfigHelp: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), flags, isInteractive())
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing configuration file without asking")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .doxyrst.yml or .doxyrst.toml)")

	return cmd
}

func runInit(in io.Reader, out io.Writer, flags *initFlags, interactive bool) error {
	logger := logging.NewInteractive()

	format := config.FileFormat(flags.format)
	if format != config.FileFormatYAML && format != config.FileFormatTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".doxyrst.yml"
		if format == config.FileFormatTOML {
			outputPath = ".doxyrst.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	exists, err := fsutil.Exists(absPath)
	if err != nil {
		return err
	}
	if exists && !flags.force {
		if !interactive {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		ok, err := confirmOverwrite(in, out, outputPath)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("keeping existing file", logging.FieldPath, outputPath)
			return nil
		}
	}
	if exists {
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'doxyrst generate' to build the pages")

	return nil
}

// confirmOverwrite asks whether an existing file may be replaced.
// Only an explicit yes counts.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
