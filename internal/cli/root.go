// Package cli provides the Cobra command structure for doxyrst.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/doxyrst/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root doxyrst command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "doxyrst",
		Short: "Generate reStructuredText API pages from Doxygen XML",
		Long: `doxyrst turns the XML output of Doxygen into reStructuredText pages
for a Sphinx documentation build.

Every class, class template, namespace and enum gets its own page with
stable cross-reference targets, member cards and citation snippets. Small
listing pages and an index.rst tie the generated tree into a parent
toctree. Malformed input is reported as warnings; a run only fails when a
page cannot be built or written.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (.yml, .yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	NewHelpFormatter(color).ApplyToCommand(rootCmd)

	return rootCmd
}
