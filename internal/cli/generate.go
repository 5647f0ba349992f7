package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/doxyrst/internal/configloader"
	"github.com/yaklabco/doxyrst/internal/logging"
	"github.com/yaklabco/doxyrst/pkg/config"
	"github.com/yaklabco/doxyrst/pkg/convert"
	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/reporter"
	"github.com/yaklabco/doxyrst/pkg/runner"
)

type generateFlags struct {
	input        string
	output       string
	keepExisting bool
	test         bool
	jobs         int
	format       string
	watch        bool
	showPages    bool
}

func newGenerateCommand() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate reStructuredText pages from Doxygen XML",
		Long:    generateLongDescription,
		Example: generateExamples,
		Args:    cobra.NoArgs,
		Annotations: map[string]string{
			annotationConfigHelp: "true",
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags)
		},
	}

	addGenerateFlags(cmd, flags)

	return cmd
}

const generateLongDescription = `Generate one reStructuredText page per class, class template, namespace
and enum found in a Doxygen XML directory, plus the listing pages and
index.rst that include them.

The output directory is removed before the run unless --keep-existing is
given. With --keep-existing, pages that already exist are left untouched
so incremental documentation builds stay fast.`

const generateExamples = `  doxyrst generate                              # ./xml -> ./rst
  doxyrst gen --input build/xml --output docs/api
  doxyrst generate --keep-existing              # only add missing pages
  doxyrst generate --test                       # convert the test entities only
  doxyrst generate --format json                # machine-readable report
  doxyrst generate --watch                      # regenerate on XML changes`

func addGenerateFlags(cmd *cobra.Command, flags *generateFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", config.DefaultInput, "Doxygen XML directory")
	cmd.Flags().StringVarP(&flags.output, "output", "o", config.DefaultOutput, "output directory for the generated pages")
	cmd.Flags().BoolVar(&flags.keepExisting, "keep-existing", false, "keep the output directory and skip existing pages")
	cmd.Flags().BoolVar(&flags.test, "test", false, "only convert the configured test entities")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "report format: text, table, json, summary")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate whenever the XML input changes")
	cmd.Flags().BoolVar(&flags.showPages, "show-pages", false, "list every page in the text report")
}

// cliConfig maps the flags that were explicitly set to a config layer.
func cliConfig(cmd *cobra.Command, flags *generateFlags) (*config.Config, error) {
	cfg := &config.Config{
		Test:      flags.test,
		Jobs:      flags.jobs,
		Watch:     flags.watch,
		ShowPages: flags.showPages,
	}

	if cmd.Flags().Changed("input") {
		cfg.Input = flags.input
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flags.output
	}
	if cmd.Flags().Changed("keep-existing") {
		cfg.KeepExisting = config.Bool(flags.keepExisting)
	}
	if cmd.Flags().Changed("format") {
		if _, err := reporter.ParseFormat(flags.format); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
		cfg.Format = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("color") {
		color, err := cmd.Flags().GetString("color")
		if err != nil {
			return nil, fmt.Errorf("get color flag: %w", err)
		}
		cfg.Color = color
	}

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, flags *generateFlags) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	cliCfg, err := cliConfig(cmd, flags)
	if err != nil {
		return err
	}

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return err
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", "files", loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldInput, cfg.Input,
		logging.FieldOutput, cfg.Output,
		logging.FieldKeepExisting, cfg.KeepExistingEnabled(),
		logging.FieldTest, cfg.Test,
		logging.FieldJobs, cfg.Jobs,
	)

	if cfg.Watch {
		return watch(ctx, cfg, func(ctx context.Context) error {
			return generate(ctx, cmd, cfg)
		})
	}

	return generate(ctx, cmd, cfg)
}

// generate runs one conversion and reports it.
func generate(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	gen := runner.New(doxygen.NewDirSource(cfg.Input), convert.New(convertOptions(cfg)))

	result, err := gen.Run(ctx, runnerOptions(cfg))
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       cfg.Color,
		ShowSummary: true,
		ShowPages:   cfg.ShowPages,
		Output:      cfg.Output,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return nil
}

func convertOptions(cfg *config.Config) convert.Options {
	return convert.Options{
		Subdirs: convert.Subdirs{
			Classes:    cfg.Subdirs.Classes,
			Templates:  cfg.Subdirs.Templates,
			Enums:      cfg.Subdirs.Enums,
			Namespaces: cfg.Subdirs.Namespaces,
		},
		OpaqueBases:   cfg.OpaqueBases,
		LocationRoots: cfg.LocationRoots,
		CodeLanguage:  cfg.CodeLanguage,
	}
}

func runnerOptions(cfg *config.Config) runner.Options {
	return runner.Options{
		Output:       cfg.Output,
		KeepExisting: cfg.KeepExistingEnabled(),
		Test:         cfg.Test,
		TestEntities: cfg.TestEntities,
		Jobs:         cfg.Jobs,
		Index: runner.IndexOptions{
			Enabled: cfg.IndexEnabled(),
			IndexOptions: convert.IndexOptions{
				Glob:     cfg.IndexGlob(),
				MaxDepth: cfg.IndexMaxDepth(),
			},
		},
	}
}
