package configloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/doxyrst/pkg/config"
)

// ErrConfig marks errors caused by configuration files, environment
// variables or invalid settings.
var ErrConfig = errors.New("configuration error")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "index.maxdepth").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// Is reports whether target is ErrConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrConfig
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatSummary: true,
}

// knownColorModes lists valid color values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// commonCodeLanguages are the lexers Doxygen projects usually document.
// Others are accepted with a warning.
//
//nolint:gochecknoglobals // Read-only lookup table.
var commonCodeLanguages = map[string]bool{
	"c":       true,
	"cpp":     true,
	"c++":     true,
	"cuda":    true,
	"fortran": true,
	"java":    true,
	"python":  true,
	"text":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}
	addError := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if strings.TrimSpace(cfg.Input) == "" {
		addError("input", cfg.Input, "input directory must not be empty")
	}
	if strings.TrimSpace(cfg.Output) == "" {
		addError("output", cfg.Output, "output directory must not be empty")
	}
	if cfg.Input != "" && cfg.Output != "" {
		validateDirs(cfg, addError)
	}

	validateSubdirs(cfg.Subdirs, addError)

	if cfg.Index.MaxDepth < 0 {
		addError("index.maxdepth", cfg.Index.MaxDepth, "maxdepth must be >= 0 (0 means %d)", config.DefaultMaxDepth)
	}

	if cfg.Jobs < 0 {
		addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		addError("format", cfg.Format, "invalid format %q; must be one of: text, table, json, summary", cfg.Format)
	}

	if cfg.Color != "" && !knownColorModes[cfg.Color] {
		addError("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	if cfg.CodeLanguage != "" && !commonCodeLanguages[strings.ToLower(cfg.CodeLanguage)] {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "code_language",
			Value:   cfg.CodeLanguage,
			Message: fmt.Sprintf("unusual code language %q; make sure Pygments knows it", cfg.CodeLanguage),
		})
	}

	if cfg.Test && len(cfg.TestEntities) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "test_entities",
			Message: "test mode is on but no test entities are configured; nothing will be converted",
		})
	}

	return result
}

type errorFunc func(field string, value any, format string, args ...any)

// validateDirs rejects layouts where cleaning the output would delete the input.
func validateDirs(cfg *config.Config, addError errorFunc) {
	input, inErr := filepath.Abs(cfg.Input)
	output, outErr := filepath.Abs(cfg.Output)
	if inErr != nil || outErr != nil {
		return
	}

	if input == output {
		addError("output", cfg.Output, "output directory must differ from the input directory")
		return
	}

	if cfg.KeepExistingEnabled() {
		return
	}

	if filepath.Dir(output) == output {
		addError("output", cfg.Output, "refusing to clean the filesystem root; pick another output directory")
		return
	}

	if isWithin(output, input) {
		addError("output", cfg.Output, "input directory %q lies inside the output directory, which is cleaned on each run", cfg.Input)
	}
}

func validateSubdirs(subdirs config.SubdirsConfig, addError errorFunc) {
	fields := []struct {
		name  string
		value string
	}{
		{"subdirs.classes", subdirs.Classes},
		{"subdirs.templates", subdirs.Templates},
		{"subdirs.enums", subdirs.Enums},
		{"subdirs.namespaces", subdirs.Namespaces},
	}

	seen := make(map[string]string, len(fields))
	for _, f := range fields {
		switch {
		case f.value == "":
			addError(f.name, f.value, "subdirectory must not be empty")
			continue
		case filepath.IsAbs(f.value) || strings.HasPrefix(filepath.Clean(f.value), ".."):
			addError(f.name, f.value, "subdirectory %q must stay inside the output directory", f.value)
			continue
		}

		clean := filepath.Clean(f.value)
		if other, dup := seen[clean]; dup {
			addError(f.name, f.value, "subdirectory %q is already used by %s", f.value, other)
			continue
		}
		seen[clean] = f.name
	}
}

// isWithin reports whether path is parent or lies below it.
func isWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidColorMode returns true if the color mode is valid.
func IsValidColorMode(mode string) bool {
	return knownColorModes[mode]
}
