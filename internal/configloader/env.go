package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yaklabco/doxyrst/pkg/config"
)

// envVarPrefix is the prefix for all doxyrst environment variables.
const envVarPrefix = "DOXYRST_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INPUT":              {field: "input", typ: envTypeString, help: "Doxygen XML directory"},
	"OUTPUT":             {field: "output", typ: envTypeString, help: "Directory the pages are generated in"},
	"KEEP_EXISTING":      {field: "keep_existing", typ: envTypeBool, help: "Keep previously generated pages: true or false"},
	"TEST":               {field: "test", typ: envTypeBool, help: "Only convert the test entities: true or false"},
	"TEST_ENTITIES":      {field: "test_entities", typ: envTypeSlice, help: "Comma-separated entity names for test runs"},
	"OPAQUE_BASES":       {field: "opaque_bases", typ: envTypeSlice, help: "Comma-separated base classes without cross-reference"},
	"LOCATION_ROOTS":     {field: "location_roots", typ: envTypeSlice, help: "Comma-separated path components locations start at"},
	"CODE_LANGUAGE":      {field: "code_language", typ: envTypeString, help: "Lexer of declaration code blocks"},
	"SUBDIRS_CLASSES":    {field: "subdirs.classes", typ: envTypeString, help: "Subdirectory of class pages"},
	"SUBDIRS_TEMPLATES":  {field: "subdirs.templates", typ: envTypeString, help: "Subdirectory of template pages"},
	"SUBDIRS_ENUMS":      {field: "subdirs.enums", typ: envTypeString, help: "Subdirectory of enum pages"},
	"SUBDIRS_NAMESPACES": {field: "subdirs.namespaces", typ: envTypeString, help: "Subdirectory of namespace pages"},
	"INDEX_ENABLED":      {field: "index.enabled", typ: envTypeBool, help: "Write listing pages and index.rst: true or false"},
	"INDEX_GLOB":         {field: "index.glob", typ: envTypeBool, help: "List subdirectories with glob patterns: true or false"},
	"INDEX_MAXDEPTH":     {field: "index.maxdepth", typ: envTypeInt, help: "Toctree depth of the listing pages"},
	"JOBS":               {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"FORMAT":             {field: "format", typ: envTypeString, help: "Report format: text, table, json, or summary"},
	"COLOR":              {field: "color", typ: envTypeString, help: "Colorized output: auto, always, or never"},
}

// ReadDotEnv reads the variables of a .env file without touching the
// process environment. An empty path yields no variables.
func ReadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with DOXYRST_ (e.g., DOXYRST_OUTPUT).
// Variables set in the process environment win over those in dotenv.
func LoadFromEnv(cfg *config.Config, dotenv map[string]string) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range slices.Sorted(maps.Keys(envMappings)) {
		envVar := envVarPrefix + envSuffix

		value, ok := os.LookupEnv(envVar)
		if !ok {
			value = dotenv[envVar]
		}
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, envMappings[envSuffix], value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "input":
		cfg.Input = value
	case "output":
		cfg.Output = value
	case "code_language":
		cfg.CodeLanguage = value
	case "subdirs.classes":
		cfg.Subdirs.Classes = value
	case "subdirs.templates":
		cfg.Subdirs.Templates = value
	case "subdirs.enums":
		cfg.Subdirs.Enums = value
	case "subdirs.namespaces":
		cfg.Subdirs.Namespaces = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "keep_existing":
		cfg.KeepExisting = config.Bool(value)
	case "test":
		cfg.Test = value
	case "index.enabled":
		cfg.Index.Enabled = config.Bool(value)
	case "index.glob":
		cfg.Index.Glob = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "index.maxdepth":
		cfg.Index.MaxDepth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "test_entities":
		cfg.TestEntities = value
	case "opaque_bases":
		cfg.OpaqueBases = value
	case "location_roots":
		cfg.LocationRoots = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.help
	}
	return vars
}
