// Package config defines core configuration types for doxyrst.
// These types are pure data structures; discovery, layering and validation
// live in internal/configloader.
package config

// OutputFormat specifies the output format of the run report.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// Default values.
const (
	DefaultInput        = "./xml"
	DefaultOutput       = "./rst"
	DefaultCodeLanguage = "cpp"
	DefaultMaxDepth     = 1
)

// SubdirsConfig names the output subdirectory of each page category.
type SubdirsConfig struct {
	Classes    string `yaml:"classes,omitempty" toml:"classes,omitempty"`
	Templates  string `yaml:"templates,omitempty" toml:"templates,omitempty"`
	Enums      string `yaml:"enums,omitempty" toml:"enums,omitempty"`
	Namespaces string `yaml:"namespaces,omitempty" toml:"namespaces,omitempty"`
}

// IndexConfig controls the listing pages.
type IndexConfig struct {
	// Enabled writes the listing pages and index.rst.
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`

	// Glob lists each subdirectory with a glob pattern instead of one
	// entry per page.
	Glob *bool `yaml:"glob,omitempty" toml:"glob,omitempty"`

	// MaxDepth is the toctree depth.
	MaxDepth int `yaml:"maxdepth,omitempty" toml:"maxdepth,omitempty"`
}

// Config is the root configuration structure for doxyrst.
type Config struct {
	// Input is the Doxygen XML directory holding index.xml.
	Input string `yaml:"input,omitempty" toml:"input,omitempty"`

	// Output is the directory the pages are generated in.
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`

	// KeepExisting keeps previously generated pages instead of cleaning
	// the output directory.
	KeepExisting *bool `yaml:"keep_existing,omitempty" toml:"keep_existing,omitempty"`

	// TestEntities restricts test runs to matching entities.
	TestEntities []string `yaml:"test_entities,omitempty" toml:"test_entities,omitempty"`

	// OpaqueBases are base classes rendered without a cross-reference.
	OpaqueBases []string `yaml:"opaque_bases,omitempty" toml:"opaque_bases,omitempty"`

	// LocationRoots are the path components source locations start at.
	LocationRoots []string `yaml:"location_roots,omitempty" toml:"location_roots,omitempty"`

	// CodeLanguage is the lexer of declaration code blocks.
	CodeLanguage string `yaml:"code_language,omitempty" toml:"code_language,omitempty"`

	// Subdirs names the page category directories.
	Subdirs SubdirsConfig `yaml:"subdirs,omitempty" toml:"subdirs,omitempty"`

	// Index controls the listing pages.
	Index IndexConfig `yaml:"index,omitempty" toml:"index,omitempty"`

	// CLI-level options (not persisted to config files).

	// Test restricts the run to TestEntities.
	Test bool `yaml:"-" toml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-" toml:"-"`

	// Color controls colorized output: auto, always or never.
	Color string `yaml:"-" toml:"-"`

	// Watch regenerates whenever the input changes.
	Watch bool `yaml:"-" toml:"-"`

	// ShowPages lists every page written in the text report.
	ShowPages bool `yaml:"-" toml:"-"`
}

// Bool returns a pointer to v, for the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

func boolValue(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// KeepExistingEnabled reports whether the output directory is kept.
func (c *Config) KeepExistingEnabled() bool {
	return boolValue(c.KeepExisting, false)
}

// IndexEnabled reports whether listing pages are written. Enabled when unset.
func (c *Config) IndexEnabled() bool {
	return boolValue(c.Index.Enabled, true)
}

// IndexGlob reports whether listings use glob patterns. Enabled when unset.
func (c *Config) IndexGlob() bool {
	return boolValue(c.Index.Glob, true)
}

// IndexMaxDepth returns the toctree depth, DefaultMaxDepth when unset.
func (c *Config) IndexMaxDepth() int {
	if c.Index.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return c.Index.MaxDepth
}

// DefaultTestEntities returns the entity names matched by test runs.
func DefaultTestEntities() []string {
	return []string{
		"Interprete",
		"Process",
		"Objet_U",
		"AbstractIO",
		"Triangle_32_64",
		"TRUSTTab",
		"Matrice_Base",
		"Domaine_IJK",
		"TVAlloc",
		"TRUSTVect",
		"TRUSTProblem_sup_eqns",
		"ICoCo",
		"VEF_discretisation",
		"InnerType",
	}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Input:         DefaultInput,
		Output:        DefaultOutput,
		KeepExisting:  Bool(false),
		TestEntities:  DefaultTestEntities(),
		OpaqueBases:   []string{"Problem"},
		LocationRoots: []string{"triocfd-code", "trust-code"},
		CodeLanguage:  DefaultCodeLanguage,
		Subdirs: SubdirsConfig{
			Classes:    "classes",
			Templates:  "templates",
			Enums:      "enums",
			Namespaces: "namespaces",
		},
		Index: IndexConfig{
			Enabled:  Bool(true),
			Glob:     Bool(true),
			MaxDepth: DefaultMaxDepth,
		},
		Format: FormatText,
		Color:  "auto",
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
