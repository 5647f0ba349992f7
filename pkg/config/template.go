package config

import (
	"fmt"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. If false, the
	// settings are written commented out.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format FileFormat
}

// GenerateTemplate creates a documented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = FileFormatYAML
	}

	var text string
	switch format {
	case FileFormatYAML:
		text = yamlTemplate
	case FileFormatTOML:
		text = tomlTemplate
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}

	if !opts.Full {
		text = commentOut(text)
	}
	return []byte(text), nil
}

// commentOut prefixes every setting line with "# ", keeping the
// documentation comments and blank lines as they are.
func commentOut(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" && !strings.HasPrefix(line, "#") {
			lines[i] = "# " + line
		}
	}
	return strings.Join(lines, "\n")
}

const yamlTemplate = `# doxyrst configuration
# See: https://github.com/yaklabco/doxyrst

# Directory holding the Doxygen XML output (index.xml and compound files)
input: ./xml

# Directory the reStructuredText pages are generated in
output: ./rst

# Keep previously generated pages instead of cleaning the output directory
keep_existing: false

# Entities converted by "doxyrst generate --test"; a name matches when it
# occurs in the Doxygen refid
test_entities:
  - Interprete
  - Process
  - Objet_U
  - AbstractIO
  - Triangle_32_64
  - TRUSTTab
  - Matrice_Base
  - Domaine_IJK
  - TVAlloc
  - TRUSTVect
  - TRUSTProblem_sup_eqns
  - ICoCo
  - VEF_discretisation
  - InnerType

# Base classes rendered as plain code instead of a cross-reference
opaque_bases:
  - Problem

# Source locations are shortened to start at the first of these components
location_roots:
  - triocfd-code
  - trust-code

# Pygments lexer of declaration code blocks
code_language: cpp

# Output subdirectory of each page category
subdirs:
  classes: classes
  templates: templates
  enums: enums
  namespaces: namespaces

# Listing pages (doxy_*.rst) and index.rst
index:
  enabled: true
  # List ./<subdir>/* instead of one entry per generated page
  glob: true
  maxdepth: 1
`

const tomlTemplate = `# doxyrst configuration
# See: https://github.com/yaklabco/doxyrst

# Directory holding the Doxygen XML output (index.xml and compound files)
input = "./xml"

# Directory the reStructuredText pages are generated in
output = "./rst"

# Keep previously generated pages instead of cleaning the output directory
keep_existing = false

# Entities converted by "doxyrst generate --test"; a name matches when it
# occurs in the Doxygen refid
test_entities = [
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
]

# Base classes rendered as plain code instead of a cross-reference
opaque_bases = ["Problem"]

# Source locations are shortened to start at the first of these components
location_roots = ["triocfd-code", "trust-code"]

# Pygments lexer of declaration code blocks
code_language = "cpp"

# Output subdirectory of each page category
[subdirs]
classes = "classes"
templates = "templates"
enums = "enums"
namespaces = "namespaces"

# Listing pages (doxy_*.rst) and index.rst
[index]
enabled = true
# List ./<subdir>/* instead of one entry per generated page
glob = true
maxdepth = 1
`
