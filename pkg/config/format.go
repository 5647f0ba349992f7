package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat is the serialisation of a configuration file.
type FileFormat string

const (
	FileFormatYAML FileFormat = "yaml"
	FileFormatTOML FileFormat = "toml"
)

// FileFormatFor returns the format of a configuration file from its
// extension.
func FileFormatFor(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FileFormatYAML, nil
	case ".toml":
		return FileFormatTOML, nil
	default:
		return "", fmt.Errorf("unknown configuration format for %q; use .yml, .yaml or .toml", path)
	}
}

// Parse decodes data in the given format.
func Parse(data []byte, format FileFormat) (*Config, error) {
	switch format {
	case FileFormatYAML:
		return FromYAML(data)
	case FileFormatTOML:
		return FromTOML(data)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}
}

// Encode serialises the configuration in the given format.
func (c *Config) Encode(format FileFormat) ([]byte, error) {
	switch format {
	case FileFormatYAML:
		return c.ToYAML()
	case FileFormatTOML:
		return c.ToTOML()
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}
}
