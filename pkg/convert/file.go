package convert

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/rst"
)

// convertFile writes one page per enum declared at file scope. Other file
// members are not documented.
func (c *Converter) convertFile(compound *doxygen.Compound, res *Result) error {
	for i := range compound.Sections {
		section := &compound.Sections[i]
		if section.Kind != "enum" {
			continue
		}
		for j := range section.Members {
			enum := &section.Members[j]
			name := strings.ReplaceAll(enum.Name, "@", "")
			if name == "" {
				res.warn(SourceDoxygen, compound.Name, enum.ID, "enum has no name, skipped")
				continue
			}

			b := rst.New()
			if err := c.writeEnum(b, enum, compound.Name, res); err != nil {
				return err
			}
			res.addPage(c.opts.Subdirs.Enums, name, b)
		}
	}
	return nil
}
