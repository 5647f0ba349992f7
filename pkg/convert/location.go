package convert

import (
	"strings"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
)

// shortenPath cuts file at the first configured root so that pages do not
// leak the absolute checkout path of whoever ran Doxygen. Paths containing
// no root are returned unchanged.
func (c *Converter) shortenPath(file string) string {
	file = strings.ReplaceAll(file, `\`, "/")
	for _, root := range c.opts.LocationRoots {
		if root == "" {
			continue
		}
		if i := strings.Index(file, root); i >= 0 {
			return file[i:]
		}
	}
	return file
}

// formatLocation returns "file:line" with the file shortened, or false when
// loc carries no file.
func (c *Converter) formatLocation(loc *doxygen.Location) (string, bool) {
	if loc == nil || loc.File == "" {
		return "", false
	}
	short := c.shortenPath(loc.File)
	if loc.Line == "" {
		return short, true
	}
	return short + ":" + loc.Line, true
}
