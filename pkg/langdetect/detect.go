// Package langdetect picks the code-block language for source files.
// It uses go-enry to map file names to languages and converts the result to
// the lexer names understood by Sphinx/Pygments.
package langdetect

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is the lexer used when nothing better is known.
const Text = "text"

// lexers maps go-enry language names to Pygments lexer names where the two
// differ beyond case.
//
//nolint:gochecknoglobals // Read-only lookup table.
var lexers = map[string]string{
	"C++":               "cpp",
	"Objective-C":       "objective-c",
	"Shell":             "bash",
	"Fortran Free Form": "fortran",
	"CUDA":              "cuda",
}

// ForFile returns the code-block language for a file name.
//
// Names that enry maps to exactly one language use that language. Names
// shared by several languages (".h" is C, C++ and Objective-C) resolve to
// fallback when it is one of the candidates, and otherwise to the first
// candidate. Unknown names give fallback, or Text when fallback is empty.
func ForFile(name, fallback string) string {
	base := filepath.Base(name)

	candidates := enry.GetLanguagesByFilename(base, nil, nil)
	if len(candidates) == 0 {
		candidates = enry.GetLanguagesByExtension(base, nil, nil)
	}

	switch len(candidates) {
	case 0:
		if fallback == "" {
			return Text
		}
		return fallback
	case 1:
		return Lexer(candidates[0])
	}

	if fallback != "" && slices.ContainsFunc(candidates, func(lang string) bool {
		return Lexer(lang) == fallback
	}) {
		return fallback
	}
	return Lexer(candidates[0])
}

// Lexer converts a go-enry language name to a lexer name.
func Lexer(lang string) string {
	if lexer, ok := lexers[lang]; ok {
		return lexer
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}
