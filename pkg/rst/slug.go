package rst

import "strings"

// symbolWords replaces operator symbols with dash-delimited words.
// Applied before separators so that "operator==" keeps both halves.
//
//nolint:gochecknoglobals // Read-only lookup table.
var symbolWords = strings.NewReplacer(
	"=", "-equal-",
	"*", "-ptr-",
	"&", "-ref-",
	"~", "-dtor-",
)

// separators collapse to a single dash.
//
//nolint:gochecknoglobals // Read-only lookup table.
var separators = strings.NewReplacer(
	"::", "-",
	",", "-",
	"_", "-",
	"<", "-",
	">", "-",
	" ", "-",
	"(", "-",
	")", "-",
	"@", "-",
	"\\", "-",
)

// Slugify maps an identifier to a lowercase, dash-separated anchor name.
//
// Operator symbols become words (= equal, * ptr, & ref, ~ dtor) and the
// separators above become dashes. Every other character is kept as is, so
// "operator/=" and "operator%=" stay apart. Runs of dashes collapse and
// leading or trailing dashes are removed.
//
//	Slugify("Domaine_IJK") == "domaine-ijk"
//	Slugify("operator==")  == "operator-equal-equal"
func Slugify(text string) string {
	text = symbolWords.Replace(text)
	text = separators.Replace(text)

	var out strings.Builder
	out.Grow(len(text))
	lastDash := true // suppresses leading dashes
	for _, r := range strings.ToLower(text) {
		if r == '-' {
			if lastDash {
				continue
			}
			lastDash = true
		} else {
			lastDash = false
		}
		out.WriteRune(r)
	}
	return strings.TrimSuffix(out.String(), "-")
}
