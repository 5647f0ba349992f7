package convert

import "strings"

// WarningSource tells maintainers where an InputWarning comes from.
type WarningSource string

const (
	// SourceDoxygen flags XML that is missing expected fields or is
	// otherwise ill formed.
	SourceDoxygen WarningSource = "doxygen"

	// SourceCode flags constructs in the documented code that cannot be
	// rendered cleanly, such as anonymous entities.
	SourceCode WarningSource = "code"

	// SourceGenerator flags a degraded rendering path in this tool.
	SourceGenerator WarningSource = "generator"
)

// Warning is a non-fatal problem found while converting a compound. The
// offending item was skipped or rendered in a degraded form.
type Warning struct {
	Source  WarningSource `json:"source"`
	Entity  string        `json:"entity"`
	Member  string        `json:"member,omitempty"`
	Message string        `json:"message"`
}

// String formats the warning as "source: entity::member: message".
func (w Warning) String() string {
	var sb strings.Builder
	sb.WriteString(string(w.Source))
	sb.WriteString(": ")
	sb.WriteString(w.Entity)
	if w.Member != "" {
		sb.WriteString("::")
		sb.WriteString(w.Member)
	}
	sb.WriteString(": ")
	sb.WriteString(w.Message)
	return sb.String()
}
