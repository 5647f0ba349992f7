package rst

import (
	"strings"
	"unicode/utf8"
)

// Markers appended to member anchors to keep colliding names apart.
const (
	underscoreMarker = "-underscore-"
	capitalMarker    = "-cap"
)

// MemberKey holds the parts of a member that go into its anchor.
type MemberKey struct {
	// Protection is the access level ("public", "protected", "private").
	Protection string

	// Static is true for static members.
	Static bool

	// Name is the unqualified member name as written in the source.
	Name string

	// Definition is the declaration without arguments,
	// e.g. "void Foo::bar" or "int Foo::count_".
	Definition string

	// Args is the argument string including parentheses and qualifiers.
	Args string
}

// MemberAnchor returns the slug anchor of a member.
//
// The base key is protection, static qualifier and signature. Two collision
// classes seen in real inputs are separated explicitly: a name ending in '_'
// gets an "underscore" marker (Slugify would otherwise fold "foo_" into
// "foo"), and a one-letter upper case name gets a "cap" marker ("d" and "D").
func MemberAnchor(key MemberKey) string {
	static := ""
	if key.Static {
		static = "static"
	}

	ref := strings.NewReplacer("< ", "<", " >", ">").Replace(key.Definition)
	if strings.HasSuffix(key.Name, "_") {
		ref += underscoreMarker
	}
	if utf8.RuneCountInString(key.Name) == 1 && strings.ToLower(key.Name) != key.Name {
		ref += capitalMarker
	}

	return Slugify(key.Protection + "-" + static + "-" + ref + "-" + key.Args)
}
