package rst_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/doxyrst/pkg/rst"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Domaine_IJK", "domaine-ijk"},
		{"operator==", "operator-equal-equal"},
		{"operator+=", "operator+-equal"},
		{"operator*", "operator-ptr"},
		{"~Foo", "dtor-foo"},
		{"ICoCo::Problem", "icoco-problem"},
		{"Class Template TRUSTArray", "class-template-trustarray"},
		{"TRUSTArray< int, 3 >", "trustarray-int-3"},
		{"void Foo::bar(int &x, const std::string *s)", "void-foo-bar-int-ref-x-const-std-string-ptr-s"},
		{"a  b", "a-b"},
		{"x!y", "x!y"},
		{"operator[]", "operator[]"},
		{"operator/", "operator/"},
		{"Foo::@0", "foo-0"},
		{"", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, rst.Slugify(testCase.in))
		})
	}
}

func TestSlugify_Shape(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"_leading", "trailing_", "__double__under__", "operator()", "operator[]",
		"std::vector<std::pair<int, double> >", "   ", "-", "Ünïcödé_Näme", "a\\b",
	}

	for _, in := range inputs {
		got := rst.Slugify(in)
		assert.Equal(t, strings.ToLower(got), got, "input %q", in)
		assert.False(t, strings.HasPrefix(got, "-"), "input %q gave %q", in, got)
		assert.False(t, strings.HasSuffix(got, "-"), "input %q gave %q", in, got)
		assert.NotContains(t, got, "--", "input %q", in)
		assert.Equal(t, got, rst.Slugify(got), "slugs must be stable, input %q", in)
	}
}
