package doxygen_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/doxyrst/pkg/doxygen"
	"github.com/yaklabco/doxyrst/pkg/fsutil"
)

func parseCompound(t *testing.T, body string) *doxygen.Compound {
	t.Helper()

	doc := `<?xml version='1.0' encoding='UTF-8' standalone='no'?>
<doxygen version="1.9.8">` + body + `</doxygen>`
	compound, err := doxygen.ParseCompound(strings.NewReader(doc))
	require.NoError(t, err)
	return compound
}

func TestParseCompound_Relations(t *testing.T) {
	t.Parallel()

	compound := parseCompound(t, `
<compounddef id="classTRUSTArray" kind="class" language="C++" prot="public">
  <compoundname>TRUSTArray</compoundname>
  <basecompoundref prot="public" virt="non-virtual">std::vector&lt; _TYPE_ &gt;</basecompoundref>
  <derivedcompoundref refid="classTRUSTVect" prot="public" virt="non-virtual">TRUSTVect&lt; double &gt;</derivedcompoundref>
  <templateparamlist>
    <param><type>typename _TYPE_</type></param>
    <param><type>int</type><declname>N</declname><defname>N</defname></param>
    <param><type></type></param>
  </templateparamlist>
</compounddef>`)

	assert.Equal(t, "classTRUSTArray", compound.ID)
	assert.Equal(t, doxygen.KindClass, compound.Kind)
	assert.True(t, compound.IsTemplate())
	assert.Nil(t, compound.Location())

	require.Len(t, compound.Bases, 1)
	assert.Empty(t, compound.Bases[0].RefID)
	name, targs := compound.Bases[0].Split()
	assert.Equal(t, "std::vector", name)
	assert.Equal(t, "< _TYPE_ >", targs)

	require.Len(t, compound.Derived, 1)
	assert.Equal(t, "classTRUSTVect", compound.Derived[0].RefID)

	names, malformed := compound.TemplateParams.Names()
	assert.Equal(t, []string{"_TYPE_", "N"}, names)
	assert.Empty(t, malformed)
}

func TestTemplateParamList_Malformed(t *testing.T) {
	t.Parallel()

	list := &doxygen.TemplateParamList{Params: []doxygen.TemplateParam{
		{Type: doxygen.NewFlat("class T = int")},
		{Type: doxygen.NewFlat("typename U")},
	}}
	names, malformed := list.Names()
	assert.Equal(t, []string{"U"}, names)
	assert.Equal(t, []string{"class T = int"}, malformed)

	var none *doxygen.TemplateParamList
	names, malformed = none.Names()
	assert.Nil(t, names)
	assert.Nil(t, malformed)
}

func TestParseCompound_Members(t *testing.T) {
	t.Parallel()

	compound := parseCompound(t, `
<compounddef id="classA" kind="class">
  <compoundname>A</compoundname>
  <sectiondef kind="public-static-attrib">
    <memberdef kind="variable" id="classA_1v" prot="public" static="yes" mutable="no">
      <type><ref refid="classTRUSTTab" kindref="compound">TRUSTTab</ref>&lt; double &gt;</type>
      <definition>TRUSTTab&lt; double &gt; A::coords_</definition>
      <argsstring></argsstring>
      <name>coords_</name>
      <initializer>= <ref refid="x">make</ref>()</initializer>
    </memberdef>
  </sectiondef>
  <sectiondef kind="public-func">
    <memberdef kind="function" id="classA_1f" prot="public" static="no">
      <templateparamlist></templateparamlist>
      <name>f</name>
      <reimplements refid="classB_1f">f</reimplements>
      <references refid="classC_1g">C::g</references>
      <referencedby refid="classD_1h">D::h</referencedby>
      <referencedby refid="classD_1i">D::i</referencedby>
    </memberdef>
  </sectiondef>
</compounddef>`)

	require.Len(t, compound.Sections, 2)

	attrib := compound.Sections[0].Members[0]
	assert.Equal(t, "public-static-attrib", compound.Sections[0].Kind)
	assert.True(t, bool(attrib.Static))
	assert.False(t, bool(attrib.Mutable))
	assert.Equal(t, "TRUSTTab< double >", attrib.TypeText())
	assert.Equal(t, "= make()", attrib.Initializer.String())
	require.NotNil(t, attrib.ArgsString)
	assert.Empty(t, *attrib.ArgsString)
	assert.Equal(t, "coords_", attrib.Qualified())

	fn := compound.Sections[1].Members[0]
	assert.Nil(t, fn.Definition, "missing definition must stay nil")
	assert.Nil(t, fn.ArgsString)
	assert.True(t, fn.IsTemplateSpecialization())
	assert.Len(t, fn.Reimplements, 1)
	assert.Len(t, fn.References, 1)
	assert.Len(t, fn.ReferencedBy, 2)
	assert.Equal(t, "D::i", fn.ReferencedBy[1].Name)
}

func TestParseCompound_Enum(t *testing.T) {
	t.Parallel()

	compound := parseCompound(t, `
<compounddef id="Motcle_8h" kind="file">
  <compoundname>Motcle.h</compoundname>
  <sectiondef kind="enum">
    <memberdef kind="enum" id="Motcle_8h_1e" prot="public" static="no" strong="yes">
      <type>int</type>
      <name>Type</name>
      <qualifiedname>Motcle::Type</qualifiedname>
      <enumvalue id="Motcle_8h_1e1" prot="public"><name>A</name><initializer>= 1</initializer></enumvalue>
      <enumvalue id="Motcle_8h_1e2" prot="public"><name>B</name></enumvalue>
      <location file="/x/trust-code/src/Motcle.h" line="12"/>
    </memberdef>
  </sectiondef>
</compounddef>`)

	enum := compound.Sections[0].Members[0]
	assert.Equal(t, doxygen.KindEnum, enum.Kind)
	assert.Equal(t, "Motcle::Type", enum.Qualified())
	require.Len(t, enum.EnumValues, 2)
	assert.Equal(t, "Motcle_8h_1e1", enum.EnumValues[0].ID)
	assert.Equal(t, "= 1", enum.EnumValues[0].Initializer.String())
	assert.Nil(t, enum.EnumValues[1].Initializer)
	require.NotNil(t, enum.Location)
	assert.Equal(t, "12", enum.Location.Line)
}

func TestParseCompound_NoCompound(t *testing.T) {
	t.Parallel()

	_, err := doxygen.ParseCompound(strings.NewReader(`<doxygen version="1.9.8"></doxygen>`))
	require.ErrorIs(t, err, doxygen.ErrNoCompound)

	_, err = doxygen.ParseCompound(strings.NewReader(`<doxygen><compounddef>`))
	require.Error(t, err)
}

func TestDescription_Fragments(t *testing.T) {
	t.Parallel()

	compound := parseCompound(t, `
<compounddef id="classA" kind="class">
  <compoundname>A</compoundname>
  <briefdescription>
    <para>See <ref refid="classB" kindref="compound">B</ref> and <verbatim>x = 1</verbatim> then<sp/>more.</para>
    <para>Deep <bold>bold <ref refid="classC">C</ref> text</bold> tail.</para>
  </briefdescription>
  <detaileddescription></detaileddescription>
</compounddef>`)

	got := slices.Collect(compound.Brief.Fragments())
	want := []doxygen.Fragment{
		{Kind: doxygen.FragmentText, Text: "See "},
		{Kind: doxygen.FragmentRef, Tag: "ref", RefID: "classB", Text: "B", Tail: " and "},
		{Kind: doxygen.FragmentVerbatim, Tag: "verbatim", Text: "x = 1", Tail: " then more."},
		{Kind: doxygen.FragmentText, Text: "Deep "},
		{Kind: doxygen.FragmentOther, Tag: "bold", Text: "bold C text", Tail: " tail."},
	}
	assert.Equal(t, want, got)

	require.NotNil(t, compound.Detailed)
	assert.Empty(t, slices.Collect(compound.Detailed.Fragments()))

	var missing *doxygen.Description
	assert.Empty(t, slices.Collect(missing.Fragments()))
}

func TestDescription_FragmentsStopEarly(t *testing.T) {
	t.Parallel()

	desc := &doxygen.Description{Paragraphs: []doxygen.Paragraph{
		{Text: "one", Inlines: []doxygen.Fragment{{Kind: doxygen.FragmentRef, Text: "two"}}},
		{Text: "three"},
	}}

	var seen []string
	for frag := range desc.Fragments() {
		seen = append(seen, frag.Text)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestDirSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := doxygen.NewDirSource("testdata/xml")

	index, err := src.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.9.8", index.Version)
	require.Len(t, index.Compounds, 4)
	assert.Equal(t, doxygen.IndexEntry{RefID: "classDomaine__IJK", Kind: doxygen.KindClass, Name: "Domaine_IJK"}, index.Compounds[0])

	compound, err := src.Compound(ctx, "classDomaine__IJK")
	require.NoError(t, err)
	assert.Equal(t, "Domaine_IJK", compound.Name)
	require.Len(t, compound.Includes, 1)
	assert.Equal(t, "Domaine_IJK.h", compound.Includes[0].Name)
	require.NotNil(t, compound.Location())
	assert.Equal(t, "40", compound.Location().Line)

	t.Run("missing compound", func(t *testing.T) {
		t.Parallel()

		_, err := src.Compound(ctx, "classMissing")
		assert.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("broken compound", func(t *testing.T) {
		t.Parallel()

		_, err := src.Compound(ctx, "broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})

	t.Run("refid with separators", func(t *testing.T) {
		t.Parallel()

		_, err := src.Compound(ctx, "../index")
		assert.ErrorIs(t, err, doxygen.ErrInvalidRefID)
	})

	t.Run("missing index", func(t *testing.T) {
		t.Parallel()

		_, err := doxygen.NewDirSource(t.TempDir()).Index(ctx)
		assert.ErrorIs(t, err, fsutil.ErrNotFound)
	})
}
