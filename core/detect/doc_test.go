package detect

import (
	"testing"

	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDocsDoxygenFunction(t *testing.T) {
	src := newTestSource(`/**
 * @brief Computes the energy.
 * @param x the input
 * @return the energy
 */
double Compute(double x);
`)

	report := DetectDocs(src)

	require.Len(t, report.Units, 1)
	unit := report.Units[0]
	assert.Equal(t, schema.FunctionUnit, unit.Kind)
	assert.Equal(t, "Compute", unit.Name)
	assert.Equal(t, 6, unit.Line)
	assert.True(t, unit.Documented)
	assert.Equal(t, schema.DocTagSet{Brief: 1, Params: 1, Returns: 1}, unit.Tags)
	assert.Equal(t, schema.DocTagSet{Brief: 1, Params: 1, Returns: 1}, report.Tags)
	assert.Equal(t, 1, report.DocBlocks)
	assert.Equal(t, 5, report.DocLines)
	assert.InDelta(t, 1.0, report.DocRatio(), 1e-9)
}

func TestDetectDocsUndocumentedFunctions(t *testing.T) {
	src := newTestSource("void a();\nvoid b();\nvoid c();\n")

	report := DetectDocs(src)

	require.Len(t, report.Units, 3)
	for _, u := range report.Units {
		assert.False(t, u.Documented, u.Name)
	}
	assert.True(t, report.Tags.IsEmpty())
	assert.Zero(t, report.DocRatio())
	total, documented := report.Functions()
	assert.Equal(t, 3, total)
	assert.Zero(t, documented)
}

func TestDetectDocsMixedLineRun(t *testing.T) {
	src := newTestSource(`/// @brief Computes the energy.
/// @param x the input
// note: cached per event
double Compute(double x);
`)

	report := DetectDocs(src)

	require.Len(t, src.Blocks, 1)
	require.Len(t, report.Units, 1)
	unit := report.Units[0]
	assert.True(t, unit.Documented)
	assert.Equal(t, 1, unit.Tags.Brief)
	assert.Equal(t, 1, unit.Tags.Params)
	assert.Equal(t, 1, report.DocBlocks)
	assert.Equal(t, 3, report.DocLines)
}

func TestDetectDocsNearestDeclarationOnly(t *testing.T) {
	src := newTestSource("/// Shared doc\nvoid a();\nvoid b();\n")

	report := DetectDocs(src)

	require.Len(t, report.Units, 2)
	assert.True(t, report.Units[0].Documented)
	assert.False(t, report.Units[1].Documented)
	assert.InDelta(t, 0.5, report.DocRatio(), 1e-9)
}

func TestDetectDocsGap(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		documented bool
	}{
		{"adjacent", "/// doc\nvoid f();\n", true},
		{"two blank lines", "/// doc\n\n\nvoid f();\n", true},
		{"three blank lines", "/// doc\n\n\n\nvoid f();\n", false},
		{"attribute line", "/// doc\n[[nodiscard]]\nint f();\n", true},
		{"code in between", "/// doc\nint x;\nvoid f();\n", false},
		{"plain comment counts", "// Returns the thing\nvoid f();\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := DetectDocs(newTestSource(tt.input))
			var fn *schema.DocumentableUnit
			for i := range report.Units {
				if report.Units[i].Name == "f" {
					fn = &report.Units[i]
				}
			}
			require.NotNil(t, fn)
			assert.Equal(t, tt.documented, fn.Documented)
		})
	}
}

func TestDetectDocsTemplateClass(t *testing.T) {
	src := newTestSource("/// A container\ntemplate <typename T>\nclass Box {\n};\n")

	report := DetectDocs(src)

	require.Len(t, report.Units, 1)
	assert.Equal(t, schema.ClassUnit, report.Units[0].Kind)
	assert.Equal(t, "Box", report.Units[0].Name)
	assert.True(t, report.Units[0].Documented)
}

func TestDetectDocsTrailingMemberDoc(t *testing.T) {
	src := newTestSource("class Foo {\n  void Bar(); ///< Does bar\n};\n")

	report := DetectDocs(src)

	require.Len(t, report.Units, 2)
	assert.Equal(t, "Foo", report.Units[0].Name)
	assert.False(t, report.Units[0].Documented)
	assert.Equal(t, "Bar", report.Units[1].Name)
	assert.True(t, report.Units[1].Documented)
	assert.Equal(t, 1, report.Tags.Brief)
}

func TestMatchDeclaration(t *testing.T) {
	tests := []struct {
		code string
		kind schema.UnitKind
		name string
		ok   bool
	}{
		{"class G4Foo : public G4Bar {", schema.ClassUnit, "G4Foo", true},
		{"struct Point {", schema.ClassUnit, "Point", true},
		{"class G4DLLEXPORT G4Foo", schema.ClassUnit, "G4Foo", true},
		{"class Forward;", "", "", false},
		{"enum class Color { Red };", "", "", false},
		{"virtual void Foo(int a) const;", schema.FunctionUnit, "Foo", true},
		{"const G4String& GetName() const;", schema.FunctionUnit, "GetName", true},
		{"G4double G4Foo::Bar(G4double x)", schema.FunctionUnit, "Bar", true},
		{"G4Foo::G4Foo(const G4String& name)", schema.FunctionUnit, "G4Foo", true},
		{"G4Foo::~G4Foo()", schema.FunctionUnit, "~G4Foo", true},
		{"virtual ~G4Foo();", schema.FunctionUnit, "~G4Foo", true},
		{"explicit G4Foo(G4int n);", schema.FunctionUnit, "G4Foo", true},
		{"bool operator==(const G4Foo& o) const;", schema.FunctionUnit, "operator==", true},
		{"unsigned int Count();", schema.FunctionUnit, "Count", true},
		{"return Compute(x);", "", "", false},
		{"else if (x) {", "", "", false},
		{"if (x) y();", "", "", false},
		{"while (running) step();", "", "", false},
		{"new G4Foo(x);", "", "", false},
		{"throw G4Exception(x);", "", "", false},
		{"G4Foo::Instance()->Bar();", "", "", false},
		{"std::sort(v.begin(),", "", "", false},
		{"x = y;", "", "", false},
		// Locals constructed with arguments read as declarations
		{"G4ThreeVector pos(0,0,0);", schema.FunctionUnit, "pos", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			kind, name, ok := matchDeclaration(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestTagsOf(t *testing.T) {
	tests := []struct {
		name string
		text string
		want schema.DocTagSet
	}{
		{"at tags", "/** @brief B\n @param a A\n @param b B\n @return R */", schema.DocTagSet{Brief: 1, Params: 2, Returns: 1}},
		{"backslash tags", "/// \\brief B\n/// \\param[in] a\n/// \\returns R", schema.DocTagSet{Brief: 1, Params: 1, Returns: 1}},
		{"member brief", "///< The value", schema.DocTagSet{Brief: 1}},
		{"prose", "/**\n * First line.\n * Second line.\n */", schema.DocTagSet{HasDetailedText: true}},
		{"parameter word is not a tag", "// @parameters are fine", schema.DocTagSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagsOf(tt.text))
		})
	}
}
