package detect

import (
	"strings"
	"testing"

	"github.com/huangsam/docscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSmellsMarkers(t *testing.T) {
	src := newTestSource(`// TODO: tidy
// FIXME later, TODO too
/* HACK around G4 bug */
/// @deprecated use Other
// DEPRECATED
// todo and Deprecated do not count
void TODO();
`)

	counts, err := ScanSmells(src, schema.DefaultSmellOptions())

	require.NoError(t, err)
	assert.Equal(t, 2, counts.TODO)
	assert.Equal(t, 1, counts.FIXME)
	assert.Equal(t, 1, counts.HACK)
	assert.Equal(t, 2, counts.Deprecated)
}

func TestScanSmellsLongFunctions(t *testing.T) {
	long := "void f() {\n" + strings.Repeat("  x();\n", 101) + "}\n"
	short := "void g() {\n" + strings.Repeat("  x();\n", 50) + "}\n"
	method := "class A {\n  void h() {\n" + strings.Repeat("    if (a) {\n      y();\n    }\n", 40) + "  }\n};\n"

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"long free function", long, 1},
		{"short free function", short, 0},
		{"brace lines 100 apart", "void f() {\n" + strings.Repeat("  x();\n", 99) + "}\n", 0},
		{"brace lines 101 apart", "void f() {\n" + strings.Repeat("  x();\n", 100) + "}\n", 1},
		{"long inline method", method, 1},
		{"control blocks are not functions", "namespace n {\n" + strings.Repeat("  int v;\n", 120) + "}\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, err := ScanSmells(newTestSource(tt.input), schema.DefaultSmellOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, counts.LongFunctions)
		})
	}
}

func TestScanSmellsNesting(t *testing.T) {
	deep := strings.Repeat("{\n", 8) + strings.Repeat("}\n", 8)
	six := strings.Repeat("{\n", 6) + strings.Repeat("}\n", 6)

	counts, err := ScanSmells(newTestSource(deep), schema.DefaultSmellOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, counts.MaxNesting)
	assert.True(t, counts.DeepNesting)

	counts, err = ScanSmells(newTestSource(six), schema.DefaultSmellOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, counts.MaxNesting)
	assert.False(t, counts.DeepNesting)
}

func TestScanSmellsIgnoresBracesInLiterals(t *testing.T) {
	src := newTestSource("const char* s = \"{{{\"; // }}}\nchar c = '}';\n/* { */\n")

	counts, err := ScanSmells(src, schema.DefaultSmellOptions())

	require.NoError(t, err)
	assert.Zero(t, counts.MaxNesting)
}

func TestScanSmellsUnbalancedBraces(t *testing.T) {
	_, err := ScanSmells(newTestSource("void f() {\n}\n}\n"), schema.DefaultSmellOptions())

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnbalancedBraces)
}

func TestIsFunctionHead(t *testing.T) {
	tests := map[string]bool{
		"void f()":                      true,
		"G4Foo::G4Foo(int a) : fA(a)":   true,
		"int get() const override":      true,
		"auto f() -> int":               true,
		"public: void g()":              true,
		"if (x)":                        false,
		"else if (x)":                   false,
		"while (running)":               false,
		"namespace geo":                 false,
		"class A : public B":            false,
		"auto l = [](int x)":            false,
		"std::for_each(a, b, [](int x)": false,
		"":                              false,
	}
	for head, want := range tests {
		assert.Equal(t, want, isFunctionHead(head), head)
	}
}
