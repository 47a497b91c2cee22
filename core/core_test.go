package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/docscope/internal/contract"
	"github.com/stretchr/testify/require"
)

// Fixture sources shared by the core tests.
const (
	wellSource = `/**
 * @brief Computes the energy.
 * @param x the input
 * @return the energy
 */
double Compute(double x);
`
	poorSource       = "void a();\nvoid b();\nvoid c();\n"
	unbalancedSource = "void f() {\n}\n}\n"
)

// writeTree creates files under root from a path-to-content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// fixtureTree builds a tree with one well, one poor, one failing and one binary file.
func fixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"geometry/G4Box.hh":   wellSource,
		"tracking/G4Step.cc":  poorSource,
		"tracking/G4Bad.cc":   unbalancedSource,
		"tracking/G4Bin.cc":   "int x;\x00\x01",
		"tracking/notes.txt":  "ignored",
		"tracking/test/T.cc":  poorSource,
		"geometry/README.md":  "ignored",
		"geometry/G4Tubs.lis": "ignored",
	})
	return root
}

func testConfig(root string) *contract.Config {
	cfg := contract.NewDefaultConfig([]string{root})
	cfg.Workers = 2
	cfg.UseColors = false
	cfg.UseProgress = false
	return cfg
}
