//go:build basic || database

// Package integration contains integration tests for docscope.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database tests need Docker: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedDocscopePath holds the path to a shared docscope binary built once for all tests.
	sharedDocscopePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getDocscopeBinary returns the path to the docscope binary, building it once if needed.
func getDocscopeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "docscope-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		docscopePath := filepath.Join(tempDir, "docscope")
		buildCmd := exec.Command("go", "build", "-o", docscopePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build docscope: %v", err))
		}

		sharedDocscopePath = docscopePath
	})

	return sharedDocscopePath
}

// fixtureFiles is a small tree with one well, one partial and one poor file.
var fixtureFiles = map[string]string{
	"source/geometry/include/G4Box.hh": `// Copyright 2022 Geant4 Collaboration
/// @brief Box solid with half lengths along each axis.
class G4Box {
 public:
  /// @brief Build a box.
  /// @param dx half length in x
  /// @return nothing
  G4Box(double dx);

  /// @brief Volume of the box.
  /// @return the cubic volume
  double GetCubicVolume() const;
};
`,
	"source/geometry/src/G4Box.cc": `// Copyright 2022 Geant4 Collaboration
/// @brief Build a box.
G4Box::G4Box(double dx) : fDx(dx) {}

double G4Box::GetCubicVolume() const {
  return 8 * fDx * fDx * fDx;
}
`,
	"source/tracking/src/G4Step.cc": `// Copyright 2004 CERN
void G4Step::Update() {
  double a = 1.2345 * energy;
  double b = 2.3456 * energy;
  double c = 3.4567 * energy;
  double d = 4.5678 * energy;
  double e = 5.6789 * energy;
  // TODO: use units
  // FIXME: deprecated path
}

int G4Step::Count() {
  return 4242;
}
`,
	"source/tracking/test/G4StepTest.cc": `void Ignored() {}
`,
}

// writeFixture materializes fixtureFiles under a temp dir and returns its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range fixtureFiles {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// runDocscope runs the binary in dir and returns stdout, stderr and the run error.
func runDocscope(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getDocscopeBinary(), args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStderr: %s", cmd.String(), stderr.String())
	}
	return stdout.String(), stderr.String(), err
}
