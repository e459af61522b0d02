//go:build integration || database

package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared aeroindex binary built once for all tests.
	sharedBinaryPath string

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

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the aeroindex binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "aeroindex-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "aeroindex")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build aeroindex: %v\n%s", err, out))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// exampleTableArgs points a command at the bundled example tables.
func exampleTableArgs() []string {
	return []string{
		"--scores", "examples/scores.yaml",
		"--adjusted-ifr", "examples/adjusted_ifr.yaml",
		"--adjusted-vfr", "examples/adjusted_vfr.yaml",
	}
}

// runCommand runs the binary from the project root with extra environment
// entries and returns its combined output.
func runCommand(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

type assessmentDoc struct {
	Assessment struct {
		AssessmentID  string `json:"assessment_id"`
		Identifier    string `json:"identifier"`
		BaseScore     int    `json:"base_score"`
		RiskLevel     string `json:"risk_level"`
		Selected      string `json:"selected_aerodrome"`
		SelectedIndex int    `json:"selected_index"`
		Indices       []struct {
			Level string `json:"aerodrome_type"`
			Index int    `json:"weighted_index"`
		} `json:"indices"`
	} `json:"assessment"`
}

func readAssessment(t *testing.T, path string) assessmentDoc {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc assessmentDoc
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc
}
