// Package testutil provides golden file testing utilities.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// CompareGolden compares the actual output with the golden file content.
// If the -update flag is provided, it updates the golden file with the actual output.
func CompareGolden(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if *update {
		updateGoldenFile(t, goldenPath, actual)
		return
	}

	content, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", goldenPath, err)
	}
	if actual != string(content) {
		t.Errorf("Golden file mismatch for %s\nExpected:\n%s\nActual:\n%s", goldenPath, content, actual)
	}
}

// CompareGoldenBytes compares the actual output with the golden file content using byte slices.
func CompareGoldenBytes(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	CompareGolden(t, goldenPath, string(actual))
}

// updateGoldenFile writes the actual output to the golden file.
func updateGoldenFile(t *testing.T, goldenPath string, actual string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
		t.Fatalf("Failed to create golden file directory: %v", err)
	}
	if err := os.WriteFile(goldenPath, []byte(actual), 0o644); err != nil {
		t.Fatalf("Failed to update golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", goldenPath)
}
