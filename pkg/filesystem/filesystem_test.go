package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "deep", "out.json")

	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Dir(target))
	if err != nil {
		t.Fatalf("parent directory missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("parent path is not a directory")
	}
}

func TestEnsureParentDirCurrentDir(t *testing.T) {
	if err := EnsureParentDir("out.json"); err != nil {
		t.Errorf("EnsureParentDir() returned error for bare filename: %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "out.json")

	if err := WriteFile(target, []byte(`{"posts":[]}`)); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != `{"posts":[]}` {
		t.Errorf("content = %q", content)
	}
}
