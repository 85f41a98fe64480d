package gitignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingGitignoreIgnoresNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Ignored(filepath.Join(dir, "anything.txt")) {
		t.Fatal("expected no .gitignore to ignore nothing")
	}
}

func TestLoadAppliesPatterns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("*.log\nbuild/\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Ignored(filepath.Join(dir, "debug.log")) {
		t.Fatal("expected *.log entry to be ignored")
	}
	if s.Ignored(filepath.Join(dir, "main.go")) {
		t.Fatal("expected main.go to not be ignored")
	}
	if !s.Ignored(filepath.Join(dir, "build", "out.bin")) {
		t.Fatal("expected a path under build/ to be ignored")
	}
}
