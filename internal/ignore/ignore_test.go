package ignore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/j0hanz/fscontext/internal/logger"
)

func init() {
	logger.Init("error", "text", io.Discard)
}

func TestNewNoPatternsExcludesNothing(t *testing.T) {
	m := New(nil)
	if m.Match("anything", "anything", false) {
		t.Fatal("expected empty pattern set to exclude nothing")
	}
}

func TestPatternMatcherBasenameMatch(t *testing.T) {
	m := New([]string{"node_modules"})
	if !m.Match("src/node_modules/pkg.json", "pkg.json", false) {
		t.Fatal("expected basename-only pattern to match a directory name appearing mid-path")
	}
}

func TestPatternMatcherDirOnlySuffix(t *testing.T) {
	m := New([]string{"build/"})
	if m.Match("build", "build", false) {
		t.Fatal("expected dir-only pattern to not match a file named build")
	}
	if !m.Match("build", "build", true) {
		t.Fatal("expected dir-only pattern to match a directory named build")
	}
}

func TestPatternMatcherGlob(t *testing.T) {
	m := New([]string{"*.log"})
	if !m.Match("logs/debug.log", "debug.log", false) {
		t.Fatal("expected *.log to match via basename")
	}
	if m.Match("logs/debug.txt", "debug.txt", false) {
		t.Fatal("expected *.log to not match a .txt file")
	}
}

func TestPatternMatcherFullPathGlob(t *testing.T) {
	m := New([]string{"**/testdata/**"})
	if !m.Match("pkg/testdata/fixture.json", "fixture.json", false) {
		t.Fatal("expected **/testdata/** to match nested testdata contents")
	}
}

func TestLoadFileRejectsTraversal(t *testing.T) {
	if _, err := LoadFile(t.TempDir(), "../escape"); err == nil {
		t.Fatal("expected a filename containing .. to be rejected")
	}
}

func TestLoadFileMissingReturnsNil(t *testing.T) {
	patterns, err := LoadFile(t.TempDir(), ".fscontextignore")
	if err != nil {
		t.Fatal(err)
	}
	if patterns != nil {
		t.Fatalf("expected missing ignore file to return nil patterns, got %v", patterns)
	}
}

func TestLoadFileParsesPatterns(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\nnode_modules\n*.log\n"
	if err := os.WriteFile(filepath.Join(dir, ".fscontextignore"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	patterns, err := LoadFile(dir, ".fscontextignore")
	if err != nil {
		t.Fatal(err)
	}
	if len(patterns) != 2 || patterns[0] != "node_modules" || patterns[1] != "*.log" {
		t.Fatalf("unexpected patterns: %v", patterns)
	}
}
