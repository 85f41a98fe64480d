package tree

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/j0hanz/fscontext/internal/logger"
)

func init() {
	logger.Init("error", "text", io.Discard)
}

func TestTreeCmd_RendersEntries(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "tree", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}

	if !strings.Contains(buf.String(), "a.txt") {
		t.Errorf("Output should contain the file name, got: %q", buf.String())
	}
}

func TestTreeCmd_OutsideRoot(t *testing.T) {
	tmpDir := t.TempDir()
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--root", tmpDir, "tree", "/nonexistent/path/that/does/not/exist"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error for path outside allowed roots")
	}
}

func TestTreeCmd_InvalidArgs(t *testing.T) {
	if err := treeCmd.Args(treeCmd, []string{}); err == nil {
		t.Error("treeCmd.Args() expected error for no args")
	}
	if err := treeCmd.Args(treeCmd, []string{"a", "b"}); err == nil {
		t.Error("treeCmd.Args() expected error for too many args")
	}
}
