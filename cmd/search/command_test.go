package search

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

func TestSearchCmd_MatchesPattern(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.go"), []byte("package a"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "b.txt"), []byte("b"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "search", "--pattern", "**/*.go", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}

	output := buf.String()
	if !strings.Contains(output, "a.go") {
		t.Errorf("Output should contain matching file, got: %q", output)
	}
	if strings.Contains(output, "b.txt") {
		t.Errorf("Output should not contain non-matching file, got: %q", output)
	}
}

func TestSearchCmd_RequiresPattern(t *testing.T) {
	tmpDir := t.TempDir()
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--root", tmpDir, "search", tmpDir})

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error when --pattern is missing")
	}
}

func TestSearchCmd_InvalidArgs(t *testing.T) {
	if err := searchCmd.Args(searchCmd, []string{}); err == nil {
		t.Error("searchCmd.Args() expected error for no args")
	}
	if err := searchCmd.Args(searchCmd, []string{"a", "b"}); err == nil {
		t.Error("searchCmd.Args() expected error for too many args")
	}
}
