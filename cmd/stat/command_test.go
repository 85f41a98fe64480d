package stat

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

func TestStatCmd_SinglePath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "a.txt")
	if err := os.WriteFile(testFile, []byte("hello"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "stat", testFile})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}
	if !strings.Contains(buf.String(), testFile) {
		t.Errorf("Output should contain the path, got: %q", buf.String())
	}
}

func TestStatCmd_MultiplePaths(t *testing.T) {
	tmpDir := t.TempDir()
	fileA := filepath.Join(tmpDir, "a.txt")
	fileB := filepath.Join(tmpDir, "b.txt")
	if err := os.WriteFile(fileA, []byte("a"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.WriteFile(fileB, []byte("b"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "stat", fileA, fileB})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}
	output := buf.String()
	if !strings.Contains(output, fileA) || !strings.Contains(output, fileB) {
		t.Errorf("Output should contain both paths, got: %q", output)
	}
}

func TestStatCmd_RequiresArgs(t *testing.T) {
	if err := statCmd.Args(statCmd, []string{}); err == nil {
		t.Error("statCmd.Args() expected error for no args")
	}
	if err := statCmd.Args(statCmd, []string{"a"}); err != nil {
		t.Errorf("statCmd.Args() unexpected error for one arg: %v", err)
	}
}
