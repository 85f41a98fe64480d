package grep

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

func TestGrepCmd_FindsMatch(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("hello world\nfoo bar\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "grep", "--pattern", "world", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}

	output := buf.String()
	if !strings.Contains(output, "hello world") {
		t.Errorf("Output should contain the matched line, got: %q", output)
	}
	if strings.Contains(output, "foo bar") {
		t.Errorf("Output should not contain the non-matching line, got: %q", output)
	}
}

func TestGrepCmd_RequiresPattern(t *testing.T) {
	tmpDir := t.TempDir()
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--root", tmpDir, "grep", tmpDir})

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error when --pattern is missing")
	}
}

func TestGrepCmd_InvalidArgs(t *testing.T) {
	if err := grepCmd.Args(grepCmd, []string{}); err == nil {
		t.Error("grepCmd.Args() expected error for no args")
	}
	if err := grepCmd.Args(grepCmd, []string{"a", "b"}); err == nil {
		t.Error("grepCmd.Args() expected error for too many args")
	}
}
