package hash

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

func TestHashCmd_File(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", testFile})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, testFile) {
		t.Errorf("Output should contain file path, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
	if !strings.Contains(output, "(f):") {
		t.Errorf("Output should indicate file type, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
}

func TestHashCmd_Directory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "file.txt"), []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, tmpDir) {
		t.Errorf("Output should contain directory path, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
	if !strings.Contains(output, "(d):") {
		t.Errorf("Output should indicate directory type, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
}

func TestHashCmd_OutsideRoot(t *testing.T) {
	tmpDir := t.TempDir()
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", "/nonexistent/path/that/does/not/exist"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error for path outside allowed roots")
	}
}

func TestHashCmd_WithIncludeIgnoredFlag(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "keep.txt"), []byte("keep"), 0644); err != nil {
		t.Fatalf("Failed to create keep.txt: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", "--include-ignored", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() with include-ignored flag error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, tmpDir) {
		t.Errorf("Output should contain directory path, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
}

func TestHashCmd_VerifyMatch(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", testFile})
	var firstOut bytes.Buffer
	rootCmd.SetOut(&firstOut)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}
	fields := strings.Fields(firstOut.String())
	if len(fields) < 3 {
		t.Fatalf("unexpected hash output: %q", firstOut.String())
	}
	computed := fields[2]

	var buf, errBuf bytes.Buffer
	rootCmd = cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", "--verify", computed, testFile})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() with matching verify error = %v, stderr: %s", err, errBuf.String())
	}
	if !strings.Contains(buf.String(), "Hash matches:") {
		t.Errorf("Output should indicate hash match, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
}

func TestHashCmd_VerifyMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "hash", "--verify", "deadbeef", testFile})

	if err := rootCmd.Execute(); err == nil {
		t.Error("rootCmd.Execute() expected error for mismatching verify hash")
	}
	if !strings.Contains(errBuf.String(), "Hash mismatch!") {
		t.Errorf("Output should indicate hash mismatch, got stdout: %q, stderr: %q", buf.String(), errBuf.String())
	}
}

func TestHashCmd_InvalidArgs(t *testing.T) {
	if hashCmd.Args == nil {
		t.Fatal("hashCmd should have Args validator set")
	}

	if err := hashCmd.Args(hashCmd, []string{}); err == nil {
		t.Error("hashCmd.Args() expected error for no args")
	}

	if err := hashCmd.Args(hashCmd, []string{"arg1", "arg2"}); err == nil {
		t.Error("hashCmd.Args() expected error for too many args")
	}

	if err := hashCmd.Args(hashCmd, []string{"path"}); err != nil {
		t.Errorf("hashCmd.Args() unexpected error for valid args: %v", err)
	}
}
