package roots

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/j0hanz/fscontext/internal/logger"
)

func init() {
	logger.Init("error", "text", io.Discard)
}

func TestRootsCmd_ListsConfiguredRoots(t *testing.T) {
	tmpDir := t.TempDir()

	var buf, errBuf bytes.Buffer
	rootCmd := cmd.GetRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs([]string{"--root", tmpDir, "roots"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v, stderr: %s", err, errBuf.String())
	}
	if !strings.Contains(buf.String(), tmpDir) {
		t.Errorf("Output should list the configured root, got: %q", buf.String())
	}
}

func TestRootsCmd_NoArgs(t *testing.T) {
	if err := rootsCmd.Args(rootsCmd, []string{"unexpected"}); err == nil {
		t.Error("rootsCmd.Args() expected error for unexpected positional arg")
	}
}
