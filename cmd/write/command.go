// Package write provides the "write" command for writing content to a file
// within the allowed roots, via a temp-file-plus-rename.
package write

import (
	"fmt"
	"io"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write [path]",
	Short: "Write content (from stdin) to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "write")

		content, err := io.ReadAll(c.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}

		svc := service.New(cmd.Sensitive)
		start := time.Now()
		status, err := svc.Write(c.Context(), path, string(content))
		if err != nil {
			log.Error("write failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("write completed", "duration", time.Since(start))

		cmd.Successf(c.OutOrStdout(), "wrote %s (ok=%t)\n", status.Path, status.OK)
		return nil
	},
}

func init() {
	cmd.Register(writeCmd)
}
