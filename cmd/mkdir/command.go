// Package mkdir provides the "mkdir" command for creating a directory
// within the allowed roots.
package mkdir

import (
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [path]",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "mkdir")

		recursive, _ := c.Flags().GetBool("recursive")

		svc := service.New(cmd.Sensitive)
		start := time.Now()
		status, err := svc.Mkdir(c.Context(), path, recursive)
		if err != nil {
			log.Error("mkdir failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("mkdir completed", "duration", time.Since(start))

		cmd.Successf(c.OutOrStdout(), "created %s (ok=%t)\n", status.Path, status.OK)
		return nil
	},
}

func init() {
	mkdirCmd.Flags().BoolP("recursive", "p", false, "Create parent directories as needed")
	cmd.Register(mkdirCmd)
}
