// Package rm provides the "rm" command for removing a path within the
// allowed roots.
package rm

import (
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Remove a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "rm")

		recursive, _ := c.Flags().GetBool("recursive")

		svc := service.New(cmd.Sensitive)
		start := time.Now()
		status, err := svc.Rm(c.Context(), path, recursive)
		if err != nil {
			log.Error("rm failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("rm completed", "duration", time.Since(start))

		cmd.Successf(c.OutOrStdout(), "removed %s (ok=%t)\n", status.Path, status.OK)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolP("recursive", "r", false, "Remove directories and their contents recursively")
	cmd.Register(rmCmd)
}
