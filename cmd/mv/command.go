// Package mv provides the "mv" command for moving or renaming a path within
// the allowed roots.
package mv

import (
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv [src] [dst]",
	Short: "Move or rename a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		src, dst := args[0], args[1]
		log := logger.With("src", src, "dst", dst, "command", "mv")

		svc := service.New(cmd.Sensitive)
		start := time.Now()
		status, err := svc.Mv(c.Context(), src, dst)
		if err != nil {
			log.Error("mv failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("mv completed", "duration", time.Since(start))

		cmd.Successf(c.OutOrStdout(), "moved to %s (ok=%t)\n", status.Path, status.OK)
		return nil
	},
}

func init() {
	cmd.Register(mvCmd)
}
