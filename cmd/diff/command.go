// Package diff provides the "diff" command for producing a unified text
// diff between two files within the allowed roots.
package diff

import (
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/diffutil"
	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

// diffCmd represents the diff command for comparing two files' content.
var diffCmd = &cobra.Command{
	Use:   "diff [original] [modified]",
	Short: "Produce a unified diff between two files",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		original := args[0]
		modified := args[1]
		log := logger.With("original", original, "modified", modified, "command", "diff")

		log.Info("starting content diff")
		start := time.Now()

		svc := service.New(cmd.Sensitive)
		out, err := svc.Diff(c.Context(), original, modified)
		if err != nil {
			log.Error("diff failed", "error", err, "duration", time.Since(start))
			return err
		}

		log.Info("diff completed", "duration", time.Since(start), "empty", diffutil.Empty(out))

		if diffutil.Empty(out) {
			if _, err := fmt.Fprintln(c.OutOrStdout(), "No differences"); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		}
		if _, err := fmt.Fprint(c.OutOrStdout(), out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	},
}

func init() {
	cmd.Register(diffCmd)
}
