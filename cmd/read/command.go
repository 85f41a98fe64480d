// Package read provides the "read" command for reading a file's content
// (optionally bounded to a head, tail, or line range) within the allowed
// roots.
package read

import (
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read [path]",
	Short: "Read a file's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "read")

		maxSize, _ := c.Flags().GetInt64("max-size")
		head, _ := c.Flags().GetInt("head")
		tail, _ := c.Flags().GetInt("tail")
		lineStart, _ := c.Flags().GetInt("line-start")
		lineEnd, _ := c.Flags().GetInt("line-end")

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		res, err := svc.Read(c.Context(), path, service.ReadOptions{
			MaxSize:   maxSize,
			Head:      head,
			Tail:      tail,
			LineStart: lineStart,
			LineEnd:   lineEnd,
		})
		if err != nil {
			log.Error("read failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("read completed", "duration", time.Since(start), "mode", res.ReadMode, "truncated", res.Truncated)

		if _, err := fmt.Fprint(c.OutOrStdout(), res.Content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if res.Truncated {
			cmd.Warnf(c.ErrOrStderr(), "truncated: read %d of %d lines\n", res.LinesRead, res.TotalLines)
		}
		return nil
	},
}

func init() {
	readCmd.Flags().Int64("max-size", 0, "Maximum bytes to read (0 = default)")
	readCmd.Flags().Int("head", 0, "Read only the first N lines")
	readCmd.Flags().Int("tail", 0, "Read only the last N lines")
	readCmd.Flags().Int("line-start", 0, "First line of a line range to read (1-based)")
	readCmd.Flags().Int("line-end", 0, "Last line of a line range to read (inclusive)")
	cmd.Register(readCmd)
}
