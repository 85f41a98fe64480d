// Package tree provides the "tree" command for rendering a directory's
// structure as an ASCII tree.
package tree

import (
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Render a directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "tree")

		maxDepth, _ := c.Flags().GetInt("max-depth")
		maxEntries, _ := c.Flags().GetInt("max-entries")
		includeHidden, _ := c.Flags().GetBool("include-hidden")
		includeIgnored, _ := c.Flags().GetBool("include-ignored")
		timeoutMs, _ := c.Flags().GetInt("timeout-ms")

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		res, err := svc.Tree(c.Context(), path, service.TreeOptions{
			MaxDepth:       maxDepth,
			MaxEntries:     maxEntries,
			IncludeHidden:  includeHidden,
			IncludeIgnored: includeIgnored,
			TimeoutMs:      timeoutMs,
		})
		if err != nil {
			log.Error("tree failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("tree completed", "duration", time.Since(start), "totalEntries", res.TotalEntries)

		if _, err := fmt.Fprint(c.OutOrStdout(), res.ASCII); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if res.Truncated {
			cmd.Warnf(c.ErrOrStderr(), "truncated: entry or depth limit reached\n")
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().Int("max-depth", -1, "Maximum depth to render (0 = root only, -1 = unlimited)")
	treeCmd.Flags().Int("max-entries", 0, "Maximum entries to render (0 = unlimited)")
	treeCmd.Flags().Bool("include-hidden", false, "Include dotfiles")
	treeCmd.Flags().Bool("include-ignored", false, "Include files matched by .gitignore")
	treeCmd.Flags().Int("timeout-ms", 0, "Abort and return a partial tree after this many milliseconds")
	cmd.Register(treeCmd)
}
