// Package list provides the "list" command for listing a directory's
// contents within the allowed roots.
package list

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List a directory's entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "list")

		recursive, _ := c.Flags().GetBool("recursive")
		includeHidden, _ := c.Flags().GetBool("include-hidden")
		maxDepth, _ := c.Flags().GetInt("max-depth")
		maxEntries, _ := c.Flags().GetInt("max-entries")
		asJSON, _ := c.Flags().GetBool("json")

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		entries, summary, err := svc.ListDirectory(c.Context(), path, service.ListDirectoryOptions{
			Recursive:     recursive,
			IncludeHidden: includeHidden,
			MaxDepth:      maxDepth,
			MaxEntries:    maxEntries,
		})
		if err != nil {
			log.Error("list failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("list completed", "duration", time.Since(start), "emitted", summary.EntriesEmitted)

		if asJSON {
			return json.NewEncoder(c.OutOrStdout()).Encode(entries)
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%s\n", e.Kind, e.RelativeToBase, cmd.FormatSize(e.Size)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if summary.Truncated {
			cmd.Warnf(c.ErrOrStderr(), "truncated: %s\n", summary.StoppedReason)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("recursive", "r", false, "List recursively")
	listCmd.Flags().Bool("include-hidden", false, "Include dotfiles")
	listCmd.Flags().Int("max-depth", -1, "Maximum recursion depth (0 = root only, -1 = unlimited)")
	listCmd.Flags().Int("max-entries", 0, "Maximum entries to emit (0 = unlimited)")
	listCmd.Flags().Bool("json", false, "Emit entries as JSON")
	cmd.Register(listCmd)
}
