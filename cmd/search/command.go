// Package search provides the "search" command for glob-matching files
// under an allowed root.
package search

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [path]",
	Short: "Find files under a path matching a glob pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "search")

		pattern, _ := c.Flags().GetString("pattern")
		exclude, _ := c.Flags().GetStringArray("exclude")
		maxResults, _ := c.Flags().GetInt("max-results")
		maxDepth, _ := c.Flags().GetInt("max-depth")
		maxFilesScanned, _ := c.Flags().GetInt("max-files-scanned")
		timeoutMs, _ := c.Flags().GetInt("timeout-ms")
		baseNameMatch, _ := c.Flags().GetBool("basename-match")
		skipSymlinks, _ := c.Flags().GetBool("skip-symlinks")
		asJSON, _ := c.Flags().GetBool("json")

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		entries, summary, err := svc.Search(c.Context(), path, service.SearchOptions{
			Pattern:         pattern,
			ExcludePatterns: exclude,
			MaxResults:      maxResults,
			MaxDepth:        maxDepth,
			MaxFilesScanned: maxFilesScanned,
			TimeoutMs:       timeoutMs,
			BaseNameMatch:   baseNameMatch,
			SkipSymlinks:    skipSymlinks,
		})
		if err != nil {
			log.Error("search failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("search completed", "duration", time.Since(start), "matched", summary.Matched)

		if asJSON {
			return json.NewEncoder(c.OutOrStdout()).Encode(entries)
		}
		for _, e := range entries {
			if _, err := fmt.Fprintln(c.OutOrStdout(), e.RelativeToBase); err != nil {
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
	searchCmd.Flags().String("pattern", "", "Glob pattern to match (required)")
	searchCmd.Flags().StringArray("exclude", nil, "Exclude patterns, may be repeated")
	searchCmd.Flags().Int("max-results", 0, "Maximum matches to return (0 = unlimited)")
	searchCmd.Flags().Int("max-depth", -1, "Maximum recursion depth (0 = root only, -1 = unlimited)")
	searchCmd.Flags().Int("max-files-scanned", 0, "Maximum candidate files to scan (0 = unlimited)")
	searchCmd.Flags().Int("timeout-ms", 0, "Abort and return partial results after this many milliseconds")
	searchCmd.Flags().Bool("basename-match", false, "Match pattern against the basename only")
	searchCmd.Flags().Bool("skip-symlinks", false, "Skip symlinked entries")
	searchCmd.Flags().Bool("json", false, "Emit entries as JSON")
	_ = searchCmd.MarkFlagRequired("pattern")
	cmd.Register(searchCmd)
}
