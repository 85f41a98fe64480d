// Package grep provides the "grep" command for content-searching files
// under an allowed root with a regular expression.
package grep

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var grepCmd = &cobra.Command{
	Use:   "grep [path]",
	Short: "Search file content under a path for a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "grep")

		pattern, _ := c.Flags().GetString("pattern")
		filePattern, _ := c.Flags().GetString("file-pattern")
		exclude, _ := c.Flags().GetStringArray("exclude")
		caseSensitive, _ := c.Flags().GetBool("case-sensitive")
		isLiteral, _ := c.Flags().GetBool("literal")
		wholeWord, _ := c.Flags().GetBool("whole-word")
		contextLines, _ := c.Flags().GetInt("context")
		maxResults, _ := c.Flags().GetInt("max-results")
		maxFileSize, _ := c.Flags().GetInt64("max-file-size")
		maxFilesScanned, _ := c.Flags().GetInt("max-files-scanned")
		timeoutMs, _ := c.Flags().GetInt("timeout-ms")
		skipBinary, _ := c.Flags().GetBool("skip-binary")
		includeHidden, _ := c.Flags().GetBool("include-hidden")
		workers, _ := c.Flags().GetInt("workers")
		asJSON, _ := c.Flags().GetBool("json")

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		matches, summary, err := svc.SearchContent(c.Context(), path, service.SearchContentOptions{
			Pattern:         pattern,
			FilePattern:     filePattern,
			ExcludePatterns: exclude,
			CaseSensitive:   caseSensitive,
			IsLiteral:       isLiteral,
			WholeWord:       wholeWord,
			ContextLines:    contextLines,
			MaxResults:      maxResults,
			MaxFileSize:     maxFileSize,
			MaxFilesScanned: maxFilesScanned,
			TimeoutMs:       timeoutMs,
			SkipBinary:      skipBinary,
			IncludeHidden:   includeHidden,
			Workers:         workers,
		})
		if err != nil {
			log.Error("grep failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("grep completed", "duration", time.Since(start), "matched", summary.FilesMatched)

		if asJSON {
			return json.NewEncoder(c.OutOrStdout()).Encode(matches)
		}
		for _, m := range matches {
			if _, err := fmt.Fprintf(c.OutOrStdout(), "%s:%d: %s\n", m.RelativeFile, m.LineNumber, m.Content); err != nil {
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
	grepCmd.Flags().String("pattern", "", "Regular expression (or literal string with --literal) to search for")
	grepCmd.Flags().String("file-pattern", "", "Glob pattern selecting candidate files (default **/*)")
	grepCmd.Flags().StringArray("exclude", nil, "Exclude patterns, may be repeated")
	grepCmd.Flags().Bool("case-sensitive", false, "Case-sensitive matching")
	grepCmd.Flags().Bool("literal", false, "Treat pattern as a literal string, not a regular expression")
	grepCmd.Flags().Bool("whole-word", false, "Match whole words only")
	grepCmd.Flags().Int("context", 0, "Lines of context around each match")
	grepCmd.Flags().Int("max-results", 0, "Maximum matches to return (0 = unlimited)")
	grepCmd.Flags().Int64("max-file-size", 0, "Skip files larger than this many bytes (0 = unlimited)")
	grepCmd.Flags().Int("max-files-scanned", 0, "Maximum candidate files to scan (0 = unlimited)")
	grepCmd.Flags().Int("timeout-ms", 0, "Abort and return partial results after this many milliseconds")
	grepCmd.Flags().Bool("skip-binary", true, "Skip files that look binary")
	grepCmd.Flags().Bool("include-hidden", false, "Include dotfiles when selecting candidate files")
	grepCmd.Flags().Int("workers", 0, "Worker-pool size for concurrent scanning (0 = sequential)")
	grepCmd.Flags().Bool("json", false, "Emit matches as JSON")
	_ = grepCmd.MarkFlagRequired("pattern")
	cmd.Register(grepCmd)
}
