// Package hash provides the "hash" command for computing content digests
// of files and directories within the allowed roots.
package hash

import (
	"fmt"
	"strings"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

// hashCmd represents the hash command for computing a file or directory's
// content digest.
var hashCmd = &cobra.Command{
	Use:   "hash [path]",
	Short: "Compute the content hash of a file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		path := args[0]
		log := logger.With("path", path, "command", "hash")

		includeIgnored, err := c.Flags().GetBool("include-ignored")
		if err != nil {
			log.Warn("failed to read include-ignored flag", "error", err)
		}
		verify, err := c.Flags().GetString("verify")
		if err != nil {
			log.Warn("failed to read verify flag", "error", err)
		}

		svc := service.New(cmd.Sensitive)
		start := time.Now()

		result, err := svc.Hash(c.Context(), path, service.HashOptions{IncludeIgnored: includeIgnored})
		if err != nil {
			log.Error("hash computation failed", "error", err, "duration", time.Since(start))
			return err
		}

		log.Info("hash computation completed",
			"duration", time.Since(start),
			"hash", result.Hash,
			"fileCount", result.FileCount,
		)

		pathType := "f"
		if result.IsDirectory {
			pathType = "d"
		}
		if _, err := fmt.Fprintf(c.OutOrStdout(), "%s (%s): %s (files: %d)\n",
			path, pathType, result.Hash, result.FileCount); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if verify == "" {
			return nil
		}
		if !strings.EqualFold(verify, result.Hash) {
			cmd.Warnf(c.ErrOrStderr(), "Hash mismatch!\nComputed: %s\nExpected: %s\n", result.Hash, verify)
			return fmt.Errorf("hash mismatch")
		}
		cmd.Successf(c.OutOrStdout(), "Hash matches: %s\n", result.Hash)
		return nil
	},
}

func init() {
	hashCmd.Flags().Bool("include-ignored", false, "Include files matched by .gitignore when hashing a directory")
	hashCmd.Flags().String("verify", "", "Verify the computed hash matches this expected hash; exits non-zero on mismatch")
	cmd.Register(hashCmd)
}
