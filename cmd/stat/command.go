// Package stat provides the "stat" command for reporting metadata about one
// or more paths within the allowed roots.
package stat

import (
	"fmt"
	"time"

	"github.com/j0hanz/fscontext/internal/logger"
	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat [paths...]",
	Short: "Report metadata for one or more paths",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		log := logger.With("command", "stat", "count", len(args))
		svc := service.New(cmd.Sensitive)
		start := time.Now()

		if len(args) == 1 {
			info, err := svc.Stat(c.Context(), args[0])
			if err != nil {
				log.Error("stat failed", "error", err, "duration", time.Since(start))
				return err
			}
			_, err = fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%s\n", args[0], info.Kind, cmd.FormatSize(info.Size))
			return err
		}

		concurrency, _ := c.Flags().GetInt("concurrency")
		results, err := svc.StatMany(c.Context(), args, concurrency)
		if err != nil {
			log.Error("statMany failed", "error", err, "duration", time.Since(start))
			return err
		}
		log.Info("statMany completed", "duration", time.Since(start))

		for _, r := range results {
			if r.Err != nil {
				cmd.Warnf(c.ErrOrStderr(), "%s\terror: %s\n", r.Path, r.Err.Error())
				continue
			}
			fmt.Fprintf(c.OutOrStdout(), "%s\t%s\t%s\n", r.Path, r.Info.Kind, cmd.FormatSize(r.Info.Size))
		}
		return nil
	},
}

func init() {
	statCmd.Flags().Int("concurrency", 0, "Bounded concurrency for statting multiple paths (0 = default)")
	cmd.Register(statCmd)
}
