// Package roots provides the "roots" command for listing the process's
// currently configured allowed root directories.
package roots

import (
	"fmt"

	"github.com/j0hanz/fscontext/internal/service"

	"github.com/j0hanz/fscontext/cmd"
	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the configured allowed root directories",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		svc := service.New(cmd.Sensitive)
		for _, r := range svc.ListRoots(c.Context()) {
			if _, err := fmt.Fprintln(c.OutOrStdout(), r); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	},
}

func init() {
	cmd.Register(rootsCmd)
}
