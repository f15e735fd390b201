package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize propedit storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, detach, err := a.attach()
			if err != nil {
				return err
			}
			detach()
			fmt.Fprintf(out(cmd), "propedit initialized in %s\n", backend.DataDir())
			return nil
		},
	}
}
