package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the propedit release version.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/propedit"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the propedit version",
		Args:  cobra.NoArgs,
		// Version needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(out(cmd), "propedit v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
