package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const exportRoot = "content"

func newExportCmd(a *app) *cobra.Command {
	var published bool
	cmd := &cobra.Command{
		Use:   "export [alias]",
		Short: "Export property values as XML",
		Long: "Export one property, or every registered property under a <content>\n" +
			"root, as XML. Edited values are exported unless --published is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			var doc string
			if len(args) == 1 {
				doc, err = svc.ExportXML(args[0], published)
			} else {
				doc, err = svc.ExportAllXML(exportRoot, published)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), doc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&published, "published", false, "export published values instead of edited ones")
	return cmd
}
