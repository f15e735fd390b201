package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// Conversion targets for the convert command.
const (
	targetStored = "stored"
	targetEditor = "editor"
	targetExport = "export"
)

func newConvertCmd(a *app) *cobra.Command {
	var kind, target string
	var jsonValue bool
	cmd := &cobra.Command{
		Use:   "convert <value>",
		Short: "Convert a single value without touching storage",
		Long: "Convert an editor value to its stored form, then optionally back to\n" +
			"editor form or to export text. Exits 1 when the value does not convert.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := types.ParseStorageKind(kind)
			if err != nil {
				return fmt.Errorf("--kind %q: %w", kind, err)
			}
			input, err := editorInput(args[0], jsonValue)
			if err != nil {
				return err
			}

			conv := a.converter(nil)
			res, err := conv.ToStored(input, k)
			if err != nil {
				return err
			}
			if !res.OK {
				return fmt.Errorf("%q as %s: %w", args[0], k, errConversionFailed)
			}

			switch target {
			case targetStored:
				return a.printValue(cmd, res.Value, k)
			case targetEditor:
				v, err := conv.ToEditor(res.Value, k)
				if err != nil {
					return err
				}
				if a.jsonMode {
					return printJSON(out(cmd), v)
				}
				fmt.Fprintln(out(cmd), v)
			case targetExport:
				text, err := conv.ToExportText(res.Value, k)
				if err != nil {
					return err
				}
				if a.jsonMode {
					return printJSON(out(cmd), text)
				}
				fmt.Fprintln(out(cmd), text)
			default:
				return fmt.Errorf("--to %q: %w", target, errUsage)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "storage kind: text, longtext, integer, decimal, date")
	cmd.Flags().StringVar(&target, "to", targetStored, "target form: stored, editor, export")
	cmd.Flags().BoolVar(&jsonValue, "json-value", false, "parse <value> as JSON before converting")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
