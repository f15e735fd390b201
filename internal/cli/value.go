package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// variantFlags selects one (language, segment) variant of a property.
type variantFlags struct {
	lang    string
	segment string
}

func (f *variantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lang, "lang", "", "ISO code of the language (default: invariant)")
	cmd.Flags().StringVar(&f.segment, "segment", "", "segment name (default: none)")
}

func newValueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Save, read and publish property values",
	}
	cmd.AddCommand(newValueSetCmd(a), newValueGetCmd(a), newValuePublishCmd(a))
	return cmd
}

func newValueSetCmd(a *app) *cobra.Command {
	var vf variantFlags
	var jsonValue bool
	cmd := &cobra.Command{
		Use:   "set <alias> <value>",
		Short: "Convert an editor value and store it as the edited value",
		Long: "Convert an editor value with the data type's storage kind and store it.\n" +
			"A value that cannot be converted is stored as null and logged as a warning.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := editorInput(args[1], jsonValue)
			if err != nil {
				return err
			}
			backend, svc, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			langID, err := languageID(backend, vf.lang)
			if err != nil {
				return err
			}
			stored, kind, err := svc.SaveValue(args[0], langID, vf.segment, input)
			if err != nil {
				return err
			}
			return a.printValue(cmd, stored, kind)
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&jsonValue, "json-value", false, "parse <value> as JSON before converting")
	return cmd
}

func newValueGetCmd(a *app) *cobra.Command {
	var vf variantFlags
	cmd := &cobra.Command{
		Use:   "get <alias>",
		Short: "Print the edited value in editor form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, svc, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			langID, err := languageID(backend, vf.lang)
			if err != nil {
				return err
			}
			v, err := svc.EditorValue(args[0], langID, vf.segment)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(out(cmd), v)
			}
			fmt.Fprintln(out(cmd), v)
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}

func newValuePublishCmd(a *app) *cobra.Command {
	var vf variantFlags
	cmd := &cobra.Command{
		Use:   "publish <alias>",
		Short: "Copy the edited value to the published value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, svc, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			langID, err := languageID(backend, vf.lang)
			if err != nil {
				return err
			}
			if err := svc.Publish(args[0], langID, vf.segment); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "published %s\n", args[0])
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}

// editorInput returns the raw argument, or its JSON decoding when asJSON
// is set.
func editorInput(raw string, asJSON bool) (any, error) {
	if !asJSON {
		return raw, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("--json-value: %w: %v", errUsage, err)
	}
	return v, nil
}

// printValue prints a stored value. Text mode uses the export form so dates
// and decimals read the same way they do in XML.
func (a *app) printValue(cmd *cobra.Command, stored any, kind types.StorageKind) error {
	if a.jsonMode {
		return printJSON(out(cmd), map[string]any{"kind": kind, "stored": stored})
	}
	if stored == nil {
		fmt.Fprintln(out(cmd), "null")
		return nil
	}
	text, err := a.converter(nil).ToExportText(stored, kind)
	if err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), text)
	return nil
}
