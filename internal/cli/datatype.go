package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

func newDataTypeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datatype",
		Aliases: []string{"dt"},
		Short:   "Manage the data types that declare each field's storage kind",
	}
	cmd.AddCommand(newDataTypeAddCmd(a), newDataTypeListCmd(a), newDataTypeDeleteCmd(a))
	return cmd
}

func newDataTypeAddCmd(a *app) *cobra.Command {
	var kind, name, editor string
	cmd := &cobra.Command{
		Use:   "add <alias>",
		Short: "Register a data type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := types.ParseStorageKind(kind)
			if err != nil {
				return fmt.Errorf("--kind %q: %w", kind, err)
			}
			backend, _, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			tbl, err := table(backend, types.DataTypesTable)
			if err != nil {
				return err
			}
			dt := &types.DataType{Alias: args[0], Name: name, EditorAlias: editor, StorageKind: k}
			if _, err := tbl.Set("", dt); err != nil {
				return fmt.Errorf("add data type: %w", err)
			}
			if a.jsonMode {
				return printJSON(out(cmd), dt)
			}
			fmt.Fprintf(out(cmd), "%s (%s) %s\n", dt.Alias, dt.StorageKind, dt.DataTypeID)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "storage kind: text, longtext, integer, decimal, date")
	cmd.Flags().StringVar(&name, "name", "", "display name (default: alias)")
	cmd.Flags().StringVar(&editor, "editor", "", "alias of the editor producing values")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newDataTypeListCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List data types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			tbl, err := table(backend, types.DataTypesTable)
			if err != nil {
				return err
			}
			filter := types.Filter{}
			if kind != "" {
				filter["storage_kind"] = kind
			}
			rows, err := tbl.Fetch(filter)
			if err != nil {
				return err
			}
			dts := lo.Map(rows, func(r any, _ int) *types.DataType { return r.(*types.DataType) })
			if a.jsonMode {
				return printJSON(out(cmd), dts)
			}
			return printTable(out(cmd), []string{"ALIAS", "KIND", "NAME", "EDITOR"},
				lo.Map(dts, func(d *types.DataType, _ int) []string {
					return []string{d.Alias, string(d.StorageKind), d.Name, d.EditorAlias}
				}))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list data types of this storage kind")
	return cmd
}

func newDataTypeDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <alias>",
		Short: "Delete a data type and all of its stored values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, svc, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			dt, err := svc.DataType(args[0])
			if err != nil {
				return err
			}
			tbl, err := table(backend, types.DataTypesTable)
			if err != nil {
				return err
			}
			if err := tbl.Delete(dt.DataTypeID); err != nil {
				return fmt.Errorf("delete data type: %w", err)
			}
			fmt.Fprintf(out(cmd), "deleted %s\n", dt.Alias)
			return nil
		},
	}
}
