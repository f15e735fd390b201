package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/propedit/internal/sqlite"
	"github.com/mesh-intelligence/propedit/pkg/types"
)

func newLanguageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "language",
		Aliases: []string{"lang"},
		Short:   "Manage the languages values can vary by",
	}
	cmd.AddCommand(newLanguageAddCmd(a), newLanguageListCmd(a))
	return cmd
}

func newLanguageAddCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <iso-code>",
		Short: "Register a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			tbl, err := table(backend, types.LanguagesTable)
			if err != nil {
				return err
			}
			lang := &types.Language{IsoCode: args[0], Name: name}
			if _, err := tbl.Set("", lang); err != nil {
				return fmt.Errorf("add language: %w", err)
			}
			if a.jsonMode {
				return printJSON(out(cmd), lang)
			}
			fmt.Fprintf(out(cmd), "%s %s\n", lang.IsoCode, lang.LanguageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLanguageListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, detach, err := a.attach()
			if err != nil {
				return err
			}
			defer detach()

			tbl, err := table(backend, types.LanguagesTable)
			if err != nil {
				return err
			}
			rows, err := tbl.Fetch(nil)
			if err != nil {
				return err
			}
			langs := lo.Map(rows, func(r any, _ int) *types.Language { return r.(*types.Language) })
			if a.jsonMode {
				return printJSON(out(cmd), langs)
			}
			return printTable(out(cmd), []string{"ISO", "NAME", "ID"},
				lo.Map(langs, func(l *types.Language, _ int) []string {
					return []string{l.IsoCode, l.Name, l.LanguageID}
				}))
		},
	}
}

// languageID resolves an ISO code given on the command line. An empty code
// selects the invariant value.
func languageID(backend *sqlite.Backend, iso string) (string, error) {
	if iso == "" {
		return "", nil
	}
	tbl, err := table(backend, types.LanguagesTable)
	if err != nil {
		return "", err
	}
	rows, err := tbl.Fetch(types.Filter{"iso_code": iso})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("language %q: %w", iso, types.ErrNotFound)
	}
	return rows[0].(*types.Language).LanguageID, nil
}
