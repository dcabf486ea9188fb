package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the loaded calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load()
			if err != nil {
				return err
			}
			defs := bundle.Store.List()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}

			w := opts.writer(cmd)
			table := w.NewTable("ID", "SLUG", "NAME", "OUTPUTS")
			for _, def := range defs {
				slug := bundle.Mapper.MapCalculatorIDToSlug(def.ID)
				if slug == def.ID {
					slug = "-"
				}
				table.AddRow(def.ID, slug, def.DisplayName(), strings.Join(def.OutputNames(), ", "))
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print definitions as JSON")
	return cmd
}
