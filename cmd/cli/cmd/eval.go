package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"calcengine/core/expression"
	"calcengine/core/input"
	"calcengine/core/taxrules"
	"calcengine/internal/config"
)

func newEvalCmd(opts *options) *cobra.Command {
	var (
		inputs    inputFlags
		precision int32
		explain   bool
	)

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression with the helper library",
		Long: `Evaluate an ad-hoc expression with the math and tax helpers bound.
Variables are supplied with -i key=value.

Examples:
  calc eval "irelandTax(41600)"
  calc eval "gross - ukTax(gross)" -i gross=50000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := inputs.values()
			if err != nil {
				return err
			}

			program, err := expression.Compile(args[0])
			if err != nil {
				return err
			}

			ctx := expression.NewContext(taxrules.Functions())
			ctx.SetVariables(input.Normalize(values))

			if explain {
				ids, fns := program.References()
				w := opts.writer(cmd)
				w.Println("parsed:     %s", program.String())
				w.Println("variables:  %s", strings.Join(ids, ", "))
				w.Println("functions:  %s", strings.Join(fns, ", "))
			}

			v, err := program.Number(ctx)
			if err != nil {
				return err
			}

			places := config.Get().Output.Precision
			if cmd.Flags().Changed("precision") {
				places = precision
			}
			fmt.Fprintln(cmd.OutOrStdout(), decimal.NewFromFloat(v).Round(places).String())
			return nil
		},
	}
	inputs.register(cmd)
	cmd.Flags().Int32Var(&precision, "precision", 2, "decimal places shown")
	cmd.Flags().BoolVarP(&explain, "explain", "e", false, "show how the expression parsed")
	return cmd
}
