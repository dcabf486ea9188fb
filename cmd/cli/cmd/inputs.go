package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"calcengine/core/schema"
	"calcengine/internal/errors"
)

func newInputsCmd(opts *options) *cobra.Command {
	var (
		inputs inputFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inputs <calculator>",
		Short: "Show the inputs a calculator accepts",
		Long: `Show the inputs of a calculator, mandatory first, with defaults and
whether each input is visible for the given values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load()
			if err != nil {
				return err
			}
			values, err := inputs.values()
			if err != nil {
				return err
			}

			o := bundle.Orchestrator()
			if _, ok := o.Calculator(args[0]); !ok {
				return errors.NotFound("calculator", args[0])
			}
			fields := o.CalculatorInputs(args[0])
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(fields)
			}

			current := o.Prepare(args[0], values)
			w := opts.writer(cmd)
			table := w.NewTable("ID", "LABEL", "TYPE", "DEFAULT", "REQUIRED", "RANGE", "VISIBLE")
			for _, f := range fields {
				table.AddRow(
					f.ID,
					f.DisplayLabel(),
					string(f.Type),
					fmt.Sprint(f.DefaultValue()),
					yesNo(f.Required),
					describeRange(f),
					yesNo(o.IsInputVisible(f, current)),
				)
			}
			table.Render()
			return nil
		},
	}
	inputs.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print fields as JSON")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func describeRange(f schema.InputField) string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	switch {
	case f.Min != nil && f.Max != nil:
		return format(*f.Min) + ".." + format(*f.Max)
	case f.Min != nil:
		return ">= " + format(*f.Min)
	case f.Max != nil:
		return "<= " + format(*f.Max)
	case f.Type == schema.TypeSelect:
		return fmt.Sprintf("%d options", len(f.Options))
	default:
		return ""
	}
}
