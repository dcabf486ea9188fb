package cmd

import (
	"github.com/spf13/cobra"

	"calcengine/internal/errors"
)

func newValidateCmd(opts *options) *cobra.Command {
	var inputs inputFlags

	cmd := &cobra.Command{
		Use:   "validate <calculator>",
		Short: "Check input values against a calculator's mandatory inputs",
		Args:  cobra.ExactArgs(1),
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

			w := opts.writer(cmd)
			result := o.ValidateCalculatorInputs(args[0], values)
			if result.IsValid {
				w.Success("inputs are valid")
				return nil
			}
			for _, fe := range result.FieldErrors() {
				w.Error("%s: %s", fe.ID, fe.Message)
			}
			return errors.Validationf("%d invalid input(s)", len(result.Errors))
		},
	}
	inputs.register(cmd)
	return cmd
}
