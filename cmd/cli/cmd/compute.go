package cmd

import (
	"github.com/spf13/cobra"

	"calcengine/core/output"
	"calcengine/internal/errors"
)

func newComputeCmd(opts *options) *cobra.Command {
	var (
		inputs        inputFlags
		report        reportOptions
		validateFirst bool
	)

	cmd := &cobra.Command{
		Use:   "compute <calculator>",
		Short: "Compute a calculator's outputs",
		Long: `Compute every output of a calculator in declaration order. The
calculator may be given by engine id or content slug. Absent inputs take
their schema defaults; an output whose formula fails is reported as 0.

Examples:
  calc compute hourly-to-salary -i hourlyRate=20 -i hoursPerWeek=40
  calc compute ireland-hourly-to-salary -i rate=25 -i paymentFrequency=weekly
  calc compute us-paycheck --input-file salary.yaml --format json`,
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
			def, ok := o.Calculator(args[0])
			if !ok {
				return errors.NotFound("calculator", args[0])
			}

			if validateFirst {
				if res := o.ValidateCalculatorInputs(args[0], values); !res.IsValid {
					w := opts.writer(cmd)
					for _, fe := range res.FieldErrors() {
						w.Error("%s: %s", fe.ID, fe.Message)
					}
					return errors.Validationf("%d invalid input(s)", len(res.Errors))
				}
			}

			result, _ := o.ComputeDetailed(args[0], values)
			return opts.render(cmd, report.format, output.NewReport(def.DisplayName(), values, result, report.outputOptions(cmd)))
		},
	}
	inputs.register(cmd)
	report.register(cmd)
	cmd.Flags().BoolVar(&validateFirst, "validate", false, "refuse to compute when inputs are invalid")
	return cmd
}
