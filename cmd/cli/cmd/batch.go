package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"calcengine/core/engine"
	"calcengine/core/output"
	"calcengine/internal/errors"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		report  reportOptions
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Compute a list of requests concurrently",
		Long: `Compute every request of a JSON or YAML file. The file holds a list
of {calculator, inputs} entries; results are printed in file order.

Example file:
  - calculator: hourly-to-salary
    inputs: { hourlyRate: 20, hoursPerWeek: 40 }
  - calculator: uk-take-home
    inputs: { salary: 50000 }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(errors.TypeConfig, "failed to read batch file", err).WithContext("path", args[0])
			}
			var requests []engine.Request
			if err := decodeFile(data, args[0], &requests); err != nil {
				return err
			}

			o := bundle.Orchestrator()
			results, err := o.ComputeBatch(cmd.Context(), requests, workers)
			if err != nil {
				return err
			}

			reports := make([]output.Report, len(results))
			for i, r := range results {
				if r.Err != nil {
					reports[i] = output.Report{Calculator: r.Request.Calculator, Inputs: r.Request.Inputs, Error: r.Err.Error()}
					continue
				}
				name := r.Result.Calculator
				if def, ok := o.Calculator(r.Request.Calculator); ok {
					name = def.DisplayName()
				}
				reports[i] = output.NewReport(name, r.Request.Inputs, r.Result, report.outputOptions(cmd))
			}
			return opts.render(cmd, report.format, reports...)
		},
	}
	report.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent computations (default GOMAXPROCS)")
	return cmd
}
