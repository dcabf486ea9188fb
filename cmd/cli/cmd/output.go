package cmd

import (
	"github.com/spf13/cobra"

	"calcengine/core/output"
	"calcengine/core/ui"
	"calcengine/internal/config"
)

// reportOptions are the flags of commands that print calculator results
type reportOptions struct {
	format    string
	precision int32
	explain   bool
}

func (r *reportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.format, "format", "f", "", "output format (table, json, markdown)")
	cmd.Flags().Int32Var(&r.precision, "precision", 2, "decimal places shown")
	cmd.Flags().BoolVarP(&r.explain, "explain", "e", false, "show the formula of each output")
}

func (r *reportOptions) outputOptions(cmd *cobra.Command) output.Options {
	precision := config.Get().Output.Precision
	if cmd.Flags().Changed("precision") {
		precision = r.precision
	}
	return output.Options{Precision: precision, Explain: r.explain}
}

// render writes reports in the chosen format, defaulting to the configured one
func (o *options) render(cmd *cobra.Command, format string, reports ...output.Report) error {
	cfg := config.Get()
	if format == "" {
		format = cfg.Output.Format
	}
	f, err := output.NewRegistry(o.noColor).Get(output.Format(format))
	if err != nil {
		return err
	}

	if !cfg.Output.ShowFailures {
		for i := range reports {
			for j := range reports[i].Outputs {
				reports[i].Outputs[j].Error = ""
			}
		}
	}
	return f.Render(cmd.OutOrStdout(), reports)
}

func (o *options) writer(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), o.noColor)
	if o.verbose {
		w.SetVerbosity(2)
	}
	return w
}
