// Package cmd provides the CLI commands for calc.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calcengine/core/catalog"
	"calcengine/core/taxrules"
	"calcengine/internal/config"
	"calcengine/internal/errors"
	"calcengine/internal/logging"
)

// options are the persistent flags shared by every command
type options struct {
	cfgFile   string
	catalogs  []string
	noBuiltin bool
	strict    bool
	verbose   bool
	quiet     bool
	noColor   bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "calc",
		Short: "Compute financial calculators defined as data",
		Long: `calc evaluates calculators whose outputs are formulas stored in
JSON, YAML or HCL definition files.

Examples:
  calc list
  calc inputs ireland-hourly-to-salary
  calc compute hourly-to-salary -i hourlyRate=20 -i hoursPerWeek=40
  calc compute uk-take-home -i salary=50000 --format json --explain
  calc eval "irelandTax(41600)"
  calc check --catalog ./calculators`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (.json or .toml)")
	flags.StringArrayVar(&opts.catalogs, "catalog", nil, "definition file or directory to load (repeatable)")
	flags.BoolVar(&opts.noBuiltin, "no-builtin", false, "do not load the bundled calculators")
	flags.BoolVar(&opts.strict, "strict", false, "treat catalog warnings as errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "disable logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newListCmd(opts),
		newInputsCmd(opts),
		newValidateCmd(opts),
		newComputeCmd(opts),
		newEvalCmd(opts),
		newCheckCmd(opts),
		newBatchCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return NewRootCmd().Execute()
}

func (o *options) initConfig() error {
	cfg := config.Default()
	if o.cfgFile != "" {
		loaded, err := config.Load(o.cfgFile)
		if err != nil {
			return errors.Wrap(errors.TypeConfig, "failed to load config", err).WithContext("path", o.cfgFile)
		}
		cfg = loaded
	}

	cfg.Catalog.Paths = append(cfg.Catalog.Paths, o.catalogs...)
	if o.noBuiltin {
		cfg.Catalog.IncludeBuiltin = false
	}
	if o.strict {
		cfg.Catalog.Strict = true
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if o.quiet {
		logging.SetLogger(nil)
		return nil
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// loadCatalog reads the configured definition sources
func (o *options) loadCatalog(extra ...string) (*catalog.Catalog, error) {
	cfg := config.Get()
	paths := append(append([]string(nil), cfg.Catalog.Paths...), extra...)
	c, err := catalog.Load(cfg.Catalog.IncludeBuiltin, paths...)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, errors.Config("no calculators loaded")
	}
	return c, nil
}

// load builds the catalog and logs its findings. Strict mode refuses a
// catalog with error or warning findings; otherwise a broken formula fails
// only its own output.
func (o *options) load() (*catalog.Bundle, error) {
	c, err := o.loadCatalog()
	if err != nil {
		return nil, err
	}
	b, err := c.Build(taxrules.Functions())
	if err != nil {
		return nil, err
	}

	findings := c.Inspect(b)
	for _, f := range findings {
		fields := []zap.Field{
			logging.Calculator(f.Calculator),
			logging.Output(f.Output),
			zap.String("finding", f.Message),
		}
		switch f.Severity {
		case catalog.SeverityError:
			logging.Error("catalog check failed", fields...)
		case catalog.SeverityWarning:
			logging.Warn("catalog check warning", fields...)
		default:
			logging.Debug("catalog check note", fields...)
		}
	}
	if config.Get().Catalog.Strict {
		if err := findings.Err(true); err != nil {
			return nil, err
		}
	}
	return b, nil
}
