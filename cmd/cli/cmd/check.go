package cmd

import (
	"github.com/spf13/cobra"

	"calcengine/core/catalog"
	"calcengine/core/taxrules"
	"calcengine/internal/config"
)

func newCheckCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check calculator definitions",
		Long: `Load the configured definitions plus any given paths, and report
unresolved inputs, unbound identifiers, forward references, unknown
functions and aliases that lead nowhere. Exits non-zero on errors, or on
warnings with --strict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog(args...)
			if err != nil {
				return err
			}
			findings, err := c.Check(taxrules.Functions())
			if err != nil {
				return err
			}

			w := opts.writer(cmd)
			for _, f := range findings {
				switch f.Severity {
				case catalog.SeverityError:
					w.Error("%s", f.String())
				case catalog.SeverityWarning:
					w.Warning("%s", f.String())
				default:
					w.Info("%s", f.String())
				}
			}

			if len(findings) == 0 {
				w.Success("%d calculators from %d file(s), no findings", c.Len(), len(c.Sources()))
			} else {
				w.Println("%d error(s), %d warning(s), %d note(s)",
					findings.Count(catalog.SeverityError),
					findings.Count(catalog.SeverityWarning),
					findings.Count(catalog.SeverityInfo))
			}
			return findings.Err(config.Get().Catalog.Strict)
		},
	}
	return cmd
}
