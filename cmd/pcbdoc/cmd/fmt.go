package cmd

import (
	"github.com/spf13/cobra"
)

func newFmtCommand(a *app) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "fmt <document>",
		Short: "Rewrite a document in canonical form",
		Long: `Loads a document and writes it back in the configured format version.
Older documents are upgraded on the way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			from := p.Format()
			path, err := a.save(p, output)
			if err != nil {
				return err
			}
			a.out.Success("%s: format %s -> %s", path, from, a.cfg.Document.Version())
			return nil
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of the input document")
	return c
}
