package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/internal/logging"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/script"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		output string
		dryRun bool
	)
	c := &cobra.Command{
		Use:   "run <document> <script>",
		Short: "Apply an edit script to a document",
		Long: `Runs an edit script against a document and saves the result. Every
statement goes through the undo stack; a failing statement stops the run and
nothing is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()

			a.out.Step("running %s", args[1])
			in := script.NewInterpreter(p, script.WithLogger(logging.FromContext(cmd.Context())))
			if err := in.Run(cmd.Context(), args[1], f); err != nil {
				return err
			}
			a.out.Success("%d statements executed, %d undo steps", in.Executed, p.UndoStack.Len())

			if dryRun {
				a.out.Warning("dry run, document not written")
				return nil
			}
			path, err := a.save(p, output)
			if err != nil {
				return err
			}
			a.out.Success("saved %s", path)
			return nil
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of the input document")
	c.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "run the script without saving")
	return c
}
