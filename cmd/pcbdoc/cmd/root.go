package cmd

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/internal/config"
	"github.com/OpenTraceLab/OpenTraceBoard/internal/logging"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	out    *printer
}

// NewRootCommand builds the pcbdoc command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pcbdoc",
		Short: "Inspect and edit board documents",
		Long: `pcbdoc loads board documents, runs edit scripts against them through
the undo stack and writes them back.

Examples:
  pcbdoc check board.pcbdoc              # Load and validate a document
  pcbdoc nets board.pcbdoc VCC           # Show what is on net VCC
  pcbdoc run board.pcbdoc place.pcbs     # Apply an edit script in place
  pcbdoc fmt -o new.pcbdoc old.pcbdoc    # Rewrite in the current format`,
		Version:           "0.2.0",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newCheckCommand(a),
		newInfoCommand(a),
		newNetsCommand(a),
		newRunCommand(a),
		newFmtCommand(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	a.out = newPrinter(cmd.OutOrStdout(), cfg.Output.Color)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

func (a *app) open(path string) (*project.Project, error) {
	return project.Open(path, project.WithLogger(a.logger))
}

// save writes p to out, or back to the file it was opened from.
func (a *app) save(p *project.Project, out string) (string, error) {
	if out == "" {
		out = p.Path()
	}
	return out, p.SaveFile(out, a.cfg.Document.Version())
}
