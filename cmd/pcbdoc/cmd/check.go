package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <document>",
		Short: "Load and validate a document",
		Long: `Loads a document, rebuilding every item as if it had been placed
interactively. Fails if anything in the file is inconsistent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			for _, net := range p.Circuit.NetSignals() {
				if !net.IsUsed() {
					a.out.Warning("net %s is not connected to any signal", net.Name())
				}
			}
			for _, ci := range p.Circuit.ComponentInstances() {
				if ci.Device() == nil {
					a.out.Warning("component %s is not placed on the board", ci.Name())
				}
			}
			a.out.Success("%s: format %s, %d devices, %d nets, %d net lines",
				args[0], p.Format(), len(p.Board.Devices()), len(p.Circuit.NetSignals()), len(p.Board.NetLines()))
			return nil
		},
	}
}

// padLabel names a pad as device.pad, e.g. "R1.2".
func padLabel(p *board.FootprintPad) string {
	name := p.Footprint().Device().ComponentInstance().Name().String()
	if pp := p.PackagePad(); pp != nil {
		return name + "." + pp.Name.String()
	}
	return name + "." + p.UUID().String()
}
