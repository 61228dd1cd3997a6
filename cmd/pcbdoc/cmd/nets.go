package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
)

func newNetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nets <document> [net]",
		Short: "Show net information",
		Long: `Without a net name, lists all nets with their signal, pad and net line
counts. With a net name, shows the signals and net lines of that net.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			if len(args) == 2 {
				return a.showNet(p, args[1])
			}
			a.listNets(p)
			return nil
		},
	}
}

func netLinesOf(b *board.Board, net *board.NetSignal) []*board.NetLine {
	var lines []*board.NetLine
	for _, nl := range b.NetLines() {
		if nl.NetSignal() == net {
			lines = append(lines, nl)
		}
	}
	return lines
}

func (a *app) listNets(p *project.Project) {
	a.out.Printf("%-24s %8s %6s %10s\n", "Net", "Signals", "Pads", "Net lines")
	a.out.Printf("─────────────────────────────────────────────────────\n")
	for _, net := range p.Circuit.NetSignals() {
		a.out.Printf("%-24s %8d %6d %10d\n", net.Name(), len(net.ComponentSignals()),
			p.Board.Connectivity().PadCount(net), len(netLinesOf(p.Board, net)))
	}
}

func (a *app) showNet(p *project.Project, name string) error {
	net := p.Circuit.NetSignalByName(name)
	if net == nil {
		return fmt.Errorf("net %q not found", name)
	}
	a.out.Printf("Net: %s (%s)\n\n", net.Name(), net.UUID())

	a.out.Printf("Signals (%d):\n", len(net.ComponentSignals()))
	for _, sig := range net.ComponentSignals() {
		a.out.Printf("  %s.%s\n", sig.ComponentInstance().Name(), sig.Name())
	}

	lines := netLinesOf(p.Board, net)
	a.out.Printf("\nNet lines (%d):\n", len(lines))
	for i, nl := range lines {
		a.out.Printf("  Net line %d: %s mm wide on %s from %s to %s, %s mm long\n",
			i+1, nl.Width(), nl.Layer(), padLabel(nl.Start()), padLabel(nl.End()), nl.Length())
	}
	return nil
}
