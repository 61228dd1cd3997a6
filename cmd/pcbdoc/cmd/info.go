package cmd

import (
	"github.com/spf13/cobra"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document>",
		Short: "Show document information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer p.Close()

			lib := p.Library
			a.out.Printf("Project: %s (%s)\n", p.Name, p.UUID)
			a.out.Printf("  Format:     %s\n", p.Format())
			a.out.Printf("  Library:    %d components, %d packages, %d devices\n",
				len(lib.Components()), len(lib.Packages()), len(lib.Devices()))
			a.out.Printf("  Components: %d\n", len(p.Circuit.ComponentInstances()))
			a.out.Printf("  Nets:       %d\n", len(p.Circuit.NetSignals()))
			a.out.Printf("  Net lines:  %d\n\n", len(p.Board.NetLines()))

			a.out.Printf("%-12s %-16s %-20s %8s %8s %5s\n", "Device", "Package", "Position", "Rotation", "Mirrored", "Pads")
			a.out.Printf("─────────────────────────────────────────────────────────────────────────\n")
			for _, d := range p.Board.Devices() {
				mirrored := "no"
				if d.Mirrored() {
					mirrored = "yes"
				}
				a.out.Printf("%-12s %-16s %-20s %8s %8s %5d\n",
					d.ComponentInstance().Name(), d.LibPackage().Name, d.Position(), d.Rotation(),
					mirrored, len(d.Footprint().Pads()))
			}
			return nil
		},
	}
}
