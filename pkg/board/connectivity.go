package board

import (
	"log/slog"
	"slices"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/signal"
)

// Connectivity indexes which net lines end at which pads and how many
// attached pads each net has. It also collects the nets whose air wires
// need rebuilding.
type Connectivity struct {
	// OnAirWiresRebuildScheduled fires every time a net is scheduled, also
	// when it is already pending.
	OnAirWiresRebuildScheduled signal.Signal[*NetSignal]

	netLines  map[*FootprintPad][]*NetLine
	padCounts map[*NetSignal]int
	pending   []*NetSignal
	logger    *slog.Logger
}

func newConnectivity(logger *slog.Logger) *Connectivity {
	return &Connectivity{
		netLines:  make(map[*FootprintPad][]*NetLine),
		padCounts: make(map[*NetSignal]int),
		logger:    logger,
	}
}

// IsPadUsed reports whether any net line is registered at p.
func (c *Connectivity) IsPadUsed(p *FootprintPad) bool {
	return len(c.netLines[p]) > 0
}

// NetLinesOfPad returns the net lines registered at p in registration order.
func (c *Connectivity) NetLinesOfPad(p *FootprintPad) []*NetLine {
	return slices.Clone(c.netLines[p])
}

// PadCount returns the number of attached pads bound to net.
func (c *Connectivity) PadCount(net *NetSignal) int {
	return c.padCounts[net]
}

// ScheduleAirWiresRebuild marks net for an air-wire rebuild and notifies
// listeners. The pending set holds each net once until it is taken. A nil
// net is ignored, so callers may pass the net of an unconnected pad.
func (c *Connectivity) ScheduleAirWiresRebuild(net *NetSignal) {
	if net == nil {
		return
	}
	if !slices.Contains(c.pending, net) {
		c.pending = append(c.pending, net)
	}
	c.logger.Debug("air wires rebuild scheduled", "net", net.Name().String())
	c.OnAirWiresRebuildScheduled.Notify(net)
}

// PendingRebuilds returns the nets scheduled since the last TakePendingRebuilds.
func (c *Connectivity) PendingRebuilds() []*NetSignal {
	return slices.Clone(c.pending)
}

// TakePendingRebuilds returns and clears the pending set.
func (c *Connectivity) TakePendingRebuilds() []*NetSignal {
	out := c.pending
	c.pending = nil
	return out
}

func (c *Connectivity) registerNetLine(p *FootprintPad, nl *NetLine) error {
	if slices.Contains(c.netLines[p], nl) {
		return docerr.Lifecycle("board.FootprintPad.RegisterNetLine", nl.UUID(), docerr.ErrAlreadyRegistered,
			"net line is already registered at pad %s", p.UUID())
	}
	c.netLines[p] = append(c.netLines[p], nl)
	return nil
}

func (c *Connectivity) unregisterNetLine(p *FootprintPad, nl *NetLine) error {
	lines := c.netLines[p]
	i := slices.Index(lines, nl)
	if i < 0 {
		return docerr.Lifecycle("board.FootprintPad.UnregisterNetLine", nl.UUID(), docerr.ErrNotRegistered,
			"net line is not registered at pad %s", p.UUID())
	}
	lines = slices.Delete(lines, i, i+1)
	if len(lines) == 0 {
		delete(c.netLines, p)
	} else {
		c.netLines[p] = lines
	}
	return nil
}

func (c *Connectivity) padAdded(net *NetSignal) {
	if net == nil {
		return
	}
	c.padCounts[net]++
	c.ScheduleAirWiresRebuild(net)
}

func (c *Connectivity) padRemoved(net *NetSignal) {
	if net == nil {
		return
	}
	if c.padCounts[net]--; c.padCounts[net] <= 0 {
		delete(c.padCounts, net)
	}
	c.ScheduleAirWiresRebuild(net)
}

// padNetChanged moves one attached pad from one net to another.
func (c *Connectivity) padNetChanged(ch NetSignalChange) {
	c.padRemoved(ch.From)
	c.padAdded(ch.To)
}
