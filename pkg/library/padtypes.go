package library

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// PadShape is the copper outline of a footprint pad.
type PadShape int

const (
	PadShapeRound PadShape = iota
	PadShapeRect
	PadShapeOctagon
)

func (s PadShape) String() string {
	switch s {
	case PadShapeRound:
		return "round"
	case PadShapeRect:
		return "rect"
	case PadShapeOctagon:
		return "octagon"
	default:
		return fmt.Sprintf("PadShape(%d)", int(s))
	}
}

// ParsePadShape parses the serialized name of a shape.
func ParsePadShape(s string) (PadShape, error) {
	switch s {
	case "round":
		return PadShapeRound, nil
	case "rect":
		return PadShapeRect, nil
	case "octagon":
		return PadShapeOctagon, nil
	}
	return 0, fmt.Errorf("unknown pad shape %q", s)
}

// BoardSide says which copper layers a pad lives on.
type BoardSide int

const (
	BoardSideTop BoardSide = iota
	BoardSideBottom
	BoardSideTHT
)

func (s BoardSide) String() string {
	switch s {
	case BoardSideTop:
		return "top"
	case BoardSideBottom:
		return "bottom"
	case BoardSideTHT:
		return "tht"
	default:
		return fmt.Sprintf("BoardSide(%d)", int(s))
	}
}

// ParseBoardSide parses the serialized name of a side.
func ParseBoardSide(s string) (BoardSide, error) {
	switch s {
	case "top":
		return BoardSideTop, nil
	case "bottom":
		return BoardSideBottom, nil
	case "tht":
		return BoardSideTHT, nil
	}
	return 0, fmt.Errorf("unknown board side %q", s)
}

// Layer returns the layer name the side maps to.
func (s BoardSide) Layer() string {
	switch s {
	case BoardSideBottom:
		return types.LayerBottomCopper
	case BoardSideTHT:
		return types.LayerTHTPads
	default:
		return types.LayerTopCopper
	}
}

// Mirrored returns the opposite side. THT pads stay THT.
func (s BoardSide) Mirrored() BoardSide {
	switch s {
	case BoardSideTop:
		return BoardSideBottom
	case BoardSideBottom:
		return BoardSideTop
	default:
		return s
	}
}
