package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printer writes status lines with colored markers.
type printer struct {
	w      io.Writer
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

func newPrinter(w io.Writer, useColor bool) *printer {
	p := &printer{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
	if !useColor {
		for _, c := range []*color.Color{p.green, p.yellow, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) Success(format string, a ...any) {
	p.green.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Warning(format string, a ...any) {
	p.yellow.Fprintf(p.w, "! %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Step(format string, a ...any) {
	p.cyan.Fprintf(p.w, "→ %s\n", fmt.Sprintf(format, a...))
}

func (p *printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}
