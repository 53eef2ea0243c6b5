// Package printer formats terminal output for the CLI: colored status
// lines for progress, warnings, and errors. Color is disabled when NO_COLOR
// is set or when the caller asks for plain output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes formatted status lines. Out receives progress output and
// Err receives error reports.
type Printer struct {
	Out io.Writer
	Err io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	blue   *color.Color
	gray   *color.Color
}

// New returns a Printer writing to out and errOut. When plain is true, or
// NO_COLOR is set, no escape sequences are emitted.
func New(out, errOut io.Writer, plain bool) *Printer {
	p := &Printer{
		Out:    out,
		Err:    errOut,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
		blue:   color.New(color.FgBlue),
		gray:   color.New(color.FgHiBlack),
	}
	if plain || os.Getenv("NO_COLOR") != "" {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan, p.blue, p.gray} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan, p.blue, p.gray} {
			c.EnableColor()
		}
	}
	return p
}

// Discard returns a Printer that drops all output.
func Discard() *Printer {
	return New(io.Discard, io.Discard, true)
}

// Step prints a phase heading in blue.
func (p *Printer) Step(format string, a ...any) {
	p.blue.Fprintln(p.Out, fmt.Sprintf(format, a...))
}

// Success prints a message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	p.green.Fprintln(p.Out, msg)
}

// Warning prints a message in yellow with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	p.yellow.Fprintln(p.Out, msg)
}

// Detail prints a dimmed secondary line.
func (p *Printer) Detail(format string, a ...any) {
	p.gray.Fprintln(p.Out, fmt.Sprintf(format, a...))
}

// Highlight prints a cyan line.
func (p *Printer) Highlight(format string, a ...any) {
	p.cyan.Fprintln(p.Out, fmt.Sprintf(format, a...))
}

// Info prints a plain line.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintln(p.Out, fmt.Sprintf(format, a...))
}

// Error prints a red title and the error to Err.
func (p *Printer) Error(title string, err error) {
	if err == nil {
		p.red.Fprintln(p.Err, title)
		return
	}
	p.red.Fprint(p.Err, title)
	fmt.Fprintf(p.Err, " %v\n", err)
}
