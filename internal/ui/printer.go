package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/QUAKTECH/sftm/internal/model"
)

// Printer writes user-facing output. Stdout and stderr each get their own
// renderer so color detection follows the stream being written.
type Printer struct {
	out, err io.Writer
	outTheme Theme
	errTheme Theme
}

// NewPrinter builds a printer. color is auto, always or never.
func NewPrinter(stdout, stderr io.Writer, theme, color string) *Printer {
	return &Printer{
		out:      stdout,
		err:      stderr,
		outTheme: NewTheme(theme, NewRenderer(stdout, color)),
		errTheme: NewTheme(theme, NewRenderer(stderr, color)),
	}
}

// NewRenderer returns a lipgloss renderer for w with the color mode applied.
func NewRenderer(w io.Writer, color string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "never":
		r.SetColorProfile(termenv.Ascii)
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	}
	return r
}

// Theme returns the stdout theme.
func (p *Printer) Theme() Theme { return p.outTheme }

func (p *Printer) Out() io.Writer { return p.out }
func (p *Printer) Err() io.Writer { return p.err }

func (p *Printer) OK(msg string) {
	t := p.outTheme
	fmt.Fprintln(p.out, t.Success.Render(t.SymOK+" "+msg))
}

func (p *Printer) Warn(msg string) {
	t := p.outTheme
	fmt.Fprintln(p.out, t.Pending.Render(t.SymWarn+" "+msg))
}

// Fail goes to stderr.
func (p *Printer) Fail(msg string) {
	t := p.errTheme
	fmt.Fprintln(p.err, t.Error.Render(t.SymFail+" "+msg))
}

// Hint writes a muted follow-up line to stderr.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.err, p.errTheme.Muted.Render(msg))
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Header(s string) {
	fmt.Fprintln(p.out, p.outTheme.Title.Render(s))
}

// Entry renders one todo line. Completed lines use the Done style.
// A positive n prefixes the 1-based position.
func (p *Printer) Entry(e model.Entry, n int) {
	t := p.outTheme
	line := e.Line
	if e.Done() {
		line = t.Done.Render(line)
	}
	if n > 0 {
		line = t.Muted.Render(fmt.Sprintf("%2d.", n)) + " " + line
	}
	fmt.Fprintln(p.out, line)
}
