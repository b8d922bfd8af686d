package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Notices prints short "<title>: <description>" messages to stderr.
type Notices struct {
	w     io.Writer
	info  *color.Color
	warn  *color.Color
	fail  *color.Color
}

// NewNotices creates a notice printer. Colors are used only when enabled
// is true and the process has a terminal.
func NewNotices(w io.Writer, enabled bool) *Notices {
	n := &Notices{
		w:     w,
		info:  color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{n.info, n.warn, n.fail} {
		if enabled && !color.NoColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return n
}

// Info prints a success notice.
func (n *Notices) Info(title, description string) {
	n.print(n.info, title, description)
}

// Warn prints a hint that needs attention but is not a failure.
func (n *Notices) Warn(title, description string) {
	n.print(n.warn, title, description)
}

// Error prints a failure notice.
func (n *Notices) Error(title, description string) {
	n.print(n.fail, title, description)
}

func (n *Notices) print(c *color.Color, title, description string) {
	if description == "" {
		fmt.Fprintln(n.w, c.Sprint(title))
		return
	}
	fmt.Fprintf(n.w, "%s: %s\n", c.Sprint(title), description)
}
