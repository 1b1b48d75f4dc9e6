package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// brand prefixes every notice.
const brand = "[BDupdater] "

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}

// Warning prints a yellow notice.
func Warning(w io.Writer, format string, args ...any) {
	notice(w, color.New(color.FgYellow), format, args...)
}

// Success prints a green notice.
func Success(w io.Writer, format string, args ...any) {
	notice(w, color.New(color.FgGreen), format, args...)
}

// MissingTools lists tools that were not found on PATH.
func MissingTools(w io.Writer, tools []string) {
	Warning(w, "Missing tools detected:")

	bullet := color.New(color.FgRed, color.Bold)
	for _, tool := range tools {
		_, _ = bullet.Fprint(w, "  - ")
		_, _ = fmt.Fprintln(w, tool)
	}
}

func notice(w io.Writer, c *color.Color, format string, args ...any) {
	_, _ = color.New(color.FgCyan, color.Bold).Fprint(w, brand)
	_, _ = c.Fprintf(w, format+"\n", args...)
}
