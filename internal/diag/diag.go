// SPDX-License-Identifier: MPL-2.0

// Package diag implements the warning stream for the generator. Warnings are
// printed in compiler style ("file:line: ...") so editors and IDEs can jump
// to the offending command definition. All warnings are non-fatal; the
// accumulated count only matters at exit time under --werror.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Reporter accumulates warnings and writes them to a single stream,
// conventionally stderr. It is not safe for concurrent use; the generator
// is a single-threaded batch run.
type Reporter struct {
	w        io.Writer
	color    bool
	warnings int
}

// NewReporter returns a Reporter writing to w. Color applies only to diff
// output; the location-prefixed message lines are always plain text.
func NewReporter(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, color: color}
}

// ColorEnabled reports whether f is an interactive terminal, the condition
// under which diff highlighting is worth emitting.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Warn writes one warning anchored at file:line. The subject (typically the
// command name, optionally tagged with the CLI node) appears between the
// location and the text. Multi-line text keeps the location prefix on every
// line so each remains independently parseable; continuation lines are
// marked with "-    " in place of the subject.
func (r *Reporter) Warn(file string, line int, subject, text string) {
	prefix := ": " + subject + ":"
	for _, msgLine := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(r.w, "%s:%d%s %s\n", file, line, prefix, msgLine)
		prefix = "-   "
	}
	r.warnings++
}

// Diff writes pre-rendered diff text indented one tab per line, coloring
// added (+) and removed (-) lines when color is enabled. Diff output is
// informational and does not count as a warning by itself.
func (r *Reporter) Diff(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if r.color {
			switch {
			case strings.HasPrefix(line, "+"):
				line = addedStyle.Render(line)
			case strings.HasPrefix(line, "-"):
				line = removedStyle.Render(line)
			}
		}
		fmt.Fprintf(r.w, "\t%s\n", line)
	}
}

// Count returns the number of warnings emitted so far.
func (r *Reporter) Count() int {
	return r.warnings
}
