// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"ctlshgen/internal/cmdref"
	"ctlshgen/internal/diag"
)

// Entry is the canonical record for one deduplicated command.
//
// One definition creates at most one Entry, even when the command is
// installed into several CLI nodes (BGP address-family nodes are the usual
// case). Within a node, definitions with the same normalized syntax are
// merged into a single Entry: ospfd and ospf6d define some identical
// route-map commands, and those must collapse to one record for dispatch
// to work.
//
// Entries are mutable only during the load phase; emission never mutates.
type Entry struct {
	// Origin is the module that first contributed this entry.
	Origin string
	// Name is the canonical identifier, used for output symbols and sort
	// order. Merging may replace it (shortest-then-lexicographic wins) so
	// the choice is independent of input order.
	Name string
	// Cmd is the raw syntax string as first defined.
	Cmd string
	// Key is Normalize(Cmd).
	Key string
	// Hidden marks commands installed without appearing in help output.
	// On conflicting merges the first-seen value is retained.
	Hidden bool
	// Daemons is the set of owning daemon-flag expressions. Merging only
	// ever grows it.
	Daemons map[string]struct{}
	// DocLines is the help text split into lines, line terminators kept.
	DocLines []string
	// Doc is the raw help text, kept for mismatch comparison.
	Doc string
	// Defun is where the definition lives.
	Defun cmdref.Location

	registered bool
}

// newEntry builds an Entry from one origin's definition. The daemon set
// must already be resolved and non-empty. A help text that does not end in
// a newline gets a warning; the C output quotes each line with its
// terminator, so a missing one produces a subtly broken string constant.
func newEntry(origin, name string, spec cmdref.Spec, daemons map[string]struct{}, rep *diag.Reporter) *Entry {
	e := &Entry{
		Origin:   origin,
		Name:     name,
		Cmd:      spec.String,
		Key:      Normalize(spec.String),
		Hidden:   spec.HasAttr(cmdref.AttrHidden),
		Daemons:  daemons,
		DocLines: splitDocLines(spec.Doc),
		Doc:      spec.Doc,
		Defun:    spec.Defun,
	}
	if len(e.DocLines) == 0 || !strings.HasSuffix(e.DocLines[len(e.DocLines)-1], "\n") {
		e.warn(rep, "", "docstring does not end with \\n")
	}
	return e
}

// warn emits a compiler-style warning anchored at this entry's definition.
// nodeName, when non-empty, tags the warning with the CLI node involved.
func (e *Entry) warn(rep *diag.Reporter, nodeName, text string) {
	subject := e.Name
	if nodeName != "" {
		subject = fmt.Sprintf("[%s] %s", nodeName, e.Name)
	}
	rep.Warn(e.Defun.File, e.Defun.Line, subject, text)
}

// merge folds another definition with the same normalized key (in the same
// CLI node) into this entry. The receiver survives; other is discarded.
// Mismatches in raw syntax, help text, or the hidden flag are warnings,
// never errors: the suite has a handful of long-standing near-duplicate
// definitions that must still generate a working table.
func (e *Entry) merge(other *Entry, nodeName string, rep *diag.Reporter) {
	// Raw syntax may differ in capture names and whitespace; those are the
	// differences normalization exists to erase. Anything beyond that means
	// the two definitions don't actually describe the same command.
	if e.Key != other.Key {
		e.warn(rep, nodeName, fmt.Sprintf("command definition mismatch, first defined as:\n%q", e.Cmd))
		other.warn(rep, nodeName, fmt.Sprintf("later defined as:\n%q", other.Cmd))
	}

	if e.Doc != other.Doc {
		e.warn(rep, nodeName, "help string mismatch, first defined here (-)")
		other.warn(rep, nodeName, fmt.Sprintf(
			"later defined here (+)\nnote: both commands define %q in same node (%s)", e.Cmd, nodeName))
		e.docDiff(other, rep)
	}

	if e.Hidden != other.Hidden {
		e.warn(rep, nodeName, fmt.Sprintf("hidden flag mismatch, first %v here", e.Hidden))
		other.warn(rep, nodeName, fmt.Sprintf(
			"later %v here (+)\nnote: both commands define %q in same node (%s)", other.Hidden, e.Cmd, nodeName))
	}

	// Keep the canonical name deterministic regardless of definition order.
	if shorterOrEqual(other.Name, e.Name) {
		e.Name = other.Name
	}
	for d := range other.Daemons {
		e.Daemons[d] = struct{}{}
	}
}

// docDiff renders the two help texts as a unified diff on the warning
// stream, anchored at both defining locations.
func (e *Entry) docDiff(other *Entry, rep *diag.Reporter) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        e.DocLines,
		B:        other.DocLines,
		FromFile: e.Defun.String(),
		ToFile:   other.Defun.String(),
		Context:  1,
	})
	if err != nil {
		return
	}
	rep.Diff(text)
}

// shorterOrEqual reports whether a sorts before or equal to b under the
// canonical-name tie-break: length first, then lexicographic.
func shorterOrEqual(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a <= b
}

// splitDocLines splits help text into lines, keeping each line's
// terminator (the trailing line may lack one).
func splitDocLines(doc string) []string {
	lines := strings.SplitAfter(doc, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
