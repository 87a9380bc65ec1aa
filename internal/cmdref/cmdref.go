// SPDX-License-Identifier: MPL-2.0

// Package cmdref models the command-reference database that every daemon in
// the suite emits at build time. The database is a JSON document keyed by
// command name, then by the origin module that defined the command.
package cmdref

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"ctlshgen/internal/cueutil"
)

// Attribute tags recognized on command definitions.
const (
	// AttrHidden marks a command that is installed but not shown in help.
	AttrHidden = "hidden"
	// AttrNoShell excludes a command from the unified shell entirely.
	AttrNoShell = "nosh"
	// AttrYang marks a management-daemon command backed by its YANG model.
	AttrYang = "yang"
)

//go:embed cmdref_schema.cue
var cmdrefSchema string

type (
	// Location is the source position of a command definition.
	Location struct {
		File string `json:"file"`
		Line int    `json:"line"`
	}

	// NodeRef names one CLI node a command is installed into, by numeric id.
	NodeRef struct {
		Node int `json:"node"`
	}

	// Spec is one origin's definition of a command: its syntax string, help
	// text, attribute tags, defining source location, and target CLI nodes.
	Spec struct {
		String string    `json:"string"`
		Doc    string    `json:"doc"`
		Attrs  []string  `json:"attrs,omitempty"`
		Defun  Location  `json:"defun"`
		Nodes  []NodeRef `json:"nodes,omitempty"`
	}

	// Database is the parsed command-reference file. CLI maps command name
	// to the set of origins that defined it.
	Database struct {
		CLI map[string]map[string]Spec `json:"cli"`
	}
)

// HasAttr reports whether the spec carries the given attribute tag.
func (s Spec) HasAttr(attr string) bool {
	return slices.Contains(s.Attrs, attr)
}

// String renders a location in compiler-message form.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Parse reads and validates a command-reference database from path.
func Parse(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cmdref file: %w", err)
	}
	return ParseBytes(data, path)
}

// ParseBytes validates database content against the embedded schema and
// decodes it. The path is used in error messages only.
func ParseBytes(data []byte, path string) (*Database, error) {
	db, err := cueutil.Decode[Database](cmdrefSchema, data, "#Database", path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
