// SPDX-License-Identifier: MPL-2.0

// Package daemons decides which backend daemon(s) own a command, based on
// where the command was defined. The shell needs this to know where to
// forward each command at runtime.
//
// Ownership falls out of the origin for daemon code (the module path names
// the daemon), but shared code under lib/ is compiled into many daemons, so
// its ownership comes from a maintained table (daemonmap.toml).
package daemons

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FlagPrefix starts every daemon-flag token, e.g. CTLSH_BGPD.
const FlagPrefix = "CTLSH_"

// shellName is the basename of the unified shell's own module; its internal
// commands are never forwarded through the generated table.
const shellName = "ctlsh"

//go:embed daemonmap.toml
var defaultTable []byte

type (
	// FamilyEntry holds the two ownership expressions for a lib/ file whose
	// commands split between the IPv4 and IPv6 daemon sets.
	FamilyEntry struct {
		IPv4 string `toml:"ipv4"`
		IPv6 string `toml:"ipv6"`
	}

	// Table is the immutable lib/ ownership table. Files maps a lib/ source
	// file to its daemon-flag expression; Family holds the per-file
	// address-family splits.
	Table struct {
		Files  map[string]string      `toml:"files"`
		Family map[string]FamilyEntry `toml:"family"`
	}

	// Resolver maps command definitions to owning daemon-flag expressions.
	Resolver struct {
		table Table
	}
)

// DefaultTable returns the table embedded in the binary.
func DefaultTable() Table {
	var t Table
	if err := toml.Unmarshal(defaultTable, &t); err != nil {
		// The embedded table ships with the binary; failing to parse it is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded daemon table is invalid: %v", err))
	}
	return t
}

// LoadTable reads an ownership table from a TOML file, for builds that
// maintain their own copy outside the generator.
func LoadTable(tablePath string) (Table, error) {
	data, err := os.ReadFile(tablePath)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read daemon table: %w", err)
	}
	var t Table
	if err := toml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("%s: invalid daemon table: %w", tablePath, err)
	}
	return t, nil
}

// NewResolver returns a Resolver backed by the given table. The table is
// not copied; callers must not mutate it afterwards.
func NewResolver(t Table) *Resolver {
	return &Resolver{table: t}
}

// Resolve returns the set of daemon-flag expressions owning the command, or
// an empty set meaning the command does not belong in the shell at all. Each
// expression is opaque here; "|"-composites are split and deduplicated at
// output time.
//
// name is the (possibly alias-prefixed) command identifier, origin the
// defining module's path, and defunFile the source file of the definition
// relative to the suite root.
func (r *Resolver) Resolve(name, origin, defunFile string) map[string]struct{} {
	if IsShellOrigin(origin) {
		return nil
	}

	if topDir(defunFile) != "lib" {
		return setOf(moduleFlag(origin))
	}

	if expr, ok := r.table.Files[defunFile]; ok {
		return setOf(expr)
	}
	if fam, ok := r.table.Family[defunFile]; ok {
		return setOf(familyExpression(fam, name))
	}
	return nil
}

// IsShellOrigin reports whether origin is the unified shell module itself.
func IsShellOrigin(origin string) bool {
	return path.Base(origin) == shellName
}

// moduleFlag derives the single daemon-flag token for a command defined in
// daemon or loadable-module code. Daemon modules have no dot in their
// basename and name the daemon directly; loadable modules (shared objects,
// plugin archives) are owned by the daemon whose directory contains them.
func moduleFlag(origin string) string {
	base := path.Base(origin)
	if !strings.Contains(base, ".") {
		return FlagPrefix + strings.ToUpper(base)
	}
	return FlagPrefix + strings.ToUpper(path.Base(path.Dir(origin)))
}

// familyExpression picks the v6 ownership expression when the command
// identifier marks itself as IPv6, else the v4 one.
func familyExpression(fam FamilyEntry, name string) string {
	if strings.Contains(name, "ipv6") {
		return fam.IPv6
	}
	return fam.IPv4
}

func topDir(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

func setOf(expr string) map[string]struct{} {
	return map[string]struct{}{expr: {}}
}
