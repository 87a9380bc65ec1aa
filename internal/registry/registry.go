// SPDX-License-Identifier: MPL-2.0

// Package registry builds the deduplicated per-node command tables from a
// command-reference database. It owns command identity (normalized syntax
// keys), the management-daemon override, merge semantics, and the global
// registration order consumed by output emission.
package registry

import (
	"ctlshgen/internal/cmdref"
	"ctlshgen/internal/daemons"
	"ctlshgen/internal/diag"
	"ctlshgen/internal/nodenames"
)

const (
	// mgmtOrigin is the management daemon's northbound plugin. When it
	// publishes a YANG-backed variant of a command, that variant owns the
	// command exclusively.
	mgmtOrigin = "mgmtd/libmgmt_be.la"

	// fabricd reuses isisd's command table wholesale, so its commands
	// collide with isisd's by name. They get a distinguishing prefix.
	aliasOrigin = "isisd/fabricd"
	aliasPrefix = "fabricd_"
)

// Registry holds the per-node command tables and the global registration
// order built during a single load pass.
type Registry struct {
	nodes    map[int]map[string]*Entry
	order    []*Entry
	names    nodenames.Map
	resolver *daemons.Resolver
	rep      *diag.Reporter
}

// New returns an empty Registry using the given node-name map, ownership
// resolver, and warning reporter.
func New(names nodenames.Map, resolver *daemons.Resolver, rep *diag.Reporter) *Registry {
	return &Registry{
		nodes:    make(map[int]map[string]*Entry),
		names:    names,
		resolver: resolver,
		rep:      rep,
	}
}

// Load processes every command in the database. Map iteration order does
// not matter: all output ordering is recomputed at emission time, so
// loading the same database in any order produces identical results.
func (r *Registry) Load(db *cmdref.Database) {
	for name, origins := range db.CLI {
		// A YANG-backed management variant handles the command alone.
		// Daemons still compile their own definitions for standalone
		// operation, and those also land in the database; the shell must
		// not see them.
		if spec, ok := managementVariant(origins); ok {
			r.process(name, mgmtOrigin, spec)
			continue
		}
		for origin, spec := range origins {
			r.process(name, origin, spec)
		}
	}
}

// process handles a single origin's definition: filters, alias renaming,
// ownership resolution, then insertion or merge per target CLI node.
func (r *Registry) process(name, origin string, spec cmdref.Spec) {
	if spec.HasAttr(cmdref.AttrNoShell) {
		return
	}
	if daemons.IsShellOrigin(origin) {
		return
	}

	name = aliasedName(origin, name)

	flags := r.resolver.Resolve(name, origin, spec.Defun.File)
	if len(flags) == 0 {
		// Nothing owns it; not an error. lib/ files without a table entry
		// deliberately contribute no shell commands.
		return
	}

	entry := newEntry(origin, name, spec, flags, r.rep)
	for _, ref := range spec.Nodes {
		table := r.nodes[ref.Node]
		if table == nil {
			table = make(map[string]*Entry)
			r.nodes[ref.Node] = table
		}

		if existing, ok := table[entry.Key]; ok {
			existing.merge(entry, r.names.Name(ref.Node), r.rep)
			continue
		}
		table[entry.Key] = entry
		r.register(entry)
	}
}

// register appends the entry to the global output list, exactly once no
// matter how many nodes it is installed into.
func (r *Registry) register(e *Entry) {
	if e.registered {
		return
	}
	e.registered = true
	r.order = append(r.order, e)
}

// managementVariant returns the management daemon's YANG-backed definition
// for a command, if one exists among the origins.
func managementVariant(origins map[string]cmdref.Spec) (cmdref.Spec, bool) {
	spec, ok := origins[mgmtOrigin]
	if !ok || !spec.HasAttr(cmdref.AttrYang) {
		return cmdref.Spec{}, false
	}
	return spec, true
}

// aliasedName rewrites the canonical identifier for origins that share
// another daemon's command table.
func aliasedName(origin, name string) string {
	if origin == aliasOrigin {
		return aliasPrefix + name
	}
	return name
}

// Registered returns all globally registered entries in registration order.
// The caller must not mutate the returned slice's entries.
func (r *Registry) Registered() []*Entry {
	out := make([]*Entry, len(r.order))
	copy(out, r.order)
	return out
}

// NodeIDs returns the ids of all CLI nodes holding at least one command,
// in no particular order.
func (r *Registry) NodeIDs() []int {
	ids := make([]int, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	return ids
}

// NodeName returns the symbolic name for a node id.
func (r *Registry) NodeName(id int) string {
	return r.names.Name(id)
}

// NodeEntries returns the entries installed in a node, in no particular
// order.
func (r *Registry) NodeEntries(id int) []*Entry {
	table := r.nodes[id]
	out := make([]*Entry, 0, len(table))
	for _, e := range table {
		out = append(out, e)
	}
	return out
}
