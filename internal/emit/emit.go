// SPDX-License-Identifier: MPL-2.0

// Package emit serializes a loaded registry into the generated C source the
// shell compiles in. Two passes over frozen state: one DEFSH record per
// registered command, then the ctlsh_init_cmd installation function. All
// ordering is computed here from stable sort keys so that output is
// byte-identical regardless of how the input database was ordered.
package emit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"ctlshgen/internal/registry"
)

// preamble heads every generated file.
const preamble = `/* autogenerated file, DO NOT EDIT! */
#include <suite.h>

#include "command.h"
#include "list.h"

#include "ctlsh/ctlsh.h"
`

var cEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Write renders the complete output for a loaded registry.
func Write(w io.Writer, reg *registry.Registry) error {
	_, err := io.WriteString(w, Generate(reg))
	return err
}

// Generate returns the complete generated source as a string.
func Generate(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString(preamble)
	writeDefinitions(&b, reg)
	writeInstall(&b, reg)
	return b.String()
}

// writeDefinitions emits one DEFSH record per registered command, sorted by
// canonical name. Names are unique after merging, so the order is total.
func writeDefinitions(b *strings.Builder, reg *registry.Registry) {
	entries := reg.Registered()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	for _, e := range entries {
		b.WriteString(definition(e))
	}
}

// definition renders a single DEFSH record.
func definition(e *registry.Entry) string {
	docLines := make([]string, len(e.DocLines))
	for i, line := range e.DocLines {
		docLines[i] = "\t\"" + cEscaper.Replace(line) + "\""
	}

	variant := "DEFSH"
	if e.Hidden {
		variant = "DEFSH_HIDDEN"
	}

	return fmt.Sprintf("\n%s (%s, %s_ctlsh,\n\t\"%s\",\n%s)\n",
		variant, daemonTokens(e), e.Name, cEscaper.Replace(e.Cmd),
		strings.Join(docLines, "\n"))
}

// daemonTokens flattens the entry's daemon-flag expressions into one sorted
// "|"-joined token string. Expressions may themselves be composites, so they
// are split and re-deduplicated: two equivalent ownership unions serialize
// identically whatever order they were collected in.
func daemonTokens(e *registry.Entry) string {
	tokens := make(map[string]struct{})
	for expr := range e.Daemons {
		for _, tok := range strings.Split(expr, "|") {
			tokens[tok] = struct{}{}
		}
	}
	list := maps.Keys(tokens)
	sort.Strings(list)
	return strings.Join(list, "|")
}

// writeInstall emits the installation function: nodes sorted by symbolic
// name, entries within a node sorted by canonical name.
func writeInstall(b *strings.Builder, reg *registry.Registry) {
	b.WriteString("\nvoid ctlsh_init_cmd(void)\n{\n")

	ids := reg.NodeIDs()
	sort.Slice(ids, func(i, j int) bool {
		return reg.NodeName(ids[i]) < reg.NodeName(ids[j])
	})

	for _, id := range ids {
		entries := reg.NodeEntries(id)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
		for _, e := range entries {
			fmt.Fprintf(b, "\tinstall_element(%s, &%s_ctlsh);\n", reg.NodeName(id), e.Name)
		}
	}

	b.WriteString("}\n")
}
