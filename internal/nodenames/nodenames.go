// SPDX-License-Identifier: MPL-2.0

// Package nodenames extracts the symbolic CLI node names from the shell's
// command header. Node ids in the command-reference database are the
// positions of the enumerators in `enum node_type`, so the names are
// recovered by order of appearance, starting at 0.
package nodenames

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	enumPattern   = regexp.MustCompile(`(?s)enum\s+node_type\s*\{(.*?)\}`)
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComments  = regexp.MustCompile(`(?m)//.*$`)
)

// Map maps a numeric CLI node id to its symbolic name.
type Map map[int]string

// Name returns the symbolic name for a node id, falling back to the decimal
// form for ids not present in the header. The fallback keeps output emission
// working (and sorting deterministic) if the header and database drift.
func (m Map) Name(id int) string {
	if name, ok := m[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// ParseFile extracts node names from the shell command header at path.
func ParseFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node header: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse extracts node names from header source text.
func Parse(src []byte) (Map, error) {
	match := enumPattern.FindSubmatch(src)
	if match == nil {
		return nil, fmt.Errorf("no 'enum node_type' definition found")
	}

	body := string(match[1])
	body = blockComments.ReplaceAllString(body, "")
	body = lineComments.ReplaceAllString(body, "")
	body = strings.ReplaceAll(body, ",", " ")

	m := make(Map)
	for i, name := range strings.Fields(body) {
		m[i] = name
	}
	return m, nil
}
