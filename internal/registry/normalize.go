// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"regexp"
	"strings"
)

// Slightly different command definitions can still describe the same
// command: whitespace is free-form, and variable-capture tokens ("$name")
// only bind argument values without changing what the command matches.
var (
	collapseWhitespace = regexp.MustCompile(`\s+`)
	varCaptureTokens   = regexp.MustCompile(`\$[a-z][a-z0-9_]*`)
)

// Normalize canonicalizes a command syntax string into its comparison key:
// surrounding whitespace trimmed, internal whitespace runs collapsed to one
// space, variable-capture tokens removed. Two definitions with equal keys
// are treated as the same command within a CLI node.
func Normalize(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	cmd = collapseWhitespace.ReplaceAllString(cmd, " ")
	cmd = varCaptureTokens.ReplaceAllString(cmd, "")
	return cmd
}
