// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestWarnFormat(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false)

	rep.Warn("lib/filter.c", 120, "access_list", "docstring does not end with \\n")

	want := "lib/filter.c:120: access_list: docstring does not end with \\n\n"
	if buf.String() != want {
		t.Errorf("Warn output = %q, want %q", buf.String(), want)
	}
	if rep.Count() != 1 {
		t.Errorf("Count() = %d, want 1", rep.Count())
	}
}

func TestWarnMultiline(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false)

	rep.Warn("bgpd/bgp_vty.c", 7, "[CONFIG_NODE] router_bgp", "first line\nsecond line\n")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if lines[0] != "bgpd/bgp_vty.c:7: [CONFIG_NODE] router_bgp: first line" {
		t.Errorf("first line = %q", lines[0])
	}
	// Every line keeps the location prefix so each is independently
	// parseable by editors.
	if lines[1] != "bgpd/bgp_vty.c:7-    second line" {
		t.Errorf("continuation line = %q", lines[1])
	}
	if rep.Count() != 1 {
		t.Errorf("Count() = %d, want 1 (one warning, two lines)", rep.Count())
	}
}

func TestDiffIndentsAndDoesNotCount(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false)

	rep.Diff("--- a:1\n+++ b:2\n-old line\n+new line\n")

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if !strings.HasPrefix(line, "\t") {
			t.Errorf("diff line not indented: %q", line)
		}
	}
	if rep.Count() != 0 {
		t.Errorf("Count() = %d, want 0 (diff output is informational)", rep.Count())
	}
}

func TestDiffColor(t *testing.T) {
	var plain, colored bytes.Buffer
	NewReporter(&plain, false).Diff("+added\n-removed\n context\n")
	NewReporter(&colored, true).Diff("+added\n-removed\n context\n")

	if plain.String() == colored.String() {
		t.Skip("color profile renders no escape sequences in this environment")
	}
	if !strings.Contains(colored.String(), "+added") {
		t.Errorf("colored diff lost content: %q", colored.String())
	}
}
