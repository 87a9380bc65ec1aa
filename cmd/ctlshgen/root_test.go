// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const testHeader = `
enum node_type {
	AUTH_NODE,
	VIEW_NODE,
	CONFIG_NODE,
};
`

const testDatabase = `{
  "cli": {
    "show_thing": {
      "bgpd/bgpd": {
        "string": "show thing $arg",
        "doc": "Show\nThing\n",
        "defun": {"file": "bgpd/bgp_vty.c", "line": 42},
        "nodes": [{"node": 1}]
      }
    }
  }
}`

const testDatabaseWarning = `{
  "cli": {
    "show_thing": {
      "bgpd/bgpd": {
        "string": "show thing $arg",
        "doc": "Show\nThing",
        "defun": {"file": "bgpd/bgp_vty.c", "line": 42},
        "nodes": [{"node": 1}]
      }
    }
  }
}`

func writeInputs(t *testing.T, database string) (cmdrefPath, headerPath string) {
	t.Helper()
	dir := t.TempDir()
	cmdrefPath = filepath.Join(dir, "suite.cmdref")
	headerPath = filepath.Join(dir, "command.h")
	if err := os.WriteFile(cmdrefPath, []byte(database), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(headerPath, []byte(testHeader), 0o644); err != nil {
		t.Fatal(err)
	}
	return cmdrefPath, headerPath
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Chdir(t.TempDir()) // keep any local ctlshgen.cue out of the test

	// rootCmd is a package singleton; flag state survives Execute calls
	// and must not leak between tests.
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			}
		})
	}
	reset(rootCmd.Flags())
	reset(rootCmd.PersistentFlags())

	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	return rootCmd.Execute()
}

func TestRootGeneratesOutput(t *testing.T) {
	cmdrefPath, headerPath := writeInputs(t, testDatabase)
	outPath := filepath.Join(t.TempDir(), "gen.c")

	err := runRoot(t, "--nodes-header", headerPath, "-o", outPath, cmdrefPath)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if !strings.Contains(text, "DEFSH (CTLSH_BGPD, show_thing_ctlsh,") {
		t.Errorf("output missing definition:\n%s", text)
	}
	if !strings.Contains(text, "install_element(VIEW_NODE, &show_thing_ctlsh);") {
		t.Errorf("output missing install line:\n%s", text)
	}
}

func TestRootWerror(t *testing.T) {
	cmdrefPath, headerPath := writeInputs(t, testDatabaseWarning)
	outPath := filepath.Join(t.TempDir(), "gen.c")

	err := runRoot(t, "--nodes-header", headerPath, "--werror", "-o", outPath, cmdrefPath)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Execute() error = %v, want *ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}

	// Fail-at-end: output is still written despite the warning.
	if _, statErr := os.Stat(outPath); statErr != nil {
		t.Errorf("output file not written under --werror: %v", statErr)
	}
}

func TestRootWarningsWithoutWerror(t *testing.T) {
	cmdrefPath, headerPath := writeInputs(t, testDatabaseWarning)
	outPath := filepath.Join(t.TempDir(), "gen.c")

	if err := runRoot(t, "--nodes-header", headerPath, "-o", outPath, cmdrefPath); err != nil {
		t.Fatalf("Execute() error = %v, warnings alone must not fail", err)
	}
}

func TestRootMissingInput(t *testing.T) {
	_, headerPath := writeInputs(t, testDatabase)
	if err := runRoot(t, "--nodes-header", headerPath, filepath.Join(t.TempDir(), "missing.cmdref")); err == nil {
		t.Error("Execute() error = nil, want error for missing input file")
	}
}
