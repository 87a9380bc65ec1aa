// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for ctlshgen.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables progress logging on stderr
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "ctlshgen [flags] CMDREF_FILE",
		Short: "Generate the ctlsh command dispatch table",
		Long: TitleStyle.Render("ctlshgen") + SubtitleStyle.Render(" - ctlsh dispatch table generator") + `

ctlshgen reads the command-reference database that the suite daemons emit
at build time and generates the C source the unified shell (ctlsh) uses to
dispatch commands: one canonical DEFSH record per distinct command, plus
the ctlsh_init_cmd() function binding commands to CLI nodes.

Near-duplicate definitions from different daemons are merged; conflicts
are reported as compiler-style warnings on stderr and never abort the
run. Output is byte-identical for any ordering of the input database.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable progress logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+configFileName+")")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write generated source to file (default stdout)")
	rootCmd.Flags().StringVar(&nodesHeader, "nodes-header", "", "shell header defining enum node_type")
	rootCmd.Flags().StringVar(&daemonMapPath, "daemon-map", "", "TOML file replacing the embedded lib/ ownership table")
	rootCmd.Flags().BoolVar(&werror, "werror", false, "exit nonzero if any warning was emitted")

	rootCmd.AddCommand(formatDocsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
