// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ctlshgen/internal/cmdref"
	"ctlshgen/internal/config"
	"ctlshgen/internal/daemons"
	"ctlshgen/internal/diag"
	"ctlshgen/internal/emit"
	"ctlshgen/internal/nodenames"
	"ctlshgen/internal/registry"
)

const configFileName = config.FileName

var (
	outputPath    string
	nodesHeader   string
	daemonMapPath string
	werror        bool
)

// runGenerate is the whole batch pipeline: load config, parse inputs, build
// the deduplicated registry, emit. Warnings accumulate on stderr throughout
// and only matter at the very end, under --werror; output is written even
// when warnings occurred.
func runGenerate(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ctlshgen"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("nodes-header") {
		cfg.NodesHeader = nodesHeader
	}
	if cmd.Flags().Changed("daemon-map") {
		cfg.DaemonMap = daemonMapPath
	}
	if cmd.Flags().Changed("werror") {
		cfg.Werror = werror
	}

	db, err := cmdref.Parse(args[0])
	if err != nil {
		return err
	}
	logger.Debug("parsed command database", "path", args[0], "commands", len(db.CLI))

	names, err := nodenames.ParseFile(cfg.NodesHeader)
	if err != nil {
		return err
	}
	logger.Debug("parsed node names", "path", cfg.NodesHeader, "nodes", len(names))

	table := daemons.DefaultTable()
	if cfg.DaemonMap != "" {
		if table, err = daemons.LoadTable(cfg.DaemonMap); err != nil {
			return err
		}
		logger.Debug("loaded daemon table", "path", cfg.DaemonMap)
	}

	rep := diag.NewReporter(os.Stderr, diag.ColorEnabled(os.Stderr))
	reg := registry.New(names, daemons.NewResolver(table), rep)
	reg.Load(db)

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := emit.Write(out, reg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Debug("generated dispatch table",
		"commands", len(reg.Registered()), "warnings", rep.Count())

	if cfg.Werror && rep.Count() > 0 {
		return &ExitError{
			Code: 1,
			Err:  fmt.Errorf("%d warning(s) emitted with --werror in effect", rep.Count()),
		}
	}
	return nil
}
