// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed cmdref_format.md
var cmdrefFormatDoc string

var formatDocsCmd = &cobra.Command{
	Use:   "format-docs",
	Short: "Show the command-reference database format",
	Long:  "Renders the reference documentation for the cmdref database format and the recognized attribute tags.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := renderer.Render(cmdrefFormatDoc)
		if err != nil {
			return fmt.Errorf("failed to render documentation: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
