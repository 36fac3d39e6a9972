package main

import (
	"os"

	"github.com/spf13/cobra"

	"pasnav/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree [dir]",
	Short: "Print the project tree with per-file statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().Bool("includes", false, "list include files under each unit")
	treeCmd.Flags().Int("width", 0, "truncate lines to this display width (0 = no limit)")
}

func runTree(cmd *cobra.Command, args []string) error {
	proj, bag, err := loadProject(cmd, args)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, proj, bag)

	includes, _ := cmd.Flags().GetBool("includes")
	width, _ := cmd.Flags().GetInt("width")
	ui.PrintTree(cmd.OutOrStdout(), proj.Root(), ui.TreeOpts{
		Color:    useColor(cmd, os.Stdout),
		Width:    width,
		Includes: includes,
	})
	return nil
}
