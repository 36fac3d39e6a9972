package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pasnav/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pasnav",
	Short: "Pascal source navigator",
	Long:  `pasnav builds a semantic model of a Pascal source tree for definition and reference navigation`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("jobs", 0, "parallel file classification jobs (0 = all CPUs)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the uses pre-scan cache")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	return flag == "on" || (flag == "auto" && isTerminal(f))
}
