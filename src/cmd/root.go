// Package cmd wires the command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDebug bool
	flagMode  string
)

var rootCmd = &cobra.Command{
	Use:   "selection-capture",
	Short: "Detect text-selection gestures and capture the selected text",
	Long: `selection-capture watches pointer telemetry for text-selection
gestures, filters out window operations and UI clicks, and retrieves the
selected text through a prioritized chain of extraction strategies.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", "detection mode: pure, hybrid, conservative or adaptive")
}
