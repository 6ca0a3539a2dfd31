package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"selection-capture/src/instance"
)

// lastCmd queries the resident watcher for its most recent capture, useful
// from scripts without touching the clipboard.
var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the most recently captured selection from the running watcher",
	RunE:  printLast,
}

func init() {
	rootCmd.AddCommand(lastCmd)
}

func printLast(cmd *cobra.Command, args []string) error {
	text, resident, err := instance.QueryLast(cmd.Context())
	if !resident {
		return fmt.Errorf("no running watcher found (start one with %q)", "selection-capture run")
	}
	if errors.Is(err, instance.ErrNoCapture) {
		return fmt.Errorf("nothing captured yet")
	}
	if err != nil {
		return fmt.Errorf("query watcher: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
