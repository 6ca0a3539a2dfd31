package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"selection-capture/src/config"
	"selection-capture/src/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-application extraction success rates",
	RunE:  showStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func showStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.StatsDBPath == "" {
		return fmt.Errorf("no statistics database configured (set STATS_DB)")
	}

	store, err := stats.OpenStore(cfg.StatsDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	recorder := stats.NewRecorder(store, zap.NewNop())
	entries := recorder.Snapshot()
	if len(entries) == 0 {
		fmt.Println("no extraction attempts recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "APPLICATION\tMETHOD\tATTEMPTS\tSUCCESS RATE\tAVG MS")
	for _, e := range entries {
		avg := 0.0
		if e.Attempts > 0 {
			avg = e.TotalMs / float64(e.Attempts)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f%%\t%.1f\n",
			e.App, e.Method, e.Attempts, e.Rate()*100, avg)
	}
	return w.Flush()
}
