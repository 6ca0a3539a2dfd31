package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"selection-capture/src/classifier"
	"selection-capture/src/config"
	"selection-capture/src/display"
	"selection-capture/src/gesture"
)

var (
	flagFromX, flagFromY float64
	flagToX, flagToY     float64
	flagDurationSec      float64
	flagSensitivity      float64
)

// classifyCmd classifies synthetic telemetry, useful when tuning thresholds
// against a misbehaving application.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a synthetic gesture for threshold debugging",
	RunE:  classifyOnce,
}

func init() {
	classifyCmd.Flags().Float64Var(&flagFromX, "from-x", 0, "pointer-down x")
	classifyCmd.Flags().Float64Var(&flagFromY, "from-y", 0, "pointer-down y")
	classifyCmd.Flags().Float64Var(&flagToX, "to-x", 0, "pointer-up x")
	classifyCmd.Flags().Float64Var(&flagToY, "to-y", 0, "pointer-up y")
	classifyCmd.Flags().Float64Var(&flagDurationSec, "duration", 0.3, "gesture duration in seconds")
	classifyCmd.Flags().Float64Var(&flagSensitivity, "sensitivity", 0, "sensitivity override")
	rootCmd.AddCommand(classifyCmd)
}

func classifyOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	sensitivity := cfg.Sensitivity
	if flagSensitivity > 0 {
		sensitivity = flagSensitivity
	}

	cls := classifier.New(classifier.Options{
		EdgeMargin:           cfg.EdgeMargin,
		MaxSelectionDistance: cfg.MaxSelectionDistance,
		MinUIDistance:        cfg.MinUIDistance,
		Sensitivity:          sensitivity,
		Bounds:               display.Bounds,
	})

	rec := gesture.Record{
		MouseDown: gesture.Point{X: flagFromX, Y: flagFromY},
		MouseUp:   gesture.Point{X: flagToX, Y: flagToY},
		Duration:  time.Duration(flagDurationSec * float64(time.Second)),
	}

	res := cls.Classify(rec)
	fmt.Printf("category:   %s\n", res.Category)
	fmt.Printf("confidence: %.2f\n", res.Confidence)
	fmt.Printf("reason:     %s\n", res.Reason)
	fmt.Printf("distance:   %.1fpx, aspect ratio %.1f, %s\n",
		rec.Distance(), rec.AspectRatio(), rec.Type())
	return nil
}
