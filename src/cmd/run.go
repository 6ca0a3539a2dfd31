package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"selection-capture/src/accessibility"
	"selection-capture/src/classifier"
	"selection-capture/src/clipboard"
	"selection-capture/src/config"
	"selection-capture/src/display"
	"selection-capture/src/eventloop"
	"selection-capture/src/extract"
	"selection-capture/src/hook"
	"selection-capture/src/instance"
	"selection-capture/src/keysynth"
	"selection-capture/src/logutil"
	"selection-capture/src/profile"
	"selection-capture/src/session"
	"selection-capture/src/stats"
	"selection-capture/src/validator"
	"selection-capture/src/winmon"
)

// lastCapture remembers the most recent selection so the resident can answer
// instance queries, forwarding every outcome to the wrapped target.
type lastCapture struct {
	mu    sync.Mutex
	text  string
	seen  bool
	inner eventloop.Target
}

func (l *lastCapture) OnText(text string) {
	l.mu.Lock()
	l.text = text
	l.seen = true
	l.mu.Unlock()
	l.inner.OnText(text)
}

func (l *lastCapture) OnNoText(reason string) {
	l.inner.OnNoText(reason)
}

func (l *lastCapture) last() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text, l.seen
}

var flagStdout bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the resident selection watcher",
	RunE:  runWatcher,
}

func init() {
	runCmd.Flags().BoolVar(&flagStdout, "stdout", false, "print captured selections to stdout")
	rootCmd.AddCommand(runCmd)
}

func runWatcher(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ModeOverride:  flagMode,
		DebugOverride: flagDebug,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logutil.New(cfg.Debug, cfg.EnableFileLogging)
	defer func() { _ = logger.Sync() }()

	if port, found := instance.DetectResident(cmd.Context()); found {
		return fmt.Errorf("another instance is already running (port %d)", port)
	}

	logger.Info("selection-capture starting",
		zap.String("mode", string(cfg.Mode)),
		zap.Float64("sensitivity", cfg.Sensitivity),
		zap.Float64("delay_sec", cfg.DelaySec))

	board, err := clipboard.Init()
	if err != nil {
		return fmt.Errorf("initialize clipboard: %w", err)
	}
	defer board.Close()

	registry := profile.NewRegistry(logger)
	if cfg.ProfileOverridesPath != "" {
		overrides, err := profile.LoadOverrides(cfg.ProfileOverridesPath)
		if err != nil {
			logger.Warn("could not load profile overrides", zap.Error(err))
		} else {
			registry.ApplyOverrides(overrides)
		}
	}

	var store *stats.Store
	if cfg.StatsDBPath != "" {
		store, err = stats.OpenStore(cfg.StatsDBPath)
		if err != nil {
			logger.Warn("could not open statistics store", zap.Error(err))
		} else {
			defer store.Close()
		}
	}
	recorder := stats.NewRecorder(store, logger)

	// The platform accessibility bridge is an external collaborator; until
	// one is attached the introspection and menu tiers fail through to the
	// clipboard-based fallbacks.
	var provider accessibility.Provider = accessibility.Unavailable{}
	var surface accessibility.CommandSurface = accessibility.Unavailable{}

	keyCopy := extract.KeyCopy{Board: board, Synth: keysynth.New(), Logger: logger}
	orchestrator := extract.NewOrchestrator(extract.Options{
		Registry: registry,
		Recorder: recorder,
		Adaptive: cfg.Mode == config.ModeAdaptive,
		Logger:   logger,
		Strategies: []extract.Strategy{
			extract.Introspection{Provider: provider},
			extract.NewAppSpecific(provider, keyCopy),
			extract.MenuCopy{Surface: surface, Board: board, Logger: logger},
			keyCopy,
		},
	})

	cls := classifier.New(classifier.Options{
		EdgeMargin:           cfg.EdgeMargin,
		MaxSelectionDistance: cfg.MaxSelectionDistance,
		MinUIDistance:        cfg.MinUIDistance,
		Sensitivity:          cfg.Sensitivity,
		Bounds:               display.Bounds,
	})

	monitor := winmon.New(logger)
	sess := session.New(logger)

	var inner eventloop.Target = eventloop.LogTarget{Logger: logger}
	if flagStdout {
		inner = eventloop.StdoutTarget{}
	}
	target := &lastCapture{inner: inner}

	loop := eventloop.New(eventloop.Options{
		Config:       cfg,
		Session:      sess,
		Monitor:      monitor,
		Validator:    validator.New(cls, monitor, cfg.Mode, logger),
		Orchestrator: orchestrator,
		Target:       target,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	endpoint := instance.NewServer(target.last, logger)
	if err := endpoint.Start(ctx); err != nil {
		logger.Warn("instance endpoint unavailable", zap.Error(err))
	} else {
		defer endpoint.Close()
	}

	monitor.StartRefresher(ctx, winmon.ProcessProber{}, 2*time.Second)
	hook.Start(ctx, loop.Post, logger)

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("selection-capture stopped")
	return nil
}
