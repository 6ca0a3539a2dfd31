package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/profile"
	"selection-capture/src/stats"
)

// Orchestrator walks the strategy chain for one validated gesture. Tier
// failures are logged and recovered; only the aggregate ErrNoText outcome
// reaches the caller. Interactions are serialized upstream, so at most one
// attempt manipulates the clipboard at a time.
type Orchestrator struct {
	registry   *profile.Registry
	recorder   *stats.Recorder
	strategies map[profile.Method]Strategy
	adaptive   bool
	logger     *zap.Logger
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Registry *profile.Registry
	Recorder *stats.Recorder
	// Adaptive enables statistics-driven reordering of the profile's
	// strategy chain.
	Adaptive   bool
	Strategies []Strategy
	Logger     *zap.Logger
}

func NewOrchestrator(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		registry:   opts.Registry,
		recorder:   opts.Recorder,
		strategies: make(map[profile.Method]Strategy, len(opts.Strategies)),
		adaptive:   opts.Adaptive,
		logger:     logger,
	}
	for _, s := range opts.Strategies {
		o.strategies[s.Method()] = s
	}
	return o
}

// Extract runs the tiers in profile (or statistically best) order until one
// yields non-empty text. Returns ErrNoText when all tiers are exhausted.
func (o *Orchestrator) Extract(ctx context.Context, ec *Context) (string, error) {
	prof := profile.DefaultProfile()
	if o.registry != nil {
		prof = o.registry.Resolve(ec.App)
	}
	if ec.Gate == (profile.Gate{}) {
		ec.Gate = prof.Gate
	}

	order := prof.Methods
	if o.adaptive && o.recorder != nil {
		order = o.recorder.Order(ec.App, prof.Methods)
	}

	for _, method := range order {
		if !prof.Allows(method) {
			continue
		}
		strategy, ok := o.strategies[method]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		start := time.Now()
		text, err := strategy.Attempt(ctx, ec)
		elapsed := time.Since(start)

		if errors.Is(err, ErrGestureEvidence) {
			// Gated out, not invoked: no statistics entry.
			o.logger.Debug("extraction tier gated out",
				zap.String("app", ec.App),
				zap.String("method", string(method)))
			continue
		}

		success := err == nil && strings.TrimSpace(text) != ""
		if o.recorder != nil {
			o.recorder.Record(stats.Attempt{
				App:      ec.App,
				Method:   method,
				Success:  success,
				Duration: elapsed,
			})
		}

		if success {
			o.logger.Info("text extracted",
				zap.String("app", ec.App),
				zap.String("method", string(method)),
				zap.Int("length", len(text)),
				zap.Duration("elapsed", elapsed))
			return text, nil
		}

		o.logger.Debug("extraction tier failed",
			zap.String("app", ec.App),
			zap.String("method", string(method)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	}

	return "", ErrNoText
}
