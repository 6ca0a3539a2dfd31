// Package eventloop is the single-threaded coordinator: pointer telemetry
// in, validated extraction out. Classification and validation run inline on
// the loop; extraction runs on the worker pool and posts its result back so
// the loop never blocks on the clipboard.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/config"
	"selection-capture/src/extract"
	"selection-capture/src/gesture"
	"selection-capture/src/session"
	"selection-capture/src/validator"
	"selection-capture/src/winmon"
	"selection-capture/src/worker"
)

// Target receives extraction outcomes. It stands in for the out-of-scope
// presentation layer: a rejected gesture or failed extraction produces no
// action, never an error dialog.
type Target interface {
	OnText(text string)
	OnNoText(reason string)
}

// LogTarget records outcomes in the log only.
type LogTarget struct {
	Logger *zap.Logger
}

func (t LogTarget) OnText(text string) {
	t.Logger.Info("selection captured", zap.Int("length", len(text)))
}

func (t LogTarget) OnNoText(reason string) {
	t.Logger.Debug("no selection captured", zap.String("reason", reason))
}

// StdoutTarget prints captured text, one selection per line.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnText(text string) {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, _ = fmt.Fprintln(w, text)
}

func (t StdoutTarget) OnNoText(string) {}

type result struct {
	id     uint64
	text   string
	err    error
	cancel context.CancelFunc
}

// Options wires the loop's collaborators.
type Options struct {
	Config       *config.Config
	Session      *session.Session
	Monitor      *winmon.Monitor
	Validator    *validator.Validator
	Orchestrator *extract.Orchestrator
	Target       Target
	Logger       *zap.Logger
	// Deadline bounds one extraction run. Defaults to 10s.
	Deadline time.Duration
}

// Loop processes interactions strictly serially: the worker pool has a
// single slot, so at most one extraction manipulates the clipboard at a
// time.
type Loop struct {
	cfg          *config.Config
	sess         *session.Session
	monitor      *winmon.Monitor
	validator    *validator.Validator
	orchestrator *extract.Orchestrator
	target       Target
	logger       *zap.Logger
	deadline     time.Duration

	pool    *worker.Pool
	events  chan gesture.Event
	results chan result
}

func New(opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	target := opts.Target
	if target == nil {
		target = LogTarget{Logger: logger}
	}
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = 10 * time.Second
	}

	l := &Loop{
		cfg:          opts.Config,
		sess:         opts.Session,
		monitor:      opts.Monitor,
		validator:    opts.Validator,
		orchestrator: opts.Orchestrator,
		target:       target,
		logger:       logger,
		deadline:     deadline,
		pool:         worker.New(1),
		events:       make(chan gesture.Event, 64),
		results:      make(chan result, 1),
	}

	if l.monitor != nil {
		l.monitor.OnAppSwitch(func(_, current string) {
			l.sess.SetActiveApp(current)
		})
	}

	return l
}

// Post feeds a pointer event into the loop without blocking; the hook
// goroutine must never stall behind a slow consumer.
func (l *Loop) Post(ev gesture.Event) {
	select {
	case l.events <- ev:
	default:
		l.logger.Warn("dropping pointer event, loop backlogged",
			zap.String("kind", ev.Kind.String()))
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	defer l.sess.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.handleEvent(ctx, ev)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleEvent(ctx context.Context, ev gesture.Event) {
	switch ev.Kind {
	case gesture.KindDown:
		l.sess.PointerDown(ev)
	case gesture.KindDrag:
		l.sess.PointerDrag(ev)
	case gesture.KindUp:
		l.handlePointerUp(ctx, ev)
	}
}

func (l *Loop) handlePointerUp(ctx context.Context, ev gesture.Event) {
	rec, ok := l.sess.PointerUp(ev)
	if !ok {
		return
	}

	verdict := l.validator.Validate(rec, l.sess.History())
	if !verdict.Accepted {
		// Normal negative outcome: no action, no dialog.
		l.logger.Debug("gesture rejected", zap.String("reason", verdict.Reason))
		return
	}

	// Let the host application finalize its selection before extraction;
	// higher sensitivity shortens the wait.
	delay := time.Duration(l.cfg.DelaySec / l.cfg.Sensitivity * float64(time.Second))
	l.sess.Schedule(delay, func(id uint64) {
		l.startExtraction(ctx, id, rec)
	})
}

// startExtraction runs on the session timer goroutine; the heavy work is
// handed to the pool and the outcome posted back into the loop.
func (l *Loop) startExtraction(ctx context.Context, id uint64, rec gesture.Record) {
	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)

	ec := &extract.Context{
		App:     l.sess.ActiveApp(),
		Gesture: &rec,
	}

	submitted := l.pool.Submit(jobCtx, func(c context.Context) (string, error) {
		return l.orchestrator.Extract(c, ec)
	}, func(text string, err error) {
		l.results <- result{id: id, text: text, err: err, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.logger.Debug("extraction dropped, previous attempt still running",
			zap.Uint64("id", id))
	}
}

func (l *Loop) handleResult(res result) {
	if res.cancel != nil {
		defer res.cancel()
	}

	switch {
	case res.err == nil:
		l.target.OnText(res.text)
	case errors.Is(res.err, extract.ErrNoText):
		l.target.OnNoText(res.err.Error())
	case errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
		l.logger.Debug("extraction cancelled", zap.Uint64("id", res.id), zap.Error(res.err))
	default:
		l.logger.Warn("extraction failed", zap.Uint64("id", res.id), zap.Error(res.err))
	}
}
