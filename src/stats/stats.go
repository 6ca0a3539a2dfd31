// Package stats tracks per-(application, method) extraction outcomes and
// recommends the historically best method once enough samples exist.
// Interactions are processed serially, so there is a single writer; the
// mutex exists for CLI readers.
package stats

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"selection-capture/src/profile"
)

// minSamples is how many attempts a method needs before its success rate is
// trusted over the static profile ordering.
const minSamples = 3

// Attempt is one extraction tier outcome. Appended to the rolling store and
// used only in aggregate.
type Attempt struct {
	App      string
	Method   profile.Method
	Success  bool
	Duration time.Duration
}

type key struct {
	app    string
	method profile.Method
}

// Counts is the aggregate for one (application, method) pair.
type Counts struct {
	Attempts  int
	Successes int
	TotalMs   float64
}

// Rate returns the success rate, zero when no attempts were recorded.
func (c Counts) Rate() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.Successes) / float64(c.Attempts)
}

// Entry is one row of a snapshot, for reporting.
type Entry struct {
	App    string
	Method profile.Method
	Counts
}

// Recorder is the in-memory aggregate store, optionally mirrored to a
// persistent Store.
type Recorder struct {
	mu     sync.Mutex
	counts map[key]*Counts
	store  *Store
	logger *zap.Logger
}

func NewRecorder(store *Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		counts: make(map[key]*Counts),
		store:  store,
		logger: logger,
	}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			logger.Warn("could not load extraction statistics", zap.Error(err))
		} else {
			for k, c := range loaded {
				cc := c
				r.counts[key{k.App, k.Method}] = &cc
			}
		}
	}
	return r
}

// Record appends one attempt outcome. Persistence is best-effort; a failing
// store never blocks extraction.
func (r *Recorder) Record(a Attempt) {
	r.mu.Lock()
	k := key{a.App, a.Method}
	c := r.counts[k]
	if c == nil {
		c = &Counts{}
		r.counts[k] = c
	}
	c.Attempts++
	if a.Success {
		c.Successes++
	}
	c.TotalMs += float64(a.Duration.Milliseconds())
	snapshot := *c
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Upsert(a.App, a.Method, snapshot); err != nil {
			r.logger.Debug("could not persist extraction statistics", zap.Error(err))
		}
	}
}

// SuccessRate returns the rate and sample size for one pair.
func (r *Recorder) SuccessRate(app string, method profile.Method) (float64, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.counts[key{app, method}]
	if c == nil {
		return 0, 0
	}
	return c.Rate(), c.Attempts
}

// Best recommends the method with the highest success rate for app, once at
// least one method has minSamples attempts. Ties break toward the larger
// sample, then lexicographic method name for determinism.
func (r *Recorder) Best(app string) (profile.Method, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best profile.Method
	var bestCounts Counts
	found := false
	for k, c := range r.counts {
		if k.app != app || c.Attempts < minSamples {
			continue
		}
		if !found || better(*c, k.method, bestCounts, best) {
			best = k.method
			bestCounts = *c
			found = true
		}
	}
	return best, found
}

// Order returns the fallback ordering with the statistically best method
// promoted to the front. Without enough samples, fallback is returned
// unchanged.
func (r *Recorder) Order(app string, fallback []profile.Method) []profile.Method {
	best, ok := r.Best(app)
	if !ok {
		return fallback
	}

	ordered := make([]profile.Method, 0, len(fallback))
	ordered = append(ordered, best)
	for _, m := range fallback {
		if m != best {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

// Snapshot returns all aggregates sorted by app then method.
func (r *Recorder) Snapshot() []Entry {
	r.mu.Lock()
	entries := make([]Entry, 0, len(r.counts))
	for k, c := range r.counts {
		entries = append(entries, Entry{App: k.app, Method: k.method, Counts: *c})
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].App != entries[j].App {
			return entries[i].App < entries[j].App
		}
		return entries[i].Method < entries[j].Method
	})
	return entries
}

func better(c Counts, m profile.Method, bestC Counts, bestM profile.Method) bool {
	if c.Rate() != bestC.Rate() {
		return c.Rate() > bestC.Rate()
	}
	if c.Attempts != bestC.Attempts {
		return c.Attempts > bestC.Attempts
	}
	return m < bestM
}
