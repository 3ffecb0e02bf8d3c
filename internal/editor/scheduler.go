package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"loov.dev/evmlens/internal/solc"
)

// DefaultDebounce is the edit-settle window before an automatic compile.
const DefaultDebounce = 300 * time.Millisecond

// CompileFunc performs one compilation of the given source text. The
// service behind it offers no cancellation; the context is only honored up
// to the request boundary.
type CompileFunc func(ctx context.Context, text string) (*solc.Result, error)

// ApplyFunc receives a completed compilation that won the ordering race,
// with the sequence number it was issued under.
type ApplyFunc func(seq uint64, res *solc.Result, err error)

// Recompiler debounces text edits into compile requests and guarantees that
// visible state always reflects the most recently issued request that
// completed. Requests are not cancellable, so several may be in flight;
// a completion with a sequence number lower than one already applied is
// discarded.
type Recompiler struct {
	compile  CompileFunc
	apply    ApplyFunc
	debounce time.Duration
	log      *slog.Logger

	applyMu sync.Mutex // serializes accepted deliveries

	mu      sync.Mutex
	auto    bool
	text    string
	timer   *time.Timer
	issued  uint64
	applied uint64
	closed  bool
}

func NewRecompiler(debounce time.Duration, compile CompileFunc, apply ApplyFunc) *Recompiler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Recompiler{
		compile:  compile,
		apply:    apply,
		debounce: debounce,
		log:      slog.Default(),
	}
}

// SetLogger replaces the logger used for discarded-result notices.
func (r *Recompiler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.log = logger
	}
}

// SetAuto switches automatic recompilation on edit. Turning it off stops a
// pending debounce timer.
func (r *Recompiler) SetAuto(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auto = on
	if !on {
		r.stopTimerLocked()
	}
}

// Auto reports whether automatic recompilation is on.
func (r *Recompiler) Auto() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.auto
}

// TextChanged records the latest text and, in auto mode, restarts the
// debounce timer. The compile fires only after the text settles for the
// debounce window.
func (r *Recompiler) TextChanged(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.text = text
	if !r.auto {
		return
	}
	r.stopTimerLocked()
	r.timer = time.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		seq, text := r.issueLocked()
		r.mu.Unlock()
		r.run(seq, text)
	})
}

// Trigger issues a compile of the latest text immediately, regardless of
// mode. Used for the explicit compile action.
func (r *Recompiler) Trigger() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.stopTimerLocked()
	seq, text := r.issueLocked()
	r.mu.Unlock()
	r.run(seq, text)
}

// Close stops any pending timer. In-flight requests still complete but
// their results are discarded.
func (r *Recompiler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.stopTimerLocked()
}

func (r *Recompiler) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Recompiler) issueLocked() (uint64, string) {
	r.issued++
	return r.issued, r.text
}

func (r *Recompiler) run(seq uint64, text string) {
	go func() {
		res, err := r.compile(context.Background(), text)

		// applyMu keeps accepted deliveries in issue order while the
		// state lock stays free for the callback to use the Recompiler.
		r.applyMu.Lock()
		defer r.applyMu.Unlock()

		r.mu.Lock()
		if r.closed || seq <= r.applied {
			// A newer request already completed; this result is stale.
			r.log.Debug("discarding stale compile result", "seq", seq, "applied", r.applied)
			r.mu.Unlock()
			return
		}
		r.applied = seq
		r.mu.Unlock()

		r.apply(seq, res, err)
	}()
}
