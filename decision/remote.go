package decision

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

var (
	ErrClosed     = errors.New("decision source closed")
	ErrNotWaiting = errors.New("no day is waiting for a decision")
)

type submission struct {
	raw   shop.RawDecision
	reply chan error
}

// Remote is fed decisions from outside the engine's goroutine,
// typically by HTTP handlers. The engine blocks in NextDecision until
// a submission arrives or the per-day timeout expires.
type Remote struct {
	logger  *log.Logger
	timeout time.Duration

	submissions chan submission
	done        chan struct{}
	closeOnce   sync.Once

	mu      sync.RWMutex
	pending *shop.Preview
}

// NewRemote returns a Remote. A zero timeout waits forever.
func NewRemote(logger *log.Logger, timeout time.Duration) *Remote {
	assert.AssertNotNil(logger)
	assert.Assert(timeout >= 0, "timeout must not be negative")
	return &Remote{
		logger:      logger,
		timeout:     timeout,
		submissions: make(chan submission),
		done:        make(chan struct{}),
	}
}

func (r *Remote) NextDecision(ctx context.Context, preview shop.Preview) (shop.Decision, error) {
	r.setPending(&preview)
	defer r.setPending(nil)

	var expired <-chan time.Time
	if r.timeout > 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
		return shop.Decision{}, ctx.Err()
	case <-r.done:
		return shop.Decision{}, shop.ErrNoMoreDecisions
	case <-expired:
		r.logger.Warn("no decision in time", "day", preview.Day, "timeout", r.timeout)
		return shop.Decision{}, shop.ErrDecisionTimeout
	case sub := <-r.submissions:
		d, err := shop.ParseDecision(sub.raw)
		sub.reply <- err
		return d, err
	}
}

// Submit hands raw to the waiting engine and returns the parse
// outcome. It blocks until the engine takes the decision.
func (r *Remote) Submit(ctx context.Context, raw shop.RawDecision) error {
	sub := submission{
		raw:   raw,
		reply: make(chan error, 1),
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrClosed
	case r.submissions <- sub:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-sub.reply:
		return err
	}
}

// Pending returns the preview of the day currently waiting for a
// decision.
func (r *Remote) Pending() (shop.Preview, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pending == nil {
		return shop.Preview{}, false
	}
	return *r.pending, true
}

// Close stops accepting submissions. A waiting engine gets
// shop.ErrNoMoreDecisions.
func (r *Remote) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

func (r *Remote) setPending(p *shop.Preview) {
	r.mu.Lock()
	r.pending = p
	r.mu.Unlock()
}
