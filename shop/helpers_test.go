package shop

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/economy"
	"github.com/tifye/shopsim/rng"
)

type countingRand struct {
	src   *rng.Source
	draws int
}

func (r *countingRand) Uniform(lo, hi float64) float64 {
	r.draws++
	return r.src.Uniform(lo, hi)
}

// scripted hands out decisions in order and reports
// ErrNoMoreDecisions once they run out.
type scripted struct {
	steps []scriptStep
	calls int
}

type scriptStep struct {
	decision Decision
	err      error
}

func (s *scripted) NextDecision(_ context.Context, _ Preview) (Decision, error) {
	if s.calls >= len(s.steps) {
		return Decision{}, ErrNoMoreDecisions
	}
	step := s.steps[s.calls]
	s.calls++
	return step.decision, step.err
}

func repeat(d Decision, n int) *scripted {
	s := &scripted{}
	for range n {
		s.steps = append(s.steps, scriptStep{decision: d})
	}
	return s
}

type recordingReporter struct {
	previews []Preview
	days     []DayReport
}

func (r *recordingReporter) Preview(p Preview) { r.previews = append(r.previews, p) }
func (r *recordingReporter) Day(d DayReport)   { r.days = append(r.days, d) }

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestEngine(params economy.Params, seed uint64, p Provider) *Engine {
	return NewEngine(discardLogger(), params, rng.New(seed, seed+1), p)
}

var firstDay = Decision{
	TransferVolume:   80,
	TransferDecision: true,
	AcceptOffer:      false,
	AdSpend:          0,
	RetailPrice:      100,
	StopSell:         false,
}
