package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/decision"
	"github.com/tifye/shopsim/shop"
)

// Snapshots keeps copies of what the engine last reported so HTTP
// handlers never touch the engine itself.
type Snapshots struct {
	mu      sync.RWMutex
	state   shop.State
	phase   shop.Phase
	lastDay *shop.DayReport
	summary *shop.Summary
}

func NewSnapshots(initial shop.State) *Snapshots {
	return &Snapshots{
		state: initial,
		phase: shop.PhaseRunning,
	}
}

func (s *Snapshots) Preview(shop.Preview) {}

func (s *Snapshots) Day(r shop.DayReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = r.After
	s.lastDay = &r
	if r.Over {
		s.phase = shop.PhaseOver
	}
}

// Finish records the outcome of the run.
func (s *Snapshots) Finish(sum shop.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &sum
	s.state = sum.Final
}

type stateResponse struct {
	RunID    string          `json:"runId,omitempty"`
	Phase    string          `json:"phase"`
	Finished bool            `json:"finished"`
	State    shop.State      `json:"state"`
	LastDay  *shop.DayReport `json:"lastDay,omitempty"`
	Summary  *shop.Summary   `json:"summary,omitempty"`
}

func (s *Snapshots) response(runID string) stateResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateResponse{
		RunID:    runID,
		Phase:    s.phase.String(),
		Finished: s.summary != nil,
		State:    s.state,
		LastDay:  s.lastDay,
		Summary:  s.summary,
	}
}

func handleGetState(snaps *Snapshots, runID string) echo.HandlerFunc {
	assert.AssertNotNil(snaps)
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, snaps.response(runID))
	}
}

func handleGetPreview(decisions *decision.Remote) echo.HandlerFunc {
	assert.AssertNotNil(decisions)
	return func(c echo.Context) error {
		preview, ok := decisions.Pending()
		if !ok {
			return c.String(http.StatusConflict, decision.ErrNotWaiting.Error())
		}
		return c.JSON(http.StatusOK, preview)
	}
}
