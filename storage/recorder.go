package storage

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

// Recorder writes every settled day of one run to the ledger.
// Write failures are logged and never stop the simulation.
type Recorder struct {
	logger *log.Logger
	ledger *Ledger
	runID  string
}

func NewRecorder(logger *log.Logger, ledger *Ledger, runID string) *Recorder {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(ledger)
	assert.AssertNotEmpty(runID)
	return &Recorder{
		logger: logger,
		ledger: ledger,
		runID:  runID,
	}
}

func (r *Recorder) Preview(shop.Preview) {}

func (r *Recorder) Day(report shop.DayReport) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.ledger.InsertDay(ctx, DayFromReport(r.runID, report)); err != nil {
		r.logger.Error("insert day", "run", r.runID, "day", report.Day, "err", err)
	}
}
