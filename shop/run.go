package shop

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
)

// Summary describes how a run ended.
type Summary struct {
	Days     int   `json:"days"`
	Final    State `json:"final"`
	Depleted bool  `json:"depleted"`
	// Attempts discarded because of malformed or late decisions.
	Rejected int `json:"rejected"`
}

type RunOptions struct {
	// MaxDays stops the run after that many settled days.
	// Zero means no limit.
	MaxDays int
}

// Run ticks the engine until the account is depleted, the provider
// runs out of decisions, MaxDays is reached or ctx is done.
func Run(ctx context.Context, logger *log.Logger, e *Engine, opts RunOptions) (Summary, error) {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(e)

	var sum Summary
	finish := func() Summary {
		sum.Final = e.State()
		sum.Depleted = e.Phase() == PhaseOver
		return sum
	}

	for e.Phase() == PhaseRunning {
		if opts.MaxDays > 0 && sum.Days >= opts.MaxDays {
			logger.Info("day limit reached", "days", sum.Days)
			break
		}
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		report, err := e.Tick(ctx)
		switch {
		case err == nil:
		case Retryable(err):
			sum.Rejected++
			logger.Warn("decision rejected, replaying day", "err", err)
			continue
		case errors.Is(err, ErrNoMoreDecisions):
			logger.Info("out of decisions", "days", sum.Days)
			return finish(), nil
		default:
			return finish(), err
		}

		sum.Days++
		logger.Info("day complete",
			"day", report.Day,
			"account", report.After.Account,
			"basicStore", report.After.BasicStore,
			"shopStore", report.After.ShopStore,
			"expense", report.TotalExpense(),
			"income", report.Income,
		)
	}

	if e.Phase() == PhaseOver {
		logger.Info("account depleted, simulation over", "days", sum.Days, "account", e.State().Account)
	}
	return finish(), nil
}
