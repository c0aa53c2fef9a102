package report

import (
	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

// Log writes previews at debug level and settled days at info.
type Log struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	assert.AssertNotNil(logger)
	return &Log{logger: logger}
}

func (l *Log) Preview(p shop.Preview) {
	l.logger.Debug("preview",
		"day", p.Day,
		"account", p.State.Account,
		"offerVolume", p.Offer.Volume,
		"offerUnitPrice", Money(p.Offer.UnitPrice),
	)
}

func (l *Log) Day(r shop.DayReport) {
	l.logger.Info("settled",
		"day", r.Day,
		"account", Money(r.After.Account),
		"sold", r.Demand.Sold,
		"demand", r.Demand.Randomized,
		"transferred", r.Transferred,
		"purchased", r.Purchased,
		"expense", Money(r.TotalExpense()),
		"income", Money(r.Income),
	)
	if r.Over {
		l.logger.Warn("account depleted", "day", r.Day)
	}
}
