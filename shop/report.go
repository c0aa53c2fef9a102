package shop

import "github.com/tifye/shopsim/economy"

// Preview is the snapshot shown before the player decides.
// The offer in it is indicative only; settlement draws a new one.
type Preview struct {
	Day      int           `json:"day"`
	State    State         `json:"state"`
	Offer    economy.Offer `json:"offer"`
	Overhead float64       `json:"overhead"`
}

// DemandOutcome is the day's demand before and after randomization
// and the volume actually sold.
type DemandOutcome struct {
	Base       int     `json:"base"`
	Randomized int     `json:"randomized"`
	Sold       float64 `json:"sold"`
}

// DayReport describes one settled day.
type DayReport struct {
	Day      int      `json:"day"`
	Before   State    `json:"before"`
	After    State    `json:"after"`
	Decision Decision `json:"decision"`

	Offer          economy.Offer `json:"offer"`
	OfferAccepted  bool          `json:"offerAccepted"`
	AdEffect       float64       `json:"adEffect"`
	Demand         DemandOutcome `json:"demand"`
	TransferVolume float64       `json:"transferVolume"`
	Transferred    int           `json:"transferred"`
	Purchased      int           `json:"purchased"`

	Income        float64 `json:"income"`
	TransferCost  float64 `json:"transferCost"`
	DailySpending float64 `json:"dailySpending"`
	OfferCost     float64 `json:"offerCost"`

	Over bool `json:"over"`
}

// TotalExpense is everything charged against the account on the day.
func (r DayReport) TotalExpense() float64 {
	return r.TransferCost + r.DailySpending + r.OfferCost
}

// Reporter observes the engine. Calls happen on the engine's
// goroutine and must not block for long.
type Reporter interface {
	Preview(p Preview)
	Day(r DayReport)
}

type nopReporter struct{}

func (nopReporter) Preview(Preview) {}
func (nopReporter) Day(DayReport)   {}
