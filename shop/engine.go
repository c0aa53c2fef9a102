package shop

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/economy"
	"github.com/tifye/shopsim/rng"
)

// Engine advances the simulation one day at a time. It is the sole
// owner of its State and is not safe for concurrent use.
type Engine struct {
	logger   *log.Logger
	params   economy.Params
	rnd      economy.Rand
	provider Provider
	reporter Reporter

	state State
	phase Phase
}

func NewEngine(
	logger *log.Logger,
	params economy.Params,
	rnd economy.Rand,
	provider Provider,
) *Engine {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(rnd)
	assert.AssertNotNil(provider)
	assertParams(params)

	return &Engine{
		logger:   logger,
		params:   params,
		rnd:      rnd,
		provider: provider,
		reporter: nopReporter{},
		state:    InitialState(params),
		phase:    PhaseRunning,
	}
}

func (e *Engine) SetReporter(r Reporter) {
	assert.AssertNotNil(r)
	e.reporter = r
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Tick plays one full day. If the provider fails the attempt is
// discarded and the state is left exactly as it was; calling Tick
// again replays the day from the start, preview included.
func (e *Engine) Tick(ctx context.Context) (DayReport, error) {
	if e.phase == PhaseOver {
		return DayReport{}, ErrSimulationOver
	}

	before := e.state
	day := before.Day + 1
	p := e.params

	// The preview offer only advances the random stream. Settlement
	// draws its own offer once the decision is in.
	preview := Preview{
		Day:      day,
		State:    before,
		Offer:    economy.NewOffer(e.rnd, day, p),
		Overhead: p.Overhead(),
	}
	preview.State.Day = day
	e.reporter.Preview(preview)

	decision, err := e.provider.NextDecision(ctx, preview)
	if err != nil {
		return DayReport{}, fmt.Errorf("day %d: %w", day, err)
	}
	assertDecision(decision)

	offer := economy.NewOffer(e.rnd, day, p)

	var transferVolume float64
	if before.Account >= p.TransferRate && decision.TransferDecision {
		transferVolume = min(before.BasicStore, decision.TransferVolume)
	}

	offerFullPrice := offer.FullPrice()
	offerAccepted := before.Account >= offerFullPrice && decision.AcceptOffer
	purchased := 0
	if offerAccepted {
		purchased = offer.Volume
	}

	adEffect := economy.AdEffect(e.rnd, decision.AdSpend)
	demand := economy.Demand(decision.RetailPrice, p.MeanDemandPrice, p.MaxDemand, adEffect)
	randomized := economy.RandomizedDemand(e.rnd, demand)

	transferred := rng.Trunc(transferVolume)

	sellable := before.ShopStore
	if p.SellAfterTransfer {
		sellable += float64(transferred)
	}
	var sold float64
	if !decision.StopSell {
		sold = min(float64(randomized), sellable)
	}

	after := before
	after.Day = day
	after.BasicStore += float64(purchased)
	after.BasicStore -= float64(transferred)
	after.ShopStore += float64(transferred)
	after.ShopStore -= sold

	income := decision.RetailPrice * sold
	after.Account += income

	var transferCost float64
	if transferVolume > 0 {
		transferCost = p.TransferRate
	}

	// Only overhead and advertising are capped by the balance.
	dailySpending := min(p.Overhead()+decision.AdSpend, after.Account)

	var offerCost float64
	if offerAccepted {
		offerCost = offerFullPrice
	}

	after.Account -= transferCost + dailySpending + offerCost

	report := DayReport{
		Day:            day,
		Before:         before,
		After:          after,
		Decision:       decision,
		Offer:          offer,
		OfferAccepted:  offerAccepted,
		AdEffect:       adEffect,
		TransferVolume: transferVolume,
		Transferred:    transferred,
		Purchased:      purchased,
		Demand: DemandOutcome{
			Base:       demand,
			Randomized: randomized,
			Sold:       sold,
		},
		Income:        income,
		TransferCost:  transferCost,
		DailySpending: dailySpending,
		OfferCost:     offerCost,
		Over:          after.Depleted(),
	}

	e.state = after
	if report.Over {
		e.phase = PhaseOver
	}

	e.logger.Debug("day settled",
		"day", day,
		"account", after.Account,
		"basicStore", after.BasicStore,
		"shopStore", after.ShopStore,
		"income", income,
		"expense", report.TotalExpense(),
	)
	e.reporter.Day(report)

	return report, nil
}

func assertParams(p economy.Params) {
	assert.AssertNonNegative("initial account", p.InitialAccount)
	assert.AssertNonNegative("initial basic store", p.InitialBasicStore)
	assert.AssertNonNegative("initial shop store", p.InitialShopStore)
	assert.AssertNonNegative("transfer rate", p.TransferRate)
	assert.AssertNonNegative("rent", p.Rent)
	assert.AssertNonNegative("wages", p.Wages)
	assert.AssertFinite("offer base price", p.OfferBasePrice)
	assert.AssertFinite("max demand", p.MaxDemand)
	assert.AssertFinite("mean demand price", p.MeanDemandPrice)
}

// Providers that skip ParseDecision are held to the same bounds.
func assertDecision(d Decision) {
	assert.AssertFinite("transfer volume", d.TransferVolume)
	assert.AssertNonNegative("transfer volume", d.TransferVolume)
	assert.AssertFinite("ad spend", d.AdSpend)
	assert.AssertNonNegative("ad spend", d.AdSpend)
	assert.AssertFinite("retail price", d.RetailPrice)
}
