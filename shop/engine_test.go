package shop

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tifye/shopsim/economy"
	"github.com/tifye/shopsim/rng"
)

func TestTickFirstDayTransfer(t *testing.T) {
	e := newTestEngine(economy.DefaultParams(), 42, repeat(firstDay, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, r.Day)
	assert.Equal(t, 80.0, r.TransferVolume)
	assert.Equal(t, 80, r.Transferred)
	assert.Equal(t, 0.0, r.After.BasicStore)
	// Sales are capped by the shop stock held before the transfer
	// arrived, which is empty on the first day.
	assert.Equal(t, 0.0, r.Demand.Sold)
	assert.Equal(t, 80.0, r.After.ShopStore)

	assert.Equal(t, 150.0, r.TransferCost)
	assert.Equal(t, 700.0, r.DailySpending)
	assert.Equal(t, 0.0, r.OfferCost)
	assert.Equal(t, 9150.0, r.After.Account)
	assert.Equal(t, r.After, e.State())
	assert.Equal(t, PhaseRunning, e.Phase())
}

func TestTickFirstDaySellAfterTransfer(t *testing.T) {
	params := economy.DefaultParams()
	params.SellAfterTransfer = true
	e := newTestEngine(params, 42, repeat(firstDay, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 80, r.Transferred)
	assert.Equal(t, min(float64(r.Demand.Randomized), 80), r.Demand.Sold)
	assert.Equal(t, 80-r.Demand.Sold, r.After.ShopStore)
	assert.Equal(t, 10000+100*r.Demand.Sold-850, r.After.Account)
}

func TestTickMalformedDecisionLeavesStateUntouched(t *testing.T) {
	_, parseErr := ParseDecision(RawDecision{
		TransferVolume:   "80",
		TransferDecision: "1",
		AcceptOffer:      "0",
		AdSpend:          "abc",
		RetailPrice:      "100",
		StopSell:         "0",
	})
	require.Error(t, parseErr)

	p := &scripted{steps: []scriptStep{
		{err: parseErr},
		{decision: firstDay},
	}}
	e := newTestEngine(economy.DefaultParams(), 42, p)
	before := e.State()

	_, err := e.Tick(context.Background())
	assert.ErrorIs(t, err, ErrMalformedDecision)
	assert.True(t, Retryable(err))
	assert.Equal(t, before, e.State())
	assert.Equal(t, PhaseRunning, e.Phase())

	r, err := e.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Day)
	assert.Equal(t, before, r.Before)
}

func TestTickRandomDrawsPerDay(t *testing.T) {
	p := &scripted{steps: []scriptStep{
		{err: ErrDecisionTimeout},
		{decision: firstDay},
	}}
	rnd := &countingRand{src: rng.New(1, 2)}
	e := NewEngine(discardLogger(), economy.DefaultParams(), rnd, p)

	_, err := e.Tick(context.Background())
	require.ErrorIs(t, err, ErrDecisionTimeout)
	// preview offer only
	assert.Equal(t, 3, rnd.draws)

	_, err = e.Tick(context.Background())
	require.NoError(t, err)
	// the failed preview, then preview, settlement offer, ad effect
	// and demand noise
	assert.Equal(t, 3+3+3+2, rnd.draws)
}

func TestTickPreviewIsReported(t *testing.T) {
	rep := &recordingReporter{}
	e := newTestEngine(economy.DefaultParams(), 3, repeat(firstDay, 2))
	e.SetReporter(rep)

	for range 2 {
		_, err := e.Tick(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, rep.previews, 2)
	require.Len(t, rep.days, 2)
	assert.Equal(t, 1, rep.previews[0].Day)
	assert.Equal(t, 10000.0, rep.previews[0].State.Account)
	assert.Equal(t, 700.0, rep.previews[0].Overhead)
	assert.Equal(t, rep.days[0].After.Account, rep.previews[1].State.Account)
	assert.Equal(t, 2, rep.previews[1].State.Day)
}

func TestTickTransferRefusedBelowRate(t *testing.T) {
	params := economy.DefaultParams()
	params.InitialAccount = 149
	e := newTestEngine(params, 9, repeat(firstDay, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.TransferVolume)
	assert.Equal(t, 0, r.Transferred)
	assert.Equal(t, 0.0, r.TransferCost)
	assert.Equal(t, 80.0, r.After.BasicStore)
	// overhead is capped by what is left in the account
	assert.Equal(t, 149.0, r.DailySpending)
	assert.Equal(t, 0.0, r.After.Account)
	assert.True(t, r.Over)
	assert.Equal(t, PhaseOver, e.Phase())
}

func TestTickFractionalTransfer(t *testing.T) {
	d := firstDay
	d.TransferVolume = 12.9
	e := newTestEngine(economy.DefaultParams(), 5, repeat(d, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12.9, r.TransferVolume)
	assert.Equal(t, 12, r.Transferred)
	assert.Equal(t, 68.0, r.After.BasicStore)
	assert.Equal(t, 12.0, r.After.ShopStore)
	assert.Equal(t, 150.0, r.TransferCost)
}

func TestTickAcceptOffer(t *testing.T) {
	d := Decision{AcceptOffer: true, RetailPrice: 100}
	e := newTestEngine(economy.DefaultParams(), 11, repeat(d, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	require.True(t, r.OfferAccepted)
	assert.Equal(t, r.Offer.Volume, r.Purchased)
	assert.Equal(t, 80+float64(r.Offer.Volume), r.After.BasicStore)
	assert.Equal(t, r.Offer.FullPrice(), r.OfferCost)
	assert.Equal(t, 10000-(700+r.Offer.FullPrice()), r.After.Account)
}

func TestTickOfferUnaffordable(t *testing.T) {
	params := economy.DefaultParams()
	params.InitialAccount = 500
	d := Decision{AcceptOffer: true, RetailPrice: 100}
	e := newTestEngine(params, 11, repeat(d, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.False(t, r.OfferAccepted)
	assert.Equal(t, 0, r.Purchased)
	assert.Equal(t, 0.0, r.OfferCost)
}

func TestTickStopSell(t *testing.T) {
	params := economy.DefaultParams()
	params.InitialShopStore = 50
	d := Decision{RetailPrice: 10, StopSell: true}
	e := newTestEngine(params, 1, repeat(d, 1))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)

	assert.Greater(t, r.Demand.Randomized, 0)
	assert.Equal(t, 0.0, r.Demand.Sold)
	assert.Equal(t, 0.0, r.Income)
	assert.Equal(t, 50.0, r.After.ShopStore)
}

func TestTickAfterOver(t *testing.T) {
	params := economy.DefaultParams()
	params.InitialAccount = 100
	e := newTestEngine(params, 1, repeat(firstDay, 2))

	r, err := e.Tick(context.Background())
	require.NoError(t, err)
	require.True(t, r.Over)

	_, err = e.Tick(context.Background())
	assert.ErrorIs(t, err, ErrSimulationOver)
}

// randomDecisions produces a broad mix of decisions, including ones the
// engine must refuse or cap.
func randomDecisions(seed uint64, n int) *scripted {
	rnd := rand.New(rand.NewPCG(seed, seed))
	s := &scripted{}
	for range n {
		s.steps = append(s.steps, scriptStep{decision: Decision{
			TransferVolume:   rnd.Float64() * 120,
			TransferDecision: rnd.IntN(4) != 0,
			AcceptOffer:      rnd.IntN(2) == 0,
			AdSpend:          rnd.Float64() * 300,
			RetailPrice:      1 + rnd.Float64()*250,
			StopSell:         rnd.IntN(10) == 0,
		}})
	}
	return s
}

func TestTickInvariants(t *testing.T) {
	for seed := range uint64(20) {
		params := economy.DefaultParams()
		params.SellAfterTransfer = seed%2 == 0
		e := newTestEngine(params, seed, randomDecisions(seed, 400))

		for e.Phase() == PhaseRunning {
			r, err := e.Tick(context.Background())
			if errors.Is(err, ErrNoMoreDecisions) {
				break
			}
			require.NoError(t, err)

			b, a := r.Before, r.After
			assert.Equal(t, b.Day+1, a.Day)
			assert.Equal(t, b.Account+r.Income-(r.TransferCost+r.DailySpending+r.OfferCost), a.Account)

			sellable := b.ShopStore
			if params.SellAfterTransfer {
				sellable += float64(r.Transferred)
			}
			assert.LessOrEqual(t, r.Demand.Sold, sellable)
			assert.LessOrEqual(t, float64(r.Transferred), b.BasicStore)
			assert.Equal(t, rng.Trunc(r.TransferVolume), r.Transferred)
			assert.Equal(t, b.BasicStore+float64(r.Purchased)-float64(r.Transferred), a.BasicStore)
			assert.Equal(t, b.ShopStore+float64(r.Transferred)-r.Demand.Sold, a.ShopStore)
			assert.GreaterOrEqual(t, a.BasicStore, 0.0)
			assert.GreaterOrEqual(t, a.ShopStore, 0.0)

			if r.OfferCost > 0 {
				assert.True(t, r.Decision.AcceptOffer)
				assert.GreaterOrEqual(t, b.Account, r.Offer.FullPrice())
			}
			assert.LessOrEqual(t, r.DailySpending, b.Account+r.Income)
			assert.Equal(t, a.Account <= 0, r.Over)
			assert.Equal(t, r.Income, r.Decision.RetailPrice*r.Demand.Sold)
		}
	}
}

func TestTickDeterministic(t *testing.T) {
	play := func() []DayReport {
		rep := &recordingReporter{}
		e := newTestEngine(economy.DefaultParams(), 77, randomDecisions(5, 60))
		e.SetReporter(rep)
		_, err := Run(context.Background(), discardLogger(), e, RunOptions{})
		require.NoError(t, err)
		return rep.days
	}

	first := play()
	second := play()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestNewEngineRejectsInvalidParams(t *testing.T) {
	params := economy.DefaultParams()
	params.Rent = -1
	assert.PanicsWithValue(t, "expected rent to be non-negative, got -1", func() {
		newTestEngine(params, 1, repeat(firstDay, 1))
	})

	params = economy.DefaultParams()
	params.MeanDemandPrice = math.Inf(1)
	assert.Panics(t, func() {
		newTestEngine(params, 1, repeat(firstDay, 1))
	})
}

func TestTickRejectsUnboundedDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision Decision
	}{
		{"nan price", Decision{RetailPrice: math.NaN()}},
		{"negative volume", Decision{TransferVolume: -5, TransferDecision: true, RetailPrice: 100}},
		{"infinite ad spend", Decision{AdSpend: math.Inf(1), RetailPrice: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProviderFunc(func(context.Context, Preview) (Decision, error) {
				return tt.decision, nil
			})
			e := newTestEngine(economy.DefaultParams(), 1, p)
			assert.Panics(t, func() {
				_, _ = e.Tick(context.Background())
			})
			assert.Equal(t, InitialState(economy.DefaultParams()), e.State())
		})
	}
}
