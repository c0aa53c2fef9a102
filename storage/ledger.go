package storage

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

type Run struct {
	ID           string          `db:"id" json:"id"`
	Source       string          `db:"source" json:"source"`
	Seed1        string          `db:"seed1" json:"seed1"`
	Seed2        string          `db:"seed2" json:"seed2"`
	StartedAt    int64           `db:"started_at" json:"startedAt"`
	FinishedAt   sql.NullInt64   `db:"finished_at" json:"-"`
	Days         int             `db:"days" json:"days"`
	FinalAccount sql.NullFloat64 `db:"final_account" json:"-"`
	Depleted     bool            `db:"depleted" json:"depleted"`
}

// NewRun describes a run that starts now. source names the rng the
// run was seeded from.
func NewRun(source string, seed1, seed2 uint64) Run {
	return Run{
		ID:        uuid.NewString(),
		Source:    source,
		Seed1:     strconv.FormatUint(seed1, 10),
		Seed2:     strconv.FormatUint(seed2, 10),
		StartedAt: time.Now().UnixMilli(),
	}
}

type Day struct {
	RunID          string  `db:"run_id" json:"-"`
	Day            int     `db:"day" json:"day"`
	Account        float64 `db:"account" json:"account"`
	BasicStore     float64 `db:"basic_store" json:"basicStore"`
	ShopStore      float64 `db:"shop_store" json:"shopStore"`
	RetailPrice    float64 `db:"retail_price" json:"retailPrice"`
	AdSpend        float64 `db:"ad_spend" json:"adSpend"`
	OfferUnitPrice float64 `db:"offer_unit_price" json:"offerUnitPrice"`
	OfferVolume    int     `db:"offer_volume" json:"offerVolume"`
	Purchased      int     `db:"purchased" json:"purchased"`
	Transferred    int     `db:"transferred" json:"transferred"`
	Demand         int     `db:"demand" json:"demand"`
	Sold           float64 `db:"sold" json:"sold"`
	Income         float64 `db:"income" json:"income"`
	TransferCost   float64 `db:"transfer_cost" json:"transferCost"`
	DailySpending  float64 `db:"daily_spending" json:"dailySpending"`
	OfferCost      float64 `db:"offer_cost" json:"offerCost"`
	Depleted       bool    `db:"depleted" json:"depleted"`
}

func DayFromReport(runID string, r shop.DayReport) Day {
	return Day{
		RunID:          runID,
		Day:            r.Day,
		Account:        r.After.Account,
		BasicStore:     r.After.BasicStore,
		ShopStore:      r.After.ShopStore,
		RetailPrice:    r.Decision.RetailPrice,
		AdSpend:        r.Decision.AdSpend,
		OfferUnitPrice: r.Offer.UnitPrice,
		OfferVolume:    r.Offer.Volume,
		Purchased:      r.Purchased,
		Transferred:    r.Transferred,
		Demand:         r.Demand.Randomized,
		Sold:           r.Demand.Sold,
		Income:         r.Income,
		TransferCost:   r.TransferCost,
		DailySpending:  r.DailySpending,
		OfferCost:      r.OfferCost,
		Depleted:       r.Over,
	}
}

// Ledger stores runs and their settled days.
type Ledger struct {
	db DB
}

func NewLedger(db DB) *Ledger {
	assert.AssertNotNil(db)
	return &Ledger{db: db}
}

func (l *Ledger) StartRun(ctx context.Context, r Run) error {
	query := `
	insert into runs (id, source, seed1, seed2, started_at)
	values (?,?,?,?,?)
	`
	_, err := l.db.ExecContext(ctx, query, r.ID, r.Source, r.Seed1, r.Seed2, r.StartedAt)
	return err
}

func (l *Ledger) FinishRun(ctx context.Context, runID string, sum shop.Summary) error {
	query := `
	update runs
	set finished_at = ?, days = ?, final_account = ?, depleted = ?
	where id = ?
	`
	_, err := l.db.ExecContext(ctx, query,
		time.Now().UnixMilli(),
		sum.Final.Day,
		sum.Final.Account,
		sum.Depleted,
		runID,
	)
	return err
}

func (l *Ledger) InsertDay(ctx context.Context, d Day) error {
	query := `
	insert into days (
		run_id, day, account, basic_store, shop_store,
		retail_price, ad_spend, offer_unit_price, offer_volume,
		purchased, transferred, demand, sold, income,
		transfer_cost, daily_spending, offer_cost, depleted
	)
	values (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`
	_, err := l.db.ExecContext(ctx, query,
		d.RunID, d.Day, d.Account, d.BasicStore, d.ShopStore,
		d.RetailPrice, d.AdSpend, d.OfferUnitPrice, d.OfferVolume,
		d.Purchased, d.Transferred, d.Demand, d.Sold, d.Income,
		d.TransferCost, d.DailySpending, d.OfferCost, d.Depleted,
	)
	return err
}

// Runs returns the most recent runs first.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `
	select id, source, seed1, seed2, started_at, finished_at, days, final_account, depleted
	from runs
	order by started_at desc
	limit ?
	`
	runs := []Run{}
	err := l.db.SelectContext(ctx, &runs, query, limit)
	return runs, err
}

func (l *Ledger) Days(ctx context.Context, runID string) ([]Day, error) {
	query := `
	select run_id, day, account, basic_store, shop_store,
		retail_price, ad_spend, offer_unit_price, offer_volume,
		purchased, transferred, demand, sold, income,
		transfer_cost, daily_spending, offer_cost, depleted
	from days
	where run_id = ?
	order by day
	`
	days := []Day{}
	err := l.db.SelectContext(ctx, &days, query, runID)
	return days, err
}
