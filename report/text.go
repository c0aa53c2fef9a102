// Package report renders engine output for people and logs.
package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tifye/shopsim/assert"
	"github.com/tifye/shopsim/shop"
)

// Money formats an amount with two decimal places.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Units formats a stock level, dropping a zero fraction.
func Units(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Text writes a console report before and after every day.
type Text struct {
	w io.Writer
}

func NewText(w io.Writer) *Text {
	assert.AssertNotNil(w)
	return &Text{w: w}
}

func (t *Text) Preview(p shop.Preview) {
	fmt.Fprintf(t.w, "\n--- Day %d ---\n", p.Day)
	fmt.Fprintf(t.w, "Account: %s\n", Money(p.State.Account))
	fmt.Fprintf(t.w, "Wholesale store: %s\n", Units(p.State.BasicStore))
	fmt.Fprintf(t.w, "Shop store: %s\n", Units(p.State.ShopStore))
	fmt.Fprintf(t.w, "Wholesale offer: volume %d, unit price %s\n", p.Offer.Volume, Money(p.Offer.UnitPrice))
	fmt.Fprintf(t.w, "Expenses (rent and wages): %s\n", Money(p.Overhead))
}

func (t *Text) Day(r shop.DayReport) {
	fmt.Fprintf(t.w, "Account after settlement: %s\n", Money(r.After.Account))
	fmt.Fprintf(t.w, "Wholesale store: %s\n", Units(r.After.BasicStore))
	fmt.Fprintf(t.w, "Shop store: %s\n", Units(r.After.ShopStore))
	fmt.Fprintf(t.w, "Total expenses for the day: %s\n", Money(r.TotalExpense()))
	fmt.Fprintf(t.w, "Sales income: %s\n", Money(r.Income))
	if r.Over {
		fmt.Fprintln(t.w, "The account is depleted. Simulation over.")
	}
}
