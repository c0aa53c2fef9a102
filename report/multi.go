package report

import "github.com/tifye/shopsim/shop"

// Multi forwards to every reporter in order.
type Multi []shop.Reporter

func (m Multi) Preview(p shop.Preview) {
	for _, r := range m {
		r.Preview(p)
	}
}

func (m Multi) Day(r shop.DayReport) {
	for _, rep := range m {
		rep.Day(r)
	}
}
