// Package shop runs the day-cycle simulation of a shop that buys stock
// wholesale, moves it into its store and sells it at retail.
package shop

import "github.com/tifye/shopsim/economy"

// State is the complete simulation state. The engine owns it and
// hands out copies only.
type State struct {
	Account    float64 `json:"account"`
	BasicStore float64 `json:"basicStore"`
	ShopStore  float64 `json:"shopStore"`
	Day        int     `json:"day"`
}

func InitialState(p economy.Params) State {
	return State{
		Account:    p.InitialAccount,
		BasicStore: p.InitialBasicStore,
		ShopStore:  p.InitialShopStore,
		Day:        0,
	}
}

// Depleted reports whether the account has run dry.
func (s State) Depleted() bool {
	return s.Account <= 0
}

type Phase int

const (
	PhaseRunning Phase = iota
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}
