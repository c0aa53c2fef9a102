package economy

import "fmt"

// Params are the fixed constants of a simulation run.
type Params struct {
	InitialAccount    float64
	InitialBasicStore float64
	InitialShopStore  float64

	// Flat fee charged on any day stock is moved into the shop.
	// Transfers are refused outright while the account is below it.
	TransferRate float64

	// Base lot size of wholesale offers.
	OfferBaseVolume float64
	// Scale of the random component of the wholesale unit price.
	OfferPriceBaseVolume float64
	// Drives the daily upward drift of wholesale unit prices.
	OfferBasePrice float64

	MaxDemand       float64
	MeanDemandPrice float64

	Rent  float64
	Wages float64

	// SellAfterTransfer caps sales by the shop stock after the day's
	// transfer has arrived instead of the stock held at the start of
	// the day.
	SellAfterTransfer bool
}

func DefaultParams() Params {
	return Params{
		InitialAccount:       10000,
		InitialBasicStore:    80,
		InitialShopStore:     0,
		TransferRate:         150,
		OfferBaseVolume:      40,
		OfferPriceBaseVolume: 50,
		OfferBasePrice:       35,
		MaxDemand:            30,
		MeanDemandPrice:      100,
		Rent:                 200,
		Wages:                500,
	}
}

// Overhead is the fixed daily cost before advertising.
func (p Params) Overhead() float64 {
	return p.Rent + p.Wages
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"initial basic store", p.InitialBasicStore},
		{"initial shop store", p.InitialShopStore},
		{"transfer rate", p.TransferRate},
		{"offer base volume", p.OfferBaseVolume},
		{"offer price base volume", p.OfferPriceBaseVolume},
		{"offer base price", p.OfferBasePrice},
		{"max demand", p.MaxDemand},
		{"mean demand price", p.MeanDemandPrice},
		{"rent", p.Rent},
		{"wages", p.Wages},
	}
	for _, c := range checks {
		if c.v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", c.name, c.v)
		}
	}
	if p.InitialAccount <= 0 {
		return fmt.Errorf("initial account must be positive, got %v", p.InitialAccount)
	}
	return nil
}
