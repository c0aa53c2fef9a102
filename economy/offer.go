package economy

// Offer is a wholesale batch available for one day only.
type Offer struct {
	UnitPrice float64 `json:"unitPrice"`
	Volume    int     `json:"volume"`
}

// NewOffer draws the unit price and then the lot volume.
func NewOffer(r Rand, day int, p Params) Offer {
	price := WholesaleUnitPrice(r, day, p.OfferPriceBaseVolume, p.OfferBasePrice)
	volume := WholesaleOfferVolume(r, p.OfferBaseVolume)
	return Offer{
		UnitPrice: price,
		Volume:    volume,
	}
}

func (o Offer) FullPrice() float64 {
	return o.UnitPrice * float64(o.Volume)
}
