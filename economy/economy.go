// Package economy holds the pricing and demand model of the shop.
// Every function takes its randomness explicitly; nothing here keeps state.
package economy

import (
	"math"

	"github.com/tifye/shopsim/rng"
)

// Rand is the draw source the model consumes. *rng.Source
// satisfies it.
type Rand interface {
	Uniform(lo, hi float64) float64
}

// WholesaleUnitPrice is the per unit price of a wholesale offer on
// the given day. Price noise is drawn before the time drift.
func WholesaleUnitPrice(r Rand, day int, baseVolume, basePrice float64) float64 {
	priceNoise := baseVolume * r.Uniform(0.7, 1.3)
	d := float64(day)
	timeDrift := basePrice*0.03*d + basePrice*0.01*d*r.Uniform(0, 1)
	return timeDrift + priceNoise
}

func WholesaleOfferVolume(r Rand, baseVolume float64) int {
	return rng.Round(baseVolume * r.Uniform(0.75, 1.25))
}

func AdEffect(r Rand, adSpend float64) float64 {
	return r.Uniform(0, 1) * adSpend
}

// Demand follows a logistic curve centered on meanPrice: it falls as
// retailPrice rises and is scaled up by the advertising effect.
func Demand(retailPrice, meanPrice, maxDemand, adEffect float64) int {
	share := 1 - 1/(1+math.Exp(-0.05*(retailPrice-meanPrice)))
	return rng.Round(maxDemand * share * (1 + adEffect/100))
}

func RandomizedDemand(r Rand, demand int) int {
	return rng.Round(float64(demand) * r.Uniform(0.7, 1.2))
}
