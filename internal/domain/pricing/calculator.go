package pricing

import (
	"errors"
	"math"
)

var (
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidDiscount   = errors.New("discount percent must be in (0, 100]")
	ErrInvalidCoinValue  = errors.New("coin value must be positive")
	ErrInvalidCurveParam = errors.New("curve parameter out of range")
)

// DemandContext carries the signals that shift a quote away from its base
// cost. All fields are caller-observed facts; the calculator never reads
// anything else.
type DemandContext struct {
	// EstimatedUsers is the addressable-user estimate for the business.
	EstimatedUsers int
	// ActivePurchases counts this item's pending purchases in the current
	// period, the scarcity signal.
	ActivePurchases int
	// RedemptionRate is the business's recent redemption rate in [0, 1].
	RedemptionRate float64
}

// Breakdown exposes each term of a quote so the business UI can show it
// verbatim.
type Breakdown struct {
	DiscountCents      int64
	BaseCost           int64
	DemandAdjustment   int64
	ScarcityAdjustment int64
}

type Quote struct {
	CoinCost      int64
	DiscountCents int64
	Breakdown     Breakdown
}

// CurveParams tune the demand and scarcity adjustments. MaxAdjustmentRatio
// bounds each term, and their sum, relative to the base cost.
type CurveParams struct {
	DemandSlope        float64
	ScarcitySlope      float64
	MaxAdjustmentRatio float64
}

// Calculator converts a discount into a QR-coin cost. It is pure: the same
// inputs always produce the same quote.
type Calculator struct {
	coinValueUSD float64
	params       CurveParams
}

func NewCalculator(coinValueUSD float64, params CurveParams) (*Calculator, error) {
	if coinValueUSD <= 0 {
		return nil, ErrInvalidCoinValue
	}
	if params.DemandSlope < 0 || params.ScarcitySlope < 0 {
		return nil, ErrInvalidCurveParam
	}
	if params.MaxAdjustmentRatio < 0 || params.MaxAdjustmentRatio > 1 {
		return nil, ErrInvalidCurveParam
	}
	return &Calculator{
		coinValueUSD: coinValueUSD,
		params:       params,
	}, nil
}

// Quote prices a discount offer. priceCents is the regular price in minor
// units; discountPct is the effective discount at quote time.
func (c *Calculator) Quote(priceCents int64, discountPct float64, ctx DemandContext) (Quote, error) {
	if priceCents <= 0 {
		return Quote{}, ErrInvalidPrice
	}
	if discountPct <= 0 || discountPct > 100 {
		return Quote{}, ErrInvalidDiscount
	}

	discountCents := roundHalfUp(float64(priceCents) * discountPct / 100.0)

	// One coin is worth coinValueUSD dollars; discountCents is in cents.
	baseCost := roundHalfUp(float64(discountCents) / (c.coinValueUSD * 100.0))

	demandAdj := c.clampAdjustment(baseCost, c.demandFactor(ctx))
	scarcityAdj := c.clampAdjustment(baseCost, c.scarcityFactor(ctx))

	// The combined adjustment is bounded by the same ratio as each term.
	total := demandAdj + scarcityAdj
	maxTotal := roundHalfUp(float64(baseCost) * c.params.MaxAdjustmentRatio)
	if total > maxTotal {
		scarcityAdj -= total - maxTotal
	} else if total < -maxTotal {
		scarcityAdj += -maxTotal - total
	}

	cost := baseCost + demandAdj + scarcityAdj
	if cost < 1 {
		cost = 1
	}

	return Quote{
		CoinCost:      cost,
		DiscountCents: discountCents,
		Breakdown: Breakdown{
			DiscountCents:      discountCents,
			BaseCost:           baseCost,
			DemandAdjustment:   demandAdj,
			ScarcityAdjustment: scarcityAdj,
		},
	}, nil
}

// demandFactor rises with the business's recent redemption rate so a popular
// offer is not underpriced.
func (c *Calculator) demandFactor(ctx DemandContext) float64 {
	rate := ctx.RedemptionRate
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return rate * c.params.DemandSlope
}

// scarcityFactor rises as active purchases saturate the addressable user
// base.
func (c *Calculator) scarcityFactor(ctx DemandContext) float64 {
	if ctx.EstimatedUsers <= 0 || ctx.ActivePurchases <= 0 {
		return 0
	}
	saturation := float64(ctx.ActivePurchases) / float64(ctx.EstimatedUsers)
	if saturation > 1 {
		saturation = 1
	}
	return saturation * c.params.ScarcitySlope
}

func (c *Calculator) clampAdjustment(baseCost int64, factor float64) int64 {
	if factor > c.params.MaxAdjustmentRatio {
		factor = c.params.MaxAdjustmentRatio
	}
	if factor < -c.params.MaxAdjustmentRatio {
		factor = -c.params.MaxAdjustmentRatio
	}
	return roundHalfUp(float64(baseCost) * factor)
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
