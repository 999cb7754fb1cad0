package response

import (
	"time"

	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteResponse struct {
	ItemID             uuid.UUID `json:"item_id"`
	ItemName           string    `json:"item_name"`
	RegularPriceCents  int64     `json:"regular_price_cents"`
	DiscountPct        float64   `json:"discount_pct"`
	DiscountCents      int64     `json:"discount_cents"`
	CoinCost           int64     `json:"qr_coin_cost"`
	BaseCost           int64     `json:"base_cost"`
	DemandAdjustment   int64     `json:"demand_adjustment"`
	ScarcityAdjustment int64     `json:"scarcity_adjustment"`
	OnSale             bool      `json:"on_sale"`
	RemainingSeconds   int64     `json:"remaining_seconds"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		ItemID:             v.ItemID,
		ItemName:           v.ItemName,
		RegularPriceCents:  v.RegularPriceCents,
		DiscountPct:        v.DiscountPct,
		DiscountCents:      v.DiscountCents,
		CoinCost:           v.CoinCost,
		BaseCost:           v.BaseCost,
		DemandAdjustment:   v.DemandAdjustment,
		ScarcityAdjustment: v.ScarcityAdjustment,
		OnSale:             v.OnSale,
		RemainingSeconds:   v.RemainingSeconds,
	}
}

type PurchaseResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ItemID             uuid.UUID  `json:"store_item_id"`
	CoinsSpent         int64      `json:"qr_coins_spent"`
	DiscountPctApplied float64    `json:"discount_pct_applied"`
	PurchaseCode       string     `json:"purchase_code"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ExpiresAt          time.Time  `json:"expires_at"`
	RedeemedAt         *time.Time `json:"redeemed_at,omitempty"`
}

func FromPurchase(p *purchase.Purchase) *PurchaseResponse {
	return &PurchaseResponse{
		ID:                 p.ID(),
		ItemID:             p.ItemID(),
		CoinsSpent:         p.CoinsSpent(),
		DiscountPctApplied: p.DiscountPctApplied(),
		PurchaseCode:       p.Code().String(),
		Status:             p.Status().String(),
		CreatedAt:          p.CreatedAt(),
		ExpiresAt:          p.ExpiresAt(),
		RedeemedAt:         p.RedeemedAt(),
	}
}

type SpinResponse struct {
	DrawID     uuid.UUID  `json:"draw_id"`
	WheelID    uuid.UUID  `json:"wheel_id"`
	RewardID   *uuid.UUID `json:"reward_id,omitempty"`
	RewardName string     `json:"reward_name,omitempty"`
	Rarity     int        `json:"rarity_level,omitempty"`
	Nothing    bool       `json:"nothing"`
	CreatedAt  time.Time  `json:"created_at"`
}

func FromSpinResult(r *commands.SpinResult) *SpinResponse {
	resp := &SpinResponse{
		DrawID:    r.Draw.ID,
		WheelID:   r.Draw.WheelID,
		RewardID:  r.Draw.RewardID,
		Nothing:   r.Nothing,
		CreatedAt: r.Draw.CreatedAt,
	}
	if r.Reward != nil {
		resp.RewardName = r.Reward.Name()
		resp.Rarity = r.Reward.Rarity()
	}
	return resp
}
