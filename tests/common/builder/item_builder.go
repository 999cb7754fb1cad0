//go:build unit || e2e

package builder

import (
	"time"

	domstore "revqr-engine/internal/domain/store"

	"github.com/google/uuid"
)

type ItemBuilder struct {
	BusinessID          uuid.UUID
	Name                string
	RegularPriceCents   int64
	BaseDiscountPct     float64
	CoinCost            int64
	MaxPerUser          int
	Active              bool
	SaleWindow          *domstore.SaleWindow
	IsFlashSale         bool
	CountdownDisplay    bool
	SaleBoostPct        float64
	PurchaseExpiryHours int
	RequireUseByExpiry  bool
	AutoExpirePurchases bool
	Now                 time.Time
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		BusinessID:          uuid.New(),
		Name:                "Free Coffee",
		RegularPriceCents:   500,
		BaseDiscountPct:     10,
		CoinCost:            500,
		MaxPerUser:          5,
		Active:              true,
		PurchaseExpiryHours: 720,
		RequireUseByExpiry:  true,
		AutoExpirePurchases: true,
		Now:                 time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ItemBuilder) With(mutate func(*ItemBuilder)) *ItemBuilder {
	mutate(b)
	return b
}

func (b *ItemBuilder) BuildDomain() (*domstore.Item, error) {
	return domstore.NewItem(domstore.NewItemParams{
		BusinessID:          b.BusinessID,
		Name:                b.Name,
		RegularPriceCents:   b.RegularPriceCents,
		BaseDiscountPct:     b.BaseDiscountPct,
		MaxPerUser:          b.MaxPerUser,
		SaleWindow:          b.SaleWindow,
		IsFlashSale:         b.IsFlashSale,
		CountdownDisplay:    b.CountdownDisplay,
		SaleBoostPct:        b.SaleBoostPct,
		PurchaseExpiryHours: b.PurchaseExpiryHours,
		RequireUseByExpiry:  b.RequireUseByExpiry,
		AutoExpirePurchases: b.AutoExpirePurchases,
	}, b.Now)
}

// BuildReconstructed bypasses creation-time validation, for persisted-state
// scenarios like inactive items.
func (b *ItemBuilder) BuildReconstructed() *domstore.Item {
	return domstore.ReconstructItem(domstore.ReconstructItemParams{
		ID:                  uuid.New(),
		BusinessID:          b.BusinessID,
		Name:                b.Name,
		RegularPriceCents:   b.RegularPriceCents,
		BaseDiscountPct:     b.BaseDiscountPct,
		CoinCost:            b.CoinCost,
		MaxPerUser:          b.MaxPerUser,
		Active:              b.Active,
		SaleWindow:          b.SaleWindow,
		IsFlashSale:         b.IsFlashSale,
		CountdownDisplay:    b.CountdownDisplay,
		SaleBoostPct:        b.SaleBoostPct,
		PurchaseExpiryHours: b.PurchaseExpiryHours,
		RequireUseByExpiry:  b.RequireUseByExpiry,
		AutoExpirePurchases: b.AutoExpirePurchases,
		CreatedAt:           b.Now,
		UpdatedAt:           b.Now,
	})
}

func (b *ItemBuilder) WithBusinessID(id uuid.UUID) *ItemBuilder {
	b.BusinessID = id
	return b
}

func (b *ItemBuilder) WithPrice(cents int64) *ItemBuilder {
	b.RegularPriceCents = cents
	return b
}

func (b *ItemBuilder) WithDiscount(pct float64) *ItemBuilder {
	b.BaseDiscountPct = pct
	return b
}

func (b *ItemBuilder) WithMaxPerUser(n int) *ItemBuilder {
	b.MaxPerUser = n
	return b
}

func (b *ItemBuilder) WithActive(active bool) *ItemBuilder {
	b.Active = active
	return b
}

func (b *ItemBuilder) WithSale(window *domstore.SaleWindow, boostPct float64) *ItemBuilder {
	b.SaleWindow = window
	b.SaleBoostPct = boostPct
	return b
}

func (b *ItemBuilder) WithCountdown(window *domstore.SaleWindow) *ItemBuilder {
	b.SaleWindow = window
	b.CountdownDisplay = true
	return b
}

func (b *ItemBuilder) WithExpiry(hours int, required, auto bool) *ItemBuilder {
	b.PurchaseExpiryHours = hours
	b.RequireUseByExpiry = required
	b.AutoExpirePurchases = auto
	return b
}
