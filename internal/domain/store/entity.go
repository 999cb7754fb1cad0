package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPrice        = errors.New("regular price must be positive")
	ErrInvalidDiscount     = errors.New("base discount must be in [0, 100]")
	ErrInvalidBoost        = errors.New("sale discount boost cannot be negative")
	ErrInvalidMaxPerUser   = errors.New("max per user must be at least 1")
	ErrInvalidExpiryHours  = errors.New("purchase expiry hours must be positive")
	ErrSaleWindowRequired  = errors.New("flash sale and countdown require a sale window")
	ErrItemHasPurchases    = errors.New("item with purchases cannot be deleted")
)

// Item is a business's redeemable discount offer. The engine never mutates
// an item except for the cached coin cost.
type Item struct {
	id                  uuid.UUID
	businessID          uuid.UUID
	name                string
	regularPriceCents   int64
	baseDiscountPct     float64
	coinCost            int64 // cached, recomputed by the engine
	maxPerUser          int
	active              bool
	saleWindow          *SaleWindow
	isFlashSale         bool
	countdownDisplay    bool
	saleBoostPct        float64
	purchaseExpiryHours int
	requireUseByExpiry  bool
	autoExpirePurchases bool
	createdAt           time.Time
	updatedAt           time.Time
}

type NewItemParams struct {
	BusinessID          uuid.UUID
	Name                string
	RegularPriceCents   int64
	BaseDiscountPct     float64
	MaxPerUser          int
	SaleWindow          *SaleWindow
	IsFlashSale         bool
	CountdownDisplay    bool
	SaleBoostPct        float64
	PurchaseExpiryHours int
	RequireUseByExpiry  bool
	AutoExpirePurchases bool
}

func NewItem(p NewItemParams, now time.Time) (*Item, error) {
	if p.RegularPriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if p.BaseDiscountPct < 0 || p.BaseDiscountPct > 100 {
		return nil, ErrInvalidDiscount
	}
	if p.SaleBoostPct < 0 {
		return nil, ErrInvalidBoost
	}
	if p.MaxPerUser < 1 {
		return nil, ErrInvalidMaxPerUser
	}
	if p.PurchaseExpiryHours <= 0 {
		return nil, ErrInvalidExpiryHours
	}
	if (p.IsFlashSale || p.CountdownDisplay) && p.SaleWindow == nil {
		return nil, ErrSaleWindowRequired
	}

	return &Item{
		id:                  uuid.New(),
		businessID:          p.BusinessID,
		name:                p.Name,
		regularPriceCents:   p.RegularPriceCents,
		baseDiscountPct:     p.BaseDiscountPct,
		maxPerUser:          p.MaxPerUser,
		active:              true,
		saleWindow:          p.SaleWindow,
		isFlashSale:         p.IsFlashSale,
		countdownDisplay:    p.CountdownDisplay,
		saleBoostPct:        p.SaleBoostPct,
		purchaseExpiryHours: p.PurchaseExpiryHours,
		requireUseByExpiry:  p.RequireUseByExpiry,
		autoExpirePurchases: p.AutoExpirePurchases,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

type ReconstructItemParams struct {
	ID                  uuid.UUID
	BusinessID          uuid.UUID
	Name                string
	RegularPriceCents   int64
	BaseDiscountPct     float64
	CoinCost            int64
	MaxPerUser          int
	Active              bool
	SaleWindow          *SaleWindow
	IsFlashSale         bool
	CountdownDisplay    bool
	SaleBoostPct        float64
	PurchaseExpiryHours int
	RequireUseByExpiry  bool
	AutoExpirePurchases bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func ReconstructItem(p ReconstructItemParams) *Item {
	return &Item{
		id:                  p.ID,
		businessID:          p.BusinessID,
		name:                p.Name,
		regularPriceCents:   p.RegularPriceCents,
		baseDiscountPct:     p.BaseDiscountPct,
		coinCost:            p.CoinCost,
		maxPerUser:          p.MaxPerUser,
		active:              p.Active,
		saleWindow:          p.SaleWindow,
		isFlashSale:         p.IsFlashSale,
		countdownDisplay:    p.CountdownDisplay,
		saleBoostPct:        p.SaleBoostPct,
		purchaseExpiryHours: p.PurchaseExpiryHours,
		requireUseByExpiry:  p.RequireUseByExpiry,
		autoExpirePurchases: p.AutoExpirePurchases,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}
}

// EffectiveDiscount is the base discount plus the sale boost while inside
// the sale window, clamped to [0, 100].
func (i *Item) EffectiveDiscount(now time.Time) float64 {
	pct := i.baseDiscountPct
	if i.IsOnSale(now) {
		pct += i.saleBoostPct
	}
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

func (i *Item) IsOnSale(now time.Time) bool {
	return i.saleWindow != nil && i.saleWindow.Contains(now)
}

// RemainingSeconds is the countdown value: seconds until the sale window
// ends, zero once it has, zero when no countdown is configured.
func (i *Item) RemainingSeconds(now time.Time) int64 {
	if !i.countdownDisplay || i.saleWindow == nil {
		return 0
	}
	remaining := int64(i.saleWindow.End().Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExpiryEnforced reports whether purchases of this item auto-expire.
func (i *Item) ExpiryEnforced() bool {
	return i.requireUseByExpiry && i.autoExpirePurchases
}

// SetCoinCost updates the cached coin cost. This is the only field the
// engine writes back to an item.
func (i *Item) SetCoinCost(cost int64, now time.Time) {
	i.coinCost = cost
	i.updatedAt = now
}

func (i *Item) ID() uuid.UUID            { return i.id }
func (i *Item) BusinessID() uuid.UUID    { return i.businessID }
func (i *Item) Name() string             { return i.name }
func (i *Item) RegularPriceCents() int64 { return i.regularPriceCents }
func (i *Item) BaseDiscountPct() float64 { return i.baseDiscountPct }
func (i *Item) CoinCost() int64          { return i.coinCost }
func (i *Item) MaxPerUser() int          { return i.maxPerUser }
func (i *Item) Active() bool             { return i.active }
func (i *Item) SaleWindow() *SaleWindow  { return i.saleWindow }
func (i *Item) IsFlashSale() bool        { return i.isFlashSale }
func (i *Item) CountdownDisplay() bool   { return i.countdownDisplay }
func (i *Item) SaleBoostPct() float64    { return i.saleBoostPct }
func (i *Item) PurchaseExpiryHours() int { return i.purchaseExpiryHours }
func (i *Item) RequireUseByExpiry() bool { return i.requireUseByExpiry }
func (i *Item) AutoExpirePurchases() bool { return i.autoExpirePurchases }
func (i *Item) CreatedAt() time.Time     { return i.createdAt }
func (i *Item) UpdatedAt() time.Time     { return i.updatedAt }
