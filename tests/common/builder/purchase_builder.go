//go:build unit || e2e

package builder

import (
	"time"

	dompurchase "revqr-engine/internal/domain/purchase"

	"github.com/google/uuid"
)

type PurchaseBuilder struct {
	UserID             uuid.UUID
	BusinessID         uuid.UUID
	ItemID             uuid.UUID
	CoinsSpent         int64
	DiscountPctApplied float64
	Status             dompurchase.Status
	ExpiryEnforced     bool
	CreatedAt          time.Time
	ExpiresAt          time.Time
	RedeemedAt         *time.Time
}

func NewPurchaseBuilder() *PurchaseBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &PurchaseBuilder{
		UserID:             uuid.New(),
		BusinessID:         uuid.New(),
		ItemID:             uuid.New(),
		CoinsSpent:         500,
		DiscountPctApplied: 10,
		Status:             dompurchase.StatusPending,
		ExpiryEnforced:     true,
		CreatedAt:          now,
		ExpiresAt:          now.Add(720 * time.Hour),
	}
}

func (b *PurchaseBuilder) With(mutate func(*PurchaseBuilder)) *PurchaseBuilder {
	mutate(b)
	return b
}

func (b *PurchaseBuilder) BuildDomain() (*dompurchase.Purchase, error) {
	hours := int(b.ExpiresAt.Sub(b.CreatedAt).Hours())
	return dompurchase.NewPurchase(dompurchase.NewPurchaseParams{
		UserID:             b.UserID,
		BusinessID:         b.BusinessID,
		ItemID:             b.ItemID,
		CoinsSpent:         b.CoinsSpent,
		DiscountPctApplied: b.DiscountPctApplied,
		ExpiryHours:        hours,
		ExpiryEnforced:     b.ExpiryEnforced,
	}, b.CreatedAt)
}

// BuildReconstructed yields a persisted-state purchase with a fresh code, for
// scenarios that need a non-pending status or a past deadline.
func (b *PurchaseBuilder) BuildReconstructed() (*dompurchase.Purchase, error) {
	code, err := dompurchase.NewCode()
	if err != nil {
		return nil, err
	}
	return dompurchase.ReconstructPurchase(dompurchase.ReconstructPurchaseParams{
		ID:                 uuid.New(),
		UserID:             b.UserID,
		BusinessID:         b.BusinessID,
		ItemID:             b.ItemID,
		CoinsSpent:         b.CoinsSpent,
		DiscountPctApplied: b.DiscountPctApplied,
		Code:               code,
		Status:             b.Status,
		ExpiryEnforced:     b.ExpiryEnforced,
		CreatedAt:          b.CreatedAt,
		ExpiresAt:          b.ExpiresAt,
		RedeemedAt:         b.RedeemedAt,
	}), nil
}

func (b *PurchaseBuilder) WithUserID(id uuid.UUID) *PurchaseBuilder {
	b.UserID = id
	return b
}

func (b *PurchaseBuilder) WithItemID(id uuid.UUID) *PurchaseBuilder {
	b.ItemID = id
	return b
}

func (b *PurchaseBuilder) WithStatus(s dompurchase.Status) *PurchaseBuilder {
	b.Status = s
	return b
}

func (b *PurchaseBuilder) WithExpiryEnforced(enforced bool) *PurchaseBuilder {
	b.ExpiryEnforced = enforced
	return b
}

func (b *PurchaseBuilder) WithExpiresAt(t time.Time) *PurchaseBuilder {
	b.ExpiresAt = t
	return b
}
