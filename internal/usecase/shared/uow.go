package shared

import (
	"context"
	"time"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/domain/store"
	"revqr-engine/internal/domain/wheel"

	"github.com/google/uuid"
)

// UnitOfWork is the engine's storage boundary. Within runs fn inside one
// transaction with retry on serialization failures; Repos gives repository
// access with implicit per-statement transactions.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Repos() Tx
}

type Tx interface {
	StoreItems() StoreItemRepository
	Purchases() PurchaseRepository
	Wallets() WalletRepository
	Wheels() WheelRepository
}

type StoreItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*store.Item, error)
	// FindByIDForUpdate locks the item row so capacity checks and the
	// purchase insert serialize per item.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*store.Item, error)
	UpdateCoinCost(ctx context.Context, id uuid.UUID, coinCost int64, updatedAt time.Time) error
}

type PurchaseRepository interface {
	Insert(ctx context.Context, p *purchase.Purchase) error
	FindByCode(ctx context.Context, code purchase.Code) (*purchase.Purchase, error)
	// UpdateStatus performs the conditional transition "set status=to where
	// status=from". It reports false when the row was not in from-status,
	// which is how concurrent redeem/expire races lose cleanly.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to purchase.Status, at time.Time) (bool, error)
	CountForUserItem(ctx context.Context, userID, itemID uuid.UUID) (int, error)
	FindPendingExpiredIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	DemandContext(ctx context.Context, businessID, itemID uuid.UUID) (pricing.DemandContext, error)
}

// WalletRepository debits the user's coin wallet. The wallet itself is
// owned by the surrounding platform; the engine only needs an atomic debit
// inside the purchase transaction.
type WalletRepository interface {
	Debit(ctx context.Context, userID uuid.UUID, amount int64) error
}

type WheelRepository interface {
	ListActiveRewards(ctx context.Context, wheelID uuid.UUID) ([]*wheel.Reward, error)
	InsertDraw(ctx context.Context, d *wheel.SpinDraw) error
}
