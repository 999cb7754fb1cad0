package commands

import (
	"context"
	"errors"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/infra"
	"revqr-engine/internal/pkg/clock"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type PurchaseCommands interface {
	// PurchaseItem quotes the item at the current effective discount,
	// debits the user's wallet and creates a pending purchase, all in one
	// transaction.
	PurchaseItem(ctx context.Context, itemID, userID uuid.UUID) (*purchase.Purchase, error)
	// RedeemCode resolves an operator-presented purchase code.
	RedeemCode(ctx context.Context, code string) (*purchase.Purchase, error)
	// SweepExpirations expires stale pending purchases and returns the ids
	// it transitioned.
	SweepExpirations(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type purchaseCommandsImpl struct {
	uow        shared.UnitOfWork
	calculator *pricing.Calculator
	clock      clock.Clock
}

func NewPurchaseCommands(
	uow shared.UnitOfWork,
	calculator *pricing.Calculator,
	clock clock.Clock,
) PurchaseCommands {
	return &purchaseCommandsImpl{
		uow:        uow,
		calculator: calculator,
		clock:      clock,
	}
}

func (u *purchaseCommandsImpl) PurchaseItem(ctx context.Context, itemID, userID uuid.UUID) (*purchase.Purchase, error) {
	now := u.clock.Now()

	var created *purchase.Purchase
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The row lock serializes per-item capacity checks against
		// concurrent purchases.
		item, err := tx.StoreItems().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrItemNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !item.Active() {
			return errs.ErrItemInactive
		}

		count, err := tx.Purchases().CountForUserItem(ctx, userID, itemID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if count >= item.MaxPerUser() {
			return errs.ErrSoldOut
		}

		demand, err := tx.Purchases().DemandContext(ctx, item.BusinessID(), itemID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		discountPct := item.EffectiveDiscount(now)
		quote, err := u.calculator.Quote(item.RegularPriceCents(), discountPct, demand)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidInput)
		}

		if quote.CoinCost != item.CoinCost() {
			if err := tx.StoreItems().UpdateCoinCost(ctx, item.ID(), quote.CoinCost, now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Wallets().Debit(ctx, userID, quote.CoinCost); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.ErrInsufficientBalance
			}
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrInsufficientBalance
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		p, err := purchase.NewPurchase(purchase.NewPurchaseParams{
			UserID:             userID,
			BusinessID:         item.BusinessID(),
			ItemID:             item.ID(),
			CoinsSpent:         quote.CoinCost,
			DiscountPctApplied: discountPct,
			ExpiryHours:        item.PurchaseExpiryHours(),
			ExpiryEnforced:     item.ExpiryEnforced(),
		}, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tx.Purchases().Insert(ctx, p); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *purchaseCommandsImpl) RedeemCode(ctx context.Context, code string) (*purchase.Purchase, error) {
	parsed, err := purchase.ParseCode(code)
	if err != nil {
		return nil, errs.ErrPurchaseNotFound
	}

	now := u.clock.Now()

	var redeemed *purchase.Purchase
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Purchases().FindByCode(ctx, parsed)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrPurchaseNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		redeemErr := p.Redeem(now)
		switch {
		case redeemErr == nil:
			ok, err := tx.Purchases().UpdateStatus(ctx, p.ID(), purchase.StatusPending, purchase.StatusRedeemed, now)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !ok {
				// A concurrent attempt won the conditional update.
				return errs.ErrAlreadyRedeemed
			}
			redeemed = p
			return nil

		case errors.Is(redeemErr, purchase.ErrAlreadyRedeemed):
			return errs.ErrAlreadyRedeemed

		case errors.Is(redeemErr, purchase.ErrExpired):
			// Lazy expiry: record the transition before refusing. The
			// conditional update no-ops when the row already left Pending.
			if _, err := tx.Purchases().UpdateStatus(ctx, p.ID(), purchase.StatusPending, purchase.StatusExpired, now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return errs.ErrPurchaseExpired

		default:
			return errs.Mark(redeemErr, errs.ErrDatabaseOperationFailed)
		}
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

func (u *purchaseCommandsImpl) SweepExpirations(ctx context.Context, limit int) ([]uuid.UUID, error) {
	now := u.clock.Now()
	repos := u.uow.Repos()

	ids, err := repos.Purchases().FindPendingExpiredIDs(ctx, now, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// Per-row conditional updates let a concurrent redemption win its race;
	// the sweep simply skips rows that already left Pending.
	swept := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		ok, err := repos.Purchases().UpdateStatus(ctx, id, purchase.StatusPending, purchase.StatusExpired, now)
		if err != nil {
			return swept, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if ok {
			swept = append(swept, id)
		}
	}
	return swept, nil
}
