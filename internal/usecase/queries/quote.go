package queries

import (
	"context"
	"log/slog"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/infra"
	"revqr-engine/internal/pkg/clock"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// QuoteView is the full price breakdown the business UI shows verbatim.
type QuoteView struct {
	ItemID             uuid.UUID
	ItemName           string
	RegularPriceCents  int64
	DiscountPct        float64
	DiscountCents      int64
	CoinCost           int64
	BaseCost           int64
	DemandAdjustment   int64
	ScarcityAdjustment int64
	OnSale             bool
	RemainingSeconds   int64
}

type QuoteQueries interface {
	QuotePrice(ctx context.Context, itemID uuid.UUID) (*QuoteView, error)
}

type quoteQueriesImpl struct {
	uow        shared.UnitOfWork
	calculator *pricing.Calculator
	clock      clock.Clock
}

func NewQuoteQueries(
	uow shared.UnitOfWork,
	calculator *pricing.Calculator,
	clock clock.Clock,
) QuoteQueries {
	return &quoteQueriesImpl{
		uow:        uow,
		calculator: calculator,
		clock:      clock,
	}
}

func (q *quoteQueriesImpl) QuotePrice(ctx context.Context, itemID uuid.UUID) (*QuoteView, error) {
	now := q.clock.Now()
	repos := q.uow.Repos()

	item, err := repos.StoreItems().FindByID(ctx, itemID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrItemNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	demand, err := repos.Purchases().DemandContext(ctx, item.BusinessID(), item.ID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	discountPct := item.EffectiveDiscount(now)
	quote, err := q.calculator.Quote(item.RegularPriceCents(), discountPct, demand)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	// Refresh the cached cost when the live quote has drifted from it. The
	// quote itself is served either way.
	if quote.CoinCost != item.CoinCost() {
		if err := repos.StoreItems().UpdateCoinCost(ctx, item.ID(), quote.CoinCost, now); err != nil {
			slog.Warn("failed to refresh cached coin cost",
				"item_id", item.ID().String(),
				"error", err.Error())
		}
	}

	return &QuoteView{
		ItemID:             item.ID(),
		ItemName:           item.Name(),
		RegularPriceCents:  item.RegularPriceCents(),
		DiscountPct:        discountPct,
		DiscountCents:      quote.DiscountCents,
		CoinCost:           quote.CoinCost,
		BaseCost:           quote.Breakdown.BaseCost,
		DemandAdjustment:   quote.Breakdown.DemandAdjustment,
		ScarcityAdjustment: quote.Breakdown.ScarcityAdjustment,
		OnSale:             item.IsOnSale(now),
		RemainingSeconds:   item.RemainingSeconds(now),
	}, nil
}
