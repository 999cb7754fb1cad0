package repository

import (
	"context"
	"errors"
	"time"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type PurchaseRepository struct {
	db DBTX
}

func NewPurchaseRepository(db DBTX) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Insert(ctx context.Context, p *purchase.Purchase) error {
	query := `
		INSERT INTO purchases (
			id, user_id, business_id, store_item_id, qr_coins_spent,
			discount_pct_applied, purchase_code, status, expiry_enforced,
			created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		p.ID(), p.UserID(), p.BusinessID(), p.ItemID(), p.CoinsSpent(),
		p.DiscountPctApplied(), p.Code().String(), p.Status().String(),
		p.ExpiryEnforced(), p.CreatedAt(), p.ExpiresAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("duplicate purchase", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert purchase", err)
	}
	return nil
}

func (r *PurchaseRepository) FindByCode(ctx context.Context, code purchase.Code) (*purchase.Purchase, error) {
	query := `
		SELECT id, user_id, business_id, store_item_id, qr_coins_spent,
		       discount_pct_applied, purchase_code, status, expiry_enforced,
		       created_at, expires_at, redeemed_at
		FROM purchases
		WHERE purchase_code = $1
		FOR UPDATE`

	var (
		p          purchase.ReconstructPurchaseParams
		rawCode    string
		rawStatus  string
		redeemedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, code.String()).Scan(
		&p.ID, &p.UserID, &p.BusinessID, &p.ItemID, &p.CoinsSpent,
		&p.DiscountPctApplied, &rawCode, &rawStatus, &p.ExpiryEnforced,
		&p.CreatedAt, &p.ExpiresAt, &redeemedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("purchase not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find purchase by code", err)
	}

	p.Code = purchase.Code(rawCode)
	p.Status, err = purchase.ParseStatus(rawStatus)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid status on purchase row", err)
	}
	if redeemedAt.Valid {
		t := redeemedAt.Time
		p.RedeemedAt = &t
	}

	return purchase.ReconstructPurchase(p), nil
}

// UpdateStatus is the conditional transition that makes concurrent
// redeem/expire attempts resolve to exactly one winner.
func (r *PurchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to purchase.Status, at time.Time) (bool, error) {
	query := `
		UPDATE purchases
		SET status = $3,
		    redeemed_at = CASE WHEN $3 = 'redeemed' THEN $4 ELSE redeemed_at END
		WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, query, id, from.String(), to.String(), at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update purchase status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PurchaseRepository) CountForUserItem(ctx context.Context, userID, itemID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM purchases
		WHERE user_id = $1 AND store_item_id = $2 AND status <> 'expired'`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, itemID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count user purchases", err)
	}
	return count, nil
}

func (r *PurchaseRepository) FindPendingExpiredIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM purchases
		WHERE status = 'pending' AND expiry_enforced AND expires_at < $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired purchases", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired purchase id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired purchases", err)
	}
	return ids, nil
}

// DemandContext gathers the pricing signals for a business and item in one
// round trip.
func (r *PurchaseRepository) DemandContext(ctx context.Context, businessID, itemID uuid.UUID) (pricing.DemandContext, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT user_id) FROM purchases WHERE business_id = $1),
			(SELECT COUNT(*) FROM purchases WHERE store_item_id = $2 AND status = 'pending'),
			COALESCE((
				SELECT COUNT(*) FILTER (WHERE status = 'redeemed')::float8 / NULLIF(COUNT(*), 0)
				FROM purchases
				WHERE business_id = $1 AND created_at > now() - interval '30 days'
			), 0)`

	var ctx2 pricing.DemandContext
	err := r.db.QueryRow(ctx, query, businessID, itemID).Scan(
		&ctx2.EstimatedUsers, &ctx2.ActivePurchases, &ctx2.RedemptionRate,
	)
	if err != nil {
		return pricing.DemandContext{}, infra.WrapRepoErr("failed to load demand context", err)
	}
	return ctx2, nil
}
