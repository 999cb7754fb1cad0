package repository

import (
	"context"
	"errors"
	"time"

	"revqr-engine/internal/domain/store"
	"revqr-engine/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const storeItemColumns = `
	id, business_id, name, regular_price_cents, base_discount_pct,
	qr_coin_cost, max_per_user, active,
	sale_start_at, sale_end_at, is_flash_sale, countdown_display,
	sale_boost_pct, purchase_expiry_hours, require_use_by_expiry,
	auto_expire_purchases, created_at, updated_at`

type StoreItemRepository struct {
	db DBTX
}

func NewStoreItemRepository(db DBTX) *StoreItemRepository {
	return &StoreItemRepository{db: db}
}

func (r *StoreItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Item, error) {
	query := `SELECT` + storeItemColumns + ` FROM store_items WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *StoreItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*store.Item, error) {
	query := `SELECT` + storeItemColumns + ` FROM store_items WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *StoreItemRepository) UpdateCoinCost(ctx context.Context, id uuid.UUID, coinCost int64, updatedAt time.Time) error {
	query := `UPDATE store_items SET qr_coin_cost = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, coinCost, updatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update coin cost", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("store item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *StoreItemRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*store.Item, error) {
	var (
		p         store.ReconstructItemParams
		saleStart pgtype.Timestamptz
		saleEnd   pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.BusinessID, &p.Name, &p.RegularPriceCents, &p.BaseDiscountPct,
		&p.CoinCost, &p.MaxPerUser, &p.Active,
		&saleStart, &saleEnd, &p.IsFlashSale, &p.CountdownDisplay,
		&p.SaleBoostPct, &p.PurchaseExpiryHours, &p.RequireUseByExpiry,
		&p.AutoExpirePurchases, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("store item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find store item", err)
	}

	if saleStart.Valid && saleEnd.Valid {
		window, err := store.NewSaleWindow(saleStart.Time, saleEnd.Time)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid sale window on store item row", err)
		}
		p.SaleWindow = &window
	}

	return store.ReconstructItem(p), nil
}
