//go:build unit || e2e

package dbtest

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResetDB truncates all engine tables between subtests.
func ResetDB(db DBLike) error {
	_, err := db.Exec(context.Background(),
		"TRUNCATE spin_draws, rewards, reward_wheels, purchases, wallets, store_items CASCADE")
	return err
}

type ItemFixture struct {
	BusinessID          uuid.UUID
	Name                string
	RegularPriceCents   int64
	BaseDiscountPct     float64
	CoinCost            int64
	MaxPerUser          int
	Active              bool
	SaleStartAt         *time.Time
	SaleEndAt           *time.Time
	IsFlashSale         bool
	CountdownDisplay    bool
	SaleBoostPct        float64
	PurchaseExpiryHours int
	RequireUseByExpiry  bool
	AutoExpirePurchases bool
}

func DefaultItemFixture() ItemFixture {
	return ItemFixture{
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
	}
}

func SeedItem(db DBLike, f ItemFixture) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO store_items (
			id, business_id, name, regular_price_cents, base_discount_pct,
			qr_coin_cost, max_per_user, active, sale_start_at, sale_end_at,
			is_flash_sale, countdown_display, sale_boost_pct,
			purchase_expiry_hours, require_use_by_expiry, auto_expire_purchases
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		id, f.BusinessID, f.Name, f.RegularPriceCents, f.BaseDiscountPct,
		f.CoinCost, f.MaxPerUser, f.Active, f.SaleStartAt, f.SaleEndAt,
		f.IsFlashSale, f.CountdownDisplay, f.SaleBoostPct,
		f.PurchaseExpiryHours, f.RequireUseByExpiry, f.AutoExpirePurchases)
	return id, err
}

func SeedWallet(db DBLike, userID uuid.UUID, balance int64) error {
	_, err := db.Exec(context.Background(),
		"INSERT INTO wallets (user_id, qr_coin_balance) VALUES ($1, $2)",
		userID, balance)
	return err
}

func WalletBalance(db DBLike, userID uuid.UUID) (int64, error) {
	var balance int64
	err := db.QueryRow(context.Background(),
		"SELECT qr_coin_balance FROM wallets WHERE user_id = $1", userID).Scan(&balance)
	return balance, err
}

func PurchaseStatus(db DBLike, code string) (string, error) {
	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM purchases WHERE purchase_code = $1", code).Scan(&status)
	return status, err
}

func SeedWheel(db DBLike, businessID uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO reward_wheels (id, business_id) VALUES ($1, $2)",
		id, businessID)
	return id, err
}

func SeedReward(db DBLike, wheelID uuid.UUID, name string, rarity int, active bool) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO rewards (id, wheel_id, name, rarity_level, active)
		VALUES ($1, $2, $3, $4, $5)`,
		id, wheelID, name, rarity, active)
	return id, err
}

func SpinDrawCount(db DBLike, wheelID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM spin_draws WHERE wheel_id = $1", wheelID).Scan(&count)
	return count, err
}
