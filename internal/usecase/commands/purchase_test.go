//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/pkg/clock"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/tests/common/builder"
	"revqr-engine/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPurchaseCommands(t *testing.T, store *fake.Store) commands.PurchaseCommands {
	t.Helper()
	calc, err := pricing.NewCalculator(0.001, pricing.CurveParams{
		DemandSlope:        0.6,
		ScarcitySlope:      0.5,
		MaxAdjustmentRatio: 0.5,
	})
	require.NoError(t, err)
	return commands.NewPurchaseCommands(store, calc, clock.NewMockClock(testNow))
}

func TestPurchaseItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success: wallet debited and pending purchase created", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 1000

		uc := newPurchaseCommands(t, store)
		p, err := uc.PurchaseItem(ctx, item.ID(), userID)
		require.NoError(t, err)
		require.NotNil(t, p)

		// $5.00 at 10% with one coin worth $0.001 costs 500 coins.
		assert.Equal(t, int64(500), p.CoinsSpent())
		assert.InDelta(t, 10, p.DiscountPctApplied(), 1e-9)
		assert.Equal(t, purchase.StatusPending, p.Status())
		assert.Equal(t, testNow.Add(720*time.Hour), p.ExpiresAt())
		assert.True(t, p.ExpiryEnforced())

		assert.Equal(t, int64(500), store.Balances[userID])
		assert.Contains(t, store.Purchases, p.ID())
	})

	t.Run("error: unknown item", func(t *testing.T) {
		store := fake.NewStore()
		store.Balances[uuid.New()] = 1000

		uc := newPurchaseCommands(t, store)
		_, err := uc.PurchaseItem(ctx, uuid.New(), uuid.New())
		require.ErrorIs(t, err, errs.ErrItemNotFound)
	})

	t.Run("error: inactive item", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().WithActive(false).BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 1000

		uc := newPurchaseCommands(t, store)
		_, err := uc.PurchaseItem(ctx, item.ID(), userID)
		require.ErrorIs(t, err, errs.ErrItemInactive)
		assert.Equal(t, int64(1000), store.Balances[userID], "wallet must not be touched")
	})

	t.Run("error: per-user cap reached", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().WithMaxPerUser(1).BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 10000

		prior, err := builder.NewPurchaseBuilder().
			WithUserID(userID).
			WithItemID(item.ID()).
			BuildReconstructed()
		require.NoError(t, err)
		store.Purchases[prior.ID()] = prior

		uc := newPurchaseCommands(t, store)
		_, err = uc.PurchaseItem(ctx, item.ID(), userID)
		require.ErrorIs(t, err, errs.ErrSoldOut)
	})

	t.Run("expired purchases do not count toward the cap", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().WithMaxPerUser(1).BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 10000

		expired, err := builder.NewPurchaseBuilder().
			WithUserID(userID).
			WithItemID(item.ID()).
			WithStatus(purchase.StatusExpired).
			BuildReconstructed()
		require.NoError(t, err)
		store.Purchases[expired.ID()] = expired

		uc := newPurchaseCommands(t, store)
		_, err = uc.PurchaseItem(ctx, item.ID(), userID)
		require.NoError(t, err)
	})

	t.Run("error: insufficient balance", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 499

		uc := newPurchaseCommands(t, store)
		_, err := uc.PurchaseItem(ctx, item.ID(), userID)
		require.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Equal(t, int64(499), store.Balances[userID])
	})

	t.Run("error: missing wallet", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().BuildReconstructed()
		store.Items[item.ID()] = item

		uc := newPurchaseCommands(t, store)
		_, err := uc.PurchaseItem(ctx, item.ID(), uuid.New())
		require.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	t.Run("demand context raises the charged cost", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().BuildReconstructed()
		store.Items[item.ID()] = item
		store.Demand[item.ID()] = pricing.DemandContext{RedemptionRate: 1}

		userID := uuid.New()
		store.Balances[userID] = 1000

		uc := newPurchaseCommands(t, store)
		p, err := uc.PurchaseItem(ctx, item.ID(), userID)
		require.NoError(t, err)

		// Demand factor clamps at half the base cost: 500 + 250.
		assert.Equal(t, int64(750), p.CoinsSpent())
		assert.Equal(t, int64(250), store.Balances[userID])
		assert.Equal(t, int64(750), store.Items[item.ID()].CoinCost(), "cached cost refreshed")
	})

	t.Run("concurrent purchases respect the per-user cap", func(t *testing.T) {
		store := fake.NewStore()
		item := builder.NewItemBuilder().WithMaxPerUser(1).BuildReconstructed()
		store.Items[item.ID()] = item

		userID := uuid.New()
		store.Balances[userID] = 1_000_000

		uc := newPurchaseCommands(t, store)

		const attempts = 100
		var wg sync.WaitGroup
		results := make([]error, attempts)
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = uc.PurchaseItem(ctx, item.ID(), userID)
			}()
		}
		wg.Wait()

		succeeded := 0
		for _, err := range results {
			if err == nil {
				succeeded++
			} else {
				require.ErrorIs(t, err, errs.ErrSoldOut)
			}
		}
		assert.Equal(t, 1, succeeded, "exactly one purchase may win")
		assert.Len(t, store.Purchases, 1)
		assert.Equal(t, int64(1_000_000-500), store.Balances[userID])
	})
}

func TestRedeemCode(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *fake.Store, mutate func(*builder.PurchaseBuilder)) *purchase.Purchase {
		t.Helper()
		b := builder.NewPurchaseBuilder().
			With(func(b *builder.PurchaseBuilder) { b.CreatedAt = testNow; b.ExpiresAt = testNow.Add(720 * time.Hour) })
		if mutate != nil {
			b.With(mutate)
		}
		p, err := b.BuildReconstructed()
		require.NoError(t, err)
		store.Purchases[p.ID()] = p
		return p
	}

	t.Run("success: pending code redeems once", func(t *testing.T) {
		store := fake.NewStore()
		p := seed(t, store, nil)

		uc := newPurchaseCommands(t, store)
		redeemed, err := uc.RedeemCode(ctx, p.Code().String())
		require.NoError(t, err)

		assert.Equal(t, purchase.StatusRedeemed, redeemed.Status())
		require.NotNil(t, redeemed.RedeemedAt())
		assert.Equal(t, testNow, *redeemed.RedeemedAt())
		assert.Equal(t, purchase.StatusRedeemed, store.Purchases[p.ID()].Status())
	})

	t.Run("error: second redemption conflicts", func(t *testing.T) {
		store := fake.NewStore()
		p := seed(t, store, nil)

		uc := newPurchaseCommands(t, store)
		_, err := uc.RedeemCode(ctx, p.Code().String())
		require.NoError(t, err)

		_, err = uc.RedeemCode(ctx, p.Code().String())
		require.ErrorIs(t, err, errs.ErrAlreadyRedeemed)
	})

	t.Run("error: enforced deadline expires the code on contact", func(t *testing.T) {
		store := fake.NewStore()
		p := seed(t, store, func(b *builder.PurchaseBuilder) {
			b.WithExpiresAt(testNow.Add(-time.Hour))
		})

		uc := newPurchaseCommands(t, store)
		_, err := uc.RedeemCode(ctx, p.Code().String())
		require.ErrorIs(t, err, errs.ErrPurchaseExpired)

		// Lazy expiry persisted the transition.
		assert.Equal(t, purchase.StatusExpired, store.Purchases[p.ID()].Status())
	})

	t.Run("unenforced deadline still redeems", func(t *testing.T) {
		store := fake.NewStore()
		p := seed(t, store, func(b *builder.PurchaseBuilder) {
			b.WithExpiryEnforced(false).WithExpiresAt(testNow.Add(-time.Hour))
		})

		uc := newPurchaseCommands(t, store)
		redeemed, err := uc.RedeemCode(ctx, p.Code().String())
		require.NoError(t, err)
		assert.Equal(t, purchase.StatusRedeemed, redeemed.Status())
	})

	t.Run("error: malformed code is reported as not found", func(t *testing.T) {
		store := fake.NewStore()
		uc := newPurchaseCommands(t, store)

		_, err := uc.RedeemCode(ctx, "not-a-valid-code")
		require.ErrorIs(t, err, errs.ErrPurchaseNotFound)
	})

	t.Run("error: unknown code", func(t *testing.T) {
		store := fake.NewStore()
		uc := newPurchaseCommands(t, store)

		code, err := purchase.NewCode()
		require.NoError(t, err)

		_, err = uc.RedeemCode(ctx, code.String())
		require.ErrorIs(t, err, errs.ErrPurchaseNotFound)
	})
}

func TestSweepExpirations(t *testing.T) {
	ctx := context.Background()

	store := fake.NewStore()

	mustSeed := func(mutate func(*builder.PurchaseBuilder)) *purchase.Purchase {
		p, err := builder.NewPurchaseBuilder().With(mutate).BuildReconstructed()
		require.NoError(t, err)
		store.Purchases[p.ID()] = p
		return p
	}

	stale := mustSeed(func(b *builder.PurchaseBuilder) {
		b.WithExpiresAt(testNow.Add(-time.Hour))
	})
	fresh := mustSeed(func(b *builder.PurchaseBuilder) {
		b.WithExpiresAt(testNow.Add(time.Hour))
	})
	redeemed := mustSeed(func(b *builder.PurchaseBuilder) {
		b.WithStatus(purchase.StatusRedeemed).WithExpiresAt(testNow.Add(-time.Hour))
	})
	unenforced := mustSeed(func(b *builder.PurchaseBuilder) {
		b.WithExpiryEnforced(false).WithExpiresAt(testNow.Add(-time.Hour))
	})

	uc := newPurchaseCommands(t, store)
	swept, err := uc.SweepExpirations(ctx, 100)
	require.NoError(t, err)

	require.Len(t, swept, 1)
	assert.Equal(t, stale.ID(), swept[0])

	assert.Equal(t, purchase.StatusExpired, store.Purchases[stale.ID()].Status())
	assert.Equal(t, purchase.StatusPending, store.Purchases[fresh.ID()].Status())
	assert.Equal(t, purchase.StatusRedeemed, store.Purchases[redeemed.ID()].Status())
	assert.Equal(t, purchase.StatusPending, store.Purchases[unenforced.ID()].Status())
}
