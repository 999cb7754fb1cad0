//go:build unit

package purchase_test

import (
	"strings"
	"testing"
	"time"

	"revqr-engine/internal/domain/purchase"
	"revqr-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchase(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p, err := purchase.NewPurchase(purchase.NewPurchaseParams{
		UserID:             uuid.New(),
		BusinessID:         uuid.New(),
		ItemID:             uuid.New(),
		CoinsSpent:         500,
		DiscountPctApplied: 10,
		ExpiryHours:        720,
		ExpiryEnforced:     true,
	}, now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, purchase.StatusPending, p.Status())
	assert.Equal(t, now.Add(720*time.Hour), p.ExpiresAt())
	assert.Nil(t, p.RedeemedAt())
	assert.Len(t, p.Code().String(), 20)
}

func TestRedeem(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending purchase redeems", func(t *testing.T) {
		p, err := builder.NewPurchaseBuilder().BuildDomain()
		require.NoError(t, err)

		redeemAt := now.Add(time.Hour)
		require.NoError(t, p.Redeem(redeemAt))

		assert.Equal(t, purchase.StatusRedeemed, p.Status())
		require.NotNil(t, p.RedeemedAt())
		assert.Equal(t, redeemAt, *p.RedeemedAt())
	})

	t.Run("second redeem fails", func(t *testing.T) {
		p, err := builder.NewPurchaseBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.Redeem(now.Add(time.Hour)))
		err = p.Redeem(now.Add(2 * time.Hour))
		require.ErrorIs(t, err, purchase.ErrAlreadyRedeemed)

		// The first redemption timestamp is untouched.
		assert.Equal(t, now.Add(time.Hour), *p.RedeemedAt())
	})

	t.Run("enforced deadline expires on contact", func(t *testing.T) {
		p, err := builder.NewPurchaseBuilder().
			WithExpiresAt(now.Add(time.Hour)).
			BuildReconstructed()
		require.NoError(t, err)

		err = p.Redeem(now.Add(2 * time.Hour))
		require.ErrorIs(t, err, purchase.ErrExpired)
		assert.Equal(t, purchase.StatusExpired, p.Status())

		// Terminal: later attempts keep failing.
		err = p.Redeem(now.Add(3 * time.Hour))
		require.ErrorIs(t, err, purchase.ErrExpired)
	})

	t.Run("unenforced deadline still redeems", func(t *testing.T) {
		p, err := builder.NewPurchaseBuilder().
			WithExpiryEnforced(false).
			WithExpiresAt(now.Add(time.Hour)).
			BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, p.Redeem(now.Add(2*time.Hour)))
		assert.Equal(t, purchase.StatusRedeemed, p.Status())
	})

	t.Run("deadline moment itself is still valid", func(t *testing.T) {
		deadline := now.Add(time.Hour)
		p, err := builder.NewPurchaseBuilder().
			WithExpiresAt(deadline).
			BuildReconstructed()
		require.NoError(t, err)

		require.NoError(t, p.Redeem(deadline))
	})
}

func TestExpire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*builder.PurchaseBuilder)
		at     time.Time
		errIs  error
	}{
		{
			name:   "pending past enforced deadline expires",
			mutate: func(b *builder.PurchaseBuilder) { b.WithExpiresAt(now.Add(time.Hour)) },
			at:     now.Add(2 * time.Hour),
		},
		{
			name:   "deadline not passed",
			mutate: func(b *builder.PurchaseBuilder) { b.WithExpiresAt(now.Add(time.Hour)) },
			at:     now.Add(30 * time.Minute),
			errIs:  purchase.ErrNotPastDeadline,
		},
		{
			name: "expiry not enforced",
			mutate: func(b *builder.PurchaseBuilder) {
				b.WithExpiryEnforced(false).WithExpiresAt(now.Add(time.Hour))
			},
			at:    now.Add(2 * time.Hour),
			errIs: purchase.ErrExpiryNotEnforced,
		},
		{
			name: "redeemed purchase never expires",
			mutate: func(b *builder.PurchaseBuilder) {
				b.WithStatus(purchase.StatusRedeemed).WithExpiresAt(now.Add(time.Hour))
			},
			at:    now.Add(2 * time.Hour),
			errIs: purchase.ErrNotPending,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := builder.NewPurchaseBuilder().With(c.mutate).BuildReconstructed()
			require.NoError(t, err)

			err = p.Expire(c.at)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, purchase.StatusExpired, p.Status())
			} else {
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	assert.False(t, purchase.StatusPending.Terminal())
	assert.True(t, purchase.StatusRedeemed.Terminal())
	assert.True(t, purchase.StatusExpired.Terminal())

	for _, s := range []string{"pending", "redeemed", "expired"} {
		parsed, err := purchase.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}

	_, err := purchase.ParseStatus("cancelled")
	require.Error(t, err)
}

func TestCode(t *testing.T) {
	t.Run("generated codes parse back", func(t *testing.T) {
		code, err := purchase.NewCode()
		require.NoError(t, err)

		parsed, err := purchase.ParseCode(code.String())
		require.NoError(t, err)
		assert.Equal(t, code, parsed)
	})

	t.Run("codes avoid ambiguous characters", func(t *testing.T) {
		for range 50 {
			code, err := purchase.NewCode()
			require.NoError(t, err)
			assert.NotContains(t, code.String(), "O")
			assert.NotContains(t, code.String(), "I")
			assert.NotContains(t, code.String(), "L")
			assert.NotContains(t, code.String(), "0")
			assert.NotContains(t, code.String(), "1")
		}
	})

	t.Run("generated codes differ", func(t *testing.T) {
		seen := make(map[purchase.Code]bool)
		for range 100 {
			code, err := purchase.NewCode()
			require.NoError(t, err)
			assert.False(t, seen[code], "duplicate code generated")
			seen[code] = true
		}
	})

	t.Run("parse rejects malformed input", func(t *testing.T) {
		cases := []string{
			"",
			"SHORT",
			strings.Repeat("A", 19),
			strings.Repeat("A", 21),
			strings.Repeat("a", 20), // lowercase
			strings.Repeat("A", 19) + "0",
			strings.Repeat("A", 19) + "!",
		}
		for _, s := range cases {
			_, err := purchase.ParseCode(s)
			assert.ErrorIs(t, err, purchase.ErrInvalidCode, "input %q", s)
		}
	})
}
