//go:build unit

package fake

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/purchase"
	"revqr-engine/internal/domain/store"
	"revqr-engine/internal/domain/wheel"
	"revqr-engine/internal/infra"
	"revqr-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store is an in-memory unit of work for usecase tests. Within serializes
// callers the way the item row lock does against Postgres, so concurrency
// tests observe the same per-item ordering as production.
type Store struct {
	mu        sync.Mutex
	Items     map[uuid.UUID]*store.Item
	Purchases map[uuid.UUID]*purchase.Purchase
	Balances  map[uuid.UUID]int64
	Rewards   map[uuid.UUID][]*wheel.Reward
	Draws     []*wheel.SpinDraw
	Demand    map[uuid.UUID]pricing.DemandContext
}

func NewStore() *Store {
	return &Store{
		Items:     make(map[uuid.UUID]*store.Item),
		Purchases: make(map[uuid.UUID]*purchase.Purchase),
		Balances:  make(map[uuid.UUID]int64),
		Rewards:   make(map[uuid.UUID][]*wheel.Reward),
		Demand:    make(map[uuid.UUID]pricing.DemandContext),
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &fakeTx{s: s})
}

func (s *Store) Repos() shared.Tx {
	return &fakeTx{s: s}
}

type fakeTx struct {
	s *Store
}

func (t *fakeTx) StoreItems() shared.StoreItemRepository { return t }
func (t *fakeTx) Purchases() shared.PurchaseRepository   { return t }
func (t *fakeTx) Wallets() shared.WalletRepository       { return t }
func (t *fakeTx) Wheels() shared.WheelRepository         { return t }

func (t *fakeTx) FindByID(_ context.Context, id uuid.UUID) (*store.Item, error) {
	item, ok := t.s.Items[id]
	if !ok {
		return nil, infra.WrapRepoErr("store item not found", errors.New("no rows"), infra.KindNotFound)
	}
	return item, nil
}

func (t *fakeTx) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*store.Item, error) {
	return t.FindByID(ctx, id)
}

func (t *fakeTx) UpdateCoinCost(_ context.Context, id uuid.UUID, coinCost int64, updatedAt time.Time) error {
	item, ok := t.s.Items[id]
	if !ok {
		return infra.WrapRepoErr("store item not found", errors.New("no rows"), infra.KindNotFound)
	}
	item.SetCoinCost(coinCost, updatedAt)
	return nil
}

func (t *fakeTx) Insert(_ context.Context, p *purchase.Purchase) error {
	if _, ok := t.s.Purchases[p.ID()]; ok {
		return infra.WrapRepoErr("duplicate purchase", errors.New("duplicate key"), infra.KindDuplicateKey)
	}
	t.s.Purchases[p.ID()] = p
	return nil
}

func (t *fakeTx) FindByCode(_ context.Context, code purchase.Code) (*purchase.Purchase, error) {
	for _, p := range t.s.Purchases {
		if p.Code() == code {
			return p, nil
		}
	}
	return nil, infra.WrapRepoErr("purchase not found", errors.New("no rows"), infra.KindNotFound)
}

func (t *fakeTx) UpdateStatus(_ context.Context, id uuid.UUID, from, to purchase.Status, at time.Time) (bool, error) {
	p, ok := t.s.Purchases[id]
	if !ok || p.Status() != from {
		return false, nil
	}

	var redeemedAt *time.Time
	if to == purchase.StatusRedeemed {
		ts := at
		redeemedAt = &ts
	} else {
		redeemedAt = p.RedeemedAt()
	}

	t.s.Purchases[id] = purchase.ReconstructPurchase(purchase.ReconstructPurchaseParams{
		ID:                 p.ID(),
		UserID:             p.UserID(),
		BusinessID:         p.BusinessID(),
		ItemID:             p.ItemID(),
		CoinsSpent:         p.CoinsSpent(),
		DiscountPctApplied: p.DiscountPctApplied(),
		Code:               p.Code(),
		Status:             to,
		ExpiryEnforced:     p.ExpiryEnforced(),
		CreatedAt:          p.CreatedAt(),
		ExpiresAt:          p.ExpiresAt(),
		RedeemedAt:         redeemedAt,
	})
	return true, nil
}

func (t *fakeTx) CountForUserItem(_ context.Context, userID, itemID uuid.UUID) (int, error) {
	count := 0
	for _, p := range t.s.Purchases {
		if p.UserID() == userID && p.ItemID() == itemID && p.Status() != purchase.StatusExpired {
			count++
		}
	}
	return count, nil
}

func (t *fakeTx) FindPendingExpiredIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range t.s.Purchases {
		if p.Status() == purchase.StatusPending && p.ExpiryEnforced() && p.PastDeadline(now) {
			ids = append(ids, p.ID())
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (t *fakeTx) DemandContext(_ context.Context, _, itemID uuid.UUID) (pricing.DemandContext, error) {
	return t.s.Demand[itemID], nil
}

func (t *fakeTx) Debit(_ context.Context, userID uuid.UUID, amount int64) error {
	balance, ok := t.s.Balances[userID]
	if !ok {
		return infra.WrapRepoErr("wallet not found", errors.New("no rows"), infra.KindNotFound)
	}
	if balance < amount {
		return infra.WrapRepoErr("insufficient balance", errors.New("balance too low"), infra.KindConflict)
	}
	t.s.Balances[userID] = balance - amount
	return nil
}

func (t *fakeTx) ListActiveRewards(_ context.Context, wheelID uuid.UUID) ([]*wheel.Reward, error) {
	var active []*wheel.Reward
	for _, r := range t.s.Rewards[wheelID] {
		if r.Active() {
			active = append(active, r)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Rarity() != active[j].Rarity() {
			return active[i].Rarity() > active[j].Rarity()
		}
		return active[i].ID().String() < active[j].ID().String()
	})
	return active, nil
}

func (t *fakeTx) InsertDraw(_ context.Context, d *wheel.SpinDraw) error {
	t.s.Draws = append(t.s.Draws, d)
	return nil
}
