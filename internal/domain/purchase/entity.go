package purchase

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyRedeemed   = errors.New("purchase already redeemed")
	ErrExpired           = errors.New("purchase expired")
	ErrNotPending        = errors.New("purchase is not pending")
	ErrNotPastDeadline   = errors.New("purchase deadline has not passed")
	ErrExpiryNotEnforced = errors.New("purchase expiry is not enforced")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusRedeemed Status = "redeemed"
	StatusExpired  Status = "expired"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusRedeemed, StatusExpired:
		return Status(s), nil
	}
	return "", errors.New("unknown purchase status: " + s)
}

func (s Status) String() string { return string(s) }

// Terminal statuses never transition again.
func (s Status) Terminal() bool { return s != StatusPending }

// Purchase is one user's redemption of a store item. Cost and discount are
// snapshots taken at purchase time and never recomputed.
type Purchase struct {
	id                 uuid.UUID
	userID             uuid.UUID
	businessID         uuid.UUID
	itemID             uuid.UUID
	coinsSpent         int64
	discountPctApplied float64
	code               Code
	status             Status
	expiryEnforced     bool
	createdAt          time.Time
	expiresAt          time.Time
	redeemedAt         *time.Time
}

type NewPurchaseParams struct {
	UserID             uuid.UUID
	BusinessID         uuid.UUID
	ItemID             uuid.UUID
	CoinsSpent         int64
	DiscountPctApplied float64
	ExpiryHours        int
	ExpiryEnforced     bool
}

func NewPurchase(p NewPurchaseParams, now time.Time) (*Purchase, error) {
	code, err := NewCode()
	if err != nil {
		return nil, err
	}

	return &Purchase{
		id:                 uuid.New(),
		userID:             p.UserID,
		businessID:         p.BusinessID,
		itemID:             p.ItemID,
		coinsSpent:         p.CoinsSpent,
		discountPctApplied: p.DiscountPctApplied,
		code:               code,
		status:             StatusPending,
		expiryEnforced:     p.ExpiryEnforced,
		createdAt:          now,
		expiresAt:          now.Add(time.Duration(p.ExpiryHours) * time.Hour),
	}, nil
}

type ReconstructPurchaseParams struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	BusinessID         uuid.UUID
	ItemID             uuid.UUID
	CoinsSpent         int64
	DiscountPctApplied float64
	Code               Code
	Status             Status
	ExpiryEnforced     bool
	CreatedAt          time.Time
	ExpiresAt          time.Time
	RedeemedAt         *time.Time
}

func ReconstructPurchase(p ReconstructPurchaseParams) *Purchase {
	return &Purchase{
		id:                 p.ID,
		userID:             p.UserID,
		businessID:         p.BusinessID,
		itemID:             p.ItemID,
		coinsSpent:         p.CoinsSpent,
		discountPctApplied: p.DiscountPctApplied,
		code:               p.Code,
		status:             p.Status,
		expiryEnforced:     p.ExpiryEnforced,
		createdAt:          p.CreatedAt,
		expiresAt:          p.ExpiresAt,
		redeemedAt:         p.RedeemedAt,
	}
}

// PastDeadline reports whether now is beyond the expiry timestamp.
func (p *Purchase) PastDeadline(now time.Time) bool {
	return now.After(p.expiresAt)
}

// Redeem transitions Pending -> Redeemed. A purchase past its enforced
// deadline is moved to Expired instead and ErrExpired is returned.
func (p *Purchase) Redeem(now time.Time) error {
	switch p.status {
	case StatusRedeemed:
		return ErrAlreadyRedeemed
	case StatusExpired:
		return ErrExpired
	}

	if p.expiryEnforced && p.PastDeadline(now) {
		p.status = StatusExpired
		return ErrExpired
	}

	p.status = StatusRedeemed
	t := now
	p.redeemedAt = &t
	return nil
}

// Expire transitions Pending -> Expired. Only pending purchases past an
// enforced deadline qualify; anything else is left untouched.
func (p *Purchase) Expire(now time.Time) error {
	if p.status != StatusPending {
		return ErrNotPending
	}
	if !p.expiryEnforced {
		return ErrExpiryNotEnforced
	}
	if !p.PastDeadline(now) {
		return ErrNotPastDeadline
	}
	p.status = StatusExpired
	return nil
}

func (p *Purchase) ID() uuid.UUID               { return p.id }
func (p *Purchase) UserID() uuid.UUID           { return p.userID }
func (p *Purchase) BusinessID() uuid.UUID       { return p.businessID }
func (p *Purchase) ItemID() uuid.UUID           { return p.itemID }
func (p *Purchase) CoinsSpent() int64           { return p.coinsSpent }
func (p *Purchase) DiscountPctApplied() float64 { return p.discountPctApplied }
func (p *Purchase) Code() Code                  { return p.code }
func (p *Purchase) Status() Status              { return p.status }
func (p *Purchase) ExpiryEnforced() bool        { return p.expiryEnforced }
func (p *Purchase) CreatedAt() time.Time        { return p.createdAt }
func (p *Purchase) ExpiresAt() time.Time        { return p.expiresAt }
func (p *Purchase) RedeemedAt() *time.Time      { return p.redeemedAt }
