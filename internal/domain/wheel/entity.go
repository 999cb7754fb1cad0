package wheel

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MinRarity = 1
	MaxRarity = 10
)

var ErrInvalidRarity = errors.New("rarity level must be between 1 and 10")

// Reward is one slice of a business's spin wheel.
type Reward struct {
	id      uuid.UUID
	wheelID uuid.UUID
	name    string
	rarity  int
	active  bool
}

func NewReward(id, wheelID uuid.UUID, name string, rarity int, active bool) (*Reward, error) {
	if rarity < MinRarity || rarity > MaxRarity {
		return nil, ErrInvalidRarity
	}
	return &Reward{
		id:      id,
		wheelID: wheelID,
		name:    name,
		rarity:  rarity,
		active:  active,
	}, nil
}

func (r *Reward) ID() uuid.UUID      { return r.id }
func (r *Reward) WheelID() uuid.UUID { return r.wheelID }
func (r *Reward) Name() string       { return r.name }
func (r *Reward) Rarity() int        { return r.rarity }
func (r *Reward) Active() bool       { return r.active }

// SpinDraw is the authoritative record of one lottery resolution. Any
// client-side animation must land on this outcome.
type SpinDraw struct {
	ID        uuid.UUID
	WheelID   uuid.UUID
	UserID    uuid.UUID
	RewardID  *uuid.UUID // nil when the draw resolved to nothing
	DrawValue float64
	CreatedAt time.Time
}

func NewSpinDraw(wheelID, userID uuid.UUID, outcome Outcome, now time.Time) *SpinDraw {
	d := &SpinDraw{
		ID:        uuid.New(),
		WheelID:   wheelID,
		UserID:    userID,
		DrawValue: outcome.DrawValue,
		CreatedAt: now,
	}
	if outcome.Reward != nil {
		id := outcome.Reward.ID()
		d.RewardID = &id
	}
	return d
}
