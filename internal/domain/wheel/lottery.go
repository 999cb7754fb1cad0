package wheel

import (
	"errors"
	"math"
	"sort"

	"revqr-engine/internal/pkg/rng"
)

var (
	ErrNoActiveRewards   = errors.New("wheel has no active rewards")
	ErrInvalidProbability = errors.New("nothing probability must be in [0, 1)")
)

// WeightedReward is one entry of the normalized selection table.
type WeightedReward struct {
	Reward *Reward
	Weight float64
}

// Outcome is a resolved draw. Exactly one of Reward/Nothing is set.
type Outcome struct {
	Reward    *Reward
	Nothing   bool
	DrawValue float64
}

// Lottery resolves weighted draws over a wheel's active rewards. Each
// reward's weight halves per rarity level, so rarer rewards are drawn
// less often. An optional "nothing" outcome takes a fixed probability and
// the real rewards share the remainder.
type Lottery struct {
	nothingProb float64
}

func NewLottery(nothingProb float64) (*Lottery, error) {
	if nothingProb < 0 || nothingProb >= 1 {
		return nil, ErrInvalidProbability
	}
	return &Lottery{nothingProb: nothingProb}, nil
}

// WeightTable builds the normalized selection table over the active rewards,
// in the stable draw order: descending rarity, then ascending id. Weights
// sum to 1-nothingProb.
func (l *Lottery) WeightTable(rewards []*Reward) ([]WeightedReward, error) {
	active := make([]*Reward, 0, len(rewards))
	for _, r := range rewards {
		if r.Active() {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveRewards
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Rarity() != active[j].Rarity() {
			return active[i].Rarity() > active[j].Rarity()
		}
		return active[i].ID().String() < active[j].ID().String()
	})

	var sum float64
	raw := make([]float64, len(active))
	for i, r := range active {
		raw[i] = math.Pow(2, float64(MaxRarity-r.Rarity()))
		sum += raw[i]
	}

	scale := (1 - l.nothingProb) / sum
	table := make([]WeightedReward, len(active))
	for i, r := range active {
		table[i] = WeightedReward{Reward: r, Weight: raw[i] * scale}
	}
	return table, nil
}

// Draw resolves one spin. The same rewards and the same random value always
// produce the same outcome, which keeps draws auditable under a seeded
// source.
func (l *Lottery) Draw(rewards []*Reward, source rng.RandomSource) (Outcome, error) {
	table, err := l.WeightTable(rewards)
	if err != nil {
		return Outcome{}, err
	}

	u := source.Float64()

	var cum float64
	for _, entry := range table {
		cum += entry.Weight
		if u < cum {
			return Outcome{Reward: entry.Reward, DrawValue: u}, nil
		}
	}

	// The remainder of [0, 1) belongs to the nothing slice. When no
	// nothing slice is configured, float rounding can still leave a sliver
	// past the last cumulative weight; it resolves to the final reward.
	if l.nothingProb > 0 {
		return Outcome{Nothing: true, DrawValue: u}, nil
	}
	return Outcome{Reward: table[len(table)-1].Reward, DrawValue: u}, nil
}
