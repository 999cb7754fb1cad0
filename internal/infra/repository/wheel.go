package repository

import (
	"context"

	"revqr-engine/internal/domain/wheel"
	"revqr-engine/internal/infra"

	"github.com/google/uuid"
)

type WheelRepository struct {
	db DBTX
}

func NewWheelRepository(db DBTX) *WheelRepository {
	return &WheelRepository{db: db}
}

func (r *WheelRepository) ListActiveRewards(ctx context.Context, wheelID uuid.UUID) ([]*wheel.Reward, error) {
	query := `
		SELECT id, wheel_id, name, rarity_level, active
		FROM rewards
		WHERE wheel_id = $1 AND active
		ORDER BY rarity_level DESC, id`

	rows, err := r.db.Query(ctx, query, wheelID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active rewards", err)
	}
	defer rows.Close()

	var rewards []*wheel.Reward
	for rows.Next() {
		var (
			id, wID uuid.UUID
			name    string
			rarity  int
			active  bool
		)
		if err := rows.Scan(&id, &wID, &name, &rarity, &active); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reward row", err)
		}
		reward, err := wheel.NewReward(id, wID, name, rarity, active)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid reward row", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reward rows", err)
	}
	return rewards, nil
}

func (r *WheelRepository) InsertDraw(ctx context.Context, d *wheel.SpinDraw) error {
	query := `
		INSERT INTO spin_draws (id, wheel_id, user_id, reward_id, draw_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, d.ID, d.WheelID, d.UserID, d.RewardID, d.DrawValue, d.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to insert spin draw", err)
	}
	return nil
}
