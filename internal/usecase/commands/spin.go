package commands

import (
	"context"

	"revqr-engine/internal/domain/wheel"
	"revqr-engine/internal/pkg/clock"
	"revqr-engine/internal/pkg/errs"
	"revqr-engine/internal/pkg/rng"
	"revqr-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// SpinResult is the server-resolved outcome of one wheel spin. The client
// animation must terminate on it; a client-submitted landing slice is never
// accepted.
type SpinResult struct {
	Draw    *wheel.SpinDraw
	Reward  *wheel.Reward
	Nothing bool
}

type SpinCommands interface {
	SpinWheel(ctx context.Context, wheelID, userID uuid.UUID) (*SpinResult, error)
}

type spinCommandsImpl struct {
	uow     shared.UnitOfWork
	lottery *wheel.Lottery
	source  rng.RandomSource
	clock   clock.Clock
}

func NewSpinCommands(
	uow shared.UnitOfWork,
	lottery *wheel.Lottery,
	source rng.RandomSource,
	clock clock.Clock,
) SpinCommands {
	return &spinCommandsImpl{
		uow:     uow,
		lottery: lottery,
		source:  source,
		clock:   clock,
	}
}

func (u *spinCommandsImpl) SpinWheel(ctx context.Context, wheelID, userID uuid.UUID) (*SpinResult, error) {
	repos := u.uow.Repos()

	rewards, err := repos.Wheels().ListActiveRewards(ctx, wheelID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(rewards) == 0 {
		return nil, errs.ErrNoActiveRewards
	}

	outcome, err := u.lottery.Draw(rewards, u.source)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrNoActiveRewards)
	}

	draw := wheel.NewSpinDraw(wheelID, userID, outcome, u.clock.Now())
	if err := repos.Wheels().InsertDraw(ctx, draw); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &SpinResult{
		Draw:    draw,
		Reward:  outcome.Reward,
		Nothing: outcome.Nothing,
	}, nil
}
