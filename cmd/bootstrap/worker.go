package bootstrap

import (
	"context"

	"revqr-engine/internal/pkg/config"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(
		registerSweeper,
	),
)

func NewSweeper(purchaseCommands commands.PurchaseCommands, cfg config.Config) *worker.Sweeper {
	return worker.NewSweeper(purchaseCommands, cfg.Sweeper)
}

func registerSweeper(lc fx.Lifecycle, s *worker.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
