package components

import (
	"revqr-engine/internal/domain/pricing"
	"revqr-engine/internal/domain/wheel"
	"revqr-engine/internal/pkg/clock"
	"revqr-engine/internal/pkg/config"
	"revqr-engine/internal/pkg/rng"
	"revqr-engine/internal/usecase/commands"
	"revqr-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
	NewLottery,
	NewRandomSource,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewPurchaseCommands,
		commands.NewSpinCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewQuoteQueries,
	),
)

func NewPriceCalculator(cfg config.Config) (*pricing.Calculator, error) {
	return pricing.NewCalculator(cfg.Economy.CoinValueUSD, pricing.CurveParams{
		DemandSlope:        cfg.Economy.DemandSlope,
		ScarcitySlope:      cfg.Economy.ScarcitySlope,
		MaxAdjustmentRatio: cfg.Economy.MaxAdjustmentRatio,
	})
}

func NewLottery(cfg config.Config) (*wheel.Lottery, error) {
	return wheel.NewLottery(cfg.Economy.NothingProbability)
}

func NewRandomSource() rng.RandomSource {
	return rng.NewCryptoRNG()
}
