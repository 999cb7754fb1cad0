package components

import (
	"revqr-engine/internal/infra/uow"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// All storage access goes through the unit of work; the repositories
		// behind it share one transaction per Within call.
		uow.NewPostgresUoW,
	),
)
