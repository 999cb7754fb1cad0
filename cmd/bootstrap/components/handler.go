package components

import (
	"revqr-engine/internal/handler"
	"revqr-engine/internal/handler/api"
	"revqr-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewStoreHandler,
		api.NewRedemptionHandler,
		api.NewWheelHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
