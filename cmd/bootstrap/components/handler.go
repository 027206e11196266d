package components

import (
	"rfq-market/internal/handler"
	"rfq-market/internal/handler/api"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/usecase"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewRFQHandler,
		api.NewQuoteHandler,
		api.NewDeclineHandler,
		api.NewDispatchHandler,
		NewTokenValidator,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewTokenValidator(auth usecase.AuthUseCase) middleware.TokenValidator {
	return auth
}
