package components

import (
	"context"

	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/clock"
	"rfq-market/internal/pkg/config"
	"rfq-market/internal/usecase"
	"rfq-market/internal/usecase/commands"
	usecasedispatch "rfq-market/internal/usecase/dispatch"
	"rfq-market/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseDispatchModule,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	usecase.NewAuthUseCase,
)

var usecaseDispatchModule = fx.Module("usecase/dispatch",
	fx.Provide(
		fx.Annotate(
			NewDispatchEngine,
			fx.As(new(usecasedispatch.UseCase)),
			fx.As(new(commands.DispatchEngine)),
		),
		NewEventNotifier,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewRFQCommands,
		NewQuoteCommands,
		NewDeclineCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRFQQueries,
		queries.NewDispatchQueries,
	),
)

// NewDispatchEngine wires the engine into the app lifecycle so shutdown
// drains in-flight webhook sends before the pool closes.
func NewDispatchEngine(
	lc fx.Lifecycle,
	repo usecasedispatch.Repository,
	sender usecasedispatch.Sender,
	clk clock.Clock,
) *usecasedispatch.Engine {
	engine := usecasedispatch.NewEngine(repo, sender, clk)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			engine.Wait()
			return nil
		},
	})

	return engine
}

func NewEventNotifier(engine commands.DispatchEngine, clk clock.Clock, cfg config.Config) *commands.EventNotifier {
	return commands.NewEventNotifier(engine, clk, cfg.Dispatch.RequestTimeout)
}

func NewRFQCommands(
	rfqRepo commands.RFQRepository,
	orgs commands.OrgReadStore,
	notifier *commands.EventNotifier,
	db pg.Beginner,
	cfg config.Config,
	clk clock.Clock,
) commands.RFQCommands {
	return commands.NewRFQCommands(rfqRepo, orgs, notifier, db, cfg.Dispatch.MaxConflictRetries, clk)
}

func NewQuoteCommands(
	quoteRepo commands.QuoteRepository,
	rfqRepo commands.RFQRepository,
	orgs commands.OrgReadStore,
	notifier *commands.EventNotifier,
	db pg.Beginner,
	cfg config.Config,
	clk clock.Clock,
) commands.QuoteCommands {
	return commands.NewQuoteCommands(quoteRepo, rfqRepo, orgs, notifier, db, cfg.Dispatch.MaxConflictRetries, clk)
}

func NewDeclineCommands(
	declineRepo commands.DeclineRepository,
	rfqRepo commands.RFQRepository,
	orgs commands.OrgReadStore,
	notifier *commands.EventNotifier,
	db pg.Beginner,
	cfg config.Config,
	clk clock.Clock,
) commands.DeclineCommands {
	return commands.NewDeclineCommands(declineRepo, rfqRepo, orgs, notifier, db, cfg.Dispatch.MaxConflictRetries, clk)
}
