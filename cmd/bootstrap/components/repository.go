package components

import (
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/infra/readstore"
	"rfq-market/internal/infra/repository"
	"rfq-market/internal/infra/webhook"
	"rfq-market/internal/pkg/config"
	"rfq-market/internal/usecase"
	"rfq-market/internal/usecase/commands"
	usecasedispatch "rfq-market/internal/usecase/dispatch"
	"rfq-market/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		NewBeginner,
		fx.Annotate(
			NewDispatchRepository,
			fx.As(new(usecasedispatch.Repository)),
			fx.As(new(queries.DispatchReadStore)),
		),
		fx.Annotate(
			repository.NewRFQRepository,
			fx.As(new(commands.RFQRepository)),
		),
		fx.Annotate(
			repository.NewQuoteRepository,
			fx.As(new(commands.QuoteRepository)),
		),
		fx.Annotate(
			repository.NewDeclineRepository,
			fx.As(new(commands.DeclineRepository)),
		),
		fx.Annotate(
			NewUserReadStore,
			fx.As(new(usecase.UserReadStore)),
		),
		fx.Annotate(
			NewOrgReadStore,
			fx.As(new(commands.OrgReadStore)),
		),
		fx.Annotate(
			NewRFQReadStore,
			fx.As(new(queries.RFQReadStore)),
		),
		fx.Annotate(
			webhook.NewHTTPSender,
			fx.As(new(usecasedispatch.Sender)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) pg.DBTX {
	return pool
}

func NewBeginner(pool *pgxpool.Pool) pg.Beginner {
	return pool
}

func NewDispatchRepository(db pg.DBTX, cfg config.Config) *repository.DispatchRepository {
	return repository.NewDispatchRepository(db, cfg.Dispatch.MaxConflictRetries)
}

func NewUserReadStore(db pg.DBTX, cfg config.Config) *readstore.UserReadStore {
	return readstore.NewUserReadStore(db, cfg.Dispatch.MaxConflictRetries)
}

func NewOrgReadStore(db pg.DBTX, cfg config.Config) *readstore.OrgReadStore {
	return readstore.NewOrgReadStore(db, cfg.Dispatch.MaxConflictRetries)
}

func NewRFQReadStore(db pg.DBTX, cfg config.Config) *readstore.RFQReadStore {
	return readstore.NewRFQReadStore(db, cfg.Dispatch.MaxConflictRetries)
}
