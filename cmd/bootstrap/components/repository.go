package components

import (
	"taskbridge-server/internal/infra/db"
	"taskbridge-server/internal/infra/jobs"
	"taskbridge-server/internal/infra/readstore"
	repo_impl "taskbridge-server/internal/infra/repository"
	"taskbridge-server/internal/infra/uow"
	"taskbridge-server/internal/usecase/commands"
	"taskbridge-server/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(jobs.StaleBookingStore)),
		),
		fx.Annotate(
			repo_impl.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
			fx.As(new(jobs.IdempotencyJanitor)),
		),
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(commands.UnitOfWork)),
		),
		// Read-side stores for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(queries.AvailabilityReadStore)),
		),
		fx.Annotate(
			readstore.NewProviderReadStore,
			fx.As(new(commands.ProviderReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
