package components

import (
	"taskbridge-server/internal/pkg/clock"
	"taskbridge-server/internal/pkg/config"
	"taskbridge-server/internal/usecase"
	"taskbridge-server/internal/usecase/commands"
	"taskbridge-server/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewBookingCommands,
		commands.NewWebhookCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

type bookingCommandsDeps struct {
	fx.In

	BookingRepo     commands.BookingRepository
	ProviderReads   commands.ProviderReadStore
	IdempotencyRepo commands.IdempotencyRepository
	Payments        commands.PaymentGateway
	BookingQueries  queries.BookingQueries
	UoW             commands.UnitOfWork
	Clock           clock.Clock
	Cfg             config.Config
}

func NewBookingCommands(deps bookingCommandsDeps) commands.BookingCommands {
	return commands.NewBookingCommands(
		deps.BookingRepo,
		deps.ProviderReads,
		deps.IdempotencyRepo,
		deps.Payments,
		deps.BookingQueries,
		deps.UoW,
		deps.Clock,
		deps.Cfg.Stripe.Currency,
	)
}
