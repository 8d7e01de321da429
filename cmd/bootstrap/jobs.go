package bootstrap

import (
	"context"

	"taskbridge-server/internal/infra/jobs"
	"taskbridge-server/internal/pkg/clock"
	"taskbridge-server/internal/pkg/config"
	"taskbridge-server/internal/usecase/commands"
	"taskbridge-server/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		fx.Annotate(
			func() jobs.LogNotifier { return jobs.LogNotifier{} },
			fx.As(new(jobs.Notifier)),
		),
		jobs.NewBookingConfirmedWorker,
		NewRiverClient,
		fx.Annotate(
			jobs.NewRiverEnqueuer,
			fx.As(new(commands.JobEnqueuer)),
		),
	),
)

type riverDeps struct {
	fx.In

	Lc             fx.Lifecycle
	Pool           *pgxpool.Pool
	Cfg            config.Config
	StaleBookings  jobs.StaleBookingStore
	Janitor        jobs.IdempotencyJanitor
	Payments       commands.PaymentGateway
	BookingQueries queries.BookingQueries
	Clock          clock.Clock
	Notifier       jobs.Notifier
}

func NewRiverClient(deps riverDeps) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewReapStaleBookingsWorker(
		deps.StaleBookings,
		deps.Janitor,
		deps.Payments,
		deps.Clock,
		deps.Cfg.Jobs.ReapAfter,
	))
	river.AddWorker(workers, jobs.NewBookingConfirmedWorker(deps.BookingQueries, deps.Notifier))

	periodicJobs := []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(deps.Cfg.Jobs.ReapInterval),
			func() (river.JobArgs, *river.InsertOpts) {
				return jobs.ReapStaleBookingsArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}

	client, err := river.NewClient(riverpgxv5.New(deps.Pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: deps.Cfg.Jobs.MaxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs,
	})
	if err != nil {
		return nil, err
	}

	deps.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			migrator, err := rivermigrate.New(riverpgxv5.New(deps.Pool), nil)
			if err != nil {
				return err
			}
			if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
				return err
			}
			return client.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Stop(ctx)
		},
	})

	return client, nil
}
