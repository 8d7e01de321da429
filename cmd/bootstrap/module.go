package bootstrap

import (
	"taskbridge-server/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	PaymentModule,
	JobsModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
