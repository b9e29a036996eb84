package bootstrap

import (
	"court-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Infra is shared by the API and the notifier.
var Infra = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
)

var Module = fx.Options(
	Infra,
	RedisModule,
	JWTModule,
	components.IdempotencyModule,
	components.UseCaseModule,
	components.HandlerModule,
)

var NotifierModule = fx.Options(
	Infra,
	MessagingModule,
	components.WorkerModule,
)
