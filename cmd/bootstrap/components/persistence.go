package components

import (
	"court-booking/internal/infra/idempotency"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/readstore"
	"court-booking/internal/infra/uow"
	usecasequeries "court-booking/internal/usecase/queries"
	"court-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewQueries,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			NewQueries,
			fx.As(new(readstore.BookingViewQueries)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(usecasequeries.BookingReadStore)),
		),
	),
)

// Repositories are created per transaction inside the unit of work.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

var IdempotencyModule = fx.Module("persistence/idempotency",
	fx.Provide(
		fx.Annotate(
			idempotency.NewRedisStore,
			fx.As(new(shared.IdempotencyStore)),
		),
	),
)

func NewQueries(_ *pgxpool.Pool) *queries.Queries {
	return queries.New()
}
