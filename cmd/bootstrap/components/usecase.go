package components

import (
	"court-booking/internal/domain/booking"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/config"
	"court-booking/internal/usecase"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/queries"

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
	func(clock clock.Clock, cfg config.Config) *booking.Factory {
		return booking.NewFactory(clock, cfg.Booking.HoldWindow)
	},
	NewCommandSettings,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// NewCommandSettings fails startup on an unsupported BOOKING_CURRENCY.
func NewCommandSettings(cfg config.Config) (commands.Settings, error) {
	currency, err := booking.ParseCurrency(cfg.Booking.Currency)
	if err != nil {
		return commands.Settings{}, err
	}
	return commands.Settings{
		Currency:       currency,
		IdempotencyTTL: cfg.Booking.IdempotencyTTL,
	}, nil
}
