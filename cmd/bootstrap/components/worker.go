package components

import (
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/config"
	"court-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		clock.NewRealClock,
		NewRelayConfig,
		worker.NewNotificationRelay,
	),
)

func NewRelayConfig(cfg config.Config) worker.RelayConfig {
	return worker.RelayConfig{
		PollInterval: cfg.Notifier.PollInterval,
		BatchSize:    cfg.Notifier.BatchSize,
		MaxAttempts:  cfg.Notifier.MaxAttempts,
		BaseBackoff:  cfg.Notifier.BaseBackoff,
	}
}
