package bootstrap

import (
	"context"

	"court-booking/internal/infra/messaging"
	"court-booking/internal/pkg/config"
	"court-booking/internal/worker"

	"go.uber.org/fx"
)

// MessagingModule is only part of the notifier process; the API never talks to the broker.
var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewPublisher,
		func(p *messaging.Publisher) worker.EventPublisher { return p },
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config) (*messaging.Publisher, error) {
	p, err := messaging.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})

	return p, nil
}
