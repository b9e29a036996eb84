package worker

import (
	"context"
	"log/slog"
	"time"

	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/metrics"
	"court-booking/internal/usecase/shared"
)

//go:generate mockgen -source=notification_relay.go -destination=../../tests/mock/worker/publisher.go -package=workermock

type EventPublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, body []byte) error
}

type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
}

const maxBackoff = time.Hour

// NotificationRelay moves queued notification jobs onto the message broker.
// Delivery is at least once; consumers deduplicate on the message id.
type NotificationRelay struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	clock     clock.Clock
	cfg       RelayConfig
}

func NewNotificationRelay(uow shared.UnitOfWork, publisher EventPublisher, clk clock.Clock, cfg RelayConfig) *NotificationRelay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 8
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 5 * time.Second
	}
	return &NotificationRelay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

// Run polls until ctx is cancelled. A full batch triggers an immediate next poll.
func (r *NotificationRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		n, err := r.RunOnce(ctx)
		if err != nil {
			slog.Error("notification relay batch failed", "error", err.Error())
		}
		if err == nil && n >= r.cfg.BatchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce handles a single batch and returns how many jobs it processed.
func (r *NotificationRelay) RunOnce(ctx context.Context) (int, error) {
	var processed int
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		processed = 0
		now := r.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, tx.DB(), now, r.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			processed++
			pubErr := r.publisher.Publish(ctx, job.Topic, job.ID.String(), job.Payload)
			if pubErr == nil {
				if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID); err != nil {
					return err
				}
				metrics.NotificationsPublishedTotal.WithLabelValues("sent").Inc()
				continue
			}

			attempts := job.Attempts + 1
			dead := attempts >= r.cfg.MaxAttempts
			retryAt := now.Add(r.backoff(attempts))
			if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, pubErr.Error(), retryAt, dead); err != nil {
				return err
			}

			outcome := "retry"
			if dead {
				outcome = "dead"
			}
			metrics.NotificationsPublishedTotal.WithLabelValues(outcome).Inc()
			slog.Warn("failed to publish notification",
				"job_id", job.ID,
				"topic", job.Topic,
				"attempts", attempts,
				"dead", dead,
				"error", pubErr.Error())
		}
		return nil
	})
	return processed, err
}

func (r *NotificationRelay) backoff(attempts int) time.Duration {
	d := r.cfg.BaseBackoff
	for i := 1; i < attempts && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
