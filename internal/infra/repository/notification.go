package repository

import (
	"context"
	"time"

	"court-booking/internal/infra"
	"court-booking/internal/infra/queries"
	"court-booking/internal/pkg/pgconv"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationWriteQueries interface {
	InsertNotificationJob(ctx context.Context, db queries.DBTX, arg queries.InsertNotificationJobParams) (uuid.UUID, error)
	ClaimDueNotificationJobs(ctx context.Context, db queries.DBTX, arg queries.ClaimDueNotificationJobsParams) ([]queries.NotificationJobRow, error)
	MarkNotificationJobSent(ctx context.Context, db queries.DBTX, id uuid.UUID) error
	MarkNotificationJobFailed(ctx context.Context, db queries.DBTX, arg queries.MarkNotificationJobFailedParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      queries.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db queries.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx queries.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	params := queries.InsertNotificationJobParams{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgconv.TimeToPgtype(runAt),
	}

	if _, err := r.queries.InsertNotificationJob(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimDue must be called inside a transaction; the claimed rows stay locked until it ends.
func (r *NotificationRepository) ClaimDue(ctx context.Context, tx queries.DBTX, now time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.queries.ClaimDueNotificationJobs(ctx, tx, queries.ClaimDueNotificationJobsParams{
		Now:   pgconv.TimeToPgtype(now),
		Limit: int32(limit), // #nosec G115 -- batch size is a small configured value
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			RunAt:    pgconv.TimeFromPgtype(row.RunAt),
			Attempts: int(row.Attempts),
		})
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx queries.DBTX, jobID uuid.UUID) error {
	if err := r.queries.MarkNotificationJobSent(ctx, tx, jobID); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, tx queries.DBTX, jobID uuid.UUID, lastError string, retryAt time.Time, dead bool) error {
	err := r.queries.MarkNotificationJobFailed(ctx, tx, queries.MarkNotificationJobFailedParams{
		ID:        jobID,
		LastError: lastError,
		RunAt:     pgconv.TimeToPgtype(retryAt),
		Dead:      dead,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
