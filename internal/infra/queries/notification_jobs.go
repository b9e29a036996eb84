package queries

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const notificationJobsTable = "notification_jobs"

func (q *Queries) InsertNotificationJob(ctx context.Context, db DBTX, arg InsertNotificationJobParams) (uuid.UUID, error) {
	query, args, err := psql.Insert(notificationJobsTable).
		Columns("kind", "topic", "payload", "run_at").
		Values(arg.Kind, arg.Topic, arg.Payload, arg.RunAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	err = db.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}

// ClaimDueNotificationJobs locks due jobs so concurrent relays skip them.
// Must run inside a transaction.
func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJobRow, error) {
	query, args, err := psql.Select(
		"id", "kind", "topic", "payload", "run_at", "attempts", "status", "last_error", "created_at", "updated_at",
	).
		From(notificationJobsTable).
		Where(sq.Eq{"status": "queued"}).
		Where(sq.LtOrEq{"run_at": arg.Now}).
		OrderBy("run_at ASC").
		Limit(uint64(arg.Limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []NotificationJobRow
	for rows.Next() {
		var j NotificationJobRow
		if err := rows.Scan(
			&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt, &j.Attempts, &j.Status, &j.LastError, &j.CreatedAt, &j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (q *Queries) MarkNotificationJobSent(ctx context.Context, db DBTX, id uuid.UUID) error {
	query, args, err := psql.Update(notificationJobsTable).
		Set("status", "sent").
		Set("attempts", sq.Expr("attempts + 1")).
		Set("last_error", nil).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, query, args...)
	return err
}

// MarkNotificationJobFailed records the error and either reschedules the job
// or, when Dead is set, parks it as failed.
func (q *Queries) MarkNotificationJobFailed(ctx context.Context, db DBTX, arg MarkNotificationJobFailedParams) error {
	status := "queued"
	if arg.Dead {
		status = "failed"
	}
	query, args, err := psql.Update(notificationJobsTable).
		Set("status", status).
		Set("attempts", sq.Expr("attempts + 1")).
		Set("last_error", arg.LastError).
		Set("run_at", arg.RunAt).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": arg.ID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, query, args...)
	return err
}
