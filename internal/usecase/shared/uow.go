package shared

import (
	"context"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra/queries"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db queries.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db queries.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Notifications() NotificationRepository
	DB() queries.DBTX
}

type BookingRepository interface {
	GetByID(ctx context.Context, tx queries.DBTX, id uuid.UUID) (*booking.Booking, error)
	Add(ctx context.Context, tx queries.DBTX, b *booking.Booking) error
	Update(ctx context.Context, tx queries.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, tx queries.DBTX, id uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx queries.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	ClaimDue(ctx context.Context, tx queries.DBTX, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx queries.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, tx queries.DBTX, jobID uuid.UUID, lastError string, retryAt time.Time, dead bool) error
}

// IdempotencyStore remembers the outcome of a keyed request for a while.
type IdempotencyStore interface {
	// Begin claims key for userID. When the key was already claimed it returns
	// the existing record and claimed=false.
	Begin(ctx context.Context, userID, key uuid.UUID, requestHash string, ttl time.Duration) (rec *IdempotencyRecord, claimed bool, err error)
	// Complete stores the outcome. requestHash rebuilds the record if the
	// claim expired while the request was running.
	Complete(ctx context.Context, userID, key uuid.UUID, requestHash string, bookingID uuid.UUID, ttl time.Duration) error
	Release(ctx context.Context, userID, key uuid.UUID) error
}
