package repository

import (
	"context"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/repository/converter"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/repository/booking.go -package=repositorymock

type BookingWriteQueries interface {
	InsertBooking(ctx context.Context, db queries.DBTX, arg queries.InsertBookingParams) error
	GetBookingByIDForUpdate(ctx context.Context, db queries.DBTX, id uuid.UUID) (queries.BookingRow, error)
	UpdateBooking(ctx context.Context, db queries.DBTX, arg queries.UpdateBookingParams) (int64, error)
	DeleteBooking(ctx context.Context, db queries.DBTX, id uuid.UUID) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      queries.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db queries.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

// GetByID loads the aggregate and locks its row for the rest of the transaction.
func (r *BookingRepository) GetByID(ctx context.Context, tx queries.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingByIDForUpdate(ctx, tx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking", err)
	}
	return converter.BookingFromRow(row)
}

func (r *BookingRepository) Add(ctx context.Context, tx queries.DBTX, b *booking.Booking) error {
	params, err := converter.BookingToInsertParams(b)
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking", err, infra.KindDBFailure)
	}
	if err := r.queries.InsertBooking(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

// Update persists status and players. It fails with KindStaleWrite when the
// stored version no longer matches the one the aggregate was loaded with.
func (r *BookingRepository) Update(ctx context.Context, tx queries.DBTX, b *booking.Booking) error {
	params, err := converter.BookingToUpdateParams(b)
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking", err, infra.KindDBFailure)
	}
	affected, err := r.queries.UpdateBooking(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking version changed", nil, infra.KindStaleWrite)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, tx queries.DBTX, id uuid.UUID) error {
	affected, err := r.queries.DeleteBooking(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
