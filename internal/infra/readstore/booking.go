package readstore

import (
	"context"
	"time"

	"court-booking/internal/infra"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/repository/converter"
	"court-booking/internal/pkg/pgconv"
	usecasequeries "court-booking/internal/usecase/queries"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/readstore/booking.go -package=readstoremock

type BookingViewQueries interface {
	GetBookingByID(ctx context.Context, db queries.DBTX, id uuid.UUID) (queries.BookingRow, error)
	ListBookingsByUser(ctx context.Context, db queries.DBTX, arg queries.ListBookingsByUserParams) ([]queries.BookingRow, error)
	ListOpenMatches(ctx context.Context, db queries.DBTX, arg queries.ListOpenMatchesParams) ([]queries.BookingRow, error)
}

// Point lookups run on the pool; list scans run in a read-only transaction.
type BookingReadStore struct {
	queries BookingViewQueries
	uow     shared.UnitOfWork
}

func NewBookingReadStore(queries BookingViewQueries, uow shared.UnitOfWork) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		uow:     uow,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*usecasequeries.BookingView, error) {
	var row queries.BookingRow
	err := r.uow.WithDB(ctx, func(ctx context.Context, db queries.DBTX) error {
		var err error
		row, err = r.queries.GetBookingByID(ctx, db, id)
		return err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view by id", err)
	}
	return toView(row)
}

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*usecasequeries.BookingView, error) {
	rows, err := r.list(ctx, func(ctx context.Context, db queries.DBTX) ([]queries.BookingRow, error) {
		return r.queries.ListBookingsByUser(ctx, db, queries.ListBookingsByUserParams{
			UserID: userID,
			Limit:  limit,
		})
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return toViews(rows)
}

func (r *BookingReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*usecasequeries.BookingView, error) {
	rows, err := r.list(ctx, func(ctx context.Context, db queries.DBTX) ([]queries.BookingRow, error) {
		return r.queries.ListBookingsByUser(ctx, db, queries.ListBookingsByUserParams{
			UserID:         userID,
			AfterCreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
			AfterID:        &lastID,
			Limit:          limit,
		})
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user (keyset)", err)
	}
	return toViews(rows)
}

func (r *BookingReadStore) FindOpenMatches(ctx context.Context, filter usecasequeries.OpenMatchFilter, startsAfter time.Time, limit int32) ([]*usecasequeries.BookingView, error) {
	params := queries.ListOpenMatchesParams{
		RequesterRank: filter.Rank.String(),
		StartsAfter:   pgconv.TimeToPgtype(startsAfter),
		Limit:         limit,
	}
	if filter.GameType != nil {
		gt := filter.GameType.String()
		params.GameType = &gt
	}
	rows, err := r.list(ctx, func(ctx context.Context, db queries.DBTX) ([]queries.BookingRow, error) {
		return r.queries.ListOpenMatches(ctx, db, params)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list open matches", err)
	}
	return toViews(rows)
}

func (r *BookingReadStore) list(ctx context.Context, fn func(ctx context.Context, db queries.DBTX) ([]queries.BookingRow, error)) ([]queries.BookingRow, error) {
	var rows []queries.BookingRow
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, db queries.DBTX) error {
		var err error
		rows, err = fn(ctx, db)
		return err
	})
	return rows, err
}

func toView(row queries.BookingRow) (*usecasequeries.BookingView, error) {
	b, err := converter.BookingFromRow(row)
	if err != nil {
		return nil, err
	}
	return usecasequeries.BookingViewFromDomain(b), nil
}

func toViews(rows []queries.BookingRow) ([]*usecasequeries.BookingView, error) {
	views := make([]*usecasequeries.BookingView, 0, len(rows))
	for _, row := range rows {
		v, err := toView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
