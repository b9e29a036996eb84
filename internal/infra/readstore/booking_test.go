//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/readstore"
	usecasequeries "court-booking/internal/usecase/queries"
	"court-booking/tests/common/builder"
	"court-booking/tests/common/dbtest"
	readstoremock "court-booking/tests/mock/readstore"
	sharedmock "court-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// pointLookupUoW expects exactly one pool-level call and no transaction.
func pointLookupUoW(ctrl *gomock.Controller) *sharedmock.MockUnitOfWork {
	u := sharedmock.NewMockUnitOfWork(ctrl)
	u.EXPECT().WithDB(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, queries.DBTX) error) error {
			return fn(ctx, nil)
		}).Times(1)
	return u
}

// readOnlyUoW expects exactly one read-only transaction.
func readOnlyUoW(ctrl *gomock.Controller) *sharedmock.MockUnitOfWork {
	u := sharedmock.NewMockUnitOfWork(ctrl)
	u.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, queries.DBTX) error) error {
			return fn(ctx, nil)
		}).Times(1)
	return u
}

func TestBookingReadStore_FindByID(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuildDomain(t)

	tests := []struct {
		name       string
		row        queries.BookingRow
		dbErr      error
		expectKind infra.RepositoryErrorKind
		expectErr  error
	}{
		{name: "success", row: dbtest.BookingRow(t, b, 1)},
		{name: "not found", dbErr: pgx.ErrNoRows, expectKind: infra.KindNotFound},
		{name: "db failure", dbErr: assert.AnError, expectKind: infra.KindDBFailure},
		{name: "corrupt row", row: func() queries.BookingRow {
			r := dbtest.BookingRow(t, b, 1)
			r.Players = []byte(`[]`)
			return r
		}(), expectErr: booking.ErrCorruptBooking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := readstoremock.NewMockBookingViewQueries(ctrl)
			m.EXPECT().GetBookingByID(gomock.Any(), gomock.Any(), b.ID()).Return(tt.row, tt.dbErr)

			view, err := readstore.NewBookingReadStore(m, pointLookupUoW(ctrl)).FindByID(context.Background(), b.ID())

			switch {
			case tt.expectKind != "":
				assert.True(t, infra.IsKind(err, tt.expectKind), "got %v", err)
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, b.ID(), view.ID)
				assert.Equal(t, "30.00", view.PriceAmount.StringFixed(2))
				assert.Equal(t, 3, view.OpenSlots)
			}
		})
	}
}

func TestBookingReadStore_Lists(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	rows := []queries.BookingRow{
		dbtest.BookingRow(t, builder.NewBookingBuilder().MustBuildDomain(t), 1),
		dbtest.BookingRow(t, builder.NewBookingBuilder().MustBuildDomain(t), 2),
	}

	t.Run("first page has no keyset bound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := readstoremock.NewMockBookingViewQueries(ctrl)
		m.EXPECT().ListBookingsByUser(gomock.Any(), gomock.Any(), queries.ListBookingsByUserParams{UserID: userID, Limit: 11}).Return(rows, nil)

		views, err := readstore.NewBookingReadStore(m, readOnlyUoW(ctrl)).FindByUserFirstPage(ctx, userID, 11)
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})

	t.Run("keyset passes the cursor position", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := readstoremock.NewMockBookingViewQueries(ctrl)
		lastID := uuid.New()
		lastAt := builder.DefaultNow
		m.EXPECT().ListBookingsByUser(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ queries.DBTX, p queries.ListBookingsByUserParams) ([]queries.BookingRow, error) {
				require.NotNil(t, p.AfterID)
				assert.Equal(t, lastID, *p.AfterID)
				assert.True(t, p.AfterCreatedAt.Time.Equal(lastAt))
				return nil, nil
			})

		views, err := readstore.NewBookingReadStore(m, readOnlyUoW(ctrl)).FindByUserKeyset(ctx, userID, lastAt, lastID, 11)
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("open matches map the filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := readstoremock.NewMockBookingViewQueries(ctrl)
		singles := booking.GameTypeSingles
		startsAfter := builder.DefaultNow.Add(time.Minute)
		m.EXPECT().ListOpenMatches(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ queries.DBTX, p queries.ListOpenMatchesParams) ([]queries.BookingRow, error) {
				assert.Equal(t, "beginner", p.RequesterRank)
				require.NotNil(t, p.GameType)
				assert.Equal(t, "singles", *p.GameType)
				assert.True(t, p.StartsAfter.Time.Equal(startsAfter))
				assert.Equal(t, int32(7), p.Limit)
				return rows[:1], nil
			})

		filter := usecasequeries.OpenMatchFilter{Rank: booking.RankBeginner, GameType: &singles}
		views, err := readstore.NewBookingReadStore(m, readOnlyUoW(ctrl)).FindOpenMatches(ctx, filter, startsAfter, 7)
		require.NoError(t, err)
		assert.Len(t, views, 1)
	})

	t.Run("read-only transaction failure is a db failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := readstoremock.NewMockBookingViewQueries(ctrl)
		u := sharedmock.NewMockUnitOfWork(ctrl)
		u.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).Return(assert.AnError)

		_, err := readstore.NewBookingReadStore(m, u).FindByUserFirstPage(ctx, userID, 11)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure), "got %v", err)
	})
}
