//go:build unit

package repository_test

import (
	"context"
	"testing"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/repository"
	"court-booking/tests/common/builder"
	"court-booking/tests/common/dbtest"
	repositorymock "court-booking/tests/mock/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBookingRepository_GetByID(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuildDomain(t)

	tests := []struct {
		name       string
		setupMock  func(m *repositorymock.MockBookingWriteQueries)
		expectKind infra.RepositoryErrorKind
		expectErr  error
	}{
		{
			name: "success",
			setupMock: func(m *repositorymock.MockBookingWriteQueries) {
				m.EXPECT().GetBookingByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).Return(dbtest.BookingRow(t, b, 3), nil)
			},
		},
		{
			name: "no rows",
			setupMock: func(m *repositorymock.MockBookingWriteQueries) {
				m.EXPECT().GetBookingByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).Return(queries.BookingRow{}, pgx.ErrNoRows)
			},
			expectKind: infra.KindNotFound,
		},
		{
			name: "driver failure",
			setupMock: func(m *repositorymock.MockBookingWriteQueries) {
				m.EXPECT().GetBookingByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).Return(queries.BookingRow{}, assert.AnError)
			},
			expectKind: infra.KindDBFailure,
		},
		{
			name: "corrupt row",
			setupMock: func(m *repositorymock.MockBookingWriteQueries) {
				row := dbtest.BookingRow(t, b, 1)
				row.Status = "archived"
				m.EXPECT().GetBookingByIDForUpdate(gomock.Any(), gomock.Any(), b.ID()).Return(row, nil)
			},
			expectErr: booking.ErrCorruptBooking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := repositorymock.NewMockBookingWriteQueries(ctrl)
			tt.setupMock(m)
			repo := repository.NewBookingRepository(m, nil)

			got, err := repo.GetByID(context.Background(), nil, b.ID())

			switch {
			case tt.expectKind != "":
				assert.True(t, infra.IsKind(err, tt.expectKind), "got %v", err)
			case tt.expectErr != nil:
				assert.ErrorIs(t, err, tt.expectErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, b.ID(), got.ID())
				assert.Equal(t, int32(3), got.Version())
				assert.True(t, b.Price().Equal(got.Price()))
			}
		})
	}
}

func TestBookingRepository_Add(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuildDomain(t)

	t.Run("writes every column", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := repositorymock.NewMockBookingWriteQueries(ctrl)
		m.EXPECT().InsertBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ queries.DBTX, p queries.InsertBookingParams) error {
				assert.Equal(t, b.ID(), p.ID)
				assert.Equal(t, "matchmaking", p.Modality)
				assert.Equal(t, "intermediate", p.RequesterRank)
				assert.Equal(t, "EUR", p.PriceCurrency)
				assert.JSONEq(t, `[{"user_id":"`+b.UserID().String()+`","rank":"intermediate","is_requester":true}]`, string(p.Players))
				return nil
			})

		require.NoError(t, repository.NewBookingRepository(m, nil).Add(context.Background(), nil, b))
	})

	t.Run("duplicate id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := repositorymock.NewMockBookingWriteQueries(ctrl)
		m.EXPECT().InsertBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pgconn.PgError{Code: "23505"})

		err := repository.NewBookingRepository(m, nil).Add(context.Background(), nil, b)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})
}

func TestBookingRepository_Update(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuildDomain(t)

	tests := []struct {
		name       string
		affected   int64
		dbErr      error
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success", affected: 1},
		{name: "version moved", affected: 0, expectKind: infra.KindStaleWrite},
		{name: "driver failure", dbErr: assert.AnError, expectKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := repositorymock.NewMockBookingWriteQueries(ctrl)
			m.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ queries.DBTX, p queries.UpdateBookingParams) (int64, error) {
					assert.Equal(t, b.ID(), p.ID)
					assert.Equal(t, b.Version(), p.ExpectedVersion)
					return tt.affected, tt.dbErr
				})

			err := repository.NewBookingRepository(m, nil).Update(context.Background(), nil, b)
			if tt.expectKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, infra.IsKind(err, tt.expectKind), "got %v", err)
		})
	}
}

func TestBookingRepository_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("missing row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := repositorymock.NewMockBookingWriteQueries(ctrl)
		m.EXPECT().DeleteBooking(gomock.Any(), gomock.Any(), id).Return(int64(0), nil)

		err := repository.NewBookingRepository(m, nil).Delete(context.Background(), nil, id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("deleted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := repositorymock.NewMockBookingWriteQueries(ctrl)
		m.EXPECT().DeleteBooking(gomock.Any(), gomock.Any(), id).Return(int64(1), nil)

		assert.NoError(t, repository.NewBookingRepository(m, nil).Delete(context.Background(), nil, id))
	})
}

