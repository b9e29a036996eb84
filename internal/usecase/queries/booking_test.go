//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/queries"
	"court-booking/tests/common/builder"
	queriesmock "court-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newQueries(t *testing.T) (*queriesmock.MockBookingReadStore, queries.BookingQueries) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockBookingReadStore(ctrl)
	return store, queries.NewBookingQueries(store, clock.NewMockClock(builder.DefaultNow))
}

func views(t *testing.T, n int) []*queries.BookingView {
	out := make([]*queries.BookingView, n)
	for i := range out {
		out[i] = queries.BookingViewFromDomain(builder.NewBookingBuilder().MustBuildDomain(t))
		out[i].CreatedAt = builder.DefaultNow.Add(-time.Duration(i) * time.Minute)
	}
	return out
}

func TestBookingViewFromDomain(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuildDomain(t)
	v := queries.BookingViewFromDomain(b)

	assert.Equal(t, b.ID(), v.ID)
	assert.Equal(t, "matchmaking", v.Modality)
	assert.Equal(t, "doubles", v.GameType)
	assert.Equal(t, "waiting_for_players", v.Status)
	assert.Equal(t, "30", v.PriceAmount.String())
	assert.Equal(t, "EUR", v.PriceCurrency)
	assert.Equal(t, 4, v.MaxPlayers)
	assert.Equal(t, 3, v.OpenSlots)
	require.Len(t, v.Players, 1)
	assert.True(t, v.Players[0].IsRequester)
	assert.Equal(t, "intermediate", v.Players[0].Rank)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		store, q := newQueries(t)
		want := views(t, 1)[0]
		store.EXPECT().FindByID(gomock.Any(), id).Return(want, nil)

		got, err := q.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Same(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		store, q := newQueries(t)
		store.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("find booking", errors.New("no rows"), infra.KindNotFound))

		_, err := q.GetByID(ctx, id)
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("database failure", func(t *testing.T) {
		store, q := newQueries(t)
		store.EXPECT().FindByID(gomock.Any(), id).Return(nil, errors.New("conn reset"))

		_, err := q.GetByID(ctx, id)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first page with more rows returns a cursor", func(t *testing.T) {
		store, q := newQueries(t)
		rows := views(t, 3)
		store.EXPECT().FindByUserFirstPage(gomock.Any(), userID, int32(3)).Return(rows, nil)

		got, next, err := q.ListByUser(ctx, userID, nil, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		require.NotNil(t, next)

		ts, id, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, rows[1].ID, id)
		assert.True(t, rows[1].CreatedAt.Equal(ts))
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		store, q := newQueries(t)
		store.EXPECT().FindByUserFirstPage(gomock.Any(), userID, int32(queries.DefaultListLimit+1)).Return(views(t, 1), nil)

		got, next, err := q.ListByUser(ctx, userID, nil, 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Nil(t, next)
	})

	t.Run("cursor continues with keyset", func(t *testing.T) {
		store, q := newQueries(t)
		lastID := uuid.New()
		lastAt := builder.DefaultNow.Add(-time.Hour)
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(lastAt, lastID)}
		sameInstant := gomock.Cond(func(x any) bool { ts, ok := x.(time.Time); return ok && ts.Equal(lastAt) })
		store.EXPECT().FindByUserKeyset(gomock.Any(), userID, sameInstant, lastID, int32(11)).Return(nil, nil)

		got, next, err := q.ListByUser(ctx, userID, cursor, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Nil(t, next)
	})

	t.Run("garbage cursor", func(t *testing.T) {
		_, q := newQueries(t)
		_, _, err := q.ListByUser(ctx, userID, &queries.Cursor{After: "%%%"}, 10)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})
}

func TestListOpenMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("queries from now with clamped limit", func(t *testing.T) {
		store, q := newQueries(t)
		filter := queries.OpenMatchFilter{Rank: booking.RankAdvanced}
		store.EXPECT().FindOpenMatches(gomock.Any(), filter, builder.DefaultNow, int32(100)).Return(views(t, 2), nil)

		got, err := q.ListOpenMatches(ctx, filter, 10_000)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("invalid rank", func(t *testing.T) {
		_, q := newQueries(t)
		_, err := q.ListOpenMatches(ctx, queries.OpenMatchFilter{Rank: "legend"}, 10)
		assert.ErrorIs(t, err, booking.ErrInvalidRank)
	})

	t.Run("invalid game type", func(t *testing.T) {
		_, q := newQueries(t)
		gt := booking.GameType("triples")
		_, err := q.ListOpenMatches(ctx, queries.OpenMatchFilter{Rank: booking.RankBeginner, GameType: &gt}, 10)
		assert.ErrorIs(t, err, booking.ErrInvalidGameType)
	})
}
