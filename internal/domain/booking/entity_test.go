//go:build unit

package booking_test

import (
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func TestCreate(t *testing.T) {
	t.Run("direct singles booking", func(t *testing.T) {
		b := builder.NewBookingBuilder().
			WithConfiguration(booking.ModalityDirect, booking.GameTypeSingles).
			WithPricePerHour("30")
		b.End = b.Start.Add(2 * time.Hour)

		actual, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusPending, actual.Status())
		assert.True(t, actual.Price().Amount().Equal(decimal.NewFromInt(60)), actual.Price().String())
		assert.Equal(t, booking.CurrencyEUR, actual.Price().Currency())

		players := actual.Players()
		require.Len(t, players, 1)
		assert.Equal(t, booking.Player{UserID: b.UserID, Rank: b.RequesterRank, IsRequester: true}, players[0])
		assert.Equal(t, b.UserID, actual.UserID())
		assert.Equal(t, b.CourtID, actual.CourtID())
	})

	t.Run("creation time is kept at storage precision", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		b := builder.NewBookingBuilder()
		b.Now = time.Date(2025, 6, 1, 19, 0, 0, 123456789, tokyo)

		actual := b.MustBuildDomain(t)

		want := time.Date(2025, 6, 1, 10, 0, 0, 123456000, time.UTC)
		assert.Equal(t, want, actual.CreatedAt())
		assert.Equal(t, want, actual.RequestPeriod().Start())
		assert.Equal(t, want.Add(b.HoldWindow), actual.RequestPeriod().End())
	})

	t.Run("matchmaking booking waits for players", func(t *testing.T) {
		actual := builder.NewBookingBuilder().
			WithConfiguration(booking.ModalityMatchmaking, booking.GameTypeDoubles).
			MustBuildDomain(t)

		assert.Equal(t, booking.StatusWaitingForPlayers, actual.Status())
		assert.Equal(t, 3, actual.OpenSlots())
	})

	t.Run("request period spans the hold window from now", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		b.HoldWindow = 15 * time.Minute
		actual := b.MustBuildDomain(t)

		assert.Equal(t, b.Now, actual.RequestPeriod().Start())
		assert.Equal(t, b.Now.Add(15*time.Minute), actual.RequestPeriod().End())
		assert.Equal(t, b.Now, actual.CreatedAt())
	})

	t.Run("price is prorated for partial hours", func(t *testing.T) {
		actual := builder.NewBookingBuilder().WithPricePerHour("25.50").MustBuildDomain(t)
		assert.Equal(t, "38.25", actual.Price().Amount().StringFixed(2))
	})

	t.Run("guards", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero price per hour",
				mutate: func(b *builder.BookingBuilder) { b.WithPricePerHour("0") },
				errIs:  booking.ErrInvalidPrice,
			},
			{
				name:   "negative price per hour",
				mutate: func(b *builder.BookingBuilder) { b.WithPricePerHour("-10") },
				errIs:  booking.ErrInvalidPrice,
			},
			{
				name: "total rounds down to zero",
				mutate: func(b *builder.BookingBuilder) {
					b.WithPricePerHour("0.01").WithPeriod(b.Start, b.Start.Add(10*time.Minute))
				},
				errIs: booking.ErrInvalidPrice,
			},
			{
				name: "start in the past",
				mutate: func(b *builder.BookingBuilder) {
					b.WithPeriod(b.Now.Add(-time.Hour), b.Now.Add(time.Hour))
				},
				errIs: booking.ErrBookingInPast,
			},
			{
				name: "price is checked before start time",
				mutate: func(b *builder.BookingBuilder) {
					b.WithPricePerHour("0").WithPeriod(b.Now.Add(-time.Hour), b.Now.Add(time.Hour))
				},
				errIs: booking.ErrInvalidPrice,
			},
			{
				name:   "start exactly now",
				mutate: func(b *builder.BookingBuilder) { b.WithPeriod(b.Now, b.Now.Add(time.Hour)) },
			},
			{
				name:   "unknown rank",
				mutate: func(b *builder.BookingBuilder) { b.WithRank("grandmaster") },
				errIs:  booking.ErrInvalidRank,
			},
			{
				name:   "unsupported currency",
				mutate: func(b *builder.BookingBuilder) { b.Currency = "JPY" },
				errIs:  booking.ErrInvalidCurrency,
			},
		})
	})
}

func TestAddPlayer(t *testing.T) {
	t.Run("singles fills up after the second player", func(t *testing.T) {
		bk := builder.NewBookingBuilder().
			WithConfiguration(booking.ModalityMatchmaking, booking.GameTypeSingles).
			WithRank(booking.RankIntermediate).
			MustBuildDomain(t)

		newID := uuid.New()
		require.NoError(t, bk.AddPlayer(newID, booking.RankIntermediate))
		assert.Len(t, bk.Players(), 2)
		assert.Equal(t, booking.StatusPendingPayment, bk.Status())
		assert.True(t, bk.IsFull())
		assert.False(t, bk.Players()[1].IsRequester)

		err := bk.AddPlayer(uuid.New(), booking.RankIntermediate)
		assert.ErrorIs(t, err, booking.ErrBookingNotWaiting)
		assert.Len(t, bk.Players(), 2)
	})

	t.Run("doubles stays waiting until the fourth player", func(t *testing.T) {
		bk := builder.NewBookingBuilder().MustBuildDomain(t)

		for i := 0; i < 2; i++ {
			require.NoError(t, bk.AddPlayer(uuid.New(), booking.RankIntermediate))
			assert.Equal(t, booking.StatusWaitingForPlayers, bk.Status())
		}
		require.NoError(t, bk.AddPlayer(uuid.New(), booking.RankIntermediate))
		assert.Equal(t, booking.StatusPendingPayment, bk.Status())
		assert.Len(t, bk.Players(), 4)
	})

	t.Run("rank must match the requester", func(t *testing.T) {
		bk := builder.NewBookingBuilder().MustBuildDomain(t)
		err := bk.AddPlayer(uuid.New(), booking.RankAdvanced)
		assert.ErrorIs(t, err, booking.ErrInvalidPlayerRank)
		assert.Len(t, bk.Players(), 1)
	})

	t.Run("same player cannot join twice", func(t *testing.T) {
		bk := builder.NewBookingBuilder().MustBuildDomain(t)
		id := uuid.New()
		require.NoError(t, bk.AddPlayer(id, booking.RankIntermediate))

		err := bk.AddPlayer(id, booking.RankIntermediate)
		assert.ErrorIs(t, err, booking.ErrPlayerAlreadyInBooking)

		err = bk.AddPlayer(bk.UserID(), booking.RankIntermediate)
		assert.ErrorIs(t, err, booking.ErrPlayerAlreadyInBooking)
		assert.Len(t, bk.Players(), 2)
	})

	t.Run("direct bookings reject players whatever the rank", func(t *testing.T) {
		for _, rank := range []booking.Rank{booking.RankIntermediate, booking.RankBeginner, "nonsense"} {
			bk := builder.NewBookingBuilder().
				WithConfiguration(booking.ModalityDirect, booking.GameTypeDoubles).
				MustBuildDomain(t)
			err := bk.AddPlayer(bk.UserID(), rank)
			assert.ErrorIs(t, err, booking.ErrOnlyMatchmakingCanAddPlayers, rank)
		}
	})

	t.Run("guard order puts modality first", func(t *testing.T) {
		bk := builder.NewBookingBuilder().
			WithConfiguration(booking.ModalityDirect, booking.GameTypeSingles).
			MustBuildDomain(t)
		assert.ErrorIs(t, bk.CanJoin(bk.UserID(), booking.RankProfessional), booking.ErrOnlyMatchmakingCanAddPlayers)
	})

	t.Run("status is checked before rank", func(t *testing.T) {
		bk := builder.NewBookingBuilder().
			WithConfiguration(booking.ModalityMatchmaking, booking.GameTypeSingles).
			MustBuildDomain(t)
		require.NoError(t, bk.AddPlayer(uuid.New(), booking.RankIntermediate))
		assert.ErrorIs(t, bk.CanJoin(uuid.New(), booking.RankBeginner), booking.ErrBookingNotWaiting)
	})
}

func TestPlayersIsACopy(t *testing.T) {
	bk := builder.NewBookingBuilder().MustBuildDomain(t)

	players := bk.Players()
	players[0].Rank = booking.RankProfessional

	assert.Len(t, bk.Players(), 1)
	assert.Equal(t, booking.RankIntermediate, bk.Players()[0].Rank)
}

func TestReadsDoNotMutate(t *testing.T) {
	bk := builder.NewBookingBuilder().MustBuildDomain(t)
	before := snapshot(bk)
	for i := 0; i < 3; i++ {
		_ = bk.Status()
		_ = bk.Price()
		_ = bk.Players()
		_ = bk.Requester()
		_ = bk.OpenSlots()
	}
	if diff := cmp.Diff(before, snapshot(bk)); diff != "" {
		t.Errorf("booking changed after reads (-before +after):\n%s", diff)
	}
}

func TestReconstruct(t *testing.T) {
	bk := builder.NewBookingBuilder().MustBuildDomain(t)
	require.NoError(t, bk.AddPlayer(uuid.New(), booking.RankIntermediate))

	rebuild := func(status booking.Status, players []booking.Player) (*booking.Booking, error) {
		return booking.Reconstruct(
			bk.ID(), bk.UserID(), bk.CourtID(),
			bk.Configuration(), status,
			bk.RequestPeriod(), bk.BookingPeriod(),
			bk.Price(), players, 3,
			bk.CreatedAt(), bk.UpdatedAt(),
		)
	}

	t.Run("round trip", func(t *testing.T) {
		actual, err := rebuild(bk.Status(), bk.Players())
		require.NoError(t, err)
		assert.Equal(t, snapshot(bk), snapshot(actual))
		assert.Equal(t, int32(3), actual.Version())
	})

	t.Run("invalid state is rejected", func(t *testing.T) {
		requester := bk.Requester()
		other := booking.Player{UserID: uuid.New(), Rank: booking.RankIntermediate}
		cases := map[string]struct {
			status  booking.Status
			players []booking.Player
		}{
			"no players":     {bk.Status(), nil},
			"no requester":   {bk.Status(), []booking.Player{other}},
			"two requesters": {bk.Status(), []booking.Player{requester, {UserID: uuid.New(), IsRequester: true}}},
			"duplicate":      {bk.Status(), []booking.Player{requester, other, other}},
			"unknown status": {"archived", bk.Players()},
			"over capacity": {bk.Status(), []booking.Player{
				requester, other,
				{UserID: uuid.New()}, {UserID: uuid.New()}, {UserID: uuid.New()},
			}},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := rebuild(tc.status, tc.players)
				assert.ErrorIs(t, err, booking.ErrCorruptBooking)
			})
		}
	})
}

type bookingSnapshot struct {
	ID            uuid.UUID
	Status        booking.Status
	Modality      booking.Modality
	GameType      booking.GameType
	RequestPeriod string
	BookingPeriod string
	Price         string
	Players       []booking.Player
}

func snapshot(b *booking.Booking) bookingSnapshot {
	return bookingSnapshot{
		ID:            b.ID(),
		Status:        b.Status(),
		Modality:      b.Configuration().Modality(),
		GameType:      b.Configuration().GameType(),
		RequestPeriod: b.RequestPeriod().String(),
		BookingPeriod: b.BookingPeriod().String(),
		Price:         b.Price().String(),
		Players:       b.Players(),
	}
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewBookingBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}
