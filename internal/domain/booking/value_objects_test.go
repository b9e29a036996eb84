//go:build unit

package booking_test

import (
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid periods report their duration", func(t *testing.T) {
		for _, d := range []time.Duration{time.Nanosecond, time.Minute, 90 * time.Minute, 48 * time.Hour} {
			p, err := booking.NewPeriod(base, base.Add(d))
			require.NoError(t, err)
			assert.Equal(t, d, p.Duration())
			assert.Equal(t, base, p.Start())
		}
	})

	t.Run("end not after start is rejected", func(t *testing.T) {
		for _, d := range []time.Duration{0, -time.Nanosecond, -time.Hour} {
			_, err := booking.NewPeriod(base, base.Add(d))
			assert.ErrorIs(t, err, booking.ErrInvalidPeriod)
		}
	})

	t.Run("overlaps", func(t *testing.T) {
		mk := func(fromMin, toMin int) booking.Period {
			p, err := booking.NewPeriod(base.Add(time.Duration(fromMin)*time.Minute), base.Add(time.Duration(toMin)*time.Minute))
			require.NoError(t, err)
			return p
		}
		a := mk(0, 60)
		assert.True(t, a.Overlaps(mk(30, 90)))
		assert.True(t, a.Overlaps(mk(-30, 10)))
		assert.True(t, a.Overlaps(mk(10, 20)))
		assert.False(t, a.Overlaps(mk(60, 120)), "touching end is not an overlap")
		assert.False(t, a.Overlaps(mk(-60, 0)), "touching start is not an overlap")
	})
}

func TestPrice(t *testing.T) {
	t.Run("non-negative amounts are kept", func(t *testing.T) {
		for _, s := range []string{"0", "0.01", "60", "1234.50"} {
			p, err := booking.NewPrice(decimal.RequireFromString(s), booking.CurrencyUSD)
			require.NoError(t, err)
			assert.True(t, p.Amount().Equal(decimal.RequireFromString(s)))
			assert.Equal(t, booking.CurrencyUSD, p.Currency())
		}
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		_, err := booking.NewPrice(decimal.RequireFromString("-0.01"), booking.CurrencyEUR)
		assert.ErrorIs(t, err, booking.ErrInvalidPrice)
	})

	t.Run("add", func(t *testing.T) {
		a, _ := booking.NewPrice(decimal.RequireFromString("10.25"), booking.CurrencyEUR)
		b, _ := booking.NewPrice(decimal.RequireFromString("4.75"), booking.CurrencyEUR)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "15.00 EUR", sum.String())

		c, _ := booking.NewPrice(decimal.NewFromInt(1), booking.CurrencyGBP)
		_, err = a.Add(c)
		assert.ErrorIs(t, err, booking.ErrCurrencyMismatch)
	})
}

func TestConfiguration(t *testing.T) {
	singles, err := booking.NewConfiguration(booking.ModalityMatchmaking, booking.GameTypeSingles)
	require.NoError(t, err)
	assert.Equal(t, 2, singles.MaxPlayers())
	assert.True(t, singles.IsMatchmaking())

	doubles, err := booking.NewConfiguration(booking.ModalityDirect, booking.GameTypeDoubles)
	require.NoError(t, err)
	assert.Equal(t, 4, doubles.MaxPlayers())
	assert.False(t, doubles.IsMatchmaking())

	_, err = booking.NewConfiguration("walk_in", booking.GameTypeSingles)
	assert.ErrorIs(t, err, booking.ErrInvalidModality)
	_, err = booking.NewConfiguration(booking.ModalityDirect, "triples")
	assert.ErrorIs(t, err, booking.ErrInvalidGameType)

	assert.Panics(t, func() { booking.GameType("triples").MaxPlayers() })
}

func TestParse(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		m, err := booking.ParseModality("Matchmaking")
		require.NoError(t, err)
		assert.Equal(t, booking.ModalityMatchmaking, m)

		g, err := booking.ParseGameType("DOUBLES")
		require.NoError(t, err)
		assert.Equal(t, booking.GameTypeDoubles, g)

		r, err := booking.ParseRank(" intermediate ")
		require.NoError(t, err)
		assert.Equal(t, booking.RankIntermediate, r)

		s, err := booking.ParseStatus("WaitingForPlayers")
		require.NoError(t, err)
		assert.Equal(t, booking.StatusWaitingForPlayers, s)

		c, err := booking.ParseCurrency("eur")
		require.NoError(t, err)
		assert.Equal(t, booking.CurrencyEUR, c)
	})

	t.Run("failures carry a code", func(t *testing.T) {
		_, err := booking.ParseModality("walk-in")
		assert.ErrorIs(t, err, booking.ErrInvalidModality)
		assert.Equal(t, "InvalidModality", errs.CodeOf(err))
		assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		assert.Contains(t, err.Error(), "walk-in")

		_, err = booking.ParseGameType("")
		assert.ErrorIs(t, err, booking.ErrInvalidGameType)
		_, err = booking.ParseRank("expert")
		assert.ErrorIs(t, err, booking.ErrInvalidRank)
		_, err = booking.ParseStatus("done")
		assert.ErrorIs(t, err, booking.ErrInvalidStatus)
		_, err = booking.ParseCurrency("JPY")
		assert.ErrorIs(t, err, booking.ErrInvalidCurrency)
	})
}
