//go:build unit || e2e

package builder

import (
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/handler/dto/request"
	"court-booking/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var DefaultNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	Now           time.Time
	UserID        uuid.UUID
	CourtID       uuid.UUID
	Modality      booking.Modality
	GameType      booking.GameType
	Start         time.Time
	End           time.Time
	RequesterRank booking.Rank
	PricePerHour  decimal.Decimal
	Currency      booking.Currency
	HoldWindow    time.Duration
}

func NewBookingBuilder() *BookingBuilder {
	start := DefaultNow.Add(24 * time.Hour)
	return &BookingBuilder{
		Now:           DefaultNow,
		UserID:        uuid.New(),
		CourtID:       uuid.New(),
		Modality:      booking.ModalityMatchmaking,
		GameType:      booking.GameTypeDoubles,
		Start:         start,
		End:           start.Add(90 * time.Minute),
		RequesterRank: booking.RankIntermediate,
		PricePerHour:  decimal.RequireFromString("20.00"),
		Currency:      booking.CurrencyEUR,
		HoldWindow:    booking.DefaultHoldWindow,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithConfiguration(m booking.Modality, g booking.GameType) *BookingBuilder {
	b.Modality = m
	b.GameType = g
	return b
}

func (b *BookingBuilder) WithPeriod(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithRank(r booking.Rank) *BookingBuilder {
	b.RequesterRank = r
	return b
}

func (b *BookingBuilder) WithPricePerHour(amount string) *BookingBuilder {
	b.PricePerHour = decimal.RequireFromString(amount)
	return b
}

func (b *BookingBuilder) Factory() *booking.Factory {
	return booking.NewFactory(clock.NewMockClock(b.Now), b.HoldWindow)
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	cfg, err := booking.NewConfiguration(b.Modality, b.GameType)
	if err != nil {
		return nil, err
	}
	period, err := booking.NewPeriod(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return b.Factory().Create(b.UserID, b.CourtID, cfg, period, b.RequesterRank, b.PricePerHour, b.Currency)
}

func (b *BookingBuilder) MustBuildDomain(t *testing.T) *booking.Booking {
	t.Helper()
	bk, err := b.BuildDomain()
	require.NoError(t, err)
	return bk
}

func (b *BookingBuilder) BuildCreateRequest() request.CreateBookingRequest {
	return request.CreateBookingRequest{
		CourtID:      b.CourtID,
		Modality:     string(b.Modality),
		GameType:     string(b.GameType),
		StartTime:    b.Start,
		EndTime:      b.End,
		Rank:         string(b.RequesterRank),
		PricePerHour: b.PricePerHour,
	}
}
