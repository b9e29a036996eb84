package queries

import (
	"context"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

var ErrInvalidCursor = errs.Coded("InvalidCursor", "invalid pagination cursor", errs.KindValidation)

type PlayerView struct {
	UserID      uuid.UUID `json:"user_id"`
	Rank        string    `json:"rank"`
	IsRequester bool      `json:"is_requester"`
}

type BookingView struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	CourtID       uuid.UUID       `json:"court_id"`
	Status        string          `json:"status"`
	Modality      string          `json:"modality"`
	GameType      string          `json:"game_type"`
	RequestStart  time.Time       `json:"request_start"`
	RequestEnd    time.Time       `json:"request_end"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	PriceAmount   decimal.Decimal `json:"price_amount"`
	PriceCurrency string          `json:"price_currency"`
	Players       []PlayerView    `json:"players"`
	MaxPlayers    int             `json:"max_players"`
	OpenSlots     int             `json:"open_slots"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BookingViewFromDomain flattens an aggregate into its read model.
func BookingViewFromDomain(b *booking.Booking) *BookingView {
	players := make([]PlayerView, 0, len(b.Players()))
	for _, p := range b.Players() {
		players = append(players, PlayerView{UserID: p.UserID, Rank: p.Rank.String(), IsRequester: p.IsRequester})
	}
	return &BookingView{
		ID:            b.ID(),
		UserID:        b.UserID(),
		CourtID:       b.CourtID(),
		Status:        b.Status().String(),
		Modality:      b.Configuration().Modality().String(),
		GameType:      b.Configuration().GameType().String(),
		RequestStart:  b.RequestPeriod().Start(),
		RequestEnd:    b.RequestPeriod().End(),
		StartTime:     b.BookingPeriod().Start(),
		EndTime:       b.BookingPeriod().End(),
		PriceAmount:   b.Price().Amount(),
		PriceCurrency: b.Price().Currency().String(),
		Players:       players,
		MaxPlayers:    b.Configuration().MaxPlayers(),
		OpenSlots:     b.OpenSlots(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
}

type OpenMatchFilter struct {
	Rank     booking.Rank
	GameType *booking.GameType
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingView, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingView, error)
	FindOpenMatches(ctx context.Context, filter OpenMatchFilter, startsAfter time.Time, limit int32) ([]*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	ListOpenMatches(ctx context.Context, filter OpenMatchFilter, limit int) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	repo  BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(repo BookingReadStore, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{repo: repo, clock: clk}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*BookingView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByUserFirstPage(ctx, userID, int32(limit+1)) // #nosec G115 -- bounded by MaxListLimit
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindByUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit+1)) // #nosec G115 -- bounded by MaxListLimit
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

// ListOpenMatches lists matchmaking bookings a player of filter.Rank could still join.
func (q *bookingQueriesImpl) ListOpenMatches(ctx context.Context, filter OpenMatchFilter, limit int) ([]*BookingView, error) {
	if !filter.Rank.IsValid() {
		return nil, booking.ErrInvalidRank
	}
	if filter.GameType != nil && !filter.GameType.IsValid() {
		return nil, booking.ErrInvalidGameType
	}
	rows, err := q.repo.FindOpenMatches(ctx, filter, q.clock.Now(), int32(ValidateLimit(limit))) // #nosec G115 -- bounded by MaxListLimit
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rows, nil
}
