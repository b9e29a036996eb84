package booking

import (
	"fmt"
	"time"

	"court-booking/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultHoldWindow is how long a freshly created request is held before it lapses.
const DefaultHoldWindow = 10 * time.Minute

type Booking struct {
	id            uuid.UUID
	userID        uuid.UUID
	courtID       uuid.UUID
	configuration Configuration
	status        Status
	requestPeriod Period
	bookingPeriod Period
	price         Price
	players       []Player
	version       int32
	createdAt     time.Time
	updatedAt     time.Time
}

type Factory struct {
	Clock      clock.Clock
	HoldWindow time.Duration
}

func NewFactory(clock clock.Clock, holdWindow time.Duration) *Factory {
	if holdWindow <= 0 {
		holdWindow = DefaultHoldWindow
	}
	return &Factory{
		Clock:      clock,
		HoldWindow: holdWindow,
	}
}

// Create opens a new booking request. Matchmaking bookings start waiting for
// players, direct bookings start pending. The requester is always the first player.
func (f *Factory) Create(
	userID, courtID uuid.UUID,
	configuration Configuration,
	bookingPeriod Period,
	requesterRank Rank,
	pricePerHour decimal.Decimal,
	currency Currency,
) (*Booking, error) {
	// Stored timestamps keep microseconds, so drop what would not survive a reload.
	now := f.Clock.Now().UTC().Truncate(time.Microsecond)

	if !pricePerHour.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if bookingPeriod.IsZero() {
		return nil, ErrInvalidPeriod
	}
	if bookingPeriod.Start().Before(now) {
		return nil, ErrBookingInPast
	}
	if !configuration.isValid() {
		if !configuration.Modality().IsValid() {
			return nil, ErrInvalidModality
		}
		return nil, ErrInvalidGameType
	}
	if !requesterRank.IsValid() {
		return nil, ErrInvalidRank
	}

	requestPeriod, err := NewPeriod(now, now.Add(f.HoldWindow))
	if err != nil {
		return nil, err
	}

	hours := decimal.NewFromInt(int64(bookingPeriod.Duration())).Div(decimal.NewFromInt(int64(time.Hour)))
	price, err := NewPrice(pricePerHour.Mul(hours), currency)
	if err != nil {
		return nil, err
	}
	// A positive rate can still round down to nothing for very short slots.
	if !price.Amount().IsPositive() {
		return nil, ErrInvalidPrice.WithMessage("booking price rounds to zero")
	}

	status := StatusPending
	if configuration.IsMatchmaking() {
		status = StatusWaitingForPlayers
	}

	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		courtID:       courtID,
		configuration: configuration,
		status:        status,
		requestPeriod: requestPeriod,
		bookingPeriod: bookingPeriod,
		price:         price,
		players:       []Player{{UserID: userID, Rank: requesterRank, IsRequester: true}},
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a booking from persisted state. It refuses state that no
// sequence of Create and AddPlayer could have produced.
func Reconstruct(
	id, userID, courtID uuid.UUID,
	configuration Configuration,
	status Status,
	requestPeriod, bookingPeriod Period,
	price Price,
	players []Player,
	version int32,
	createdAt, updatedAt time.Time,
) (*Booking, error) {
	if !configuration.isValid() {
		return nil, corrupt(id, "unknown configuration %s/%s", configuration.Modality(), configuration.GameType())
	}
	if !status.IsValid() {
		return nil, corrupt(id, "unknown status %q", status)
	}
	if len(players) == 0 || len(players) > configuration.MaxPlayers() {
		return nil, corrupt(id, "%d players for %s", len(players), configuration.GameType())
	}
	requesters := 0
	seen := make(map[uuid.UUID]struct{}, len(players))
	for _, p := range players {
		if p.IsRequester {
			requesters++
		}
		if _, dup := seen[p.UserID]; dup {
			return nil, corrupt(id, "player %s listed twice", p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}
	if requesters != 1 {
		return nil, corrupt(id, "%d requesters", requesters)
	}

	cp := make([]Player, len(players))
	copy(cp, players)

	return &Booking{
		id:            id,
		userID:        userID,
		courtID:       courtID,
		configuration: configuration,
		status:        status,
		requestPeriod: requestPeriod,
		bookingPeriod: bookingPeriod,
		price:         price,
		players:       cp,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func corrupt(id uuid.UUID, format string, args ...any) error {
	return ErrCorruptBooking.WithMessage(fmt.Sprintf("booking %s: ", id) + fmt.Sprintf(format, args...))
}

// CanJoin reports why userID could not join, checking in a fixed order:
// modality, status, rank, membership.
func (b *Booking) CanJoin(userID uuid.UUID, rank Rank) error {
	if !b.configuration.IsMatchmaking() {
		return ErrOnlyMatchmakingCanAddPlayers
	}
	if b.status != StatusWaitingForPlayers {
		return ErrBookingNotWaiting
	}
	if rank != b.Requester().Rank {
		return ErrInvalidPlayerRank
	}
	if b.HasPlayer(userID) {
		return ErrPlayerAlreadyInBooking
	}
	return nil
}

// AddPlayer leaves the booking untouched when it fails.
func (b *Booking) AddPlayer(userID uuid.UUID, rank Rank) error {
	if err := b.CanJoin(userID, rank); err != nil {
		return err
	}

	b.players = append(b.players, Player{UserID: userID, Rank: rank})
	if len(b.players) >= b.configuration.MaxPlayers() {
		b.status = StatusPendingPayment
	}
	return nil
}

func (b *Booking) Requester() Player {
	for _, p := range b.players {
		if p.IsRequester {
			return p
		}
	}
	return Player{}
}

func (b *Booking) HasPlayer(userID uuid.UUID) bool {
	for _, p := range b.players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (b *Booking) OpenSlots() int {
	return b.configuration.MaxPlayers() - len(b.players)
}

func (b *Booking) IsFull() bool {
	return b.OpenSlots() <= 0
}

// Players returns a copy; mutating it does not affect the booking.
func (b *Booking) Players() []Player {
	cp := make([]Player, len(b.players))
	copy(cp, b.players)
	return cp
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) CourtID() uuid.UUID           { return b.courtID }
func (b *Booking) Configuration() Configuration { return b.configuration }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) RequestPeriod() Period        { return b.requestPeriod }
func (b *Booking) BookingPeriod() Period        { return b.bookingPeriod }
func (b *Booking) Price() Price                 { return b.price }
func (b *Booking) Version() int32               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
