package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/clock"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/pkg/metrics"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

var ErrIdempotencyCheckFailed = errs.New("idempotency check failed")

const notificationKind = "booking_event"

type CreateBookingInput struct {
	CourtID      uuid.UUID       `json:"court_id"`
	Modality     string          `json:"modality"`
	GameType     string          `json:"game_type"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Rank         string          `json:"rank"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}

type AddPlayerInput struct {
	UserID uuid.UUID
	Rank   string
}

type CreateBookingResult struct {
	BookingID  uuid.UUID
	IsReplayed bool
}

type Settings struct {
	Currency       booking.Currency
	IdempotencyTTL time.Duration
}

type BookingCommands interface {
	// Create opens a booking for userID. A non-nil idempotencyKey makes
	// retries of the same request return the first result.
	Create(ctx context.Context, in CreateBookingInput, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	AddPlayer(ctx context.Context, bookingID uuid.UUID, in AddPlayerInput) error
	Delete(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow         shared.UnitOfWork
	factory     *booking.Factory
	idempotency shared.IdempotencyStore
	clock       clock.Clock
	settings    Settings
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	factory *booking.Factory,
	idempotency shared.IdempotencyStore,
	clock clock.Clock,
	settings Settings,
) BookingCommands {
	if settings.IdempotencyTTL <= 0 {
		settings.IdempotencyTTL = 24 * time.Hour
	}
	return &bookingCommandsImpl{
		uow:         uow,
		factory:     factory,
		idempotency: idempotency,
		clock:       clock,
		settings:    settings,
	}
}

func (c *bookingCommandsImpl) Create(
	ctx context.Context,
	in CreateBookingInput,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (result *CreateBookingResult, err error) {
	defer func() { metrics.ObserveCommand("create", err) }()

	if idempotencyKey == uuid.Nil {
		id, err := c.create(ctx, in, userID)
		if err != nil {
			return nil, err
		}
		return &CreateBookingResult{BookingID: id}, nil
	}

	requestHash := calculateRequestHash(in)
	replayed, err := c.handleIdempotency(ctx, userID, idempotencyKey, requestHash)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return replayed, nil
	}

	id, err := c.create(ctx, in, userID)
	if err != nil {
		if relErr := c.idempotency.Release(ctx, userID, idempotencyKey); relErr != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey, "error", relErr.Error())
		}
		return nil, err
	}

	// The booking exists at this point; a lost result only costs the replay.
	if err := c.idempotency.Complete(ctx, userID, idempotencyKey, requestHash, id, c.settings.IdempotencyTTL); err != nil {
		slog.Warn("failed to store idempotency result", "key", idempotencyKey, "booking_id", id, "error", err.Error())
	}
	return &CreateBookingResult{BookingID: id}, nil
}

func (c *bookingCommandsImpl) handleIdempotency(
	ctx context.Context,
	userID, idempotencyKey uuid.UUID,
	requestHash string,
) (*CreateBookingResult, error) {
	existing, claimed, err := c.idempotency.Begin(ctx, userID, idempotencyKey, requestHash, c.settings.IdempotencyTTL)
	if err != nil {
		if _, ok := errs.AsCoded(err); ok {
			return nil, err
		}
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}
	if existing.Status == shared.IdempotencyStatusCompleted && existing.BookingID != nil {
		return &CreateBookingResult{BookingID: *existing.BookingID, IsReplayed: true}, nil
	}
	return nil, errs.ErrIdempotencyInProgress
}

func (c *bookingCommandsImpl) create(ctx context.Context, in CreateBookingInput, userID uuid.UUID) (uuid.UUID, error) {
	modality, err := booking.ParseModality(in.Modality)
	if err != nil {
		return uuid.Nil, err
	}
	gameType, err := booking.ParseGameType(in.GameType)
	if err != nil {
		return uuid.Nil, err
	}
	rank, err := booking.ParseRank(in.Rank)
	if err != nil {
		return uuid.Nil, err
	}
	cfg, err := booking.NewConfiguration(modality, gameType)
	if err != nil {
		return uuid.Nil, err
	}
	period, err := booking.NewPeriod(in.StartTime, in.EndTime)
	if err != nil {
		return uuid.Nil, err
	}

	b, err := c.factory.Create(userID, in.CourtID, cfg, period, rank, in.PricePerHour, c.settings.Currency)
	if err != nil {
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Add(ctx, tx.DB(), b); err != nil {
			return err
		}
		return c.enqueue(ctx, tx, shared.TopicBookingCreated, b, nil)
	})
	if err != nil {
		return uuid.Nil, translatePersistenceErr(err)
	}

	slog.Info("booking created",
		"booking_id", b.ID(),
		"user_id", userID,
		"modality", modality,
		"game_type", gameType,
		"status", b.Status())
	return b.ID(), nil
}

func (c *bookingCommandsImpl) AddPlayer(ctx context.Context, bookingID uuid.UUID, in AddPlayerInput) (err error) {
	defer func() { metrics.ObserveCommand("add_player", err) }()

	rank, err := booking.ParseRank(in.Rank)
	if err != nil {
		return err
	}

	var filled bool
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if err := b.AddPlayer(in.UserID, rank); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, tx.DB(), b); err != nil {
			return err
		}
		if err := c.enqueue(ctx, tx, shared.TopicBookingPlayerJoined, b, &in.UserID); err != nil {
			return err
		}
		filled = b.Status() == booking.StatusPendingPayment
		if filled {
			return c.enqueue(ctx, tx, shared.TopicBookingFilled, b, nil)
		}
		return nil
	})
	if err != nil {
		return translatePersistenceErr(err)
	}

	slog.Info("player joined booking", "booking_id", bookingID, "user_id", in.UserID, "filled", filled)
	return nil
}

func (c *bookingCommandsImpl) Delete(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (err error) {
	defer func() { metrics.ObserveCommand("delete", err) }()

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().GetByID(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if b.UserID() != actorID {
			return errs.ErrNotBookingOwner
		}
		if err := tx.Bookings().Delete(ctx, tx.DB(), bookingID); err != nil {
			return err
		}
		return c.enqueue(ctx, tx, shared.TopicBookingDeleted, b, nil)
	})
	if err != nil {
		return translatePersistenceErr(err)
	}

	slog.Info("booking deleted", "booking_id", bookingID, "user_id", actorID)
	return nil
}

func (c *bookingCommandsImpl) enqueue(ctx context.Context, tx shared.Tx, topic string, b *booking.Booking, playerID *uuid.UUID) error {
	now := c.clock.Now()
	payload, err := json.Marshal(shared.BookingEvent{
		BookingID:  b.ID(),
		UserID:     b.UserID(),
		CourtID:    b.CourtID(),
		Status:     b.Status().String(),
		PlayerID:   playerID,
		Players:    len(b.Players()),
		MaxPlayers: b.Configuration().MaxPlayers(),
		StartTime:  b.BookingPeriod().Start(),
		EndTime:    b.BookingPeriod().End(),
		OccurredAt: now,
	})
	if err != nil {
		return errs.Wrap(err, "encode booking event")
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), notificationKind, topic, payload, now)
}

// translatePersistenceErr keeps coded business errors intact and maps
// repository kinds onto the application errors callers switch on.
func translatePersistenceErr(err error) error {
	if _, ok := errs.AsCoded(err); ok {
		return err
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.ErrBookingNotFound
	case infra.IsKind(err, infra.KindStaleWrite):
		return errs.ErrConcurrentUpdate
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

func calculateRequestHash(in CreateBookingInput) string {
	in.StartTime = in.StartTime.UTC()
	in.EndTime = in.EndTime.UTC()
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
