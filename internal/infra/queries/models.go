package queries

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRow struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CourtID       uuid.UUID
	Modality      string
	GameType      string
	Status        string
	RequesterRank string
	RequestStart  pgtype.Timestamptz
	RequestEnd    pgtype.Timestamptz
	StartTime     pgtype.Timestamptz
	EndTime       pgtype.Timestamptz
	PriceAmount   pgtype.Numeric
	PriceCurrency string
	Players       []byte
	Version       int32
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type InsertBookingParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CourtID       uuid.UUID
	Modality      string
	GameType      string
	Status        string
	RequesterRank string
	RequestStart  pgtype.Timestamptz
	RequestEnd    pgtype.Timestamptz
	StartTime     pgtype.Timestamptz
	EndTime       pgtype.Timestamptz
	PriceAmount   pgtype.Numeric
	PriceCurrency string
	Players       []byte
	CreatedAt     pgtype.Timestamptz
}

// UpdateBookingParams writes the mutable part of a booking. ExpectedVersion
// guards against lost updates.
type UpdateBookingParams struct {
	ID              uuid.UUID
	Status          string
	Players         []byte
	ExpectedVersion int32
}

// ListBookingsByUserParams pages newest first. When AfterID is set only rows
// strictly older than (AfterCreatedAt, AfterID) are returned.
type ListBookingsByUserParams struct {
	UserID         uuid.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        *uuid.UUID
	Limit          int32
}

type ListOpenMatchesParams struct {
	RequesterRank string
	GameType      *string
	StartsAfter   pgtype.Timestamptz
	Limit         int32
}

type NotificationJobRow struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     pgtype.Timestamptz
	Attempts  int32
	Status    string
	LastError pgtype.Text
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type InsertNotificationJobParams struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
}

type ClaimDueNotificationJobsParams struct {
	Now   pgtype.Timestamptz
	Limit int32
}

type MarkNotificationJobFailedParams struct {
	ID        uuid.UUID
	LastError string
	RunAt     pgtype.Timestamptz
	Dead      bool
}
