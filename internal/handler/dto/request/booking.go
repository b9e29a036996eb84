package request

import (
	"time"

	"court-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	CourtID      uuid.UUID       `json:"court_id" binding:"required"`
	Modality     string          `json:"modality" binding:"required"`
	GameType     string          `json:"game_type" binding:"required"`
	StartTime    time.Time       `json:"start_time" binding:"required"`
	EndTime      time.Time       `json:"end_time" binding:"required"`
	Rank         string          `json:"rank" binding:"required"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}

// Enum values and the period are validated by the domain so callers get the
// same error codes whatever the entry point.
func (r CreateBookingRequest) ToInput() commands.CreateBookingInput {
	return commands.CreateBookingInput{
		CourtID:      r.CourtID,
		Modality:     r.Modality,
		GameType:     r.GameType,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Rank:         r.Rank,
		PricePerHour: r.PricePerHour,
	}
}

type AddPlayerRequest struct {
	Rank string `json:"rank" binding:"required"`
}

func (r AddPlayerRequest) ToInput(userID uuid.UUID) commands.AddPlayerInput {
	return commands.AddPlayerInput{UserID: userID, Rank: r.Rank}
}
