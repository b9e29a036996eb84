package response

import (
	"time"

	"court-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PlayerResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Rank        string    `json:"rank"`
	IsRequester bool      `json:"is_requester"`
}

type BookingResponse struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	CourtID       uuid.UUID        `json:"court_id"`
	Status        string           `json:"status"`
	Modality      string           `json:"modality"`
	GameType      string           `json:"game_type"`
	RequestStart  time.Time        `json:"request_start"`
	RequestEnd    time.Time        `json:"request_end"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	PriceAmount   string           `json:"price_amount" copier:"-"`
	PriceCurrency string           `json:"price_currency"`
	Players       []PlayerResponse `json:"players"`
	MaxPlayers    int              `json:"max_players"`
	OpenSlots     int              `json:"open_slots"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type CreateBookingResponse struct {
	ID uuid.UUID `json:"id"`
}

type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{}
	_ = copier.Copy(res, v)
	res.PriceAmount = v.PriceAmount.StringFixed(2)
	if res.Players == nil {
		res.Players = []PlayerResponse{}
	}
	return res
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(views))
	for i, v := range views {
		res[i] = FromBookingView(v)
	}
	return res
}
