//go:build unit

package response_test

import (
	"testing"
	"time"

	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestFromBookingView(t *testing.T) {
	start := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)
	requester := uuid.New()
	view := &queries.BookingView{
		ID:            uuid.New(),
		UserID:        requester,
		CourtID:       uuid.New(),
		Status:        "waiting_for_players",
		Modality:      "matchmaking",
		GameType:      "doubles",
		RequestStart:  start.Add(-time.Hour),
		RequestEnd:    start.Add(-50 * time.Minute),
		StartTime:     start,
		EndTime:       start.Add(90 * time.Minute),
		PriceAmount:   decimal.RequireFromString("30"),
		PriceCurrency: "EUR",
		Players:       []queries.PlayerView{{UserID: requester, Rank: "advanced", IsRequester: true}},
		MaxPlayers:    4,
		OpenSlots:     3,
		CreatedAt:     start.Add(-time.Hour),
		UpdatedAt:     start.Add(-time.Hour),
	}

	want := &resdto.BookingResponse{
		ID:            view.ID,
		UserID:        view.UserID,
		CourtID:       view.CourtID,
		Status:        view.Status,
		Modality:      view.Modality,
		GameType:      view.GameType,
		RequestStart:  view.RequestStart,
		RequestEnd:    view.RequestEnd,
		StartTime:     view.StartTime,
		EndTime:       view.EndTime,
		PriceAmount:   "30.00",
		PriceCurrency: "EUR",
		Players:       []resdto.PlayerResponse{{UserID: requester, Rank: "advanced", IsRequester: true}},
		MaxPlayers:    4,
		OpenSlots:     3,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}

	if diff := cmp.Diff(want, resdto.FromBookingView(view)); diff != "" {
		t.Errorf("FromBookingView mismatch (-want +got):\n%s", diff)
	}
}
