package converter

import (
	"encoding/json"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra/queries"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// playerDoc is the JSONB shape of one entry in bookings.players.
type playerDoc struct {
	UserID      uuid.UUID `json:"user_id"`
	Rank        string    `json:"rank"`
	IsRequester bool      `json:"is_requester"`
}

func PlayersToJSON(players []booking.Player) ([]byte, error) {
	docs := make([]playerDoc, len(players))
	for i, p := range players {
		docs[i] = playerDoc{UserID: p.UserID, Rank: p.Rank.String(), IsRequester: p.IsRequester}
	}
	return json.Marshal(docs)
}

func PlayersFromJSON(raw []byte) ([]booking.Player, error) {
	var docs []playerDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, errs.Wrap(err, "decode players")
	}
	players := make([]booking.Player, len(docs))
	for i, d := range docs {
		rank, err := booking.ParseRank(d.Rank)
		if err != nil {
			return nil, err
		}
		players[i] = booking.Player{UserID: d.UserID, Rank: rank, IsRequester: d.IsRequester}
	}
	return players, nil
}

func BookingToInsertParams(b *booking.Booking) (queries.InsertBookingParams, error) {
	players, err := PlayersToJSON(b.Players())
	if err != nil {
		return queries.InsertBookingParams{}, err
	}
	return queries.InsertBookingParams{
		ID:            b.ID(),
		UserID:        b.UserID(),
		CourtID:       b.CourtID(),
		Modality:      b.Configuration().Modality().String(),
		GameType:      b.Configuration().GameType().String(),
		Status:        b.Status().String(),
		RequesterRank: b.Requester().Rank.String(),
		RequestStart:  pgconv.TimeToPgtype(b.RequestPeriod().Start()),
		RequestEnd:    pgconv.TimeToPgtype(b.RequestPeriod().End()),
		StartTime:     pgconv.TimeToPgtype(b.BookingPeriod().Start()),
		EndTime:       pgconv.TimeToPgtype(b.BookingPeriod().End()),
		PriceAmount:   pgconv.DecimalToNumeric(b.Price().Amount()),
		PriceCurrency: b.Price().Currency().String(),
		Players:       players,
		CreatedAt:     pgconv.TimeToPgtype(b.CreatedAt()),
	}, nil
}

func BookingToUpdateParams(b *booking.Booking) (queries.UpdateBookingParams, error) {
	players, err := PlayersToJSON(b.Players())
	if err != nil {
		return queries.UpdateBookingParams{}, err
	}
	return queries.UpdateBookingParams{
		ID:              b.ID(),
		Status:          b.Status().String(),
		Players:         players,
		ExpectedVersion: b.Version(),
	}, nil
}

// BookingFromRow decodes a stored row. Any value the domain does not accept
// surfaces as booking.ErrCorruptBooking.
func BookingFromRow(row queries.BookingRow) (*booking.Booking, error) {
	b, err := bookingFromRow(row)
	if err != nil {
		if errs.Is(err, booking.ErrCorruptBooking) {
			return nil, err
		}
		return nil, booking.ErrCorruptBooking.WithMessage("booking " + row.ID.String() + ": " + err.Error())
	}
	return b, nil
}

func bookingFromRow(row queries.BookingRow) (*booking.Booking, error) {
	modality, err := booking.ParseModality(row.Modality)
	if err != nil {
		return nil, err
	}
	gameType, err := booking.ParseGameType(row.GameType)
	if err != nil {
		return nil, err
	}
	cfg, err := booking.NewConfiguration(modality, gameType)
	if err != nil {
		return nil, err
	}
	status, err := booking.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	requestPeriod, err := booking.NewPeriod(pgconv.TimeFromPgtype(row.RequestStart), pgconv.TimeFromPgtype(row.RequestEnd))
	if err != nil {
		return nil, err
	}
	bookingPeriod, err := booking.NewPeriod(pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime))
	if err != nil {
		return nil, err
	}
	amount, err := pgconv.DecimalFromNumeric(row.PriceAmount)
	if err != nil {
		return nil, err
	}
	currency, err := booking.ParseCurrency(row.PriceCurrency)
	if err != nil {
		return nil, err
	}
	price, err := booking.NewPrice(amount, currency)
	if err != nil {
		return nil, err
	}
	players, err := PlayersFromJSON(row.Players)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		row.ID, row.UserID, row.CourtID,
		cfg, status,
		requestPeriod, bookingPeriod,
		price, players, row.Version,
		pgconv.TimeFromPgtype(row.CreatedAt), pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}
