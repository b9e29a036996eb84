package queries

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingsTable = "bookings"

var bookingColumns = []string{
	"id",
	"user_id",
	"court_id",
	"modality",
	"game_type",
	"status",
	"requester_rank",
	"request_start",
	"request_end",
	"start_time",
	"end_time",
	"price_amount",
	"price_currency",
	"players",
	"version",
	"created_at",
	"updated_at",
}

func scanBooking(row pgx.Row) (BookingRow, error) {
	var b BookingRow
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.CourtID,
		&b.Modality,
		&b.GameType,
		&b.Status,
		&b.RequesterRank,
		&b.RequestStart,
		&b.RequestEnd,
		&b.StartTime,
		&b.EndTime,
		&b.PriceAmount,
		&b.PriceCurrency,
		&b.Players,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (q *Queries) InsertBooking(ctx context.Context, db DBTX, arg InsertBookingParams) error {
	query, args, err := psql.Insert(bookingsTable).
		Columns(
			"id",
			"user_id",
			"court_id",
			"modality",
			"game_type",
			"status",
			"requester_rank",
			"request_start",
			"request_end",
			"start_time",
			"end_time",
			"price_amount",
			"price_currency",
			"players",
			"version",
			"created_at",
			"updated_at",
		).
		Values(
			arg.ID,
			arg.UserID,
			arg.CourtID,
			arg.Modality,
			arg.GameType,
			arg.Status,
			arg.RequesterRank,
			arg.RequestStart,
			arg.RequestEnd,
			arg.StartTime,
			arg.EndTime,
			arg.PriceAmount,
			arg.PriceCurrency,
			arg.Players,
			1,
			arg.CreatedAt,
			arg.CreatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, query, args...)
	return err
}

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (BookingRow, error) {
	query, args, err := psql.Select(bookingColumns...).
		From(bookingsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return BookingRow{}, err
	}
	return scanBooking(db.QueryRow(ctx, query, args...))
}

// GetBookingByIDForUpdate locks the row until the surrounding transaction ends.
func (q *Queries) GetBookingByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (BookingRow, error) {
	query, args, err := psql.Select(bookingColumns...).
		From(bookingsTable).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return BookingRow{}, err
	}
	return scanBooking(db.QueryRow(ctx, query, args...))
}

// UpdateBooking reports the number of rows written; zero means the row is
// missing or its version moved on.
func (q *Queries) UpdateBooking(ctx context.Context, db DBTX, arg UpdateBookingParams) (int64, error) {
	query, args, err := psql.Update(bookingsTable).
		Set("status", arg.Status).
		Set("players", arg.Players).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": arg.ID, "version": arg.ExpectedVersion}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) DeleteBooking(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	query, args, err := psql.Delete(bookingsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListBookingsByUser returns bookings the user created or joined, newest first.
func (q *Queries) ListBookingsByUser(ctx context.Context, db DBTX, arg ListBookingsByUserParams) ([]BookingRow, error) {
	member, err := json.Marshal([]map[string]string{{"user_id": arg.UserID.String()}})
	if err != nil {
		return nil, err
	}
	builder := psql.Select(bookingColumns...).
		From(bookingsTable).
		Where(sq.Or{
			sq.Eq{"user_id": arg.UserID},
			sq.Expr("players @> ?::jsonb", string(member)),
		})
	if arg.AfterID != nil {
		builder = builder.Where(sq.Expr("(created_at, id) < (?, ?)", arg.AfterCreatedAt, *arg.AfterID))
	}
	query, args, err := builder.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(arg.Limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryBookings(ctx, db, query, args)
}

// ListOpenMatches returns matchmaking bookings still waiting for players,
// soonest first.
func (q *Queries) ListOpenMatches(ctx context.Context, db DBTX, arg ListOpenMatchesParams) ([]BookingRow, error) {
	where := sq.And{
		sq.Eq{"status": "waiting_for_players", "modality": "matchmaking", "requester_rank": arg.RequesterRank},
		sq.Gt{"start_time": arg.StartsAfter},
	}
	if arg.GameType != nil {
		where = append(where, sq.Eq{"game_type": *arg.GameType})
	}
	query, args, err := psql.Select(bookingColumns...).
		From(bookingsTable).
		Where(where).
		OrderBy("start_time ASC", "id ASC").
		Limit(uint64(arg.Limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return queryBookings(ctx, db, query, args)
}

func queryBookings(ctx context.Context, db DBTX, query string, args []any) ([]BookingRow, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookingRow
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
