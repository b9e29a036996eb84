//go:build unit

package queries

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStop = errors.New("stop after capture")

// recordingDB captures the last statement. Query fails so no pgx.Rows is needed.
type recordingDB struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.sql, d.args = sql, args
	return d.tag, nil
}

func (d *recordingDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.sql, d.args = sql, args
	return nil, errStop
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql, d.args = sql, args
	return nil
}

func TestUpdateBooking_GuardsOnVersion(t *testing.T) {
	db := &recordingDB{tag: pgconn.NewCommandTag("UPDATE 0")}
	id := uuid.New()

	n, err := New().UpdateBooking(context.Background(), db, UpdateBookingParams{
		ID:              id,
		Status:          "pending_payment",
		Players:         []byte(`[]`),
		ExpectedVersion: 4,
	})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, db.sql, "version = version + 1")
	assert.Contains(t, db.sql, "WHERE id = $")
	assert.Contains(t, db.sql, "version = $")
	assert.Contains(t, db.args, int32(4))
	assert.Contains(t, db.args, id.String()) // squirrel expands driver.Valuer args
}

func TestListBookingsByUser_Keyset(t *testing.T) {
	userID := uuid.New()
	afterID := uuid.New()

	t.Run("first page", func(t *testing.T) {
		db := &recordingDB{}
		_, err := New().ListBookingsByUser(context.Background(), db, ListBookingsByUserParams{UserID: userID, Limit: 21})
		assert.ErrorIs(t, err, errStop)
		assert.Contains(t, db.sql, "players @> $2::jsonb")
		assert.NotContains(t, db.sql, "(created_at, id) <")
		assert.True(t, strings.HasSuffix(db.sql, "ORDER BY created_at DESC, id DESC LIMIT 21"), db.sql)
		assert.Contains(t, db.args, `[{"user_id":"`+userID.String()+`"}]`)
	})

	t.Run("after cursor", func(t *testing.T) {
		db := &recordingDB{}
		_, err := New().ListBookingsByUser(context.Background(), db, ListBookingsByUserParams{
			UserID:         userID,
			AfterCreatedAt: pgtype.Timestamptz{Valid: true},
			AfterID:        &afterID,
			Limit:          5,
		})
		assert.ErrorIs(t, err, errStop)
		assert.Contains(t, db.sql, "(created_at, id) < ($3, $4)")
		assert.Contains(t, db.args, afterID)
	})
}

func TestListOpenMatches_Filters(t *testing.T) {
	singles := "singles"
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for name, gameType := range map[string]*string{"any game type": nil, "singles only": &singles} {
		t.Run(name, func(t *testing.T) {
			db := &recordingDB{}
			_, err := New().ListOpenMatches(context.Background(), db, ListOpenMatchesParams{
				RequesterRank: "advanced",
				GameType:      gameType,
				StartsAfter:   pgtype.Timestamptz{Time: now, Valid: true},
				Limit:         10,
			})
			assert.ErrorIs(t, err, errStop)
			assert.Contains(t, db.sql, "modality = $")
			assert.Contains(t, db.sql, "requester_rank = $")
			assert.Contains(t, db.sql, "status = $")
			assert.Contains(t, db.sql, "start_time > $")
			assert.Contains(t, db.args, "advanced")
			assert.Equal(t, gameType != nil, strings.Contains(db.sql, "game_type = $"))
		})
	}
}
