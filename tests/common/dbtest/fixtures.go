//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/infra/queries"
	"court-booking/internal/infra/repository/converter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// BookingRow is the row the database would return for b at the given version.
func BookingRow(t *testing.T, b *booking.Booking, version int32) queries.BookingRow {
	t.Helper()

	p, err := converter.BookingToInsertParams(b)
	require.NoError(t, err)
	return queries.BookingRow{
		ID:            p.ID,
		UserID:        p.UserID,
		CourtID:       p.CourtID,
		Modality:      p.Modality,
		GameType:      p.GameType,
		Status:        p.Status,
		RequesterRank: p.RequesterRank,
		RequestStart:  p.RequestStart,
		RequestEnd:    p.RequestEnd,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		PriceAmount:   p.PriceAmount,
		PriceCurrency: p.PriceCurrency,
		Players:       p.Players,
		Version:       version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.CreatedAt,
	}
}

// InsertBooking stores b directly, bypassing the HTTP layer. Useful for
// bookings whose start lies in the past.
func InsertBooking(t *testing.T, db queries.DBTX, b *booking.Booking) {
	t.Helper()

	p, err := converter.BookingToInsertParams(b)
	require.NoError(t, err)
	require.NoError(t, queries.New().InsertBooking(context.Background(), db, p))
}

// CountNotificationJobs returns how many jobs exist for topic.
func CountNotificationJobs(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
