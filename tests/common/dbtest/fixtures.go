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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		userID, email, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestFacility(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	facilityID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO facilities (id, name, timezone) VALUES ($1, $2, 'UTC')", facilityID, name)
	require.NoError(t, err)

	return facilityID
}

func CreateTestCourt(t *testing.T, db DBLike, facilityID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	courtID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO courts (id, facility_id, name, surface, indoor, active) VALUES ($1, $2, $3, 'hard', false, true)",
		courtID, facilityID, name)
	require.NoError(t, err)

	return courtID
}

// CreateOperatingWindow opens the whole facility every day between the
// given minutes past midnight.
func CreateOperatingWindow(t *testing.T, db DBLike, facilityID uuid.UUID, openMinutes, closeMinutes int) uuid.UUID {
	t.Helper()

	windowID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO operating_windows (id, facility_id, open_minutes, close_minutes, active) VALUES ($1, $2, $3, $4, true)",
		windowID, facilityID, openMinutes, closeMinutes)
	require.NoError(t, err)

	return windowID
}

// CreatePricingRule prices the whole day at a flat hourly rate.
func CreatePricingRule(t *testing.T, db DBLike, courtID uuid.UUID, pricePerHourCents int64) uuid.UUID {
	t.Helper()

	ruleID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO pricing_rules (id, court_id, range_start_minutes, range_end_minutes, price_per_hour_cents) VALUES ($1, $2, 0, 1440, $3)",
		ruleID, courtID, pricePerHourCents)
	require.NoError(t, err)

	return ruleID
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
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
