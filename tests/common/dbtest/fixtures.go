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

// DefaultProviderID is seeded by SeedReferenceData for tests that just need
// any bookable provider.
var DefaultProviderID = uuid.MustParse("11111111-1111-4111-8111-111111111111")

func CreateTestProvider(t *testing.T, db DBLike, name, category string, hourlyRateCents int64) uuid.UUID {
	t.Helper()

	providerID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO service_providers (id, display_name, category, hourly_rate_cents, is_verified, is_active)
		VALUES ($1, $2, $3, $4, true, true)`,
		providerID, name, category, hourlyRateCents)
	require.NoError(t, err)

	return providerID
}

func DeactivateProvider(t *testing.T, db DBLike, providerID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE service_providers SET is_active = false WHERE id = $1", providerID)
	require.NoError(t, err)
}

func GetBookingStatus(t *testing.T, db DBLike, bookingID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)
	return status
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO service_providers (id, display_name, category, hourly_rate_cents, is_verified, is_active)
		VALUES ($1, 'Default Provider', 'cleaning', 5000, true, true)
		ON CONFLICT (id) DO NOTHING;
	`, DefaultProviderID)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')
		    AND tablename NOT LIKE 'river%'`)
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

	return SeedReferenceData(pool)
}
