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

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestMarket(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	marketID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO markets (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING", marketID, name)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM markets WHERE name = $1", name).Scan(&marketID)
	}

	return marketID
}

func CreateTestClient(t *testing.T, db DBLike, name, webhookURL string) uuid.UUID {
	t.Helper()

	clientID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO clients (id, name, webhook_url) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
		clientID, name, webhookURL)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM clients WHERE name = $1", name).Scan(&clientID)
	}

	return clientID
}

func CreateTestProvider(t *testing.T, db DBLike, marketID uuid.UUID, name, webhookURL string) uuid.UUID {
	t.Helper()

	providerID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO providers (id, market_id, name, webhook_url) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING",
		providerID, marketID, name, webhookURL)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM providers WHERE name = $1", name).Scan(&providerID)
	}

	return providerID
}

// CreateTestUser inserts a user bound to the given organisation. Pass
// uuid.Nil for admins.
func CreateTestUser(t *testing.T, db DBLike, email, role string, orgID uuid.UUID) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	var org any
	if orgID != uuid.Nil {
		org = orgID
	}

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role, org_id, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role, org)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO markets (id, name) VALUES
		    (gen_random_uuid(), 'Default Market')
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO clients (id, name) VALUES
		    (gen_random_uuid(), 'Default Client')
		ON CONFLICT (name) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO providers (id, market_id, name)
		SELECT gen_random_uuid(), m.id, 'Default Provider'
		FROM markets m
		WHERE m.name = 'Default Market'
		ON CONFLICT (name) DO NOTHING;
	`)
	return err
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

	return SeedReferenceData(pool)
}
