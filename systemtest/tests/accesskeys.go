package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/accesskey"
)

func insertKey(t *testing.T, pool *pgxpool.Pool, key string, active bool, restriction string, usage int64) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO access_keys (id, key, is_active, panel_type_restriction, usage_count)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), key, active, restriction, usage)
	require.NoError(t, err)
}

func banKey(t *testing.T, pool *pgxpool.Pool, key string, permanent bool, expiresAt *time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		UPDATE access_keys
		SET is_banned = TRUE, ban_permanent = $2, ban_expires_at = $3
		WHERE key = $1
	`, key, permanent, expiresAt)
	require.NoError(t, err)
}

func past(d time.Duration) *time.Time {
	t := time.Now().Add(-d)
	return &t
}

func TestAccessKeyStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := accesskey.NewPGStore(pool)

	t.Run("FindByKey", func(t *testing.T) {
		insertKey(t, pool, "sys-k1", true, "both", 5)

		k, err := store.FindByKey(ctx, "sys-k1")
		require.NoError(t, err)
		assert.True(t, k.IsActive)
		assert.False(t, k.IsBanned)
		assert.Nil(t, k.Ban)
		assert.Equal(t, accesskey.RestrictionBoth, k.Restriction)
		assert.Equal(t, int64(5), k.UsageCount)
	})

	t.Run("FindByKeyNotFound", func(t *testing.T) {
		_, err := store.FindByKey(ctx, "sys-missing")
		assert.ErrorIs(t, err, accesskey.ErrKeyNotFound)
	})

	t.Run("BanRoundTrip", func(t *testing.T) {
		insertKey(t, pool, "sys-k2", true, "public", 0)
		banKey(t, pool, "sys-k2", false, past(time.Hour))

		k, err := store.FindByKey(ctx, "sys-k2")
		require.NoError(t, err)
		require.True(t, k.IsBanned)
		require.NotNil(t, k.Ban)
		assert.False(t, k.Ban.Permanent)
		assert.True(t, k.Ban.Expired(time.Now()))
	})

	t.Run("ClearBan", func(t *testing.T) {
		insertKey(t, pool, "sys-k3", true, "both", 0)
		banKey(t, pool, "sys-k3", false, past(time.Hour))

		require.NoError(t, store.ClearBan(ctx, "sys-k3"))

		k, err := store.FindByKey(ctx, "sys-k3")
		require.NoError(t, err)
		assert.False(t, k.IsBanned)
		assert.Nil(t, k.Ban)

		// clearing an already unbanned key is a no-op
		require.NoError(t, store.ClearBan(ctx, "sys-k3"))
	})

	t.Run("IncrementUsage", func(t *testing.T) {
		insertKey(t, pool, "sys-k4", true, "both", 5)

		count, err := store.IncrementUsage(ctx, "sys-k4")
		require.NoError(t, err)
		assert.Equal(t, int64(6), count)

		k, err := store.FindByKey(ctx, "sys-k4")
		require.NoError(t, err)
		assert.Equal(t, int64(6), k.UsageCount)
	})

	t.Run("IncrementUsageGuardsInactive", func(t *testing.T) {
		insertKey(t, pool, "sys-k5", false, "both", 0)

		_, err := store.IncrementUsage(ctx, "sys-k5")
		assert.ErrorIs(t, err, accesskey.ErrKeyInactive)

		k, err := store.FindByKey(ctx, "sys-k5")
		require.NoError(t, err)
		assert.Equal(t, int64(0), k.UsageCount)
	})

	t.Run("IncrementUsageGuardsBanned", func(t *testing.T) {
		insertKey(t, pool, "sys-k6", true, "both", 0)
		banKey(t, pool, "sys-k6", true, nil)

		_, err := store.IncrementUsage(ctx, "sys-k6")
		assert.ErrorIs(t, err, accesskey.ErrKeyInactive)
	})

	t.Run("ServiceEndToEnd", func(t *testing.T) {
		insertKey(t, pool, "sys-k7", true, "both", 0)
		banKey(t, pool, "sys-k7", false, past(time.Minute))

		svc := accesskey.NewService(store)

		result, err := svc.CheckStatus(ctx, "sys-k7")
		require.NoError(t, err)
		assert.Equal(t, accesskey.StatusActive, result.Status)

		k, err := store.FindByKey(ctx, "sys-k7")
		require.NoError(t, err)
		assert.False(t, k.IsBanned)
	})
}
