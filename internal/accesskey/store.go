package accesskey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the persistence boundary for access keys. All three operations
// are atomic per record.
type Store interface {
	// FindByKey returns ErrKeyNotFound when no record matches.
	FindByKey(ctx context.Context, key string) (*Key, error)
	// ClearBan lifts a ban and removes its details. Clearing an already
	// unbanned key is a no-op.
	ClearBan(ctx context.Context, key string) error
	// IncrementUsage adds one use to an active, unbanned key and returns the
	// new count. It returns ErrKeyInactive when the guard no longer holds,
	// so a concurrent deactivation or ban cannot be double-charged past.
	IncrementUsage(ctx context.Context, key string) (int64, error)
}

// DBTX is satisfied by both pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db DBTX
}

func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) FindByKey(ctx context.Context, key string) (*Key, error) {
	query := `
		SELECT id, key, is_active, is_banned, ban_permanent, ban_expires_at,
		       panel_type_restriction, usage_count, created_at, updated_at
		FROM access_keys
		WHERE key = $1
	`

	var (
		k            Key
		banPermanent *bool
		banExpiresAt *time.Time
	)
	err := s.db.QueryRow(ctx, query, key).Scan(
		&k.ID,
		&k.Key,
		&k.IsActive,
		&k.IsBanned,
		&banPermanent,
		&banExpiresAt,
		&k.Restriction,
		&k.UsageCount,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("find access key: %w", err)
	}

	if banPermanent != nil {
		k.Ban = &BanDetails{Permanent: *banPermanent}
		if banExpiresAt != nil {
			k.Ban.ExpiresAt = *banExpiresAt
		}
	}

	return &k, nil
}

func (s *PGStore) ClearBan(ctx context.Context, key string) error {
	query := `
		UPDATE access_keys
		SET is_banned = FALSE, ban_permanent = NULL, ban_expires_at = NULL, updated_at = NOW()
		WHERE key = $1 AND is_banned
	`

	if _, err := s.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("clear access key ban: %w", err)
	}
	return nil
}

func (s *PGStore) IncrementUsage(ctx context.Context, key string) (int64, error) {
	// The WHERE guard makes the increment conditional on the key still being
	// usable, so concurrent requests against the same key cannot lose
	// updates or charge a key that was deactivated in between.
	query := `
		UPDATE access_keys
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE key = $1 AND is_active AND NOT is_banned
		RETURNING usage_count
	`

	var count int64
	err := s.db.QueryRow(ctx, query, key).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrKeyInactive
		}
		return 0, fmt.Errorf("increment access key usage: %w", err)
	}
	return count, nil
}
