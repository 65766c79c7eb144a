package panelconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("panel configuration not found")

const maintenanceSettingName = "maintenanceMode"

// DBTX is satisfied by both pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads panel configurations and the maintenance flag. Configurations
// are written by an external administrative process; this service only reads
// them.
type Store struct {
	db DBTX
}

func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) FindByPanelType(ctx context.Context, panelType PanelType) (*Config, error) {
	query := `
		SELECT panel_type, domain, egg_id, nest_id, loc, ptla, ptlc, updated_at
		FROM panel_configs
		WHERE panel_type = $1
	`

	var cfg Config
	err := s.db.QueryRow(ctx, query, string(panelType)).Scan(
		&cfg.PanelType,
		&cfg.Domain,
		&cfg.EggID,
		&cfg.NestID,
		&cfg.Loc,
		&cfg.PTLA,
		&cfg.PTLC,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find panel config: %w", err)
	}

	return &cfg, nil
}

// Maintenance returns the maintenance flag. A missing row means maintenance
// is disabled.
func (s *Store) Maintenance(ctx context.Context) (Maintenance, error) {
	query := `SELECT enabled, last_updated FROM settings WHERE setting_name = $1`

	var m Maintenance
	err := s.db.QueryRow(ctx, query, maintenanceSettingName).Scan(&m.Enabled, &m.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Maintenance{}, nil
		}
		return Maintenance{}, fmt.Errorf("find maintenance setting: %w", err)
	}

	return m, nil
}

func (s *Store) SetMaintenance(ctx context.Context, enabled bool) error {
	query := `
		INSERT INTO settings (setting_name, enabled, last_updated)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_name)
		DO UPDATE SET enabled = EXCLUDED.enabled, last_updated = NOW()
	`

	if _, err := s.db.Exec(ctx, query, maintenanceSettingName, enabled); err != nil {
		return fmt.Errorf("set maintenance setting: %w", err)
	}
	return nil
}
