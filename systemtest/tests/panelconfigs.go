package tests

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/panelconfig"
)

func TestPanelConfigStore(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	store := panelconfig.NewStore(pool)

	t.Run("FindByPanelType", func(t *testing.T) {
		_, err := pool.Exec(ctx, `
			INSERT INTO panel_configs (panel_type, domain, egg_id, nest_id, loc, ptla, ptlc)
			VALUES ('public', 'panel.example.com', '15', '5', '1', 'ptla_sys', 'ptlc_sys')
		`)
		require.NoError(t, err)

		cfg, err := store.FindByPanelType(ctx, panelconfig.PanelTypePublic)
		require.NoError(t, err)
		assert.Equal(t, panelconfig.PanelTypePublic, cfg.PanelType)
		assert.Equal(t, "panel.example.com", cfg.Domain)
		assert.Equal(t, "15", cfg.EggID)
		assert.Equal(t, "5", cfg.NestID)
		assert.Equal(t, "1", cfg.Loc)
		assert.Equal(t, "ptla_sys", cfg.PTLA)
		assert.Equal(t, "ptlc_sys", cfg.PTLC)
		assert.False(t, cfg.UpdatedAt.IsZero())
	})

	t.Run("FindByPanelTypeNotFound", func(t *testing.T) {
		_, err := store.FindByPanelType(ctx, panelconfig.PanelTypePrivate)
		assert.ErrorIs(t, err, panelconfig.ErrNotFound)
	})

	t.Run("MaintenanceDefaultsDisabled", func(t *testing.T) {
		m, err := store.Maintenance(ctx)
		require.NoError(t, err)
		assert.False(t, m.Enabled)
		assert.Nil(t, m.LastUpdated)
	})

	t.Run("SetMaintenance", func(t *testing.T) {
		require.NoError(t, store.SetMaintenance(ctx, true))

		m, err := store.Maintenance(ctx)
		require.NoError(t, err)
		assert.True(t, m.Enabled)
		require.NotNil(t, m.LastUpdated)
		first := *m.LastUpdated

		require.NoError(t, store.SetMaintenance(ctx, false))

		m, err = store.Maintenance(ctx)
		require.NoError(t, err)
		assert.False(t, m.Enabled)
		require.NotNil(t, m.LastUpdated)
		assert.False(t, m.LastUpdated.Before(first))
	})
}
