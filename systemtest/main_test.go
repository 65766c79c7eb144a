package systemtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostbay/panelgate/internal/db"
	"github.com/hostbay/panelgate/systemtest/postgres"
	"github.com/hostbay/panelgate/systemtest/tests"
)

func TestSystemIntegration(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.StartPostgres(ctx, "panelgate", "panelgate", "panelgate")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = postgres.TerminatePostgres(context.Background(), container)
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(dbURL, "panelgate"))

	pool, err := db.InitDB(ctx, dbURL, "panelgate")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	t.Run("AccessKeyStore", func(t *testing.T) { tests.TestAccessKeyStore(t, pool) })
	t.Run("PanelConfigStore", func(t *testing.T) { tests.TestPanelConfigStore(t, pool) })
}
