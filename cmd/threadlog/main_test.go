package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/threadlog/internal/config"
	"github.com/alexanderramin/threadlog/internal/domain"
)

func TestConfigPath(t *testing.T) {
	t.Setenv(config.EnvPrefix+"_CONFIG", "")
	assert.Equal(t, "/etc/threadlog.yaml", configPath([]string{"serve", "--config", "/etc/threadlog.yaml", "--org", "acme"}))
	assert.Equal(t, "a.yaml", configPath([]string{"--config=a.yaml", "log", "--hour", "9"}))
	assert.Equal(t, "", configPath([]string{"day", "--unknown"}))
}

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	store, health, closeStore, err := openStore(ctx, config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "threadlog.db"),
	})
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, health(ctx))
	_, err = store.Read().Organizations.GetByID(ctx, "missing")
	assert.Error(t, err)
}

func TestBridgeNotifier_NoBridgeIsSilent(t *testing.T) {
	n := newBridgeNotifier(config.BridgeConfig{Kind: config.BridgeNone}, zerolog.Nop())
	defer n.Close()
	assert.Equal(t, 0, n.Publish(context.Background(), "acme", domain.ChangeEvent{OrganizationID: "acme"}))
}

func TestServe_RequiresSecret(t *testing.T) {
	err := serve(context.Background(), serverDeps{cfg: config.DefaultConfig(), log: zerolog.Nop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
}
