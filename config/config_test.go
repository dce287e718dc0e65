package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/orderflow/workflow"
)

func TestLoadAppDefaults(t *testing.T) {
	// 无配置文件目录，全部走默认值
	app, err := LoadApp(&Config{Paths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, "info", app.Log.Level)
	assert.Equal(t, 30*time.Second, app.Breaker.Cooldown)
	assert.Equal(t, 0.5, app.Breaker.FailureRatio)
	assert.Equal(t, 10, app.Breaker.WindowSize)
	assert.Equal(t, 5, app.Breaker.MinSamples)
	assert.Equal(t, "standalone", app.Cache.Mode)
	assert.Equal(t, 5*time.Minute, app.Cache.TTL)
	assert.Equal(t, 5*time.Second, app.Gateway.Timeout)
	assert.Equal(t, "order.created", app.Events.Subject)
	assert.Equal(t, 60, app.Events.MaxReconnects)
	assert.Equal(t, "http://auth-service:8000", app.Gateway.BaseURLs[workflow.DepAuth])
	assert.Len(t, app.Gateway.BaseURLs, 6)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ORDERFLOW_BREAKER_COOLDOWN", "45s")
	t.Setenv("ORDERFLOW_CACHE_MODE", "distributed")
	t.Setenv("ORDERFLOW_SERVER_ADDR", ":9090")

	app, err := LoadApp(&Config{Paths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, app.Breaker.Cooldown)
	assert.Equal(t, "distributed", app.Cache.Mode)
	assert.Equal(t, ":9090", app.Server.Addr)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  addr: ":7070"
breaker:
  window_size: 20
gateway:
  timeout: 2s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	app, err := LoadApp(&Config{Paths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, ":7070", app.Server.Addr)
	assert.Equal(t, 20, app.Breaker.WindowSize)
	assert.Equal(t, 2*time.Second, app.Gateway.Timeout)
	// 文件未覆盖的 key 保持默认值
	assert.Equal(t, 30*time.Second, app.Breaker.Cooldown)
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  addr: \":7070\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	t.Setenv("ORDERFLOW_SERVER_ADDR", ":6060")

	app, err := LoadApp(&Config{Paths: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, ":6060", app.Server.Addr)
}

func TestGetRawValue(t *testing.T) {
	loader, err := New(&Config{Paths: []string{t.TempDir()}})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, "standalone", loader.Get("cache.mode"))
}

func TestWatchRejectsEmptyKey(t *testing.T) {
	loader, err := New(&Config{Paths: []string{t.TempDir()}})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	_, err = loader.Watch(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyEmpty)
}

func TestWatchCancelClosesChannel(t *testing.T) {
	loader, err := New(&Config{Paths: []string{t.TempDir()}})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := loader.Watch(ctx, "server.addr")
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
