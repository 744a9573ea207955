package cli

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stepsort/internal/config"
	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/adapters/file"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStore_Backends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		cfg    config.Store
		locker bool
	}{
		{"memory", config.Store{Backend: config.StoreMemory}, false},
		{"file", config.Store{Backend: config.StoreFile, Path: t.TempDir()}, false},
		{"redis", config.Store{Backend: config.StoreRedis, RedisAddr: mr.Addr()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := BuildStore(ctx, tt.cfg, logging.NewNop(), nil)
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, tt.locker, b.Locker != nil)
			sess := domain.NewSession("s1", "bubble", []int{2, 1}, 1)
			require.NoError(t, b.Store.Save(ctx, "s1", sess))
			got, err := b.Store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, []int{2, 1}, got.Original)
		})
	}
}

func TestBuildStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := BuildStore(ctx, config.Store{Backend: "etcd"}, logging.NewNop(), nil)
	assert.ErrorContains(t, err, "unknown store backend")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = BuildStore(ctx, config.Store{Backend: config.StoreRedis, RedisAddr: addr}, logging.NewNop(), nil)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestBuildStore_EncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))

	b, err := BuildStore(ctx, config.Store{Backend: config.StoreFile, Path: dir, EncryptionKey: key}, logging.NewNop(), nil)
	require.NoError(t, err)

	require.NoError(t, b.Store.Save(ctx, "secret", domain.NewSession("secret", "heap", []int{3, 2, 1}, 1)))

	raw, err := file.New(dir).Load(ctx, "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.Original)

	got, err := b.Store.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, got.Original)
}

func TestBuildStore_Instrumented(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	b, err := BuildStore(ctx, config.Store{Backend: config.StoreMemory}, logging.NewNop(), reg)
	require.NoError(t, err)
	require.NoError(t, b.Store.Save(ctx, "s", domain.NewSession("s", "bubble", []int{1}, 1)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "stepsort_store_duration_seconds")
}

func TestBuildManager(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Session.Distribute = true
	_, _, err := BuildManager(ctx, cfg, logging.NewNop(), nil, domain.LifecycleHooks{})
	assert.ErrorContains(t, err, "requires the redis store")

	mr := miniredis.RunT(t)
	cfg.Store.Backend = config.StoreRedis
	cfg.Store.RedisAddr = mr.Addr()
	mgr, closeFn, err := BuildManager(ctx, cfg, logging.NewNop(), nil, domain.LifecycleHooks{})
	require.NoError(t, err)
	defer closeFn()

	v, err := mgr.Create(ctx, session.CreateParams{Algorithm: "gnome", Numbers: []int{3, 1, 2}})
	require.NoError(t, err)
	v, err = mgr.Advance(ctx, v.Session.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Frame.Step)
}
