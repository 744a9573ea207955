package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/stepsort/internal/config"
	"github.com/aretw0/stepsort/pkg/adapters/file"
	"github.com/aretw0/stepsort/pkg/adapters/memory"
	"github.com/aretw0/stepsort/pkg/adapters/redis"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/persistence/middleware"
	"github.com/aretw0/stepsort/pkg/ports"
	"github.com/aretw0/stepsort/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// Backend is a configured session store plus the resources behind it.
type Backend struct {
	Store ports.SessionStore
	// Locker is only set for the redis backend.
	Locker ports.DistributedLocker
	Close  func() error
}

// BuildStore opens the configured store and wraps it in the persistence
// middleware: instrumentation when reg is non-nil, encryption when a key is
// configured.
func BuildStore(ctx context.Context, cfg config.Store, logger *slog.Logger, reg prometheus.Registerer) (*Backend, error) {
	b := &Backend{Close: func() error { return nil }}

	var base ports.SessionStore
	switch strings.ToLower(cfg.Backend) {
	case config.StoreMemory, "":
		base = memory.NewStore()
	case config.StoreFile:
		base = file.New(cfg.Path)
	case config.StoreRedis:
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		base = rs
		b.Locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
		b.Close = rs.Close
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	var mws []middleware.Middleware
	if reg != nil {
		mws = append(mws, middleware.NewInstrumentedMiddleware(middleware.NewStoreMetrics(reg), logger))
	}
	key, err := cfg.Key()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		mws = append(mws, enc)
	}

	b.Store = middleware.Chain(base, mws...)
	logger.Debug("session store ready", "backend", cfg.Backend, "encrypted", key != nil)
	return b, nil
}

// BuildManager wires a session manager over BuildStore.
func BuildManager(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer, hooks domain.LifecycleHooks) (*session.Manager, func() error, error) {
	b, err := BuildStore(ctx, cfg.Store, logger, reg)
	if err != nil {
		return nil, nil, err
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithHooks(hooks),
		session.WithMaxAdvance(cfg.Session.MaxAdvance),
		session.WithCacheSize(cfg.Session.CacheSize),
		session.WithLockTTL(cfg.Session.LockTTL),
	}
	if cfg.Session.Distribute {
		if b.Locker == nil {
			_ = b.Close()
			return nil, nil, errors.New("session.distributed_lock requires the redis store")
		}
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Store, opts...), b.Close, nil
}
