// Package config loads stepsort settings from a YAML file and the
// environment. Values decode onto Default(), so a missing file or key keeps
// the default.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "stepsort.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	LogLevel string     `yaml:"log_level"`
	Run      RunConfig  `yaml:"run"`
	Server   Server     `yaml:"server"`
	Store    Store      `yaml:"store"`
	Session  SessionCfg `yaml:"session"`
}

// RunConfig drives the terminal visualizer.
type RunConfig struct {
	Algorithm string        `yaml:"algorithm"`
	Size      int           `yaml:"size"`
	Floor     int           `yaml:"floor"`
	Ceil      int           `yaml:"ceil"`
	Delay     time.Duration `yaml:"delay"`
	Seed      uint64        `yaml:"seed"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Metrics         bool          `yaml:"metrics"`
}

// Store selects and configures the session backend.
type Store struct {
	Backend       string        `yaml:"backend"`
	Path          string        `yaml:"path"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
	EncryptionKey string        `yaml:"encryption_key"`
}

// SessionCfg tunes the session manager.
type SessionCfg struct {
	MaxAdvance int           `yaml:"max_advance"`
	CacheSize  int           `yaml:"cache_size"`
	LockTTL    time.Duration `yaml:"lock_ttl"`
	Distribute bool          `yaml:"distributed_lock"`
}

// Environment overrides, applied after the file.
const (
	EnvLogLevel      = "STEPSORT_LOG_LEVEL"
	EnvStoreBackend  = "STEPSORT_STORE"
	EnvRedisAddr     = "STEPSORT_REDIS_ADDR"
	EnvRedisPassword = "STEPSORT_REDIS_PASSWORD"
	EnvEncryptionKey = "STEPSORT_ENCRYPTION_KEY"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Run: RunConfig{
			Algorithm: "bubble",
			Size:      sequence.DefaultSize,
			Floor:     sequence.DefaultFloor,
			Ceil:      sequence.DefaultCeil,
			Delay:     20 * time.Millisecond,
		},
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			Metrics:         true,
		},
		Store: Store{
			Backend:   StoreMemory,
			RedisAddr: "localhost:6379",
		},
		Session: SessionCfg{
			MaxAdvance: 10_000,
			CacheSize:  256,
			LockTTL:    30 * time.Second,
		},
	}
}

// Load reads path onto the defaults. A missing file is not an error unless
// the caller asked for it explicitly (required).
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := Decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Decode unmarshals YAML into a raw map and decodes it onto cfg, so keys
// absent from data keep their current values. Durations accept "250ms"
// style strings.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvStoreBackend); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		cfg.Store.RedisPassword = v
	}
	if v := os.Getenv(EnvEncryptionKey); v != "" {
		cfg.Store.EncryptionKey = v
	}
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if _, _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Store.Backend) {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if c.Run.Size < 0 || c.Run.Size > sequence.MaxLength {
		errs = append(errs, fmt.Errorf("run.size must be within [0, %d]", sequence.MaxLength))
	}
	if c.Run.Floor < 0 || c.Run.Ceil <= c.Run.Floor {
		errs = append(errs, fmt.Errorf("run range [%d, %d) is empty", c.Run.Floor, c.Run.Ceil))
	}
	if c.Run.Ceil > sequence.MaxValue+1 {
		errs = append(errs, fmt.Errorf("run.ceil must not exceed %d", sequence.MaxValue+1))
	}
	if c.Run.Delay < 0 {
		errs = append(errs, errors.New("run.delay must not be negative"))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := c.Store.Key(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Key decodes EncryptionKey (standard base64, 32 bytes). It returns nil
// when encryption is off.
func (s Store) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("store.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
