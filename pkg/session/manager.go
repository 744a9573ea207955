package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/stepsort/internal/logging"
	"github.com/aretw0/stepsort/pkg/domain"
	"github.com/aretw0/stepsort/pkg/ports"
	"github.com/aretw0/stepsort/pkg/runner"
	"github.com/aretw0/stepsort/pkg/sequence"
	"github.com/aretw0/stepsort/pkg/sorting"
	"github.com/google/uuid"
)

const (
	// DefaultMaxAdvance caps the steps a single Advance call may take.
	DefaultMaxAdvance = 10_000
	// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
	DefaultLockTTL = 30 * time.Second
	// DefaultCacheSize bounds the number of warm runners kept in memory.
	DefaultCacheSize = 256
)

// ErrInvalidStepCount is returned when Advance is asked for fewer than one step.
var ErrInvalidStepCount = errors.New("step count must be positive")

// ErrSessionExists is returned when Create is given an ID already in the store.
var ErrSessionExists = errors.New("session already exists")

// warmRunner is a cached runner plus the identity of the record it was
// built from. Another manager may delete and re-create the same ID.
type warmRunner struct {
	runner    *runner.Runner
	createdAt time.Time
	seed      uint64
	original  []int
}

func (w *warmRunner) matches(sess *domain.Session) bool {
	return w.createdAt.Equal(sess.CreatedAt) &&
		w.seed == sess.Seed &&
		slices.Equal(w.original, sess.Original) &&
		w.runner.Steps() == sess.Steps &&
		w.runner.Algorithm() == sess.Algorithm
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// View is what callers see of a session: its record, the numbers in their
// current order and the latest frame.
type View struct {
	Session *domain.Session `json:"session"`
	Numbers []int           `json:"numbers"`
	Frame   domain.Frame    `json:"frame"`
}

// CreateParams describes a new session.
type CreateParams struct {
	// ID names the session; a random UUID is used when empty.
	ID        string
	Algorithm string
	Numbers   []int
	Seed      uint64
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	cacheMu   sync.Mutex
	cache     map[string]*warmRunner
	cacheSize int

	locker     ports.DistributedLocker
	lockTTL    time.Duration
	maxAdvance int
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks attaches lifecycle hooks to every live step. Replayed steps do
// not fire hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithMaxAdvance caps the steps a single Advance call may take.
func WithMaxAdvance(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAdvance = n
		}
	}
}

// WithCacheSize bounds the number of warm runners. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.cacheSize = n
		}
	}
}

// NewManager creates a session manager backed by store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		locks:      make(map[string]*lockEntry),
		cache:      make(map[string]*warmRunner),
		cacheSize:  DefaultCacheSize,
		lockTTL:    DefaultLockTTL,
		maxAdvance: DefaultMaxAdvance,
		logger:     logging.NewNop(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// Create validates the input, persists a fresh session and returns its view.
// A caller-supplied ID that is already in the store yields ErrSessionExists.
func (m *Manager) Create(ctx context.Context, p CreateParams) (*View, error) {
	alg, err := sorting.Lookup(p.Algorithm)
	if err != nil {
		return nil, err
	}
	if err := sequence.CheckBounds(p.Numbers); err != nil {
		return nil, err
	}

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	sess := domain.NewSession(id, string(alg), p.Numbers, p.Seed)

	var view *View
	err = m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err == nil {
			return fmt.Errorf("%w: %s", ErrSessionExists, id)
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session: %w", err)
		}

		r, err := m.build(ctx, sess)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, id, sess); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		m.remember(id, sess, r)
		view = m.view(sess, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("session created", "session_id", id, "algorithm", sess.Algorithm, "length", len(sess.Original))
	return view, nil
}

// Get returns the current view of a session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*View, error) {
	var view *View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, r, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		view = m.view(sess, r)
		return nil
	})
	return view, err
}

// Advance performs up to n steps on a session and persists the new count.
// n is clamped to the configured maximum.
func (m *Manager) Advance(ctx context.Context, sessionID string, n int) (*View, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStepCount, n)
	}
	if n > m.maxAdvance {
		n = m.maxAdvance
	}

	var view *View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, r, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}

		if _, err := r.Advance(ctx, n); err != nil {
			m.forget(sessionID)
			return err
		}
		sess.Steps = r.Steps()
		sess.Status = r.Status()
		sess.UpdatedAt = m.now()

		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			m.forget(sessionID)
			return fmt.Errorf("failed to persist session: %w", err)
		}
		view = m.view(sess, r)
		return nil
	})
	return view, err
}

// Reset rewinds a session to its original numbers.
func (m *Manager) Reset(ctx context.Context, sessionID string) (*View, error) {
	var view *View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, r, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}

		r.Reset(ctx)
		sess.Steps = 0
		sess.Status = domain.StatusStart
		sess.UpdatedAt = m.now()

		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			m.forget(sessionID)
			return fmt.Errorf("failed to persist session: %w", err)
		}
		view = m.view(sess, r)
		return nil
	})
	return view, err
}

// Delete removes the session from the store and the cache.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.forget(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// restore loads the record and returns a runner positioned at its step
// count, reusing the warm runner only when it was built from this very record
// and is still in sync with it.
func (m *Manager) restore(ctx context.Context, sessionID string) (*domain.Session, *runner.Runner, error) {
	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if w := m.cached(sessionID); w != nil {
		if w.matches(sess) {
			return sess, w.runner, nil
		}
		m.forget(sessionID)
	}

	r, err := m.build(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	m.remember(sessionID, sess, r)
	return sess, r, nil
}

// build replays sess.Steps on a fresh runner, then attaches the hooks so
// only live steps are observed.
func (m *Manager) build(ctx context.Context, sess *domain.Session) (*runner.Runner, error) {
	r, err := runner.New(sess.Algorithm, sess.Original,
		runner.WithID(sess.ID),
		runner.WithSeed(sess.Seed),
		runner.WithLogger(m.logger),
	)
	if err != nil {
		return nil, err
	}
	if sess.Steps > 0 {
		if _, err := r.Advance(ctx, sess.Steps); err != nil {
			return nil, err
		}
		m.logger.Debug("session replayed", "session_id", sess.ID, "steps", sess.Steps)
	}
	r.Observe(m.hooks)
	return r, nil
}

func (m *Manager) view(sess *domain.Session, r *runner.Runner) *View {
	return &View{
		Session: sess.Snapshot(),
		Numbers: r.Numbers(),
		Frame:   r.Frame(),
	}
}

func (m *Manager) cached(sessionID string) *warmRunner {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	return m.cache[sessionID]
}

func (m *Manager) remember(sessionID string, sess *domain.Session, r *runner.Runner) {
	if m.cacheSize == 0 {
		return
	}
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	if _, ok := m.cache[sessionID]; !ok && len(m.cache) >= m.cacheSize {
		// Any victim will do; evicted runners are rebuilt by replay.
		for id := range m.cache {
			delete(m.cache, id)
			break
		}
	}
	m.cache[sessionID] = &warmRunner{
		runner:    r,
		createdAt: sess.CreatedAt,
		seed:      sess.Seed,
		original:  slices.Clone(sess.Original),
	}
}

func (m *Manager) forget(sessionID string) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	delete(m.cache, sessionID)
}
