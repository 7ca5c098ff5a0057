package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manager lifecycle states.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Manager supervises the model backend: it brings it up lazily on first use
// and shuts it down again after a period with no bot activity. StartFunc and
// StopFunc are optional hooks for environments that manage the backend
// process; without them the manager only tracks reachability.
type Manager struct {
	health        func(ctx context.Context) bool
	startFn       func(ctx context.Context) error
	stopFn        func(ctx context.Context) error
	idleTimeout   time.Duration
	checkInterval time.Duration
	logger        *slog.Logger

	mu           sync.Mutex
	state        State
	lastActivity time.Time

	done chan struct{}
	once sync.Once
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Health        func(ctx context.Context) bool
	StartFunc     func(ctx context.Context) error
	StopFunc      func(ctx context.Context) error
	IdleTimeout   time.Duration
	CheckInterval time.Duration
	Logger        *slog.Logger
}

// NewManager creates a Manager. Health is required.
func NewManager(opts ManagerOptions) *Manager {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		health:        opts.Health,
		startFn:       opts.StartFunc,
		stopFn:        opts.StopFunc,
		idleTimeout:   opts.IdleTimeout,
		checkInterval: opts.CheckInterval,
		logger:        opts.Logger,
		state:         StateIdle,
		done:          make(chan struct{}),
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RecordActivity marks the backend as in use, deferring idle shutdown
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

// Ensure makes sure the backend is up, starting it if needed. Returns true
// when the backend is reachable.
func (m *Manager) Ensure(ctx context.Context) bool {
	m.mu.Lock()
	if m.state == StateRunning {
		m.lastActivity = time.Now()
		m.mu.Unlock()
		if m.health(ctx) {
			return true
		}
		m.mu.Lock()
		m.state = StateIdle
		m.mu.Unlock()
		return m.Ensure(ctx)
	}
	if m.state == StateStarting || m.state == StateStopping {
		m.mu.Unlock()
		return false
	}
	m.state = StateStarting
	m.mu.Unlock()

	ok := m.health(ctx)
	if !ok && m.startFn != nil {
		if err := m.startFn(ctx); err != nil {
			m.logger.Warn("bot backend start failed", "error", err)
		} else {
			ok = m.health(ctx)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.state = StateRunning
		m.lastActivity = time.Now()
		return true
	}
	m.state = StateIdle
	return false
}

// Run watches for idle periods and stops the backend when nothing has used
// it for idleTimeout. Blocks until Close is called.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			m.maybeStop(ctx)
		}
	}
}

func (m *Manager) maybeStop(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateRunning || time.Since(m.lastActivity) < m.idleTimeout {
		m.mu.Unlock()
		return
	}
	m.state = StateStopping
	m.mu.Unlock()

	if m.stopFn != nil {
		if err := m.stopFn(ctx); err != nil {
			m.logger.Warn("bot backend stop failed", "error", err)
		}
	}
	m.logger.Info("bot backend stopped after idle timeout")

	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()
}

// Close stops the idle monitor
func (m *Manager) Close() {
	m.once.Do(func() { close(m.done) })
}
