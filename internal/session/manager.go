package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/navigation"
)

// ErrClosed is returned by Create after Shutdown.
var ErrClosed = errors.New("session manager is shut down")

// Config controls session lifetime and tracker defaults.
type Config struct {
	// IdleTimeout removes sessions with no activity for this long. Zero disables reaping.
	IdleTimeout time.Duration
	// ReapInterval is how often idle sessions are looked for. Defaults to IdleTimeout/2.
	ReapInterval     time.Duration
	PreAnnounceDelay time.Duration
	Voice            navigation.Voice
	Logger           *slog.Logger
	// TrackerOptions are appended to the options every tracker is built with.
	TrackerOptions []navigation.Option
}

// Manager owns the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	config Config
	logger *slog.Logger
	now    func() time.Time

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

func NewManager(config Config) *Manager {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.PreAnnounceDelay <= 0 {
		config.PreAnnounceDelay = navigation.DefaultPreAnnounceDelay
	}
	if config.Voice == (navigation.Voice{}) {
		config.Voice = navigation.DefaultVoice()
	}

	m := &Manager{
		sessions:     make(map[string]*Session),
		config:       config,
		logger:       config.Logger.With(slog.String("component", "session_manager")),
		now:          time.Now,
		shutdownChan: make(chan struct{}),
	}

	if config.IdleTimeout > 0 {
		interval := config.ReapInterval
		if interval <= 0 {
			interval = config.IdleTimeout / 2
		}
		m.wg.Add(1)
		go m.reapPeriodically(interval)
	}
	return m
}

// Create starts navigating route from initial in a new session.
func (m *Manager) Create(route *navigation.Route, initial navigation.Position, voiceEnabled bool) (*Session, error) {
	outbox := NewOutbox(m.config.Logger)
	opts := []navigation.Option{
		navigation.WithLogger(m.config.Logger),
		navigation.WithVoice(m.config.Voice),
		navigation.WithVoiceEnabled(voiceEnabled),
		navigation.WithPreAnnounceDelay(m.config.PreAnnounceDelay),
	}
	opts = append(opts, m.config.TrackerOptions...)

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.now(),
		Route:     route,
		Tracker:   navigation.NewTracker(outbox, opts...),
		Outbox:    outbox,
	}
	s.Touch(s.CreatedAt)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if err := s.Tracker.Start(route, initial); err != nil {
		return nil, err
	}
	m.sessions[s.ID] = s

	logging.LogOperation(m.logger, "session_created",
		slog.String("session_id", s.ID),
		slog.String("destination", route.DestinationName))
	return s, nil
}

// Get looks up a session and marks it active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.Touch(m.now())
	}
	return s, ok
}

// Stop stops the session's tracker and forgets it.
func (m *Manager) Stop(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return nil, false
	}
	s.Tracker.Stop()
	logging.LogOperation(m.logger, "session_stopped", slog.String("session_id", id))
	return s, true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops the reaper and every session. Later calls do nothing.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
		m.wg.Wait()

		m.mu.Lock()
		m.closed = true
		sessions := m.sessions
		m.sessions = make(map[string]*Session)
		m.mu.Unlock()

		for _, s := range sessions {
			s.Tracker.Stop()
		}
		m.logger.Info("session manager shut down", slog.Int("stopped", len(sessions)))
	})
}

func (m *Manager) reapPeriodically(interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reapIdle(m.now())
		case <-m.shutdownChan:
			return
		}
	}
}

// reapIdle stops sessions idle since before now minus the idle timeout.
func (m *Manager) reapIdle(now time.Time) int {
	cutoff := now.Add(-m.config.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Tracker.Stop()
		m.logger.Info("idle session removed", slog.String("session_id", s.ID))
	}
	return len(idle)
}
