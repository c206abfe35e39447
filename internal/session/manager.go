/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/sprintdeck/sprintdeck/internal/config"
	"github.com/sprintdeck/sprintdeck/internal/store"
)

// ErrTooManySessions is returned when the registry is at capacity.
var ErrTooManySessions = errors.New("session: registry full")

type entry struct {
	store    *store.Store
	lastSeen time.Time
}

// Manager holds one sprint store per planning session. Sessions live in
// memory only; an idle session is evicted by the janitor after the TTL.
type Manager struct {
	cfg config.Config
	log zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	c *cron.Cron
}

func NewManager(cfg config.Config, log zerolog.Logger) *Manager {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	m := &Manager{cfg: cfg, log: log, sessions: map[string]*entry{}, c: c}
	_, _ = c.AddFunc(cfg.JanitorCron, m.sweep)
	return m
}

func (m *Manager) Start() { m.c.Start() }
func (m *Manager) Stop()  { m.c.Stop() }

// Create registers a fresh session and returns its id.
func (m *Manager) Create() (string, *store.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return "", nil, ErrTooManySessions
	}
	id := uuid.NewString()
	st := store.New(m.log.With().Str("session", id).Logger())
	m.sessions[id] = &entry{store: st, lastSeen: time.Now()}
	m.log.Info().Str("session", id).Int("active", len(m.sessions)).Msg("session created")
	return id, st, nil
}

// Get looks a session up and refreshes its idle timer.
func (m *Manager) Get(id string) (*store.Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.store, true
}

// Delete removes a session outright.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweep() {
	evicted := m.evictIdle(time.Now())
	if evicted > 0 {
		m.log.Info().Int("evicted", evicted).Int("active", m.Count()).Msg("janitor: idle sessions evicted")
	}
}

func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.cfg.SessionTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}
