// Package session manages the active practice session and its history.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keyrace/internal/metrics"
	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/storage"
)

const (
	// InactivityTimeout ends a session after this much quiet time.
	InactivityTimeout = 30 * time.Minute
	// HistoryCap bounds the session history; the oldest entry is evicted.
	HistoryCap = 15
	// AutosavePeriod is how often a dirty session is flushed to storage.
	AutosavePeriod = 30 * time.Second
)

// persistedSession is the session document plus the activity stamp needed to
// detect staleness across restarts.
type persistedSession struct {
	model.Session
	LastActivity time.Time `json:"lastActivity"`
}

// Manager owns the active session, its dirty flag, and the bounded history.
type Manager struct {
	store storage.Store

	session      model.Session
	history      model.SessionHistory
	lifetime     model.LifetimeStats
	lastActivity time.Time
	dirty        bool
}

// NewManager loads persisted state, finalizing a stale session left behind by
// a previous run. Missing or corrupt documents load as empty defaults.
func NewManager(ctx context.Context, st storage.Store, now time.Time) *Manager {
	m := &Manager{store: st}
	storage.LoadJSON(ctx, st, storage.KeyHistory, &m.history)
	storage.LoadJSON(ctx, st, storage.KeyStats, &m.lifetime)

	var saved persistedSession
	if storage.LoadJSON(ctx, st, storage.KeySession, &saved) && saved.ID != "" {
		m.session = saved.Session
		m.lastActivity = saved.LastActivity
		if now.Sub(m.lastActivity) >= InactivityTimeout {
			m.End(ctx, now)
		}
	} else {
		m.session = newSession(now)
		m.lastActivity = now
	}
	return m
}

func newSession(now time.Time) model.Session {
	return metrics.Recompute(model.Session{
		ID:        uuid.NewString(),
		StartedAt: now,
	})
}

// Session returns the active session.
func (m *Manager) Session() model.Session {
	return m.session
}

// History returns the bounded session history.
func (m *Manager) History() model.SessionHistory {
	return m.history
}

// Lifetime returns the lifetime stats document.
func (m *Manager) Lifetime() model.LifetimeStats {
	return m.lifetime
}

// RecordRace appends a finished race, recomputes the session aggregates from
// scratch, updates lifetime stats, and resets the inactivity clock. The
// session is marked dirty for the next autosave.
func (m *Manager) RecordRace(ctx context.Context, rec model.RaceRecord, now time.Time) {
	m.CheckTimeout(ctx, now)

	m.session.Races = append(m.session.Races, rec)
	m.session = metrics.Recompute(m.session)
	m.lastActivity = now
	m.dirty = true

	m.lifetime.TotalRaces++
	m.lifetime.TotalWords += rec.Words
	if rec.WPM > m.lifetime.BestWPM {
		m.lifetime.BestWPM = rec.WPM
	}
	storage.StoreJSON(ctx, m.store, storage.KeyStats, m.lifetime)
}

// CheckTimeout finalizes the session when the inactivity window has elapsed.
// It reports whether a timeout fired.
func (m *Manager) CheckTimeout(ctx context.Context, now time.Time) bool {
	if now.Sub(m.lastActivity) < InactivityTimeout {
		return false
	}
	m.End(ctx, now)
	return true
}

// End finalizes the active session: its summary joins the history (capped,
// oldest evicted) and a fresh session begins. Finalization runs before any
// persistence so a racing autosave can never resurrect the old session.
func (m *Manager) End(ctx context.Context, now time.Time) {
	if len(m.session.Races) > 0 {
		m.history.Sessions = append(m.history.Sessions, model.SessionSummary{
			ID:              m.session.ID,
			StartedAt:       m.session.StartedAt,
			EndedAt:         now,
			Races:           len(m.session.Races),
			AverageWPM:      m.session.AverageWPM,
			PeakWPM:         m.session.PeakWPM,
			ConsistencyPct:  m.session.ConsistencyPct,
			ImprovementRate: m.session.ImprovementRate,
		})
		if len(m.history.Sessions) > HistoryCap {
			m.history.Sessions = m.history.Sessions[len(m.history.Sessions)-HistoryCap:]
		}
		m.history.TotalSessions++
		m.history.LastCleanup = now
	}

	m.session = newSession(now)
	m.lastActivity = now
	m.dirty = false

	storage.StoreJSON(ctx, m.store, storage.KeyHistory, m.history)
	m.persistSession(ctx)
}

// Autosave flushes the session if it changed since the last write.
func (m *Manager) Autosave(ctx context.Context) {
	if !m.dirty {
		return
	}
	m.persistSession(ctx)
	m.dirty = false
}

// Flush persists the session unconditionally; used on shutdown.
func (m *Manager) Flush(ctx context.Context) {
	m.persistSession(ctx)
	m.dirty = false
}

func (m *Manager) persistSession(ctx context.Context) {
	storage.StoreJSON(ctx, m.store, storage.KeySession, persistedSession{
		Session:      m.session,
		LastActivity: m.lastActivity,
	})
}
