package store

import (
	"context"
	"sort"
	"sync"

	"drawpoker/internal/game"
)

// Memory keeps everything in maps behind a mutex. It backs tests and
// the no-database dev mode.
type Memory struct {
	mu      sync.RWMutex
	games   map[string]*game.Session
	actions map[int64]PendingAction
	nextID  int64
}

func NewMemory() *Memory {
	return &Memory{
		games:   make(map[string]*game.Session),
		actions: make(map[int64]PendingAction),
	}
}

func (m *Memory) Load(_ context.Context, gameID string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) Save(_ context.Context, s *game.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[s.ID] = s.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	return nil
}

func (m *Memory) ListWaiting(_ context.Context) ([]*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*game.Session
	for _, s := range m.games {
		if s.Status == game.StatusWaiting {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) Append(_ context.Context, a PendingAction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	m.actions[a.ID] = a
	return a.ID, nil
}

func (m *Memory) List(_ context.Context) ([]PendingAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PendingAction, 0, len(m.actions))
	for _, a := range m.actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actions, id)
	return nil
}
