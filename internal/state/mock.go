package state

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Manager.
type Mock struct {
	mu     sync.Mutex
	resume *ResumeState
	saves  []ResumeState
	plays  []Play
	closed bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetResume(_ context.Context) (*ResumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resume == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	r := *m.resume
	return &r, nil
}

func (m *Mock) SaveResume(state ResumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resume == nil || m.resume.URL != state.URL {
		m.plays = append([]Play{{URL: state.URL, OpenedAt: time.Now()}}, m.plays...)
	}
	m.resume = &state
	m.saves = append(m.saves, state)
}

func (m *Mock) RecentPlays(_ context.Context, limit int) ([]Play, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit < 0 || limit > len(m.plays) {
		limit = len(m.plays)
	}
	return append([]Play(nil), m.plays[:limit]...), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetResume(state *ResumeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resume = state
}

// Saves returns every state passed to SaveResume, oldest first.
func (m *Mock) Saves() []ResumeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResumeState(nil), m.saves...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
