package store

import (
	"context"
	"sync"

	"github.com/jeanpaul/feedbackloop/internal/types"
)

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)

// Memory keeps both collections in process memory. Data is lost on exit.
type Memory struct {
	mu         sync.RWMutex
	developers []types.Developer
	feedback   []types.Feedback
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed preloads documents as if they had been written by an earlier run.
func (m *Memory) Seed(devs []types.Developer, fb []types.Feedback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.developers = append(m.developers, devs...)
	m.feedback = append(m.feedback, fb...)
}

func (m *Memory) InsertDeveloper(ctx context.Context, d types.Developer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.developers = append(m.developers, d)
	return nil
}

func (m *Memory) Developers(ctx context.Context) ([]types.Developer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Developer, len(m.developers))
	copy(out, m.developers)
	return out, nil
}

func (m *Memory) InsertFeedback(ctx context.Context, f types.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, f)
	return nil
}

func (m *Memory) Feedback(ctx context.Context) ([]types.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Feedback, len(m.feedback))
	copy(out, m.feedback)
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) Driver() string { return "memory" }
