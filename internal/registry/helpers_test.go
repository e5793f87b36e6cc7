package registry

import (
	"context"

	"github.com/jeanpaul/feedbackloop/internal/store"
	"github.com/jeanpaul/feedbackloop/internal/types"
)

// recordingStore wraps the memory store, counting writes and optionally
// failing them.
type recordingStore struct {
	*store.Memory
	writes   int
	writeErr error
	readErr  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Memory: store.NewMemory()}
}

func (r *recordingStore) InsertDeveloper(ctx context.Context, d types.Developer) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes++
	return r.Memory.InsertDeveloper(ctx, d)
}

func (r *recordingStore) InsertFeedback(ctx context.Context, f types.Feedback) error {
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes++
	return r.Memory.InsertFeedback(ctx, f)
}

func (r *recordingStore) Developers(ctx context.Context) ([]types.Developer, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.Memory.Developers(ctx)
}

func (r *recordingStore) Feedback(ctx context.Context) ([]types.Feedback, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.Memory.Feedback(ctx)
}
