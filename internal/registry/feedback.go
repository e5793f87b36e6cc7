package registry

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jeanpaul/feedbackloop/internal/store"
	"github.com/jeanpaul/feedbackloop/internal/types"
)

// FeedbackLog is the ordered feedback collection. Like Developers it only
// grows at the tail.
type FeedbackLog struct {
	store store.Store
	items []types.Feedback
	now   func() time.Time
}

type FeedbackOption func(*FeedbackLog)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) FeedbackOption {
	return func(f *FeedbackLog) { f.now = now }
}

// NewFeedbackID returns a fresh random feedback identifier.
func NewFeedbackID() string {
	return uuid.New().String()
}

// NewFeedbackLog loads every stored feedback record in storage order.
// References to developers are not re-checked.
func NewFeedbackLog(ctx context.Context, s store.Store, opts ...FeedbackOption) (*FeedbackLog, error) {
	f := &FeedbackLog{store: s, now: time.Now}
	for _, o := range opts {
		o(f)
	}

	stored, err := s.Feedback(ctx)
	if err != nil {
		return nil, &StoreError{Op: "load", Collection: store.FeedbackCollection, Err: err}
	}
	f.items = append(f.items, stored...)

	log.Debug().Int("count", len(f.items)).Msg("feedback hydrated")
	return f, nil
}

// Add stamps, persists and appends a feedback record.
func (f *FeedbackLog) Add(ctx context.Context, id, devID, text string) (types.Feedback, error) {
	fb := types.Feedback{
		ID:        id,
		DevID:     devID,
		Text:      text,
		Timestamp: f.now(),
	}

	if err := f.store.InsertFeedback(ctx, fb); err != nil {
		return types.Feedback{}, &StoreError{Op: "insert", Collection: store.FeedbackCollection, Err: err}
	}
	f.items = append(f.items, fb)

	log.Info().Str("feedback_id", id).Str("dev_id", devID).Msg("feedback added")
	return fb, nil
}

// Submit records feedback for a registered developer. An unknown developer
// yields ErrDeveloperNotFound and nothing is written.
func (f *FeedbackLog) Submit(ctx context.Context, devs *Developers, devID, text string) (types.Feedback, error) {
	if _, ok := devs.Find(devID); !ok {
		return types.Feedback{}, fmt.Errorf("%w: %q", ErrDeveloperNotFound, devID)
	}
	return f.Add(ctx, NewFeedbackID(), devID, text)
}

// List returns all feedback in insertion order.
func (f *FeedbackLog) List() []types.Feedback {
	out := make([]types.Feedback, len(f.items))
	copy(out, f.items)
	return out
}

// ForDeveloper returns the feedback for one developer in insertion order.
func (f *FeedbackLog) ForDeveloper(devID string) []types.Feedback {
	var out []types.Feedback
	for _, fb := range f.items {
		if fb.DevID == devID {
			out = append(out, fb)
		}
	}
	return out
}

func (f *FeedbackLog) Len() int { return len(f.items) }

// Display writes one line per record, or a notice when the log is empty.
func (f *FeedbackLog) Display(w io.Writer) error {
	if len(f.items) == 0 {
		_, err := fmt.Fprintln(w, noFeedbackMsg)
		return err
	}
	for _, fb := range f.items {
		if _, err := fmt.Fprintln(w, FormatFeedback(fb)); err != nil {
			return err
		}
	}
	return nil
}
