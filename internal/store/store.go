package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jeanpaul/feedbackloop/internal/types"
)

// Collection names shared by every driver.
const (
	DevelopersCollection = "developers"
	FeedbackCollection   = "feedback"
)

// Store is the system of record behind the registries. Reads return
// documents in storage-native order.
type Store interface {
	InsertDeveloper(ctx context.Context, d types.Developer) error
	Developers(ctx context.Context) ([]types.Developer, error)

	InsertFeedback(ctx context.Context, f types.Feedback) error
	Feedback(ctx context.Context) ([]types.Feedback, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection. It is safe to call once.
	Close(ctx context.Context) error

	// Driver names the backend ("mongo", "memory").
	Driver() string
}

// Options selects and configures a driver.
type Options struct {
	Driver         string
	URI            string
	Database       string
	ConnectRetries int
	OpTimeout      time.Duration
}

// Open returns a connected store for the configured driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "memory":
		return NewMemory(), nil
	case "mongo", "":
		m, err := ConnectMongo(ctx, opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
