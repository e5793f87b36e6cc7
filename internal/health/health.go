package health

import (
	"context"
	"strings"
	"time"

	"github.com/jeanpaul/feedbackloop/internal/store"
)

const checkTimeout = 10 * time.Second

type Status struct {
	Driver     string
	Reachable  bool
	Developers int
	Feedback   int
	Error      string
	Latency    time.Duration
}

// Check verifies that the store answers a ping and counts both
// collections. Latency covers the ping only.
func Check(ctx context.Context, s store.Store) Status {
	st := Status{Driver: s.Driver()}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := s.Ping(ctx)
	st.Latency = time.Since(start)
	if err != nil {
		st.Error = "cannot reach store: " + friendlyError(err)
		return st
	}
	st.Reachable = true

	devs, err := s.Developers(ctx)
	if err != nil {
		st.Error = "cannot read developers: " + friendlyError(err)
		return st
	}
	st.Developers = len(devs)

	fb, err := s.Feedback(ctx)
	if err != nil {
		st.Error = "cannot read feedback: " + friendlyError(err)
		return st
	}
	st.Feedback = len(fb)
	return st
}

// Healthy reports whether the store is reachable and readable.
func (s Status) Healthy() bool {
	return s.Reachable && s.Error == ""
}

func friendlyError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is mongod running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check store.uri)"
	}
	if strings.Contains(msg, "server selection") {
		return "no reachable servers (check store.uri and network)"
	}
	if strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout") {
		return "connection timed out"
	}
	if strings.Contains(msg, "auth") {
		return "authentication failed (check credentials in store.uri)"
	}
	return msg
}
