package types

import "time"

// Developer is a registered developer. Records are never mutated after
// creation.
type Developer struct {
	ID      string `json:"devId" yaml:"devId"`
	Name    string `json:"name" yaml:"name"`
	Project string `json:"project" yaml:"project"`
}

// Feedback is a free-text note about one developer.
type Feedback struct {
	ID        string    `json:"feedbackId" yaml:"feedbackId"`
	DevID     string    `json:"devId" yaml:"devId"`
	Text      string    `json:"feedbackText" yaml:"feedbackText"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
