package registry

import (
	"errors"
	"fmt"
)

var (
	ErrDeveloperNotFound  = errors.New("developer not found")
	ErrDuplicateDeveloper = errors.New("developer id already registered")
)

// StoreError reports a failed store operation. The in-memory list is left
// untouched when one is returned.
type StoreError struct {
	Op         string // "insert", "load"
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
