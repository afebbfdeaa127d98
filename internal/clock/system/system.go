// Package system provides a real clock implementation.
package system

import "time"

// Clock reports wall-clock time; components depend on the narrow Clock
// interface so tests can substitute a fixed time.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
