// Package clock abstracts time so the mocked-latency flows can run against
// a manually advanced clock in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer mirrors the part of time.Timer the flows need.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// New returns the wall clock.
func New() Clock { return realClock{} }

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
