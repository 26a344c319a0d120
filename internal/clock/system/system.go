// Package system provides a real clock implementation.
package system

import "time"

// Clock reports the current time in UTC. It exists so components that
// stamp rows or sitemap lastmod values can be tested with a fixed clock.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
