package events

import "time"

// StateChange is a host-reported application state notification
// Trigger: any host goroutine via the indicator facade
// Consumer: frame driver, feeding the reactor in arrival order
type StateChange struct {
	State string
	At    time.Time
}
