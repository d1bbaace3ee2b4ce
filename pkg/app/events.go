// Package app bridges the games list state machine into the bubbletea
// update loop: message types, commands that wait on the state stream or run
// background fetches, list cursor movement, and placeholder panes.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
)

// StateEvent carries a state published by the machine.
type StateEvent struct {
	State gameslist.State
}

// StreamClosedEvent reports that the state stream has completed, which only
// happens after the machine is closed.
type StreamClosedEvent struct{}

// FetchEvent carries the result of a background fetch started with
// FetchCmd. Key identifies what was fetched, e.g. a thumbnail URL.
type FetchEvent struct {
	Key       string
	Data      any
	Err       error
	Timestamp time.Time
}
