// Package gameslist holds the game list's state machine: the State and Event
// unions, the pure Reduce function, the feedback loop that performs the
// catalog search, and the StateMachine that closes the loop between them.
//
// Rendering code only sees two things: the State stream and Send.
package gameslist

import (
	"slices"
)

// State is the list's state. The variants are Idle, Loading, Loaded and
// Error; no other type implements State.
type State interface {
	isState()
	String() string
}

// Idle is the initial resting state.
type Idle struct{}

// Loading means a catalog search is in flight.
type Loading struct{}

// Loaded holds the games of a successful search in server order. The slice
// may be empty.
type Loaded struct {
	Games []GameRecord
}

// Error holds the cause of a failed search.
type Error struct {
	Cause error
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Loaded) isState()  {}
func (Error) isState()   {}

func (Idle) String() string    { return "idle" }
func (Loading) String() string { return "loading" }
func (Loaded) String() string  { return "loaded" }
func (Error) String() string   { return "error" }

// NewLoaded copies games so the state never shares a backing array with the
// caller.
func NewLoaded(games []GameRecord) Loaded {
	return Loaded{Games: cloneGames(games)}
}

// Equal reports whether two states are the same variant with the same
// payload. Loaded compares games element-wise. Any two Error values are
// equal: causes are opaque and carry no general equality.
func Equal(a, b State) bool {
	switch a := a.(type) {
	case Idle:
		_, ok := b.(Idle)
		return ok
	case Loading:
		_, ok := b.(Loading)
		return ok
	case Loaded:
		bl, ok := b.(Loaded)
		return ok && slices.EqualFunc(a.Games, bl.Games, GameRecord.Equal)
	case Error:
		_, ok := b.(Error)
		return ok
	default:
		return a == nil && b == nil
	}
}

// Event is an input to the reducer: Appeared, GamesLoaded or FailedToLoad.
type Event interface {
	isEvent()
	String() string
}

// Appeared is sent when the list becomes visible or the user asks for it.
type Appeared struct{}

// GamesLoaded carries the result of a successful search.
type GamesLoaded struct {
	Games []GameRecord
}

// FailedToLoad carries the error of a failed search.
type FailedToLoad struct {
	Cause error
}

func (Appeared) isEvent()     {}
func (GamesLoaded) isEvent()  {}
func (FailedToLoad) isEvent() {}

func (Appeared) String() string     { return "appeared" }
func (GamesLoaded) String() string  { return "games_loaded" }
func (FailedToLoad) String() string { return "failed_to_load" }

func cloneGames(games []GameRecord) []GameRecord {
	if games == nil {
		return []GameRecord{}
	}
	return slices.Clone(games)
}
