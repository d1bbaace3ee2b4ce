package gameslist

// Reduce returns the state that follows s when e happens. It is total and
// pure.
//
// Only Idle and Loading react to events. Loaded and Error are settled: late
// or duplicate results from a search that was already answered cannot change
// them, and Appeared does not trigger a new search from either.
func Reduce(s State, e Event) State {
	switch s.(type) {
	case Idle:
		if _, ok := e.(Appeared); ok {
			return Loading{}
		}
	case Loading:
		switch e := e.(type) {
		case GamesLoaded:
			return NewLoaded(e.Games)
		case FailedToLoad:
			return Error{Cause: e.Cause}
		}
	}
	return s
}
