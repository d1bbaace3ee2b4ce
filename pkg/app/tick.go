package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/stream"
)

// WaitForState returns a Cmd that blocks until sub yields its next state.
// The model re-issues it after every StateEvent so the stream is read one
// value at a time.
func WaitForState(sub *stream.Subscription[gameslist.State]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-sub.C()
		if !ok {
			return StreamClosedEvent{}
		}
		return StateEvent{State: s}
	}
}

// SendCmd injects ev into the machine off the update loop.
func SendCmd(m *gameslist.StateMachine, ev gameslist.Event) tea.Cmd {
	return func() tea.Msg {
		m.Send(ev)
		return nil
	}
}

// FetchCmd runs fetch in the Cmd goroutine and delivers a FetchEvent. On
// error Data is nil.
//
//	cmd := FetchCmd(url, func() (any, error) {
//	    return loader.Load(ctx, url)
//	})
func FetchCmd(key string, fetch func() (any, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := fetch()
		if err != nil {
			data = nil
		}
		return FetchEvent{
			Key:       key,
			Data:      data,
			Err:       err,
			Timestamp: time.Now(),
		}
	}
}
