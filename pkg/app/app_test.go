package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/stream"
)

func TestWaitForStateDeliversStates(t *testing.T) {
	subject := stream.NewSubject[gameslist.State](gameslist.Idle{})
	sub := subject.Subscribe()
	defer sub.Cancel()

	msg := WaitForState(sub)()
	ev, ok := msg.(StateEvent)
	if !ok {
		t.Fatalf("expected StateEvent, got %T", msg)
	}
	if !gameslist.Equal(ev.State, gameslist.Idle{}) {
		t.Errorf("state = %s, want idle", ev.State)
	}

	_ = subject.Send(gameslist.Loading{})
	ev = WaitForState(sub)().(StateEvent)
	if !gameslist.Equal(ev.State, gameslist.Loading{}) {
		t.Errorf("state = %s, want loading", ev.State)
	}
}

func TestWaitForStateAfterClose(t *testing.T) {
	subject := stream.NewSubject[gameslist.State](gameslist.Idle{})
	sub := subject.Subscribe()
	subject.Close()

	// The replayed value is still delivered before completion.
	if _, ok := WaitForState(sub)().(StateEvent); !ok {
		t.Fatal("expected the replayed state first")
	}
	if _, ok := WaitForState(sub)().(StreamClosedEvent); !ok {
		t.Fatal("expected StreamClosedEvent")
	}
}

func TestSendCmdDrivesMachine(t *testing.T) {
	m := gameslist.New(catalog.NewMockClient())
	defer m.Close()
	sub := m.Subscribe()
	defer sub.Cancel()

	if msg := SendCmd(m, gameslist.Appeared{})(); msg != nil {
		t.Errorf("SendCmd msg = %v, want nil", msg)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case s := <-sub.C():
			if _, ok := s.(gameslist.Loaded); ok {
				return
			}
		case <-deadline:
			t.Fatal("machine never loaded")
		}
	}
}

func TestFetchCmd(t *testing.T) {
	msg := FetchCmd("thumb", func() (any, error) { return "art", nil })()

	ev, ok := msg.(FetchEvent)
	if !ok {
		t.Fatalf("expected FetchEvent, got %T", msg)
	}
	if ev.Key != "thumb" || ev.Data != "art" || ev.Err != nil {
		t.Errorf("ev = %+v", ev)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestFetchCmdWithError(t *testing.T) {
	msg := FetchCmd("thumb", func() (any, error) { return "partial", errors.New("boom") })()

	ev := msg.(FetchEvent)
	if ev.Err == nil {
		t.Error("expected error")
	}
	if ev.Data != nil {
		t.Error("expected nil data when fetch fails")
	}
}

func TestCursorMoveClamps(t *testing.T) {
	var c Cursor
	c.Move(-1, 5)
	if c.Index != 0 {
		t.Errorf("Index = %d, want 0", c.Index)
	}
	c.Move(3, 5)
	if c.Index != 3 {
		t.Errorf("Index = %d, want 3", c.Index)
	}
	c.Move(10, 5)
	if c.Index != 4 {
		t.Errorf("Index = %d, want 4", c.Index)
	}
	c.Move(1, 0)
	if c.Index != 0 {
		t.Errorf("Index on empty list = %d, want 0", c.Index)
	}
}

func TestCursorTopBottomSet(t *testing.T) {
	var c Cursor
	c.Bottom(7)
	if c.Index != 6 {
		t.Errorf("Bottom: Index = %d", c.Index)
	}
	c.Top()
	if c.Index != 0 || c.Offset != 0 {
		t.Errorf("Top: %+v", c)
	}
	c.Set(3, 7)
	if c.Index != 3 {
		t.Errorf("Set(3): Index = %d", c.Index)
	}
	c.Set(9, 7)
	if c.Index != 3 {
		t.Errorf("Set out of range moved cursor to %d", c.Index)
	}
}

func TestCursorScroll(t *testing.T) {
	c := Cursor{Index: 8}
	c.Scroll(5)
	if c.Offset != 4 {
		t.Errorf("Offset = %d, want 4", c.Offset)
	}
	c.Index = 2
	c.Scroll(5)
	if c.Offset != 2 {
		t.Errorf("Offset = %d, want 2", c.Offset)
	}
	c.Index = 4
	c.Scroll(5)
	if c.Offset != 2 {
		t.Errorf("Offset moved to %d while index visible", c.Offset)
	}
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder("Loading", "fetching games", 30, 7)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7", len(lines))
	}
	if !strings.Contains(out, "Loading") || !strings.Contains(out, "fetching games") {
		t.Errorf("missing content:\n%s", out)
	}
	if strings.TrimSpace(lines[0]) != "" {
		t.Errorf("expected vertical padding, first line %q", lines[0])
	}
}

func TestPlaceholderZeroDimensions(t *testing.T) {
	if Placeholder("x", "y", 0, 5) != "" || Placeholder("x", "y", 5, 0) != "" {
		t.Error("expected empty output for zero dimensions")
	}
}
