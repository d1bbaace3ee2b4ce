package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/components"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/gameslist"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/tui"
)

// runList drives machine headless: it sends Appeared, waits for the list to
// settle and prints the games to w.
func runList(ctx context.Context, machine *gameslist.StateMachine, w io.Writer, format string, width int) error {
	sub := machine.Subscribe()
	defer sub.Cancel()

	machine.Send(gameslist.Appeared{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-sub.C():
			if !ok {
				return errors.New("state stream closed before the list loaded")
			}
			switch s := s.(type) {
			case gameslist.Loaded:
				return printGames(w, s.Games, format, width)
			case gameslist.Error:
				return fmt.Errorf("load games: %w", s.Cause)
			}
		}
	}
}

func printGames(w io.Writer, games []gameslist.GameRecord, format string, width int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(games)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(games); err != nil {
			return err
		}
		return enc.Close()
	default:
		return printTable(w, games, width)
	}
}

func printTable(w io.Writer, games []gameslist.GameRecord, width int) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}

	widths := tui.GameTable.Widths(width)
	lines := []string{
		components.HeaderStyle.Render(tui.GameTable.Header(widths)),
		tui.GameTable.Rule(widths),
	}
	for _, g := range games {
		lines = append(lines, tui.GameTable.Row(tui.GameCells(g), widths))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, components.Truncate(l, width)); err != nil {
			return err
		}
	}
	return nil
}
