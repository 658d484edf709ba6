// Package tui runs Pawn School in the terminal with Bubble Tea, locally or
// over SSH. It maps keys to game actions, drives the game loop and persists
// progress.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// TickMsg is sent to trigger a game step.
type TickMsg time.Time

// StoryMsg carries a generated story back into the update loop.
type StoryMsg struct {
	Seq   int
	Piece chess.PieceType
	Text  string
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
