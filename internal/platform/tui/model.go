package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/core"
	"github.com/vovakirdan/pawn-school/internal/games/academy"
	"github.com/vovakirdan/pawn-school/internal/narrative"
	"github.com/vovakirdan/pawn-school/internal/storage"
)

// DefaultStoryTimeout bounds a single story request.
const DefaultStoryTimeout = 20 * time.Second

// Options configures a game Model. Every field is optional.
type Options struct {
	Catalog      *levels.Catalog
	Store        *storage.Store
	Profile      string
	Teller       *narrative.Teller
	Logger       *log.Logger
	StoryTimeout time.Duration
}

// Model is the Bubble Tea model running one Pawn School session.
type Model struct {
	game       *academy.Game
	screen     *core.Screen
	store      *storage.Store
	profile    string
	sessionID  string
	teller     *narrative.Teller
	logger     *log.Logger
	timeout    time.Duration
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       KeyMap
	help       help.Model
	quitting   bool
}

// NewModel creates a model and restores the saved progress of the profile.
func NewModel(cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Profile == "" {
		opts.Profile = "player"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Teller == nil {
		opts.Teller = narrative.NewTeller(nil, opts.Logger)
	}
	if opts.StoryTimeout <= 0 {
		opts.StoryTimeout = DefaultStoryTimeout
	}

	m := Model{
		game:       academy.New(opts.Catalog),
		store:      opts.Store,
		profile:    opts.Profile,
		sessionID:  uuid.NewString(),
		teller:     opts.Teller,
		logger:     opts.Logger.With("profile", opts.Profile),
		timeout:    opts.StoryTimeout,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
	}
	gc := m.gameConfig()
	m.screen = core.NewScreen(gc.ScreenW, gc.ScreenH)
	m.help.Width = cfg.ScreenW
	m.restore()

	// The game is a pointer, so resetting here survives the value receivers.
	m.game.Reset(gc)
	m.gameState = m.game.State()
	return m
}

// helpHeight is the number of rows reserved below the game for the help bar.
const helpHeight = 1

func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-helpHeight, 0)
	return cfg
}

// restore loads progress and gems from the store.
func (m *Model) restore() {
	if m.store == nil {
		return
	}
	catalog := m.game.Catalog()
	progress, found, err := m.store.LoadProgress(m.profile, catalog.Len())
	if err != nil {
		m.logger.Warn("could not load progress", "err", err)
		return
	}
	names, err := m.store.Gems(m.profile)
	if err != nil {
		m.logger.Warn("could not load gems", "err", err)
	}
	gems := make([]academy.Gem, 0, len(names))
	for _, n := range names {
		g, err := academy.ParseGem(n)
		if err != nil {
			m.logger.Warn("skipping stored gem", "err", err)
			continue
		}
		gems = append(gems, g)
	}
	if found || len(gems) > 0 {
		m.game.Restore(progress, gems)
		m.logger.Debug("progress restored", "levels", catalog.Len(), "gems", len(gems))
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case StoryMsg:
		m.game.SetStory(msg.Seq, msg.Text)
		return m, nil
	}

	return m, nil
}

// handleKey records the action for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if action := m.keys.Action(msg); action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize keeps the game running and only changes the layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	gc := m.gameConfig()
	m.screen.Resize(gc.ScreenW, gc.ScreenH)
	m.game.Resize(gc.ScreenW, gc.ScreenH)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick steps the game once and acts on what happened.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.gameState = m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	m.persist(m.game.TakeEvents())

	if m.gameState.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if req, ok := m.game.TakeStoryRequest(); ok {
		cmds = append(cmds, m.storyCmd(req))
	}
	return m, tea.Batch(cmds...)
}

// persist writes game events to the store. Failures are logged and the game
// continues.
func (m Model) persist(events []academy.Event) {
	if m.store == nil || len(events) == 0 {
		return
	}
	eng := m.game.Engine()
	progressDirty := false
	for _, ev := range events {
		switch ev.Kind {
		case academy.EventWin:
			piece := ""
			if l, ok := eng.Catalog().At(ev.Level); ok {
				piece = string(l.Piece)
			}
			if _, err := m.store.RecordWin(m.profile, m.sessionID, ev.Level, piece); err != nil {
				m.logger.Error("could not record win", "level", ev.Level, "err", err)
			}
		case academy.EventGem:
			if err := m.store.AddGem(m.profile, string(ev.Gem)); err != nil {
				m.logger.Error("could not save gem", "gem", ev.Gem, "err", err)
			}
		case academy.EventProgress:
			progressDirty = true
		}
	}
	if progressDirty {
		if err := m.store.SaveProgress(m.profile, eng.Progress()); err != nil {
			m.logger.Error("could not save progress", "err", err)
		}
	}
}

// storyCmd generates a story off the update loop.
func (m Model) storyCmd(req academy.StoryRequest) tea.Cmd {
	teller, timeout := m.teller, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return StoryMsg{Seq: req.Seq, Piece: req.Piece, Text: teller.Tell(ctx, req.Piece)}
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".pawnschool", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.txt", m.game.ID(), m.profile, timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Game exposes the running game.
func (m Model) Game() *academy.Game { return m.game }

// SessionID returns the identifier stored with every win of this session.
func (m Model) SessionID() string { return m.sessionID }

// Run starts the Bubble Tea program with the given options.
func Run(cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
