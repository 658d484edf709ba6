// Package academy is the playable Pawn School game: a cursor-driven board on
// top of the engine, with a level list, reward gems and piece stories.
// Like the engine it is pure. The platform layer feeds it input frames,
// renders it into a core.Screen and acts on the events it emits.
package academy

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/core"
)

// EventKind identifies something the platform may want to persist.
type EventKind int

const (
	EventWin      EventKind = iota // a level was won
	EventGem                       // a gem was granted
	EventProgress                  // wins or unlock flags changed
)

// Event is emitted by Step and drained with TakeEvents.
type Event struct {
	Kind  EventKind
	Level int
	Gem   Gem
}

// StoryRequest asks the platform for a story about a piece. Seq lets
// SetStory drop answers that arrive after the level changed.
type StoryRequest struct {
	Seq   int
	Piece chess.PieceType
}

// Game implements the Pawn School game loop.
type Game struct {
	catalog *levels.Catalog
	engine  *engine.Engine
	rewards *Rewards

	saved     engine.Progress
	savedGems []Gem

	cursor chess.Position

	listOpen   bool
	listCursor int

	storySeq     int
	story        string
	storyLoading bool
	storyPending *StoryRequest

	message string
	events  []Event

	screenW  int
	screenH  int
	tooSmall bool
	quit     bool
}

// New creates a game over catalog. A nil catalog selects the built-in one.
func New(catalog *levels.Catalog) *Game {
	if catalog == nil {
		catalog = levels.Default()
	}
	return &Game{catalog: catalog}
}

// ID returns the game identifier.
func (g *Game) ID() string { return "pawnschool" }

// Restore sets saved progress and gems. It applies to the running engine and
// to every later Reset.
func (g *Game) Restore(p engine.Progress, gems []Gem) {
	g.saved = p
	g.savedGems = append([]Gem(nil), gems...)
	if g.engine != nil {
		g.engine.RestoreProgress(p)
		g.rewards.Restore(gems)
	}
}

// Reset starts a fresh engine on the furthest unlocked level.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g.engine = engine.New(g.catalog, engine.WithRand(rng))
	g.engine.RestoreProgress(g.saved)
	g.rewards = NewRewards(rng)
	g.rewards.Restore(g.savedGems)

	start := 0
	for i, u := range g.engine.Unlocked() {
		if u {
			start = i
		}
	}
	if start != 0 {
		//nolint:errcheck // start comes from the engine's own unlock flags
		g.engine.SetLevel(start)
	}

	g.listOpen = false
	g.message = ""
	g.events = nil
	g.clearStory()
	g.centerCursor()
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize records the screen size the game renders into.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < MinWidth || h < MinHeight
}

// Step applies one frame of input.
func (g *Game) Step(in core.InputFrame) core.GameState {
	if in.Has(core.ActionQuit) {
		g.quit = true
		return g.State()
	}

	if g.listOpen {
		g.stepList(in)
	} else {
		g.stepBoard(in)
	}

	g.observeWin()
	return g.State()
}

func (g *Game) stepBoard(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionDown):
		g.moveCursor(1, 0)
	case in.Has(core.ActionLeft):
		g.moveCursor(0, -1)
	case in.Has(core.ActionRight):
		g.moveCursor(0, 1)
	}

	switch {
	case in.Has(core.ActionConfirm):
		g.confirm()
	case in.Has(core.ActionBack):
		g.engine.DeselectPiece()
	case in.Has(core.ActionRestart):
		g.restartLevel()
	case in.Has(core.ActionSkip):
		g.skipLevel()
	case in.Has(core.ActionLevels):
		g.listOpen = true
		g.listCursor = g.engine.LevelIndex()
	case in.Has(core.ActionStory):
		g.requestStory()
	}
}

func (g *Game) stepList(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.listCursor = core.Wrap(g.listCursor-1, g.catalog.Len())
	case in.Has(core.ActionDown):
		g.listCursor = core.Wrap(g.listCursor+1, g.catalog.Len())
	case in.Has(core.ActionConfirm):
		g.enterLevel(g.listCursor)
	case in.Has(core.ActionBack), in.Has(core.ActionLevels):
		g.listOpen = false
	}
}

func (g *Game) moveCursor(dr, dc int) {
	g.cursor = chess.P(
		core.Clamp(g.cursor.Row+dr, 0, chess.BoardSize-1),
		core.Clamp(g.cursor.Col+dc, 0, chess.BoardSize-1),
	)
}

// confirm selects, deselects or moves depending on what is under the cursor.
func (g *Game) confirm() {
	if g.engine.Won() {
		g.restartLevel()
		return
	}

	sel, selected := g.engine.Selection()
	if selected {
		if sel.Position == g.cursor {
			g.engine.DeselectPiece()
			return
		}
		if g.engine.HandleMove(sel.Position, g.cursor) {
			if g.engine.Won() {
				g.recordWin()
			}
			return
		}
	}
	g.engine.SelectPieceAt(g.cursor)
}

func (g *Game) recordWin() {
	level := g.engine.LevelIndex()
	g.emit(Event{Kind: EventWin, Level: level})
	g.emit(Event{Kind: EventProgress, Level: level})
	if g.engine.Wins(level) == engine.MasteryThreshold && g.catalog.Contains(level+1) {
		g.message = fmt.Sprintf("Level %d unlocked!", level+2)
	}
}

// observeWin grants a gem on the edge where the level becomes won.
func (g *Game) observeWin() {
	if gem, ok := g.rewards.Observe(g.engine.Won()); ok {
		g.emit(Event{Kind: EventGem, Level: g.engine.LevelIndex(), Gem: gem})
	}
}

func (g *Game) restartLevel() {
	g.engine.ResetLevel()
	g.newSession()
}

func (g *Game) skipLevel() {
	err := g.engine.SkipLevel()
	g.emit(Event{Kind: EventProgress, Level: g.engine.LevelIndex()})
	if errors.Is(err, engine.ErrNoNextLevel) {
		g.message = "That was the last level!"
		return
	}
	g.newSession()
}

func (g *Game) enterLevel(index int) {
	err := g.engine.EnterLevel(index)
	switch {
	case errors.Is(err, engine.ErrLevelLocked):
		g.message = fmt.Sprintf("Level %d is locked. Win %d times on the level before it.", index+1, engine.MasteryThreshold)
		return
	case err != nil:
		g.message = err.Error()
		return
	}
	g.listOpen = false
	g.emit(Event{Kind: EventProgress, Level: index})
	g.newSession()
}

// newSession runs after the board was rebuilt for any reason.
func (g *Game) newSession() {
	g.rewards.Arm()
	g.message = ""
	g.clearStory()
	g.centerCursor()
}

func (g *Game) centerCursor() {
	g.cursor = chess.P(chess.BoardSize/2, chess.BoardSize/2)
	if sel, ok := g.firstMover(); ok {
		g.cursor = sel
	}
}

// firstMover finds the square of the level's controllable piece.
func (g *Game) firstMover() (chess.Position, bool) {
	board := g.engine.Board()
	for _, pos := range board.Occupied() {
		p := board.PieceAt(pos)
		if p.IsWhite() && p.Type.IsMovable() {
			return pos, true
		}
	}
	return chess.Position{}, false
}

func (g *Game) requestStory() {
	if g.storyLoading {
		return
	}
	g.storyLoading = true
	g.story = ""
	g.storyPending = &StoryRequest{Seq: g.storySeq, Piece: g.engine.Level().Piece}
}

func (g *Game) clearStory() {
	g.storySeq++
	g.story = ""
	g.storyLoading = false
	g.storyPending = nil
}

// TakeStoryRequest returns a story request raised by the player, once.
func (g *Game) TakeStoryRequest() (StoryRequest, bool) {
	if g.storyPending == nil {
		return StoryRequest{}, false
	}
	req := *g.storyPending
	g.storyPending = nil
	return req, true
}

// SetStory delivers the answer to a story request. Stale answers are dropped.
func (g *Game) SetStory(seq int, text string) {
	if seq != g.storySeq {
		return
	}
	g.story = text
	g.storyLoading = false
}

// Story returns the current story text and whether one is being generated.
func (g *Game) Story() (string, bool) {
	return g.story, g.storyLoading
}

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// TakeEvents drains the events emitted since the last call.
func (g *Game) TakeEvents() []Event {
	out := g.events
	g.events = nil
	return out
}

// Catalog returns the levels the game plays.
func (g *Game) Catalog() *levels.Catalog { return g.catalog }

// Engine exposes the underlying engine for read access.
func (g *Game) Engine() *engine.Engine { return g.engine }

// Gems returns the collected gems.
func (g *Game) Gems() []Gem { return g.rewards.Collected() }

// Cursor returns the board cursor.
func (g *Game) Cursor() chess.Position { return g.cursor }

// ListOpen reports whether the level list is shown.
func (g *Game) ListOpen() bool { return g.listOpen }

// Message returns the last notice shown to the player.
func (g *Game) Message() string { return g.message }

// State returns the current game state.
func (g *Game) State() core.GameState {
	level := g.engine.LevelIndex()
	return core.GameState{
		Level:    level + 1,
		Wins:     g.engine.Wins(level),
		Gems:     len(g.rewards.Collected()),
		Won:      g.engine.Won(),
		Quit:     g.quit,
		TooSmall: g.tooSmall,
	}
}
