package academy

import (
	"strings"
	"testing"

	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/core"
)

// testCatalog has fixed single-setup puzzles so every board is known.
func testCatalog(t *testing.T) *levels.Catalog {
	t.Helper()
	c, err := levels.NewCatalog([]levels.Level{
		{
			Piece: chess.Rook, Target: chess.Star, Name: "Rook",
			Setups: []levels.Setup{{
				{Position: chess.P(5, 0), Piece: chess.NewPiece(chess.Rook, chess.White)},
				{Position: chess.P(2, 0), Piece: chess.NewPiece(chess.Star, chess.Black)},
			}},
		},
		{
			Piece: chess.King, Target: chess.Home, Name: "King",
			Setups: []levels.Setup{{
				{Position: chess.P(5, 5), Piece: chess.NewPiece(chess.King, chess.White)},
				{Position: chess.P(4, 4), Piece: chess.NewPiece(chess.Home, chess.Black)},
			}},
		},
		{Piece: chess.Knight, Target: chess.Star, Name: "Knight"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New(testCatalog(t))
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 42})
	return g
}

func step(g *Game, actions ...core.Action) core.GameState {
	return g.Step(core.FrameOf(actions...))
}

// winRook plays the rook puzzle: select, go up three squares, capture.
func winRook(t *testing.T, g *Game) []Event {
	t.Helper()
	if g.Cursor() != chess.P(5, 0) {
		t.Fatalf("cursor = %v, want the rook", g.Cursor())
	}
	step(g, core.ActionConfirm)
	for range 3 {
		step(g, core.ActionUp)
	}
	st := step(g, core.ActionConfirm)
	if !st.Won {
		t.Fatalf("expected a win, board:\n%s", boardOf(g))
	}
	return g.TakeEvents()
}

func boardOf(g *Game) string {
	b := g.Engine().Board()
	return b.String()
}

func countKind(events []Event, k EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestResetPlacesCursorOnMover(t *testing.T) {
	g := newTestGame(t)
	st := g.State()
	if st.Level != 1 || st.Won || st.Quit {
		t.Errorf("State() = %+v", st)
	}
	if g.Cursor() != chess.P(5, 0) {
		t.Errorf("cursor = %v, want (5,0)", g.Cursor())
	}
}

func TestCursorClampsToBoard(t *testing.T) {
	g := newTestGame(t)
	for range 10 {
		step(g, core.ActionDown)
		step(g, core.ActionLeft)
	}
	if g.Cursor() != chess.P(5, 0) {
		t.Errorf("cursor = %v, want (5,0)", g.Cursor())
	}
	for range 10 {
		step(g, core.ActionUp)
		step(g, core.ActionRight)
	}
	if g.Cursor() != chess.P(0, 5) {
		t.Errorf("cursor = %v, want (0,5)", g.Cursor())
	}
}

func TestSelectAndDeselect(t *testing.T) {
	g := newTestGame(t)

	step(g, core.ActionConfirm)
	if _, ok := g.Engine().Selection(); !ok {
		t.Fatal("Confirm on the rook should select it")
	}
	step(g, core.ActionBack)
	if _, ok := g.Engine().Selection(); ok {
		t.Fatal("Back should deselect")
	}

	step(g, core.ActionConfirm)
	step(g, core.ActionConfirm)
	if _, ok := g.Engine().Selection(); ok {
		t.Error("Confirm on the selected piece should deselect")
	}
}

func TestIllegalTargetKeepsBoard(t *testing.T) {
	g := newTestGame(t)
	before := boardOf(g)

	step(g, core.ActionConfirm)
	step(g, core.ActionUp)
	step(g, core.ActionRight)
	step(g, core.ActionConfirm)

	if boardOf(g) != before {
		t.Errorf("illegal move changed the board:\n%s", boardOf(g))
	}
	if g.State().Won {
		t.Error("illegal move should not win")
	}
}

func TestWinGrantsOneGem(t *testing.T) {
	g := newTestGame(t)
	events := winRook(t, g)

	if countKind(events, EventWin) != 1 || countKind(events, EventGem) != 1 || countKind(events, EventProgress) != 1 {
		t.Fatalf("events = %+v", events)
	}
	if len(g.Gems()) != 1 {
		t.Fatalf("gems = %v, want 1", g.Gems())
	}

	// Idle frames after the win grant nothing more.
	for range 5 {
		step(g)
	}
	if evs := g.TakeEvents(); len(evs) != 0 {
		t.Errorf("idle frames emitted %+v", evs)
	}

	// Confirm after a win replays the level and re-arms the reward.
	step(g, core.ActionConfirm)
	if g.State().Won {
		t.Fatal("Confirm after a win should restart")
	}
	winRook(t, g)
	if len(g.Gems()) != 2 {
		t.Errorf("gems = %d, want 2", len(g.Gems()))
	}
}

func TestMasteryUnlocksNextLevel(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < engine.MasteryThreshold; i++ {
		winRook(t, g)
		step(g, core.ActionConfirm)
	}
	if !g.Engine().IsUnlocked(1) {
		t.Fatal("level 2 should be unlocked")
	}
	if g.Engine().IsUnlocked(2) {
		t.Error("level 3 should stay locked")
	}
}

func TestLevelList(t *testing.T) {
	g := newTestGame(t)

	step(g, core.ActionLevels)
	if !g.ListOpen() {
		t.Fatal("level list should open")
	}
	step(g, core.ActionDown)
	step(g, core.ActionConfirm)
	if g.Engine().LevelIndex() != 0 {
		t.Fatal("locked level should not be entered")
	}
	if !strings.Contains(g.Message(), "locked") {
		t.Errorf("message = %q", g.Message())
	}

	g.Engine().ForceUnlockNextLevel()
	step(g, core.ActionConfirm)
	if g.Engine().LevelIndex() != 1 || g.ListOpen() {
		t.Fatalf("level = %d, list open = %v", g.Engine().LevelIndex(), g.ListOpen())
	}
	if countKind(g.TakeEvents(), EventProgress) != 1 {
		t.Error("entering a level should report progress")
	}
	if g.Cursor() != chess.P(5, 5) {
		t.Errorf("cursor = %v, want the king", g.Cursor())
	}

	step(g, core.ActionLevels)
	step(g, core.ActionUp)
	step(g, core.ActionUp)
	if g.listCursor != 2 {
		t.Errorf("list cursor = %d, want wrap to 2", g.listCursor)
	}
	step(g, core.ActionBack)
	if g.ListOpen() {
		t.Error("Back should close the list")
	}
}

func TestSkipLevel(t *testing.T) {
	g := newTestGame(t)

	step(g, core.ActionSkip)
	if g.Engine().LevelIndex() != 1 {
		t.Fatalf("level = %d, want 1", g.Engine().LevelIndex())
	}
	step(g, core.ActionSkip)
	step(g, core.ActionSkip)
	if g.Engine().LevelIndex() != 2 {
		t.Fatalf("level = %d, want 2", g.Engine().LevelIndex())
	}
	if g.Message() == "" {
		t.Error("skipping past the last level should tell the player")
	}
	if countKind(g.TakeEvents(), EventProgress) != 3 {
		t.Error("every skip should report progress")
	}
}

func TestStoryRequests(t *testing.T) {
	g := newTestGame(t)

	if _, ok := g.TakeStoryRequest(); ok {
		t.Fatal("no story requested yet")
	}
	step(g, core.ActionStory)
	req, ok := g.TakeStoryRequest()
	if !ok || req.Piece != chess.Rook {
		t.Fatalf("TakeStoryRequest() = %+v, %v", req, ok)
	}
	if _, ok := g.TakeStoryRequest(); ok {
		t.Error("a request is taken only once")
	}
	if _, loading := g.Story(); !loading {
		t.Error("story should be loading")
	}

	// A second press while loading does nothing.
	step(g, core.ActionStory)
	if _, ok := g.TakeStoryRequest(); ok {
		t.Error("duplicate request while loading")
	}

	g.SetStory(req.Seq, "The rook rolled straight home.")
	if text, loading := g.Story(); text == "" || loading {
		t.Errorf("Story() = %q, %v", text, loading)
	}

	// Restart clears the story and answers for the old board are dropped.
	step(g, core.ActionStory)
	old, _ := g.TakeStoryRequest()
	step(g, core.ActionRestart)
	g.SetStory(old.Seq, "late")
	if text, loading := g.Story(); text != "" || loading {
		t.Errorf("stale story applied: %q, %v", text, loading)
	}
}

func TestRestore(t *testing.T) {
	g := New(testCatalog(t))
	g.Restore(engine.Progress{Wins: []int{3, 1}, Unlocked: []bool{true, true}}, []Gem{Ruby, Ruby})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})

	if g.Engine().LevelIndex() != 1 {
		t.Errorf("should resume on the furthest unlocked level, got %d", g.Engine().LevelIndex())
	}
	if g.Engine().Wins(1) != 1 {
		t.Errorf("wins = %d, want 1", g.Engine().Wins(1))
	}
	if len(g.Gems()) != 2 {
		t.Errorf("gems = %v", g.Gems())
	}

	g.Restore(engine.Progress{}, nil)
	if len(g.Gems()) != 0 {
		t.Error("Restore should replace the running collection")
	}
}

func TestQuit(t *testing.T) {
	g := newTestGame(t)
	if st := step(g, core.ActionQuit); !st.Quit {
		t.Error("Quit should be reported")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t)
	s := core.NewScreen(80, 24)
	g.Render(s)

	out := s.String()
	for _, want := range []string{"Pawn School", "Level 1/3: Rook", "Wins:", "Gems: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	// Rook at (5,0): column 0, row 5.
	x := boardX + cellW/2
	y := boardY + 1 + 5*cellH
	if c := s.GetCell(x, y); c.Rune != '♜' {
		t.Errorf("cell at rook = %q", c.Rune)
	}
	if c := s.GetCell(x-1, y); c.Rune != '[' || c.Color != core.ColorCursor {
		t.Errorf("cursor bracket = %+v", c)
	}

	step(g, core.ActionConfirm)
	g.Render(s)
	if c := s.GetCell(x, boardY+1+4*cellH); c.Rune != '•' || c.Color != core.ColorHighlight {
		t.Errorf("legal move marker = %+v", c)
	}
	if c := s.GetCell(x, boardY+1+2*cellH); c.Color != core.ColorHighlight {
		t.Errorf("capturable star should be highlighted, got %+v", c)
	}

	step(g, core.ActionLevels)
	g.Render(s)
	if !strings.Contains(s.String(), "Choose a level") {
		t.Error("level list not drawn")
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New(testCatalog(t))
	g.Reset(core.RuntimeConfig{ScreenW: 30, ScreenH: 10, Seed: 1})
	if !g.State().TooSmall {
		t.Fatal("expected TooSmall")
	}
	s := core.NewScreen(30, 10)
	g.Render(s)
	if !strings.Contains(s.String(), "too small") {
		t.Errorf("render:\n%s", s.String())
	}

	g.Resize(80, 24)
	if g.State().TooSmall {
		t.Error("resize should clear TooSmall")
	}
}

func TestWrapAndTruncate(t *testing.T) {
	lines := wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("wrap = %q, want %q", lines, want)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
