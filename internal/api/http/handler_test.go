package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/levels"
	"github.com/vovakirdan/pawn-school/internal/narrative"
	"github.com/vovakirdan/pawn-school/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testCatalog has a fixed rook puzzle followed by two learning levels.
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
		{Piece: chess.Knight, Target: chess.Star, Name: "Knight"},
		{Piece: chess.King, Target: chess.Home, Name: "King"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	sm     *SessionManager
}

func newTestAPI(t *testing.T, store *storage.Store) *testAPI {
	t.Helper()
	sm := NewSessionManager(testCatalog(t), store, nil)
	router := NewRouter(RouterConfig{
		Sessions:     sm,
		Teller:       narrative.NewTeller(narrative.NewCanned(1), nil),
		StoryTimeout: time.Second,
	})
	return &testAPI{t: t, router: router, sm: sm}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return v
}

func (a *testAPI) create(profile string) SessionResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/sessions", CreateSessionRequest{Profile: profile, Seed: 5})
	if w.Code != http.StatusCreated {
		a.t.Fatalf("POST /sessions = %d %s", w.Code, w.Body.String())
	}
	return decode[SessionResponse](a.t, w)
}

func pos(r, c int) PositionRequest {
	return PositionRequest{Row: &r, Col: &c}
}

func intPtr(i int) *int { return &i }

// winRook plays the rook puzzle of session id.
func (a *testAPI) winRook(id string) MoveResponse {
	a.t.Helper()
	if w := a.do(http.MethodPost, "/sessions/"+id+"/select", pos(5, 0)); w.Code != http.StatusOK {
		a.t.Fatalf("select = %d %s", w.Code, w.Body.String())
	}
	w := a.do(http.MethodPost, "/sessions/"+id+"/move", MoveRequest{From: pos(5, 0), To: pos(2, 0)})
	if w.Code != http.StatusOK {
		a.t.Fatalf("move = %d %s", w.Code, w.Body.String())
	}
	return decode[MoveResponse](a.t, w)
}

func TestListLevels(t *testing.T) {
	api := newTestAPI(t, nil)
	w := api.do(http.MethodGet, "/levels", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /levels = %d", w.Code)
	}
	got := decode[struct {
		Levels []LevelDTO `json:"levels"`
	}](t, w)
	if len(got.Levels) != 3 {
		t.Fatalf("levels = %d, want 3", len(got.Levels))
	}
	if got.Levels[0].Kind != levels.KindPuzzle || got.Levels[0].Setups != 1 {
		t.Errorf("level 0 = %+v", got.Levels[0])
	}
	if got.Levels[1].Kind != levels.KindLearning || got.Levels[1].Piece != chess.Knight {
		t.Errorf("level 1 = %+v", got.Levels[1])
	}
}

func TestCreateAndGetSession(t *testing.T) {
	api := newTestAPI(t, nil)
	s := api.create("ana")
	if s.ID == "" || s.Profile != "ana" {
		t.Fatalf("session = %+v", s)
	}
	if s.State.LevelIndex != 0 || len(s.State.Pieces) != 2 || s.State.Won {
		t.Errorf("state = %+v", s.State)
	}
	if s.State.Target != chess.P(2, 0) {
		t.Errorf("target = %v, want (2,0)", s.State.Target)
	}

	w := api.do(http.MethodGet, "/sessions/"+s.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET session = %d", w.Code)
	}
	if got := decode[SessionResponse](t, w); got.ID != s.ID {
		t.Errorf("GET returned session %q", got.ID)
	}

	// An empty body creates a default profile.
	w = api.do(http.MethodPost, "/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /sessions without body = %d", w.Code)
	}
	if got := decode[SessionResponse](t, w); got.Profile != "player" {
		t.Errorf("default profile = %q", got.Profile)
	}
}

func TestSelectAndMove(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID

	w := api.do(http.MethodPost, "/sessions/"+id+"/select", pos(5, 0))
	sel := decode[SessionResponse](t, w)
	if sel.State.Selection == nil || sel.State.Selection.Piece.Type != chess.Rook {
		t.Fatalf("selection = %+v", sel.State.Selection)
	}
	if !chess.ContainsPosition(sel.State.PossibleMoves, chess.P(2, 0)) {
		t.Errorf("possible moves %v should reach the star", sel.State.PossibleMoves)
	}

	// Illegal: rooks do not move diagonally.
	w = api.do(http.MethodPost, "/sessions/"+id+"/move", MoveRequest{From: pos(5, 0), To: pos(4, 1)})
	if got := decode[MoveResponse](t, w); got.Moved || got.State.Won {
		t.Errorf("diagonal rook move = %+v", got)
	}

	w = api.do(http.MethodPost, "/sessions/"+id+"/deselect", nil)
	if got := decode[SessionResponse](t, w); got.State.Selection != nil {
		t.Error("deselect should clear the selection")
	}

	won := api.winRook(id)
	if !won.Moved || !won.State.Won || won.State.Wins[0] != 1 {
		t.Errorf("capture = moved %v won %v wins %v", won.Moved, won.State.Won, won.State.Wins)
	}

	w = api.do(http.MethodPost, "/sessions/"+id+"/reset", nil)
	if got := decode[SessionResponse](t, w); got.State.Won || got.State.Wins[0] != 1 {
		t.Errorf("reset = won %v wins %v", got.State.Won, got.State.Wins)
	}
}

func TestMoveBadPayload(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID
	w := api.do(http.MethodPost, "/sessions/"+id+"/move", map[string]any{"from": map[string]int{"row": 5}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete move = %d, want 400", w.Code)
	}
	w = api.do(http.MethodPost, "/sessions/"+id+"/select", map[string]int{"row": 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete select = %d, want 400", w.Code)
	}
}

func TestLevelEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID
	path := "/sessions/" + id

	tests := []struct {
		name   string
		body   any
		status int
		level  int
	}{
		{"locked", LevelRequest{Level: intPtr(1)}, http.StatusConflict, 0},
		{"out of range", LevelRequest{Level: intPtr(9), Force: true}, http.StatusBadRequest, 0},
		{"negative", LevelRequest{Level: intPtr(-1)}, http.StatusBadRequest, 0},
		{"missing level", map[string]any{}, http.StatusBadRequest, 0},
		{"forced", LevelRequest{Level: intPtr(2), Force: true}, http.StatusOK, 2},
		{"unlocked first", LevelRequest{Level: intPtr(0)}, http.StatusOK, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, path+"/level", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d %s, want %d", w.Code, w.Body.String(), tt.status)
			}
			_, snap, _ := api.sm.Snapshot(id)
			if snap.LevelIndex != tt.level {
				t.Errorf("level = %d, want %d", snap.LevelIndex, tt.level)
			}
		})
	}

	w := api.do(http.MethodPost, path+"/unlock-next", nil)
	if got := decode[SessionResponse](t, w); !got.State.Unlocked[1] {
		t.Error("unlock-next should open level 1")
	}
	if w := api.do(http.MethodPost, path+"/level", LevelRequest{Level: intPtr(1)}); w.Code != http.StatusOK {
		t.Errorf("entering unlocked level = %d", w.Code)
	}
}

func TestSkipAndResetWins(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID
	path := "/sessions/" + id

	w := api.do(http.MethodPost, path+"/skip", nil)
	got := decode[SessionResponse](t, w)
	if w.Code != http.StatusOK || got.State.LevelIndex != 1 || got.State.Wins[0] != 3 {
		t.Fatalf("skip = %d level %d wins %v", w.Code, got.State.LevelIndex, got.State.Wins)
	}

	api.do(http.MethodPost, path+"/skip", nil)
	w = api.do(http.MethodPost, path+"/skip", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("skip on last level = %d, want 409", w.Code)
	}
	errResp := decode[ErrorResponse](t, w)
	if errResp.State == nil || errResp.State.Wins[2] != 3 {
		t.Errorf("last skip should still master the level: %+v", errResp)
	}

	w = api.do(http.MethodPost, path+"/wins/reset", WinsResetRequest{Level: intPtr(0)})
	if got := decode[SessionResponse](t, w); got.State.Wins[0] != 0 || !got.State.Unlocked[1] {
		t.Errorf("wins reset = wins %v unlocked %v", got.State.Wins, got.State.Unlocked)
	}
	if w := api.do(http.MethodPost, path+"/wins/reset", WinsResetRequest{Level: intPtr(7)}); w.Code != http.StatusBadRequest {
		t.Errorf("wins reset out of range = %d, want 400", w.Code)
	}
}

func TestStory(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID
	w := api.do(http.MethodGet, "/sessions/"+id+"/story", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("story = %d", w.Code)
	}
	got := decode[StoryResponse](t, w)
	if got.Piece != chess.Rook || got.Story == "" || got.Story == narrative.UnavailableText {
		t.Errorf("story = %+v", got)
	}
}

func TestUnknownAndDeletedSession(t *testing.T) {
	api := newTestAPI(t, nil)
	id := api.create("ana").ID

	if w := api.do(http.MethodDelete, "/sessions/"+id, nil); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", w.Code)
	}
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/" + id},
		{http.MethodDelete, "/sessions/" + id},
		{http.MethodPost, "/sessions/" + id + "/reset"},
		{http.MethodGet, "/sessions/nope/story"},
	} {
		if w := api.do(tc.method, tc.path, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, want 404", tc.method, tc.path, w.Code)
		}
	}
}

func TestProgressIsPersisted(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	api := newTestAPI(t, store)
	id := api.create("ana").ID
	for range 3 {
		api.winRook(id)
		api.do(http.MethodPost, "/sessions/"+id+"/reset", nil)
	}

	wins, err := store.RecentWins("ana", 10)
	if err != nil || len(wins) != 3 {
		t.Fatalf("RecentWins() = %d, %v", len(wins), err)
	}
	if wins[0].SessionID != id || wins[0].Piece != "rook" {
		t.Errorf("win record = %+v", wins[0])
	}

	// A new session for the same profile resumes on the unlocked level.
	next := api.create("ana")
	if next.State.LevelIndex != 1 || next.State.Wins[0] != 3 {
		t.Errorf("restored session = level %d wins %v", next.State.LevelIndex, next.State.Wins)
	}
	other := api.create("ben")
	if other.State.LevelIndex != 0 || other.State.Wins[0] != 0 {
		t.Error("profiles should not share progress")
	}
}

func TestSweep(t *testing.T) {
	sm := NewSessionManager(testCatalog(t), nil, nil)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	old, _, _ := sm.Create("ana", 1)
	now = now.Add(20 * time.Minute)
	fresh, _, _ := sm.Create("ben", 1)
	now = now.Add(15 * time.Minute)

	if ids := sm.IDs(); len(ids) != 2 || ids[0] != old.ID {
		t.Fatalf("IDs() = %v", ids)
	}
	if removed := sm.Sweep(30 * time.Minute); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if _, _, err := sm.Snapshot(old.ID); err != ErrSessionNotFound {
		t.Errorf("old session err = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := sm.Snapshot(fresh.ID); err != nil {
		t.Errorf("fresh session err = %v", err)
	}
}
