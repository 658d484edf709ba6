package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/narrative"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrLevelOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrLevelLocked), errors.Is(err, engine.ErrNoNextLevel):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error, state *engine.Snapshot) {
	c.AbortWithStatusJSON(statusFor(err), ErrorResponse{Error: err.Error(), State: state})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respond(c *gin.Context, status int, s *Session, snap engine.Snapshot) {
	c.JSON(status, SessionResponse{ID: s.ID, Profile: s.Profile, State: snap})
}

// act builds a handler that runs fn on the session named in the path.
func act(sm *SessionManager, fn func(c *gin.Context, e *engine.Engine) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, snap, err := sm.Do(c.Param("id"), func(e *engine.Engine) error {
			return fn(c, e)
		})
		if err != nil {
			if s == nil {
				abortWithError(c, err, nil)
				return
			}
			abortWithError(c, err, &snap)
			return
		}
		if c.IsAborted() {
			return
		}
		respond(c, http.StatusOK, s, snap)
	}
}

// ListLevelsHandler returns the level catalog.
// GET /levels
func ListLevelsHandler(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"levels": levelDTOs(sm.Catalog())})
	}
}

// CreateSessionHandler starts a new session.
// POST /sessions
func CreateSessionHandler(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "invalid payload: "+err.Error())
				return
			}
		}
		s, snap, err := sm.Create(req.Profile, req.Seed)
		if err != nil {
			abortWithError(c, err, nil)
			return
		}
		respond(c, http.StatusCreated, s, snap)
	}
}

// GetSessionHandler returns the state of a session.
// GET /sessions/:id
func GetSessionHandler(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, snap, err := sm.Snapshot(c.Param("id"))
		if err != nil {
			abortWithError(c, err, nil)
			return
		}
		respond(c, http.StatusOK, s, snap)
	}
}

// DeleteSessionHandler ends a session.
// DELETE /sessions/:id
func DeleteSessionHandler(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sm.Delete(c.Param("id")); err != nil {
			abortWithError(c, err, nil)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SetLevelHandler enters a level. Locked levels are refused unless forced.
// POST /sessions/:id/level
func SetLevelHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(c *gin.Context, e *engine.Engine) error {
		var req LevelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "level required")
			return nil
		}
		if req.Force {
			return e.SetLevel(*req.Level)
		}
		return e.EnterLevel(*req.Level)
	})
}

// ResetLevelHandler deals a fresh board for the current level.
// POST /sessions/:id/reset
func ResetLevelHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(_ *gin.Context, e *engine.Engine) error {
		e.ResetLevel()
		return nil
	})
}

// SelectHandler selects the piece on a square.
// POST /sessions/:id/select
func SelectHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(c *gin.Context, e *engine.Engine) error {
		var req PositionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "row and col required")
			return nil
		}
		e.SelectPieceAt(req.position())
		return nil
	})
}

// DeselectHandler clears the selection.
// POST /sessions/:id/deselect
func DeselectHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(_ *gin.Context, e *engine.Engine) error {
		e.DeselectPiece()
		return nil
	})
}

// MoveHandler moves the selected piece.
// POST /sessions/:id/move
func MoveHandler(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "from and to required")
			return
		}
		moved := false
		s, snap, err := sm.Do(c.Param("id"), func(e *engine.Engine) error {
			moved = e.HandleMove(req.From.position(), req.To.position())
			return nil
		})
		if err != nil {
			abortWithError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, MoveResponse{
			SessionResponse: SessionResponse{ID: s.ID, Profile: s.Profile, State: snap},
			Moved:           moved,
		})
	}
}

// SkipLevelHandler marks the level mastered and moves to the next one.
// POST /sessions/:id/skip
func SkipLevelHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(_ *gin.Context, e *engine.Engine) error {
		return e.SkipLevel()
	})
}

// UnlockNextHandler unlocks the level after the current one.
// POST /sessions/:id/unlock-next
func UnlockNextHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(_ *gin.Context, e *engine.Engine) error {
		e.ForceUnlockNextLevel()
		return nil
	})
}

// ResetWinsHandler clears the wins of one level.
// POST /sessions/:id/wins/reset
func ResetWinsHandler(sm *SessionManager) gin.HandlerFunc {
	return act(sm, func(c *gin.Context, e *engine.Engine) error {
		var req WinsResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "level required")
			return nil
		}
		return e.ResetWinsForLevel(*req.Level)
	})
}

// StoryHandler tells a story about the session's current piece.
// GET /sessions/:id/story
func StoryHandler(sm *SessionManager, teller *narrative.Teller, timeout time.Duration) gin.HandlerFunc {
	if teller == nil {
		teller = narrative.NewTeller(nil, nil)
	}
	return func(c *gin.Context) {
		_, snap, err := sm.Snapshot(c.Param("id"))
		if err != nil {
			abortWithError(c, err, nil)
			return
		}
		ctx := c.Request.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		piece := snap.Level.Piece
		c.JSON(http.StatusOK, StoryResponse{Piece: piece, Story: teller.Tell(ctx, piece)})
	}
}
