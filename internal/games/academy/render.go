package academy

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/pawn-school/internal/chess"
	"github.com/vovakirdan/pawn-school/internal/chess/engine"
	"github.com/vovakirdan/pawn-school/internal/core"
)

// Minimum screen size needed to draw the board and the side panel.
const (
	MinWidth  = 64
	MinHeight = 22
)

const (
	cellW  = 5
	cellH  = 2
	boardX = 2
	boardY = 4
	panelX = boardX + chess.BoardSize*cellW + 4
)

var pieceGlyphs = map[chess.PieceType]rune{
	chess.Knight:  '♞',
	chess.Rook:    '♜',
	chess.Pawn:    '♟',
	chess.Bishop:  '♝',
	chess.Queen:   '♛',
	chess.King:    '♚',
	chess.Star:    '★',
	chess.Castle:  '▲',
	chess.Crown:   '♔',
	chess.Diamond: '◆',
	chess.Shield:  '◈',
	chess.Home:    '⌂',
}

var gemColors = map[Gem]core.Color{
	Ruby:     core.ColorRed,
	Emerald:  core.ColorGreen,
	Sapphire: core.ColorBlue,
	Amethyst: core.ColorMagenta,
	Diamond:  core.ColorCyan,
}

// Glyph returns the board symbol for a piece type.
func Glyph(t chess.PieceType) rune {
	if r, ok := pieceGlyphs[t]; ok {
		return r
	}
	return '?'
}

// Render draws the game into dst. dst is cleared first.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Need at least %dx%d", MinWidth, MinHeight))
		return
	}

	g.renderHeader(dst)
	g.renderBoard(dst)
	g.renderPanel(dst)
	g.renderStatus(dst)
	g.renderStory(dst)
	if g.listOpen {
		g.renderLevelList(dst)
	}
}

func (g *Game) renderHeader(dst *core.Screen) {
	level := g.engine.Level()
	dst.DrawTextCenteredColored(0, "♟ Pawn School ♟", core.ColorYellow)
	title := fmt.Sprintf("Level %d/%d: %s (%s)", g.engine.LevelIndex()+1, g.catalog.Len(), level.Name, level.Kind())
	dst.DrawTextColored(boardX, 2, title, core.ColorCyan)
	dst.DrawText(boardX, 3, truncate(level.Description, dst.Width()-boardX-1))
}

func (g *Game) renderBoard(dst *core.Screen) {
	frame := core.NewRect(boardX-1, boardY, chess.BoardSize*cellW+2, chess.BoardSize*cellH+2)
	dst.DrawBox(frame, core.ColorGray)

	board := g.engine.Board()
	moves := g.engine.PossibleMoves()
	sel, selected := g.engine.Selection()

	for r := range chess.BoardSize {
		for c := range chess.BoardSize {
			pos := chess.P(r, c)
			x := boardX + c*cellW
			y := boardY + 1 + r*cellH

			if (r+c)%2 == 1 {
				for dy := range cellH {
					dst.DrawHLine(x, y+dy, cellW, '░', core.ColorDarkSquare)
				}
			}

			mid := x + cellW/2
			legal := chess.ContainsPosition(moves, pos)
			if p := board.PieceAt(pos); p != nil {
				color := core.ColorBlackPiece
				if p.IsWhite() {
					color = core.ColorWhitePiece
				}
				if p.Type.IsDecoration() {
					color = core.ColorTarget
				}
				if legal {
					color = core.ColorHighlight
				}
				dst.SetColored(mid, y, Glyph(p.Type), color)
			} else if legal {
				dst.SetColored(mid, y, '•', core.ColorHighlight)
			} else {
				dst.SetColored(mid, y, ' ', core.ColorDefault)
			}

			switch {
			case selected && sel.Position == pos:
				dst.SetColored(mid-1, y, '<', core.ColorSelected)
				dst.SetColored(mid+1, y, '>', core.ColorSelected)
			case g.cursor == pos && !g.listOpen:
				dst.SetColored(mid-1, y, '[', core.ColorCursor)
				dst.SetColored(mid+1, y, ']', core.ColorCursor)
			}
		}
	}
}

func (g *Game) renderPanel(dst *core.Screen) {
	idx := g.engine.LevelIndex()
	y := boardY

	wins := g.engine.Wins(idx)
	dst.DrawText(panelX, y, "Wins:")
	for i := range engine.MasteryThreshold {
		r, c := '○', core.ColorGray
		if i < wins {
			r, c = '●', core.ColorGreen
		}
		dst.SetColored(panelX+6+i*2, y, r, c)
	}
	if wins > engine.MasteryThreshold {
		dst.DrawText(panelX+6+engine.MasteryThreshold*2, y, fmt.Sprintf("+%d", wins-engine.MasteryThreshold))
	}
	y += 2

	unlocked := 0
	for _, u := range g.engine.Unlocked() {
		if u {
			unlocked++
		}
	}
	dst.DrawText(panelX, y, fmt.Sprintf("Levels open: %d/%d", unlocked, g.catalog.Len()))
	y += 2

	gems := g.rewards.Collected()
	dst.DrawText(panelX, y, fmt.Sprintf("Gems: %d", len(gems)))
	y++
	counts := g.rewards.Counts()
	for _, gem := range allGems {
		if counts[gem] == 0 {
			continue
		}
		dst.SetColored(panelX, y, '◆', gemColors[gem])
		dst.DrawText(panelX+2, y, fmt.Sprintf("%-9s x%d", gem, counts[gem]))
		y++
	}

	y++
	level := g.engine.Level()
	dst.DrawText(panelX, y, "Move:")
	dst.SetColored(panelX+6, y, Glyph(level.Piece), core.ColorWhitePiece)
	dst.DrawText(panelX+8, y, string(level.Piece))
	y++
	dst.DrawText(panelX, y, "Goal:")
	dst.SetColored(panelX+6, y, Glyph(level.Target), core.ColorTarget)
	dst.DrawText(panelX+8, y, string(level.Target))
}

func (g *Game) renderStatus(dst *core.Screen) {
	y := boardY + chess.BoardSize*cellH + 2
	level := g.engine.Level()

	var text string
	color := core.ColorDefault
	switch {
	case g.engine.Won():
		text = "You did it! Press Enter to play again or n for the next level."
		if gems := g.rewards.Collected(); len(gems) > 0 && !g.rewards.armed {
			text = fmt.Sprintf("You did it and found a %s! Enter: again, n: next level.", gems[len(gems)-1])
		}
		color = core.ColorGreen
	case g.message != "":
		text = g.message
		color = core.ColorYellow
	default:
		if _, ok := g.engine.Selection(); ok {
			text = "Pick a green square to move there. Esc to put the piece down."
		} else if level.IsPuzzle() {
			text = fmt.Sprintf("Select a white piece and capture the %s.", level.Target)
		} else {
			text = fmt.Sprintf("Select the %s and bring it to the %s.", level.Piece, level.Target)
		}
	}
	dst.DrawTextColored(boardX, y, truncate(text, dst.Width()-boardX-1), color)
}

func (g *Game) renderStory(dst *core.Screen) {
	y := boardY + chess.BoardSize*cellH + 3
	story, loading := g.Story()
	switch {
	case loading:
		dst.DrawTextColored(boardX, y, "Thinking of a story...", core.ColorGray)
	case story != "":
		for i, line := range wrap(story, dst.Width()-boardX-2) {
			if y+i >= dst.Height() {
				break
			}
			dst.DrawTextColored(boardX, y+i, line, core.ColorMagenta)
		}
	}
}

func (g *Game) renderLevelList(dst *core.Screen) {
	const w = 48
	h := g.catalog.Len() + 4
	x := (dst.Width() - w) / 2
	y := core.Max((dst.Height()-h)/2, 0)
	box := core.NewRect(x, y, w, h)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorCyan)
	dst.DrawTextColored(x+2, y+1, "Choose a level", core.ColorYellow)

	for i, l := range g.catalog.All() {
		row := y + 2 + i
		marker := "  "
		if i == g.listCursor {
			marker = "> "
		}
		color := core.ColorDefault
		status := fmt.Sprintf("%d/%d", core.Min(g.engine.Wins(i), engine.MasteryThreshold), engine.MasteryThreshold)
		if !g.engine.IsUnlocked(i) {
			color = core.ColorGray
			status = "locked"
		}
		if i == g.listCursor {
			color = core.ColorCursor
		}
		line := fmt.Sprintf("%s%d. %c %s", marker, i+1, Glyph(l.Piece), l.Name)
		dst.DrawTextColored(x+2, row, truncate(line, w-12), color)
		dst.DrawTextColored(x+w-9, row, status, color)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// wrap splits text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var (
		lines []string
		line  strings.Builder
		n     int
	)
	for _, word := range strings.Fields(text) {
		wl := len([]rune(word))
		if n > 0 && n+1+wl > width {
			lines = append(lines, line.String())
			line.Reset()
			n = 0
		}
		if n > 0 {
			line.WriteByte(' ')
			n++
		}
		line.WriteString(word)
		n += wl
	}
	if n > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
