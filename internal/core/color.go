package core

// Color is a semantic foreground color for a screen cell. The platform
// layer maps each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorOrange
)

// Board colors.
const (
	ColorDarkSquare = ColorGray
	ColorWhitePiece = ColorYellow
	ColorBlackPiece = ColorRed
	ColorHighlight  = ColorGreen
	ColorCursor     = ColorCyan
	ColorSelected   = ColorMagenta
	ColorTarget     = ColorOrange
)
