package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/pawn-school/internal/chess"
)

// YAMLCatalog represents the YAML structure of a level file.
type YAMLCatalog struct {
	Levels []YAMLLevel `yaml:"levels"`
}

// YAMLLevel represents a single level in YAML format.
type YAMLLevel struct {
	Piece       string        `yaml:"piece"`
	Target      string        `yaml:"target"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Setups      [][]YAMLPiece `yaml:"setups,omitempty"`
}

// YAMLPiece represents one placement: row, col, type and color.
type YAMLPiece struct {
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Type  string `yaml:"type"`
	Color string `yaml:"color"`
}

// ParseYAML parses and validates a level file.
func ParseYAML(data []byte) (*Catalog, error) {
	var yc YAMLCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("levels: yaml unmarshal: %w", err)
	}

	lvls := make([]Level, 0, len(yc.Levels))
	for i, yl := range yc.Levels {
		l, err := yl.toLevel()
		if err != nil {
			return nil, fmt.Errorf("levels: level %d: %w", i, err)
		}
		lvls = append(lvls, l)
	}

	return NewCatalog(lvls)
}

func (yl YAMLLevel) toLevel() (Level, error) {
	piece, err := chess.ParsePieceType(yl.Piece)
	if err != nil {
		return Level{}, err
	}
	target, err := chess.ParsePieceType(yl.Target)
	if err != nil {
		return Level{}, err
	}

	l := Level{
		Piece:       piece,
		Target:      target,
		Name:        yl.Name,
		Description: yl.Description,
	}
	for _, ys := range yl.Setups {
		setup := make(Setup, 0, len(ys))
		for _, yp := range ys {
			pl, err := yp.toPlacement()
			if err != nil {
				return Level{}, err
			}
			setup = append(setup, pl)
		}
		l.Setups = append(l.Setups, setup)
	}
	return l, nil
}

func (yp YAMLPiece) toPlacement() (Placement, error) {
	t, err := chess.ParsePieceType(yp.Type)
	if err != nil {
		return Placement{}, err
	}
	color := chess.White
	if yp.Color != "" {
		if color, err = chess.ParseColor(yp.Color); err != nil {
			return Placement{}, err
		}
	}
	return Placement{
		Position: chess.P(yp.Row, yp.Col),
		Piece:    chess.NewPiece(t, color),
	}, nil
}

// MarshalYAML encodes the catalog back into the file format.
func (c *Catalog) MarshalYAML() (any, error) {
	yc := YAMLCatalog{Levels: make([]YAMLLevel, 0, len(c.levels))}
	for _, l := range c.levels {
		yl := YAMLLevel{
			Piece:       string(l.Piece),
			Target:      string(l.Target),
			Name:        l.Name,
			Description: l.Description,
		}
		for _, s := range l.Setups {
			ys := make([]YAMLPiece, 0, len(s))
			for _, pl := range s {
				ys = append(ys, YAMLPiece{
					Row:   pl.Position.Row,
					Col:   pl.Position.Col,
					Type:  string(pl.Piece.Type),
					Color: string(pl.Piece.Color),
				})
			}
			yl.Setups = append(yl.Setups, ys)
		}
		yc.Levels = append(yc.Levels, yl)
	}
	return yc, nil
}
