// Package tilegrid addresses the cells of a quadtree tile pyramid over the Web Mercator square.
// Level z has 2^z rows and 2^z columns, row 0 at the top (north), column 0 at the left (west).
package tilegrid

import (
	"fmt"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/mathhelp"
)

// MaxLevel keeps 2^level and quadkeys within 32 bits per axis.
const MaxLevel = 30

// Grid identifies one tile.
type Grid struct {
	Level  int `json:"level"`
	Row    int `json:"row"`
	Column int `json:"column"`
}

// New validates the level and the row/column range of that level.
func New(level, row, column int) (Grid, error) {
	if level < 0 || level > MaxLevel {
		return Grid{}, globe.InvalidArgument("level", level, fmt.Sprintf("not in [0, %d]", MaxLevel))
	}
	size := SizeOf(level)
	if row < 0 || row >= size {
		return Grid{}, globe.InvalidArgument("row", row, fmt.Sprintf("not in [0, %d)", size))
	}
	if column < 0 || column >= size {
		return Grid{}, globe.InvalidArgument("column", column, fmt.Sprintf("not in [0, %d)", size))
	}
	return Grid{Level: level, Row: row, Column: column}, nil
}

// MustNew panics where New errors.
func MustNew(level, row, column int) Grid {
	g, err := New(level, row, column)
	if err != nil {
		panic(err)
	}
	return g
}

// SizeOf is the number of rows (and columns) of a level.
func SizeOf(level int) int {
	return int(mathhelp.Pow2(uint(level)))
}

func (g Grid) Size() int {
	return SizeOf(g.Level)
}

func (g Grid) Valid() bool {
	_, err := New(g.Level, g.Row, g.Column)
	return err == nil
}

func (g Grid) Validate() error {
	_, err := New(g.Level, g.Row, g.Column)
	return err
}

func (g Grid) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Level, g.Row, g.Column)
}

// Position is where a tile lies relative to another.
type Position int

const (
	Unknown Position = iota
	LeftTop
	RightTop
	LeftBottom
	RightBottom
	Left
	Right
	Top
	Bottom
)

var positionNames = map[Position]string{
	Unknown:     "UNKNOWN",
	LeftTop:     "LEFT_TOP",
	RightTop:    "RIGHT_TOP",
	LeftBottom:  "LEFT_BOTTOM",
	RightBottom: "RIGHT_BOTTOM",
	Left:        "LEFT",
	Right:       "RIGHT",
	Top:         "TOP",
	Bottom:      "BOTTOM",
}

func (p Position) String() string {
	name, ok := positionNames[p]
	if !ok {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return name
}

// ByParent is the child of parent at one of the quadrant positions.
func ByParent(parent Grid, position Position) (Grid, error) {
	if err := parent.Validate(); err != nil {
		return Grid{}, err
	}
	if parent.Level >= MaxLevel {
		return Grid{}, globe.InvalidArgument("level", parent.Level, "has no children")
	}
	row, column := 2*parent.Row, 2*parent.Column
	switch position {
	case LeftTop:
	case RightTop:
		column++
	case LeftBottom:
		row++
	case RightBottom:
		row++
		column++
	default:
		return Grid{}, globe.InvalidArgument("position", position, "not a quadrant")
	}
	return Grid{Level: parent.Level + 1, Row: row, Column: column}, nil
}

// Children in the order left-top, right-top, left-bottom, right-bottom.
func (g Grid) Children() [4]Grid {
	row, column := 2*g.Row, 2*g.Column
	level := g.Level + 1
	return [4]Grid{
		{Level: level, Row: row, Column: column},
		{Level: level, Row: row, Column: column + 1},
		{Level: level, Row: row + 1, Column: column},
		{Level: level, Row: row + 1, Column: column + 1},
	}
}

// Parent of a level 0 grid is itself.
func (g Grid) Parent() Grid {
	if g.Level == 0 {
		return g
	}
	return Grid{Level: g.Level - 1, Row: g.Row / 2, Column: g.Column / 2}
}

// PositionOfParent is the quadrant g takes in its direct parent; Unknown for level 0.
func PositionOfParent(g Grid) Position {
	if g.Level == 0 {
		return Unknown
	}
	switch {
	case g.Row%2 == 0 && g.Column%2 == 0:
		return LeftTop
	case g.Row%2 == 0:
		return RightTop
	case g.Column%2 == 0:
		return LeftBottom
	default:
		return RightBottom
	}
}

// ByBrother is the 4-neighbour of g in the given direction, wrapping around the grid.
// maxSize is the wrap size; 0 means 2^level.
func ByBrother(g Grid, position Position, maxSize int) (Grid, error) {
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	if maxSize < 0 {
		return Grid{}, globe.InvalidArgument("maxSize", maxSize, "must not be negative")
	}
	if maxSize > g.Size() {
		return Grid{}, globe.InvalidArgument("maxSize", maxSize, fmt.Sprintf("larger than the %d tiles of level %d", g.Size(), g.Level))
	}
	if maxSize == 0 {
		maxSize = g.Size()
	}
	result := g
	switch position {
	case Left:
		result.Column = mathhelp.EuclidianMod(g.Column-1, maxSize)
	case Right:
		result.Column = mathhelp.EuclidianMod(g.Column+1, maxSize)
	case Top:
		result.Row = mathhelp.EuclidianMod(g.Row-1, maxSize)
	case Bottom:
		result.Row = mathhelp.EuclidianMod(g.Row+1, maxSize)
	default:
		return Grid{}, globe.InvalidArgument("position", position, "not a side")
	}
	return result, nil
}

// Ancestor is the grid at ancestorLevel containing g.
func Ancestor(g Grid, ancestorLevel int) (Grid, error) {
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	if ancestorLevel < 0 || ancestorLevel > g.Level {
		return Grid{}, globe.InvalidArgument("ancestorLevel", ancestorLevel, fmt.Sprintf("not in [0, %d]", g.Level))
	}
	shift := uint(g.Level - ancestorLevel)
	return Grid{Level: ancestorLevel, Row: g.Row >> shift, Column: g.Column >> shift}, nil
}
