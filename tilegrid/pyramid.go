package tilegrid

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/mapslicehelp"
)

// Set is an insertion-ordered set of grids.
type Set struct {
	grids *orderedmap.OrderedMap[Grid, struct{}]
}

func NewSet(grids ...Grid) *Set {
	s := &Set{grids: orderedmap.New[Grid, struct{}]()}
	for _, g := range grids {
		s.Add(g)
	}
	return s
}

// Add reports whether g was new.
func (s *Set) Add(g Grid) bool {
	_, present := s.grids.Set(g, struct{}{})
	return !present
}

func (s *Set) Contains(g Grid) bool {
	_, ok := s.grids.Get(g)
	return ok
}

func (s *Set) Len() int {
	return s.grids.Len()
}

// Grids in insertion order.
func (s *Set) Grids() []Grid {
	return mapslicehelp.OrderedMapKeys(s.grids)
}

// Level is the tiles of one pyramid level.
type Level struct {
	Level int    `json:"level"`
	Grids []Grid `json:"grids"`
}

// Pyramid collapses grids of one level into their ancestors, level by level down to minLevel.
// The result runs from the level of the grids down to minLevel; ancestors keep the order
// in which their first descendant appears.
func Pyramid(grids []Grid, minLevel int) ([]Level, error) {
	if len(grids) == 0 {
		return nil, nil
	}
	level := grids[0].Level
	for _, g := range grids {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if g.Level != level {
			return nil, globe.InvalidArgument("grids", g, fmt.Sprintf("level differs from %d", level))
		}
	}
	if minLevel < 0 || minLevel > level {
		return nil, globe.InvalidArgument("minLevel", minLevel, fmt.Sprintf("not in [0, %d]", level))
	}

	current := NewSet(grids...)
	result := make([]Level, 0, level-minLevel+1)
	result = append(result, Level{Level: level, Grids: current.Grids()})
	for l := level - 1; l >= minLevel; l-- {
		parents := NewSet()
		for _, g := range current.Grids() {
			parents.Add(g.Parent())
		}
		result = append(result, Level{Level: l, Grids: parents.Grids()})
		current = parents
	}
	return result, nil
}

// maxFullLevel bounds FullLevel to about a million grids.
const maxFullLevel = 10

// FullLevel is every grid of a level in row-major order.
func FullLevel(level int) ([]Grid, error) {
	if level < 0 || level > maxFullLevel {
		return nil, globe.InvalidArgument("level", level, fmt.Sprintf("not in [0, %d]", maxFullLevel))
	}
	size := SizeOf(level)
	grids := make([]Grid, 0, size*size)
	for row := 0; row < size; row++ {
		for column := 0; column < size; column++ {
			grids = append(grids, Grid{Level: level, Row: row, Column: column})
		}
	}
	return grids, nil
}
