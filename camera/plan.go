package camera

import (
	"math"

	"github.com/umpc/go-sortedmap"

	"github.com/pdok/globetiles/mapslicehelp"
	"github.com/pdok/globetiles/tilegrid"
)

// Plan is what a globe renders for one camera pose.
type Plan struct {
	// Level is the camera level, capped by PlanOptions.MaxLevel
	Level int `json:"level"`
	// SearchLevel is the level the visible tiles were searched at
	SearchLevel int     `json:"searchLevel"`
	Threshold   float64 `json:"threshold"`
	// Tiles are the visible tiles at SearchLevel
	Tiles []VisibleTile `json:"tiles"`
	// Levels are the visible tiles and their ancestors, shallowest level first
	Levels []tilegrid.Level `json:"levels"`
	// Pinned is the level that is always kept in full
	Pinned tilegrid.Level `json:"pinned"`
}

// Grids of all levels without the pinned level, shallowest level first.
func (p Plan) Grids() []tilegrid.Grid {
	var grids []tilegrid.Grid
	for _, l := range p.Levels {
		grids = append(grids, l.Grids...)
	}
	return grids
}

// RenderPlan searches the visible tiles a few levels below the camera level and collapses
// them into their ancestors. The more the camera is tilted, the further below the canvas
// corners count as visible.
func (c *Perspective) RenderPlan(o PlanOptions) (Plan, error) {
	if err := o.Validate(); err != nil {
		return Plan{}, err
	}
	level := min(c.Level(), o.MaxLevel)
	searchLevel := min(level+o.LevelOffset, tilegrid.MaxLevel)
	threshold := min(straightDown/c.pitch, o.MaxThreshold)

	pinned, err := tilegrid.FullLevel(o.PinnedLevel)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{
		Level:       level,
		SearchLevel: searchLevel,
		Threshold:   threshold,
		Pinned:      tilegrid.Level{Level: o.PinnedLevel, Grids: pinned},
	}

	if plan.Tiles, err = c.Frame().WithThreshold(threshold).VisibleTilesByLevel(searchLevel); err != nil {
		return Plan{}, err
	}
	grids := make([]tilegrid.Grid, len(plan.Tiles))
	for i, t := range plan.Tiles {
		grids[i] = t.Grid
	}
	levels, err := tilegrid.Pyramid(grids, min(o.MinLevel, searchLevel))
	if err != nil {
		return Plan{}, err
	}
	plan.Levels = mapslicehelp.ReverseClone(levels)
	return plan, nil
}

type priority struct {
	distance float64
	index    int
}

// Prioritize orders tiles by the distance of their projected centre to the screen centre,
// nearest first. Tiles at the same distance keep their order.
func Prioritize(tiles []VisibleTile) []VisibleTile {
	byDistance := sortedmap.New(len(tiles), func(x, y interface{}) bool {
		a, b := x.(priority), y.(priority)
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.index < b.index
	})
	for i, t := range tiles {
		x, y := t.Info.NDCCenter()
		byDistance.Insert(i, priority{distance: math.Hypot(x, y), index: i})
	}
	ordered := make([]VisibleTile, 0, len(tiles))
	for _, key := range byDistance.Keys() {
		ordered = append(ordered, tiles[key.(int)])
	}
	return ordered
}
