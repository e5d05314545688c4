package camera

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/tilegrid"
)

// VisibleTile is a tile of the search result with how it projects.
type VisibleTile struct {
	tilegrid.Grid
	Info TileVisibleInfo `json:"visibleInfo"`
}

// VisibleTilesByLevel finds the renderable tiles of a level.
//
// The search starts at the tile under the vertical centre of the visible globe and walks its row
// left and right until a tile is not renderable. It repeats this for the rows below, then for the
// rows above, until a row has no renderable tile. Each walk takes at most min(LoopLimit, 2^level-1)
// steps. The visible tiles are assumed to be one region around the screen centre, which fails for
// extreme tilts near the horizon.
func (f Frame) VisibleTilesByLevel(level int) ([]VisibleTile, error) {
	if level < 0 || level > tilegrid.MaxLevel {
		return nil, globe.InvalidArgument("level", level, fmt.Sprintf("not in [0, %d]", tilegrid.MaxLevel))
	}
	center, ok := f.verticalCenter()
	if !ok {
		return nil, nil
	}
	lon, lat := globe.CartesianToGeographic(center)
	centerGrid, err := f.scheme.GridByGeo(lon, lat, level)
	if err != nil {
		return nil, err
	}

	s := search{
		frame:     f,
		size:      centerGrid.Size(),
		loopLimit: min(f.options.LoopLimit, centerGrid.Size()-1),
		found:     orderedmap.New[tilegrid.Grid, TileVisibleInfo](),
	}
	if _, err = s.row(centerGrid); err != nil {
		return nil, err
	}
	for _, direction := range [...]tilegrid.Position{tilegrid.Bottom, tilegrid.Top} {
		g := centerGrid
		for i := 0; i < s.loopLimit; i++ {
			if g, err = tilegrid.ByBrother(g, direction, s.size); err != nil {
				return nil, err
			}
			var n int
			if n, err = s.row(g); err != nil {
				return nil, err
			}
			if n == 0 {
				break
			}
		}
	}

	tiles := make([]VisibleTile, 0, s.found.Len())
	for p := s.found.Oldest(); p != nil; p = p.Next() {
		tiles = append(tiles, VisibleTile{Grid: p.Key, Info: p.Value})
	}
	return tiles, nil
}

func (c *Perspective) VisibleTilesByLevel(level int) ([]VisibleTile, error) {
	return c.Frame().VisibleTilesByLevel(level)
}

// VisibleGrids is VisibleTilesByLevel without the projections.
func (f Frame) VisibleGrids(level int) ([]tilegrid.Grid, error) {
	tiles, err := f.VisibleTilesByLevel(level)
	if err != nil {
		return nil, err
	}
	grids := make([]tilegrid.Grid, len(tiles))
	for i, t := range tiles {
		grids[i] = t.Grid
	}
	return grids, nil
}

type search struct {
	frame     Frame
	size      int
	loopLimit int
	// renderable tiles without duplicates, in the order they were found
	found *orderedmap.OrderedMap[tilegrid.Grid, TileVisibleInfo]
}

func (s *search) renderable(g tilegrid.Grid) (bool, error) {
	info, err := s.frame.TileVisibleInfo(g)
	if err != nil {
		return false, err
	}
	if !info.Renderable(s.frame.options.AreaThreshold) {
		return false, nil
	}
	s.found.Set(g, info)
	return true, nil
}

// row walks left and right from center and returns the number of renderable tiles.
// Nothing is walked when center itself is not renderable.
func (s *search) row(center tilegrid.Grid) (int, error) {
	ok, err := s.renderable(center)
	if err != nil || !ok {
		return 0, err
	}
	n := 1
	for _, direction := range [...]tilegrid.Position{tilegrid.Left, tilegrid.Right} {
		g := center
		for i := 0; i < s.loopLimit; i++ {
			if g, err = tilegrid.ByBrother(g, direction, s.size); err != nil {
				return n, err
			}
			if ok, err = s.renderable(g); err != nil {
				return n, err
			}
			if !ok {
				break
			}
			n++
		}
	}
	return n, nil
}

// verticalCenter is the globe point under the middle of the visible part of the screen centre line.
// Looking straight down that is the screen centre. ok is false when the centre ray misses the globe.
func (f Frame) verticalCenter() (globe.Vertice, bool) {
	ndcY := 0.0
	if !f.straightDown() {
		probes := f.options.CenterProbes
		delta := 2.0 / float64(probes)
		top, bottom := 1.0, -1.0
		for i := 0; i <= probes; i++ {
			y := 1 - float64(i)*delta
			if len(f.pickByNDC(0, y)) > 0 {
				top = y
				break
			}
		}
		for i := 0; i <= probes; i++ {
			y := -1 + float64(i)*delta
			if len(f.pickByNDC(0, y)) > 0 {
				bottom = y
				break
			}
		}
		ndcY = (top + bottom) / 2
	}
	hits := f.pickByNDC(0, ndcY)
	if len(hits) == 0 {
		return globe.Vertice{}, false
	}
	return hits[0], true
}
