package tms20

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/slippy"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/tilegrid"
)

// ErrNotQuadtree is returned for tile matrix sets that do not tile a square spherical projection.
var ErrNotQuadtree = errors.New("tile matrix set is not a global quadtree")

// relative tolerance on extents read from documents
const extentTolerance = 1e-9

// Model derives the sphere of a quadtree tile matrix set. Tile matrix z must have 2^z by 2^z square
// tiles, numbered from the top-left corner (-K, K) of the same square [-K, K]² on every level.
// The radius is K/π.
func (tms *TileMatrixSet) Model() (globe.Model, error) {
	levels := tms.Levels()
	if len(levels) == 0 {
		return globe.Model{}, fmt.Errorf("%w: no tile matrices", ErrNotQuadtree)
	}
	var k float64
	for _, level := range levels {
		tm := tms.TileMatrices[level]
		if level < 0 || level > tilegrid.MaxLevel {
			return globe.Model{}, fmt.Errorf("%w: tile matrix %d out of range", ErrNotQuadtree, level)
		}
		if tm.CornerOfOrigin == BottomLeft {
			return globe.Model{}, fmt.Errorf("%w: tile matrix %d is numbered from the bottom", ErrNotQuadtree, level)
		}
		size := uint(tilegrid.SizeOf(level))
		if tm.MatrixWidth != size || tm.MatrixHeight != size || tm.TileWidth != tm.TileHeight {
			return globe.Model{}, fmt.Errorf("%w: tile matrix %d is not %d by %d square tiles", ErrNotQuadtree, level, size, size)
		}
		width, _ := tm.Extent()
		half := width / 2
		if k == 0 {
			k = half
		} else if !approxEqual(half, k) {
			return globe.Model{}, fmt.Errorf("%w: tile matrix %d spans %v, not %v", ErrNotQuadtree, level, width, 2*k)
		}
		if !approxEqual(tm.PointOfOrigin[0], -k) || !approxEqual(tm.PointOfOrigin[1], k) {
			return globe.Model{}, fmt.Errorf("%w: tile matrix %d has origin %v, not [%v, %v]", ErrNotQuadtree, level, tm.PointOfOrigin, -k, k)
		}
	}
	return globe.Model{Radius: k / math.Pi, MaxProjectedCoord: k}, nil
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= extentTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// Scheme is the tile scheme on the sphere of the set.
func (tms *TileMatrixSet) Scheme() (tilegrid.Scheme, error) {
	model, err := tms.Model()
	if err != nil {
		return tilegrid.Scheme{}, err
	}
	return tilegrid.NewScheme(model)
}

// MaxLevel is the deepest tile matrix.
func (tms *TileMatrixSet) MaxLevel() int {
	levels := tms.Levels()
	if len(levels) == 0 {
		return -1
	}
	return levels[len(levels)-1]
}

// Grid is the tile of a level containing pt, given in the CRS of the set.
func (tms *TileMatrixSet) Grid(level int, pt geom.Point) (tilegrid.Grid, bool) {
	if level < 0 {
		return tilegrid.Grid{}, false
	}
	tile, ok := tms.FromNative(uint(level), pt)
	if !ok {
		return tilegrid.Grid{}, false
	}
	g, err := tilegrid.FromSlippy(tile)
	return g, err == nil
}

// NativeEnvelope is the extent of g in the CRS of the set.
func (tms *TileMatrixSet) NativeEnvelope(g tilegrid.Grid) (geom.Extent, bool) {
	if g.Validate() != nil {
		return geom.Extent{}, false
	}
	z, x, y := uint(g.Level), uint(g.Column), uint(g.Row)
	topLeft, ok := tms.ToNative(slippy.NewTile(z, x, y))
	if !ok {
		return geom.Extent{}, false
	}
	bottomRight, ok := tms.ToNative(slippy.NewTile(z, x+1, y+1))
	if !ok {
		return geom.Extent{}, false
	}
	return geom.Extent{
		math.Min(topLeft[0], bottomRight[0]), math.Min(topLeft[1], bottomRight[1]),
		math.Max(topLeft[0], bottomRight[0]), math.Max(topLeft[1], bottomRight[1]),
	}, true
}
