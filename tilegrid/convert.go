package tilegrid

import (
	"github.com/go-spatial/geom/slippy"
	"github.com/paulmach/orb/maptile"
)

func (g Grid) Slippy() *slippy.Tile {
	return slippy.NewTile(uint(g.Level), uint(g.Column), uint(g.Row))
}

func FromSlippy(t *slippy.Tile) (Grid, error) {
	return New(int(t.Z), int(t.Y), int(t.X))
}

func (g Grid) Maptile() maptile.Tile {
	return maptile.New(uint32(g.Column), uint32(g.Row), maptile.Zoom(g.Level))
}

func FromMaptile(t maptile.Tile) (Grid, error) {
	return New(int(t.Z), int(t.Y), int(t.X))
}
