package geomhelp

import (
	"strings"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/stretchr/testify/assert"

	"github.com/pdok/globetiles/globe"
)

func TestShoelace(t *testing.T) {
	tests := []struct {
		name string
		pts  [][2]float64
		want float64
	}{
		{name: "empty", pts: nil, want: 0},
		{name: "unit square", pts: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, want: 1},
		{name: "unit square clockwise", pts: [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, want: 1},
		{name: "triangle", pts: [][2]float64{{0, 0}, {4, 0}, {0, 3}}, want: 6},
		{name: "trapezoid", pts: [][2]float64{{-1, -1}, {1, -1}, {0.5, 1}, {-0.5, 1}}, want: 3},
		{name: "collapsed", pts: [][2]float64{{0, 0}, {1, 1}, {2, 2}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Shoelace(tt.pts), 1e-12)
		})
	}
}

func TestSectorPolygon(t *testing.T) {
	s, err := globe.NewSector(0, -10, 20, 30)
	assert.NoError(t, err)
	p := SectorPolygon(s)
	assert.Equal(t, geom.Polygon{{{0, -10}, {20, -10}, {20, 30}, {0, 30}}}, p)
	assert.InDelta(t, 800, Shoelace(p[0]), 1e-12)
}

func TestQuadPolygon(t *testing.T) {
	quad := [4][2]float64{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}
	p := QuadPolygon(quad)
	assert.Len(t, p, 1)
	assert.Equal(t, [][2]float64{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}, p[0])
	assert.InDelta(t, 4, Shoelace(p[0]), 1e-12)
}

func TestWktMustEncode(t *testing.T) {
	p := geom.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	full := WktMustEncode(p, 0)
	assert.True(t, strings.HasPrefix(full, "POLYGON"), full)

	short := WktMustEncode(p, 12)
	assert.LessOrEqual(t, len(short), 12)
	assert.True(t, strings.HasSuffix(short, "..."), short)

	assert.Equal(t, full, WktMustEncode(p, uint(len(full))))

	lines := strings.Split(strings.TrimSuffix(WktMustEncodeSlice([]geom.Polygon{p, p}, 0), "\n"), "\n")
	assert.Equal(t, []string{full, full}, lines)
}
