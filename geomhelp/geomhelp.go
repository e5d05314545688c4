package geomhelp

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"

	"github.com/pdok/globetiles/globe"
)

// https://en.wikipedia.org/wiki/Shoelace_formula
func Shoelace(pts [][2]float64) float64 {
	sum := 0.
	if len(pts) == 0 {
		return 0.
	}

	p0 := pts[len(pts)-1]
	for _, p1 := range pts {
		sum += p0[1]*p1[0] - p0[0]*p1[1]
		p0 = p1
	}
	return math.Abs(sum / 2)
}

// SectorPolygon is the outline of a sector in lon/lat, counterclockwise from the left-bottom corner.
func SectorPolygon(s globe.Sector) geom.Polygon {
	c := s.Corners()
	// corners run clockwise, the ring runs the other way
	return geom.Polygon{{c[0], c[3], c[2], c[1]}}
}

// QuadPolygon is a ring of four points in the given order.
func QuadPolygon(quad [4][2]float64) geom.Polygon {
	return geom.Polygon{{quad[0], quad[1], quad[2], quad[3]}}
}

// WktMustEncode truncates the WKT to maxLen characters, 0 means no limit.
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	s := wkt.MustEncode(g)
	if maxLen == 0 || uint(len(s)) <= maxLen {
		return s
	}
	return truncate.StringWithTail(s, maxLen, "...")
}

func WktMustEncodeSlice(geoms []geom.Polygon, maxLen uint) string {
	s := ""
	for i := range geoms {
		s += WktMustEncode(geoms[i], maxLen) + "\n"
	}
	return s
}
