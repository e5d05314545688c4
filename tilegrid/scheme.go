package tilegrid

import (
	"math"

	"github.com/go-spatial/geom"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/mathhelp"
)

// Scheme lays the pyramid over the projected square [-K,K]² of a globe model.
type Scheme struct {
	model globe.Model
}

// WebMercator is the scheme of EPSG:3857 on the Earth sphere.
func WebMercator() Scheme {
	return Scheme{model: globe.Earth()}
}

func NewScheme(model globe.Model) (Scheme, error) {
	if err := model.Validate(); err != nil {
		return Scheme{}, err
	}
	return Scheme{model: model}, nil
}

func (s Scheme) Model() globe.Model {
	return s.model
}

// cellSize is the projected width of a tile at a level.
func (s Scheme) cellSize(level int) float64 {
	return 2 * s.model.MaxProjectedCoord / float64(SizeOf(level))
}

// WebMercatorEnvelope is the projected extent of g: row 0 touches +K, column 0 touches -K.
func (s Scheme) WebMercatorEnvelope(g Grid) (geom.Extent, error) {
	if err := g.Validate(); err != nil {
		return geom.Extent{}, err
	}
	return s.webMercatorEnvelope(g), nil
}

func (s Scheme) webMercatorEnvelope(g Grid) geom.Extent {
	k := s.model.MaxProjectedCoord
	size := s.cellSize(g.Level)
	minX := -k + float64(g.Column)*size
	maxY := k - float64(g.Row)*size
	return geom.Extent{minX, maxY - size, minX + size, maxY}
}

// GeographicEnvelope is the extent of g in degrees.
func (s Scheme) GeographicEnvelope(g Grid) (globe.Sector, error) {
	if err := g.Validate(); err != nil {
		return globe.Sector{}, err
	}
	return s.geographicEnvelope(g), nil
}

func (s Scheme) geographicEnvelope(g Grid) globe.Sector {
	e := s.webMercatorEnvelope(g)
	minLon, minLat := s.model.WebMercatorToDegree(e[0], e[1])
	maxLon, maxLat := s.model.WebMercatorToDegree(e[2], e[3])
	return globe.Sector{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// CartesianEnvelope is the geographic envelope of a tile with its corners on the sphere.
type CartesianEnvelope struct {
	globe.Sector
	LeftBottom  globe.Vertice
	LeftTop     globe.Vertice
	RightTop    globe.Vertice
	RightBottom globe.Vertice
}

func (s Scheme) CartesianEnvelope(g Grid) (CartesianEnvelope, error) {
	sector, err := s.GeographicEnvelope(g)
	if err != nil {
		return CartesianEnvelope{}, err
	}
	corners := [4]globe.Vertice{}
	for i, c := range sector.Corners() {
		corners[i], err = s.model.GeographicToCartesian(c[0], c[1])
		if err != nil {
			return CartesianEnvelope{}, err
		}
	}
	return CartesianEnvelope{
		Sector:      sector,
		LeftBottom:  corners[0],
		LeftTop:     corners[1],
		RightTop:    corners[2],
		RightBottom: corners[3],
	}, nil
}

// GeographicCenter is the projected centre of g in degrees.
func (s Scheme) GeographicCenter(g Grid) (lon, lat float64, err error) {
	if err = g.Validate(); err != nil {
		return 0, 0, err
	}
	e := s.webMercatorEnvelope(g)
	lon, lat = s.model.WebMercatorToDegree((e[0]+e[2])/2, (e[1]+e[3])/2)
	return lon, lat, nil
}

// CartesianCenter is the GeographicCenter on the sphere.
func (s Scheme) CartesianCenter(g Grid) (globe.Vertice, error) {
	lon, lat, err := s.GeographicCenter(g)
	if err != nil {
		return globe.Vertice{}, err
	}
	return s.model.GeographicToCartesian(lon, lat)
}

// GridByGeo is the tile at level containing lon/lat. Points beyond the projected square,
// such as the poles and lon = 180, fall in the nearest edge tile.
func (s Scheme) GridByGeo(lon, lat float64, level int) (Grid, error) {
	if err := globe.CheckFinite("lon", lon); err != nil {
		return Grid{}, err
	}
	if err := globe.CheckFinite("lat", lat); err != nil {
		return Grid{}, err
	}
	if !mathhelp.BetweenInc(lon, -180, 180) {
		return Grid{}, globe.InvalidArgument("lon", lon, "not in [-180, 180]")
	}
	if !mathhelp.BetweenInc(lat, -90, 90) {
		return Grid{}, globe.InvalidArgument("lat", lat, "not in [-90, 90]")
	}
	if level < 0 || level > MaxLevel {
		return Grid{}, globe.InvalidArgument("level", level, "not a valid level")
	}
	k := s.model.MaxProjectedCoord
	lambda := lon * globe.OneDegreeEqualRadian
	phi := lat * globe.OneDegreeEqualRadian
	x := mathhelp.Clamp(s.model.Radius*lambda, -k, k)
	y := mathhelp.Clamp(s.model.Radius*math.Log(math.Tan(math.Pi/4+phi/2)), -k, k)

	size := s.cellSize(level)
	last := SizeOf(level) - 1
	row := mathhelp.Clamp(int(math.Floor((k-y)/size)), 0, last)
	column := mathhelp.Clamp(int(math.Floor((x+k)/size)), 0, last)
	return Grid{Level: level, Row: row, Column: column}, nil
}
