package globe

import (
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"
)

// Sector is a geographic envelope in degrees.
type Sector struct {
	MinLon float64 `json:"minLon"`
	MinLat float64 `json:"minLat"`
	MaxLon float64 `json:"maxLon"`
	MaxLat float64 `json:"maxLat"`
}

func NewSector(minLon, minLat, maxLon, maxLat float64) (Sector, error) {
	if err := checkLonLat(minLon, minLat); err != nil {
		return Sector{}, err
	}
	if err := checkLonLat(maxLon, maxLat); err != nil {
		return Sector{}, err
	}
	if minLon > maxLon {
		return Sector{}, InvalidArgument("minLon", minLon, fmt.Sprintf("greater than maxLon %v", maxLon))
	}
	if minLat > maxLat {
		return Sector{}, InvalidArgument("minLat", minLat, fmt.Sprintf("greater than maxLat %v", maxLat))
	}
	return Sector{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}, nil
}

// Center is the midpoint in degrees, not the projected centre.
func (s Sector) Center() (lon, lat float64) {
	return (s.MinLon + s.MaxLon) / 2, (s.MinLat + s.MaxLat) / 2
}

func (s Sector) Contains(lon, lat float64) bool {
	return s.MinLon <= lon && lon <= s.MaxLon && s.MinLat <= lat && lat <= s.MaxLat
}

// Corners in the order left-bottom, left-top, right-top, right-bottom as [lon, lat].
func (s Sector) Corners() [4][2]float64 {
	return [4][2]float64{
		{s.MinLon, s.MinLat},
		{s.MinLon, s.MaxLat},
		{s.MaxLon, s.MaxLat},
		{s.MaxLon, s.MinLat},
	}
}

func (s Sector) Extent() geom.Extent {
	return geom.Extent{s.MinLon, s.MinLat, s.MaxLon, s.MaxLat}
}

func (s Sector) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{s.MinLon, s.MinLat}, Max: orb.Point{s.MaxLon, s.MaxLat}}
}

// SectorFromBound is the inverse of Bound.
func SectorFromBound(b orb.Bound) (Sector, error) {
	return NewSector(b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
}
