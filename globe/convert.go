package globe

import (
	"math"

	"github.com/golang/geo/s1"

	"github.com/pdok/globetiles/mathhelp"
)

const (
	OneRadianEqualDegree = 180 / math.Pi
	OneDegreeEqualRadian = math.Pi / 180
)

func DegreeToRadian(degree float64) (float64, error) {
	if err := CheckFinite("degree", degree); err != nil {
		return 0, err
	}
	return (s1.Angle(degree) * s1.Degree).Radians(), nil
}

func RadianToDegree(radian float64) (float64, error) {
	if err := CheckFinite("radian", radian); err != nil {
		return 0, err
	}
	return s1.Angle(radian).Degrees(), nil
}

// GeographicToCartesian places lon/lat (degrees) on the surface of the model.
func (m Model) GeographicToCartesian(lon, lat float64) (Vertice, error) {
	return m.GeographicToCartesianRadius(lon, lat, m.Radius)
}

// GeographicToCartesianRadius places lon/lat (degrees) on a sphere of radius r.
func (m Model) GeographicToCartesianRadius(lon, lat, r float64) (Vertice, error) {
	if err := checkLonLat(lon, lat); err != nil {
		return Vertice{}, err
	}
	if err := CheckPositive("r", r); err != nil {
		return Vertice{}, err
	}
	return geographicToCartesian(lon, lat, r), nil
}

func geographicToCartesian(lon, lat, r float64) Vertice {
	lambda := lon * OneDegreeEqualRadian
	phi := lat * OneDegreeEqualRadian
	cosPhi := math.Cos(phi)
	return Vertice{
		X: r * math.Sin(lambda) * cosPhi,
		Y: r * math.Sin(phi),
		Z: r * math.Cos(lambda) * cosPhi,
	}
}

// CartesianToGeographic returns lon/lat in degrees of the direction of v.
// The latitude is taken against |v|, so points off the surface map to the point below them.
// The origin maps to (0, 0).
func CartesianToGeographic(v Vertice) (lon, lat float64) {
	r := v.Vector().Length()
	if r == 0 {
		return 0, 0
	}
	sinLat := mathhelp.Clamp(v.Y/r, -1, 1)
	lat = math.Asin(sinLat) * OneRadianEqualDegree

	rXZ := math.Hypot(v.X, v.Z)
	if rXZ == 0 {
		// pole
		return 0, lat
	}
	sinLon := mathhelp.Clamp(v.X/rXZ, -1, 1)
	cosLon := mathhelp.Clamp(v.Z/rXZ, -1, 1)
	lon = math.Atan2(sinLon, cosLon) * OneRadianEqualDegree
	return lon, lat
}

// DegreeGeographicToWebMercator projects lon/lat (degrees) to Web Mercator meters.
func (m Model) DegreeGeographicToWebMercator(lon, lat float64) (x, y float64, err error) {
	if err = checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	if math.Abs(lat) >= 90 {
		return 0, 0, InvalidArgument("lat", lat, "poles project to infinity")
	}
	x, y = m.radianGeographicToWebMercator(lon*OneDegreeEqualRadian, lat*OneDegreeEqualRadian)
	return x, y, nil
}

// RadianGeographicToWebMercator projects lon/lat (radians) to Web Mercator meters.
func (m Model) RadianGeographicToWebMercator(lon, lat float64) (x, y float64, err error) {
	if err = CheckFinite("lon", lon); err != nil {
		return 0, 0, err
	}
	if err = CheckFinite("lat", lat); err != nil {
		return 0, 0, err
	}
	if math.Abs(lat) >= math.Pi/2 {
		return 0, 0, InvalidArgument("lat", lat, "not in (-π/2, π/2)")
	}
	x, y = m.radianGeographicToWebMercator(lon, lat)
	return x, y, nil
}

func (m Model) radianGeographicToWebMercator(lon, lat float64) (x, y float64) {
	x = m.Radius * lon
	y = m.Radius * math.Log(math.Tan(math.Pi/4+lat/2))
	return x, y
}

// WebMercatorToDegreeGeographic is the inverse of DegreeGeographicToWebMercator.
func (m Model) WebMercatorToDegreeGeographic(x, y float64) (lon, lat float64, err error) {
	lon, lat, err = m.WebMercatorToRadianGeographic(x, y)
	if err != nil {
		return 0, 0, err
	}
	return lon * OneRadianEqualDegree, lat * OneRadianEqualDegree, nil
}

// WebMercatorToRadianGeographic is the inverse of RadianGeographicToWebMercator.
func (m Model) WebMercatorToRadianGeographic(x, y float64) (lon, lat float64, err error) {
	if err = CheckFinite("x", x); err != nil {
		return 0, 0, err
	}
	if err = CheckFinite("y", y); err != nil {
		return 0, 0, err
	}
	lon, lat = m.webMercatorToRadianGeographic(x, y)
	return lon, lat, nil
}

func (m Model) webMercatorToRadianGeographic(x, y float64) (lon, lat float64) {
	lon = x / m.Radius
	lat = 2*math.Atan(math.Exp(y/m.Radius)) - math.Pi/2
	return lon, lat
}

// WebMercatorToDegree is WebMercatorToDegreeGeographic for coordinates known to be finite.
func (m Model) WebMercatorToDegree(x, y float64) (lon, lat float64) {
	lon, lat = m.webMercatorToRadianGeographic(x, y)
	return lon * OneRadianEqualDegree, lat * OneRadianEqualDegree
}
