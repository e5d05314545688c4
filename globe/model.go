// Package globe holds the coordinate math of a spherical globe: geographic, Cartesian,
// Web Mercator and normalized device coordinates, and the ray/plane geometry between them.
//
// The Cartesian space is centred on the globe with Y as the polar axis:
// x = r·sin(lon)·cos(lat), y = r·sin(lat), z = r·cos(lon)·cos(lat).
package globe

import (
	"math"
)

const (
	// EarthRadius in meters, the sphere used by spherical Web Mercator.
	EarthRadius = 6378137.0
	// StandardAltitude is the camera height above the surface at level 0, halved for every level.
	StandardAltitude = 7820683.0

	// accepted overshoot of geographic coordinates
	coordTolerance = 0.001
)

// MaxMercatorLatitude is the latitude where the Web Mercator square ends.
var MaxMercatorLatitude = math.Atan(math.Sinh(math.Pi)) * 180 / math.Pi

// Model is the body the globe renders.
type Model struct {
	// Radius of the sphere in meters
	Radius float64 `json:"radius" validate:"gt=0"`
	// MaxProjectedCoord is K, half the extent of the projected square [-K,K]²
	MaxProjectedCoord float64 `json:"maxProjectedCoord" validate:"gt=0"`
}

// Earth is the WGS84 sphere of EPSG:3857.
func Earth() Model {
	return Model{Radius: EarthRadius, MaxProjectedCoord: math.Pi * EarthRadius}
}

// NewModel returns the model of a sphere with the given radius, projected with K = π·radius.
func NewModel(radius float64) (Model, error) {
	if err := CheckPositive("radius", radius); err != nil {
		return Model{}, err
	}
	return Model{Radius: radius, MaxProjectedCoord: math.Pi * radius}, nil
}

func (m Model) Validate() error {
	if err := CheckPositive("radius", m.Radius); err != nil {
		return err
	}
	return CheckPositive("maxProjectedCoord", m.MaxProjectedCoord)
}

// LengthFromCamera2EarthSurface is the standard camera altitude above the surface for a level.
func LengthFromCamera2EarthSurface(level int) (float64, error) {
	if level < 0 {
		return 0, InvalidArgument("level", level, "must not be negative")
	}
	return StandardAltitude / math.Pow(2, float64(level)), nil
}
