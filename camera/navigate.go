package camera

import (
	"errors"
	"math"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/mathhelp"
	"github.com/pdok/globetiles/tilegrid"
)

// ErrNoTarget is returned when the screen centre does not show the globe.
var ErrNoTarget = errors.New("no globe under the screen centre")

// Level is the zoom level of the camera. For a camera posed with Look or SetPosition
// it is the level whose standard altitude is nearest to the current altitude.
func (c *Perspective) Level() int {
	if c.level != unknownLevel {
		return c.level
	}
	altitude := c.Position().Vector().Length() - c.Model().Radius
	if altitude <= 0 {
		return tilegrid.MaxLevel
	}
	level := int(math.Round(math.Log2(globe.StandardAltitude / altitude)))
	return mathhelp.Clamp(level, 0, tilegrid.MaxLevel)
}

// SetLevel moves the camera along its view direction to the standard altitude of level.
// A camera still at the origin is first placed above lon 0, lat 0, looking at the globe centre.
func (c *Perspective) SetLevel(level int) error {
	wanted, err := globe.LengthFromCamera2EarthSurface(level)
	if err != nil {
		return err
	}
	eye := c.Position()
	if eye.IsOrigin() {
		position := c.LightDirection().Opposite().SetLength(c.Model().Radius + wanted).Vertice()
		if err = c.Look(position, globe.Origin(), globe.Vector{Y: 1}); err != nil {
			return err
		}
		c.level = level
		return nil
	}

	var now float64
	if c.level == unknownLevel {
		now = eye.Vector().Length() - c.Model().Radius
	} else if now, err = globe.LengthFromCamera2EarthSurface(c.level); err != nil {
		return err
	}
	delta := now - wanted
	c.pose = c.pose.WithPosition(eye.Plus(c.LightDirection().SetLength(delta)))
	if far := c.far - delta; far > c.near {
		if err = c.SetFar(far); err != nil {
			return err
		}
	}
	c.level = level
	return nil
}

// LookAtGeo places the camera at the standard altitude of level above lon/lat, looking straight
// down at the globe centre with north up.
func (c *Perspective) LookAtGeo(lon, lat float64, level int) error {
	altitude, err := globe.LengthFromCamera2EarthSurface(level)
	if err != nil {
		return err
	}
	eye, err := c.Model().GeographicToCartesianRadius(lon, lat, c.Model().Radius+altitude)
	if err != nil {
		return err
	}
	if err = c.Look(eye, globe.Origin(), north(lon, lat)); err != nil {
		return err
	}
	c.pitch = straightDown
	c.level = level
	return nil
}

// north is the unit tangent towards the north pole at lon/lat, defined at the poles as well.
func north(lon, lat float64) globe.Vector {
	lambda := lon * globe.OneDegreeEqualRadian
	phi := lat * globe.OneDegreeEqualRadian
	return globe.Vector{
		X: -math.Sin(phi) * math.Sin(lambda),
		Y: math.Cos(phi),
		Z: -math.Sin(phi) * math.Cos(lambda),
	}
}

// Tilt turns the camera around the globe point under the screen centre so that it looks at
// that point pitch degrees above the horizon, keeping the distance to it. 90 looks straight down.
func (c *Perspective) Tilt(pitch float64) error {
	if err := globe.CheckFinite("pitch", pitch); err != nil {
		return err
	}
	if pitch <= 0 || pitch > straightDown {
		return globe.InvalidArgument("pitch", pitch, "not in (0, 90]")
	}
	hits := c.Frame().pickByNDC(0, 0)
	if len(hits) == 0 {
		return ErrNoTarget
	}
	target := hits[0]
	eye := c.Position()
	distance := eye.DistanceTo(target)

	n := target.Vector().Normalize()
	// screen up flattened onto the tangent plane at the target
	y := c.pose.ColumnY()
	u := y.Minus(n.Scale(y.Dot(n)))
	if u.IsZero() {
		u = c.LightDirection().Minus(n.Scale(c.LightDirection().Dot(n)))
	}
	u = u.Normalize()
	if u.IsZero() {
		return ErrNoTarget
	}

	p := pitch * globe.OneDegreeEqualRadian
	offset := n.Scale(math.Sin(p)).Minus(u.Scale(math.Cos(p))).Scale(distance)
	up := n.Scale(math.Cos(p)).Plus(u.Scale(math.Sin(p)))
	level := c.level
	if err := c.Look(target.Plus(offset), target, up); err != nil {
		return err
	}
	c.pitch = pitch
	c.level = level
	return nil
}
