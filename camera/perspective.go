// Package camera is a perspective camera around a globe. It converts between world, camera,
// NDC and canvas space, casts pick rays against the globe and searches the quadtree tiles
// it sees.
//
// A Perspective is not safe for concurrent use. Snapshot it with Frame to share a pose
// between goroutines.
package camera

import (
	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/matrix"
	"github.com/pdok/globetiles/tilegrid"
)

const straightDown = 90.0

// unknownLevel marks a camera that was posed without SetLevel or LookAtGeo.
const unknownLevel = -1

// Perspective owns a projection and a pose (camera to world) matrix.
type Perspective struct {
	fov, aspect, near, far float64
	proj, invProj          matrix.Matrix
	pose                   matrix.Matrix

	// pitch in degrees, 90 is looking straight down
	pitch float64
	level int

	scheme  tilegrid.Scheme
	canvas  globe.Canvas
	options Options
}

// New builds a camera at the world origin with the default canvas and options,
// looking along -Z. fov is the vertical field of view in degrees.
func New(fov, aspect, near, far float64) (*Perspective, error) {
	cfg := DefaultConfig()
	c := &Perspective{
		pose:    matrix.Identity(),
		pitch:   straightDown,
		level:   unknownLevel,
		scheme:  tilegrid.WebMercator(),
		canvas:  cfg.Canvas,
		options: cfg.Options,
	}
	if err := c.SetPerspectiveMatrix(fov, aspect, near, far); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromConfig builds a camera for cfg.Canvas, its aspect taken from the canvas.
func NewFromConfig(cfg Config, scheme tilegrid.Scheme) (*Perspective, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := scheme.Model().Validate(); err != nil {
		return nil, err
	}
	c, err := New(cfg.Fov, cfg.Canvas.Aspect(), cfg.Near, cfg.Far)
	if err != nil {
		return nil, err
	}
	c.scheme = scheme
	c.canvas = cfg.Canvas
	c.options = cfg.Options
	return c, nil
}

// SetPerspectiveMatrix rebuilds the projection. far must exceed near.
func (c *Perspective) SetPerspectiveMatrix(fov, aspect, near, far float64) error {
	if err := globe.CheckPositive("fov", fov); err != nil {
		return err
	}
	if fov >= 180 {
		return globe.InvalidArgument("fov", fov, "must be less than 180")
	}
	if err := globe.CheckPositive("aspect", aspect); err != nil {
		return err
	}
	if err := globe.CheckPositive("near", near); err != nil {
		return err
	}
	if err := globe.CheckPositive("far", far); err != nil {
		return err
	}
	if far <= near {
		return globe.InvalidArgument("far", far, "must be greater than near")
	}
	proj := matrix.Perspective(fov, aspect, near, far)
	invProj, ok := proj.Inverse()
	if !ok {
		return globe.InvalidArgument("fov", fov, "gives a singular projection")
	}
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.proj, c.invProj = proj, invProj
	return nil
}

func (c *Perspective) SetFov(fov float64) error {
	return c.SetPerspectiveMatrix(fov, c.aspect, c.near, c.far)
}

func (c *Perspective) SetAspect(aspect float64) error {
	return c.SetPerspectiveMatrix(c.fov, aspect, c.near, c.far)
}

func (c *Perspective) SetNear(near float64) error {
	return c.SetPerspectiveMatrix(c.fov, c.aspect, near, c.far)
}

func (c *Perspective) SetFar(far float64) error {
	return c.SetPerspectiveMatrix(c.fov, c.aspect, c.near, far)
}

// SetCanvas also sets the aspect to that of the canvas.
func (c *Perspective) SetCanvas(canvas globe.Canvas) error {
	if err := validate.Struct(canvas); err != nil {
		return globe.InvalidArgument("canvas", canvas, err.Error())
	}
	if err := c.SetAspect(canvas.Aspect()); err != nil {
		return err
	}
	c.canvas = canvas
	return nil
}

func (c *Perspective) SetOptions(o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	c.options = o
	return nil
}

func (c *Perspective) Fov() float64 { return c.fov }
func (c *Perspective) Aspect() float64 { return c.aspect }
func (c *Perspective) Near() float64 { return c.near }
func (c *Perspective) Far() float64 { return c.far }
func (c *Perspective) Pitch() float64 { return c.pitch }
func (c *Perspective) Canvas() globe.Canvas { return c.canvas }
func (c *Perspective) Options() Options { return c.options }
func (c *Perspective) Model() globe.Model { return c.scheme.Model() }
func (c *Perspective) Scheme() tilegrid.Scheme { return c.scheme }

func (c *Perspective) ProjMatrix() matrix.Matrix { return c.proj }

// Pose is the camera to world matrix.
func (c *Perspective) Pose() matrix.Matrix { return c.pose }

// ViewMatrix is the world to camera matrix, the inverse of the pose.
func (c *Perspective) ViewMatrix() matrix.Matrix {
	return c.pose.RigidInverse()
}

// ProjViewMatrix is projection·view, computed on every call.
func (c *Perspective) ProjViewMatrix() matrix.Matrix {
	return c.proj.Mul(c.ViewMatrix())
}

func (c *Perspective) Position() globe.Vertice {
	return c.pose.Position()
}

// SetPosition moves the camera without turning it.
func (c *Perspective) SetPosition(p globe.Vertice) {
	c.pose = c.pose.WithPosition(p)
	c.level = unknownLevel
}

// LightDirection is the unit view direction, the -Z axis of the camera.
func (c *Perspective) LightDirection() globe.Vector {
	return c.pose.ColumnZ().Opposite().Normalize()
}

// PlanXOZ is the plane through the camera perpendicular to the view direction.
func (c *Perspective) PlanXOZ() (globe.Plan, bool) {
	return globe.CrossPlaneByLine(c.Position(), c.LightDirection())
}

// Look places the camera at eye looking at target, with up as the approximate screen up.
// The far plane is set to the distance from eye to target.
func (c *Perspective) Look(eye, target globe.Vertice, up globe.Vector) error {
	for _, p := range []struct {
		name string
		v    globe.Vertice
	}{{"eye", eye}, {"target", target}, {"up", up.Vertice()}} {
		if err := checkVertice(p.name, p.v); err != nil {
			return err
		}
	}
	toEye := eye.Minus(target)
	distance := toEye.Length()
	if distance == 0 {
		return globe.InvalidArgument("target", target, "coincides with the eye")
	}
	zAxis := toEye.Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	if xAxis.IsZero() {
		return globe.InvalidArgument("up", up, "is parallel to the view direction")
	}
	yAxis := zAxis.Cross(xAxis).Normalize()
	if distance > c.near {
		if err := c.SetFar(distance); err != nil {
			return err
		}
	}
	c.pose = matrix.FromBasis(xAxis, yAxis, zAxis, eye)
	c.level = unknownLevel
	return nil
}

// LookAt turns the camera in place towards target.
func (c *Perspective) LookAt(target globe.Vertice, up globe.Vector) error {
	return c.Look(c.Position(), target, up)
}

// ConvertVerticeFromWorldToNDC projects v; ok is false for a point in the camera plane.
func (c *Perspective) ConvertVerticeFromWorldToNDC(v globe.Vertice) (globe.Vertice, bool) {
	return c.ProjViewMatrix().TransformVertice(v)
}

// ConvertVerticeFromNDCToWorld unprojects an NDC point.
func (c *Perspective) ConvertVerticeFromNDCToWorld(ndc globe.Vertice) (globe.Vertice, bool) {
	return c.Frame().ndcToWorld(ndc)
}

func (c *Perspective) ConvertVerticeFromCameraToWorld(v globe.Vertice) globe.Vertice {
	w, _ := c.pose.TransformVertice(v)
	return w
}

// ConvertVectorFromCameraToWorld turns a camera space direction into a unit world direction.
func (c *Perspective) ConvertVectorFromCameraToWorld(d globe.Vector) globe.Vector {
	return c.pose.TransformVector(d).Normalize()
}

// ConvertVerticeFromWorldToCanvas projects v to canvas pixels.
func (c *Perspective) ConvertVerticeFromWorldToCanvas(v globe.Vertice) (x, y float64, ok bool) {
	ndc, ok := c.ConvertVerticeFromWorldToNDC(v)
	if !ok {
		return 0, 0, false
	}
	x, y, err := c.canvas.NDCToCanvas(ndc.X, ndc.Y)
	return x, y, err == nil
}
