package camera

import (
	"math"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/matrix"
	"github.com/pdok/globetiles/tilegrid"
)

// Frame is a snapshot of a camera for one frame: the pose with its matrices precomputed.
// Frames are values and safe for concurrent use.
type Frame struct {
	scheme   tilegrid.Scheme
	canvas   globe.Canvas
	options  Options
	pitch    float64
	eye      globe.Vertice
	pose     matrix.Matrix
	invProj  matrix.Matrix
	projView matrix.Matrix
}

// Frame snapshots the current pose.
func (c *Perspective) Frame() Frame {
	return Frame{
		scheme:   c.scheme,
		canvas:   c.canvas,
		options:  c.options,
		pitch:    c.pitch,
		eye:      c.Position(),
		pose:     c.pose,
		invProj:  c.invProj,
		projView: c.ProjViewMatrix(),
	}
}

// WithThreshold overrides Options.Threshold; the sign is ignored.
func (f Frame) WithThreshold(threshold float64) Frame {
	f.options.Threshold = math.Abs(threshold)
	return f
}

func (f Frame) Eye() globe.Vertice { return f.eye }
func (f Frame) ProjViewMatrix() matrix.Matrix { return f.projView }
func (f Frame) Options() Options { return f.options }
func (f Frame) Model() globe.Model { return f.scheme.Model() }
func (f Frame) Canvas() globe.Canvas { return f.canvas }
func (f Frame) Pitch() float64 { return f.pitch }
func (f Frame) straightDown() bool {
	return f.pitch == straightDown
}

func (f Frame) worldToNDC(v globe.Vertice) (globe.Vertice, bool) {
	return f.projView.TransformVertice(v)
}

// ndcToWorld undoes the perspective divide in camera space, then applies the pose.
func (f Frame) ndcToWorld(ndc globe.Vertice) (globe.Vertice, bool) {
	inCamera, ok := f.invProj.TransformVertice(ndc)
	if !ok {
		return globe.Vertice{}, false
	}
	return f.pose.TransformVertice(inCamera)
}

// PickDirectionByNDC is the unit direction from the eye through an NDC point at Options.PickDepth.
func (f Frame) PickDirectionByNDC(ndcX, ndcY float64) (globe.Vector, error) {
	if err := globe.CheckFinite("ndcX", ndcX); err != nil {
		return globe.Vector{}, err
	}
	if err := globe.CheckFinite("ndcY", ndcY); err != nil {
		return globe.Vector{}, err
	}
	return f.pickDirection(ndcX, ndcY), nil
}

func (f Frame) pickDirection(ndcX, ndcY float64) globe.Vector {
	w, ok := f.ndcToWorld(globe.Vertice{X: ndcX, Y: ndcY, Z: f.options.PickDepth})
	if !ok {
		return globe.Vector{}
	}
	return w.Minus(f.eye).Normalize()
}

// PickCartesianCoordInEarthByLine intersects l with the globe, nearest to the eye first.
func (f Frame) PickCartesianCoordInEarthByLine(l globe.Line) []globe.Vertice {
	hits := f.Model().LineIntersectPointWithEarth(l)
	if len(hits) == 2 && f.eye.DistanceTo(hits[1]) < f.eye.DistanceTo(hits[0]) {
		hits[0], hits[1] = hits[1], hits[0]
	}
	return hits
}

// PickCartesianCoordInEarthByNDC intersects the pick ray through an NDC point with the globe.
func (f Frame) PickCartesianCoordInEarthByNDC(ndcX, ndcY float64) ([]globe.Vertice, error) {
	dir, err := f.PickDirectionByNDC(ndcX, ndcY)
	if err != nil {
		return nil, err
	}
	return f.PickCartesianCoordInEarthByLine(globe.NewLine(f.eye, dir)), nil
}

func (f Frame) pickByNDC(ndcX, ndcY float64) []globe.Vertice {
	return f.PickCartesianCoordInEarthByLine(globe.NewLine(f.eye, f.pickDirection(ndcX, ndcY)))
}

// PickCartesianCoordInEarthByCanvas intersects the pick ray through a canvas pixel with the globe.
func (f Frame) PickCartesianCoordInEarthByCanvas(canvasX, canvasY float64) ([]globe.Vertice, error) {
	ndcX, ndcY, err := f.canvas.CanvasToNDC(canvasX, canvasY)
	if err != nil {
		return nil, err
	}
	return f.PickCartesianCoordInEarthByNDC(ndcX, ndcY)
}

func (c *Perspective) PickDirectionByNDC(ndcX, ndcY float64) (globe.Vector, error) {
	return c.Frame().PickDirectionByNDC(ndcX, ndcY)
}

// PickDirectionByCanvas is PickDirectionByNDC for a canvas pixel.
func (c *Perspective) PickDirectionByCanvas(canvasX, canvasY float64) (globe.Vector, error) {
	ndcX, ndcY, err := c.canvas.CanvasToNDC(canvasX, canvasY)
	if err != nil {
		return globe.Vector{}, err
	}
	return c.PickDirectionByNDC(ndcX, ndcY)
}

func (c *Perspective) PickCartesianCoordInEarthByLine(l globe.Line) []globe.Vertice {
	return c.Frame().PickCartesianCoordInEarthByLine(l)
}

func (c *Perspective) PickCartesianCoordInEarthByNDC(ndcX, ndcY float64) ([]globe.Vertice, error) {
	return c.Frame().PickCartesianCoordInEarthByNDC(ndcX, ndcY)
}

func (c *Perspective) PickCartesianCoordInEarthByCanvas(canvasX, canvasY float64) ([]globe.Vertice, error) {
	return c.Frame().PickCartesianCoordInEarthByCanvas(canvasX, canvasY)
}

// DirectionIntersectPointWithEarth is where the line of sight meets the globe, nearest first.
func (c *Perspective) DirectionIntersectPointWithEarth() []globe.Vertice {
	return c.PickCartesianCoordInEarthByLine(globe.NewLine(c.Position(), c.LightDirection()))
}

func checkVertice(param string, v globe.Vertice) error {
	for _, f := range [...]float64{v.X, v.Y, v.Z} {
		if err := globe.CheckFinite(param, f); err != nil {
			return globe.InvalidArgument(param, v, "not finite")
		}
	}
	return nil
}
