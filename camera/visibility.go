package camera

import (
	"math"

	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/mathhelp"
	"github.com/pdok/globetiles/tilegrid"
)

// Corner is a tile corner on the globe and on screen.
type Corner struct {
	Lon     float64       `json:"lon"`
	Lat     float64       `json:"lat"`
	World   globe.Vertice `json:"-"`
	NDC     globe.Vertice `json:"ndc"`
	Visible bool          `json:"visible"`
}

// TileVisibleInfo is how a tile projects on the canvas.
type TileVisibleInfo struct {
	Sector      globe.Sector `json:"sector"`
	LeftBottom  Corner       `json:"lb"`
	LeftTop     Corner       `json:"lt"`
	RightTop    Corner       `json:"rt"`
	RightBottom Corner       `json:"rb"`
	// VisibleCount is the number of visible corners
	VisibleCount int `json:"visibleCount"`
	// Clockwise is false for quads mirrored by the projection, such as tiles wrapping behind the globe
	Clockwise bool `json:"clockwise"`
	// Width, Height and Area in pixels
	Width  int `json:"width"`
	Height int `json:"height"`
	Area   int `json:"area"`
}

// Corners in the order left-bottom, left-top, right-top, right-bottom.
func (i TileVisibleInfo) Corners() [4]Corner {
	return [4]Corner{i.LeftBottom, i.LeftTop, i.RightTop, i.RightBottom}
}

// NDCQuad is the projected corners as x, y pairs in the order of Corners.
func (i TileVisibleInfo) NDCQuad() [4][2]float64 {
	var quad [4][2]float64
	for j, c := range i.Corners() {
		quad[j] = [2]float64{c.NDC.X, c.NDC.Y}
	}
	return quad
}

// Renderable is true for a clockwise quad of at least areaThreshold pixels with a visible corner.
func (i TileVisibleInfo) Renderable(areaThreshold int) bool {
	return i.Area >= areaThreshold && i.Clockwise && i.VisibleCount >= 1
}

// NDCCenter is the mean of the projected corners.
func (i TileVisibleInfo) NDCCenter() (x, y float64) {
	for _, c := range i.Corners() {
		x += c.NDC.X
		y += c.NDC.Y
	}
	return x / 4, y / 4
}

// IsWorldVerticeVisibleInCanvas is true when v is not hidden by the globe and projects
// inside the canvas, extended Options.Threshold below the bottom edge.
func (f Frame) IsWorldVerticeVisibleInCanvas(v globe.Vertice) bool {
	ndc, ok := f.worldToNDC(v)
	return ok && f.isVisible(v, ndc)
}

func (f Frame) isVisible(v, ndc globe.Vertice) bool {
	hits := f.PickCartesianCoordInEarthByLine(globe.NewLine(f.eye, v.Minus(f.eye)))
	if len(hits) == 0 {
		return false
	}
	if f.eye.DistanceTo(v) >= f.eye.DistanceTo(hits[0])+f.options.OcclusionSlack {
		return false
	}
	return mathhelp.BetweenInc(ndc.X, -1, 1) && mathhelp.BetweenInc(ndc.Y, -f.options.Threshold, 1)
}

// IsGeoVisibleInCanvas is IsWorldVerticeVisibleInCanvas for a point on the surface.
func (f Frame) IsGeoVisibleInCanvas(lon, lat float64) (bool, error) {
	v, err := f.Model().GeographicToCartesian(lon, lat)
	if err != nil {
		return false, err
	}
	return f.IsWorldVerticeVisibleInCanvas(v), nil
}

// TileVisibleInfo projects the corners of g.
func (f Frame) TileVisibleInfo(g tilegrid.Grid) (TileVisibleInfo, error) {
	sector, err := f.scheme.GeographicEnvelope(g)
	if err != nil {
		return TileVisibleInfo{}, err
	}
	info := TileVisibleInfo{Sector: sector}
	corners := [4]*Corner{&info.LeftBottom, &info.LeftTop, &info.RightTop, &info.RightBottom}
	projected := true
	for i, lonLat := range sector.Corners() {
		c := corners[i]
		c.Lon, c.Lat = lonLat[0], lonLat[1]
		if c.World, err = f.Model().GeographicToCartesian(c.Lon, c.Lat); err != nil {
			return TileVisibleInfo{}, err
		}
		var ok bool
		if c.NDC, ok = f.worldToNDC(c.World); !ok {
			projected = false
			continue
		}
		c.Visible = f.isVisible(c.World, c.NDC)
		info.VisibleCount += mathhelp.Bool2int(c.Visible)
	}
	if !projected {
		return info, nil
	}

	lb, lt, rt, rb := info.LeftBottom.NDC, info.LeftTop.NDC, info.RightTop.NDC, info.RightBottom.NDC
	// z of (rb - lb) × (lt - lb)
	info.Clockwise = (rb.X-lb.X)*(lt.Y-lb.Y)-(rb.Y-lb.Y)*(lt.X-lb.X) > 0

	halfWidth, halfHeight := f.canvas.Width/2, f.canvas.Height/2
	top := math.Hypot(lt.X-rt.X, lt.Y-rt.Y) * halfWidth
	bottom := math.Hypot(lb.X-rb.X, lb.Y-rb.Y) * halfWidth
	left := math.Hypot(lb.X-lt.X, lb.Y-lt.Y) * halfHeight
	right := math.Hypot(rt.X-rb.X, rt.Y-rb.Y) * halfHeight
	info.Width = int(math.Floor((top + bottom) / 2))
	info.Height = int(math.Floor((left + right) / 2))
	info.Area = info.Width * info.Height
	return info, nil
}

func (c *Perspective) IsWorldVerticeVisibleInCanvas(v globe.Vertice) bool {
	return c.Frame().IsWorldVerticeVisibleInCanvas(v)
}

func (c *Perspective) IsGeoVisibleInCanvas(lon, lat float64) (bool, error) {
	return c.Frame().IsGeoVisibleInCanvas(lon, lat)
}

func (c *Perspective) TileVisibleInfo(g tilegrid.Grid) (TileVisibleInfo, error) {
	return c.Frame().TileVisibleInfo(g)
}
