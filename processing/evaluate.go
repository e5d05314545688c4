package processing

import (
	"github.com/go-spatial/geom"

	"github.com/pdok/globetiles/camera"
	"github.com/pdok/globetiles/geomhelp"
	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/tilegrid"
	"github.com/pdok/globetiles/tms20"
)

// Tile is one visible tile of a result.
type Tile struct {
	tilegrid.Grid
	Quadkey       string       `json:"quadkey"`
	Sector        globe.Sector `json:"sector"`
	VisibleCorner int          `json:"visibleCorners"`
	// PixelArea is the exact area of the projected quad, the search uses a bounding box
	PixelArea float64 `json:"pixelArea"`
	// Native is the extent in the CRS of the tile matrix set, if one was given
	Native *geom.Extent `json:"native,omitempty"`
}

// Result is the outcome of one pose.
type Result struct {
	Line  int                    `json:"line,omitempty"`
	Pose  Pose                   `json:"pose"`
	Extra map[string]interface{} `json:"extra,omitempty"`
	// Plan is absent when the pose asked for a single search level
	Plan *PlanSummary `json:"plan,omitempty"`
	// Tiles nearest to the screen centre first
	Tiles []Tile `json:"tiles"`
	Error string `json:"error,omitempty"`
}

// PlanSummary is a render plan without the per-tile projection details.
type PlanSummary struct {
	Level       int              `json:"level"`
	SearchLevel int              `json:"searchLevel"`
	Threshold   float64          `json:"threshold"`
	Levels      []tilegrid.Level `json:"levels"`
	Pinned      tilegrid.Level   `json:"pinned"`
}

// Evaluator turns poses into results. It holds no camera, so one evaluator serves all workers.
type Evaluator struct {
	Config camera.Config
	Plan   camera.PlanOptions
	Scheme tilegrid.Scheme
	// TileMatrixSet adds native extents to the tiles, optional
	TileMatrixSet *tms20.TileMatrixSet
}

func NewEvaluator(cfg camera.Config, plan camera.PlanOptions, tms *tms20.TileMatrixSet) (Evaluator, error) {
	e := Evaluator{Config: cfg, Plan: plan, Scheme: tilegrid.WebMercator(), TileMatrixSet: tms}
	if tms != nil {
		scheme, err := tms.Scheme()
		if err != nil {
			return Evaluator{}, err
		}
		e.Scheme = scheme
	}
	if err := cfg.Validate(); err != nil {
		return Evaluator{}, err
	}
	if err := plan.Validate(); err != nil {
		return Evaluator{}, err
	}
	return e, nil
}

func (e Evaluator) NewCamera() (*camera.Perspective, error) {
	return camera.NewFromConfig(e.Config, e.Scheme)
}

// Evaluate poses c as p and collects the visible tiles. Errors end up in the result.
func (e Evaluator) Evaluate(c *camera.Perspective, p Pose) Result {
	result := Result{Line: p.line, Pose: p, Extra: p.Extra, Tiles: []Tile{}}
	if p.err != nil {
		result.Error = p.err.Error()
		return result
	}
	tiles, plan, err := e.search(c, p)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Plan = plan
	canvas := c.Canvas()
	for _, t := range camera.Prioritize(tiles) {
		quad := t.Info.NDCQuad()
		tile := Tile{
			Grid:          t.Grid,
			Quadkey:       t.Quadkey(),
			Sector:        t.Info.Sector,
			VisibleCorner: t.Info.VisibleCount,
			PixelArea:     geomhelp.Shoelace(quad[:]) * canvas.Width / 2 * canvas.Height / 2,
		}
		if e.TileMatrixSet != nil {
			if extent, ok := e.TileMatrixSet.NativeEnvelope(t.Grid); ok {
				tile.Native = &extent
			}
		}
		result.Tiles = append(result.Tiles, tile)
	}
	return result
}

func (e Evaluator) search(c *camera.Perspective, p Pose) ([]camera.VisibleTile, *PlanSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if err := c.LookAtGeo(p.Lon, p.Lat, p.Level); err != nil {
		return nil, nil, err
	}
	if p.Pitch != 90 {
		if err := c.Tilt(p.Pitch); err != nil {
			return nil, nil, err
		}
	}
	if p.SearchLevel != nil {
		tiles, err := c.VisibleTilesByLevel(*p.SearchLevel)
		return tiles, nil, err
	}
	plan, err := c.RenderPlan(e.Plan)
	if err != nil {
		return nil, nil, err
	}
	return plan.Tiles, &PlanSummary{
		Level:       plan.Level,
		SearchLevel: plan.SearchLevel,
		Threshold:   plan.Threshold,
		Levels:      plan.Levels,
		Pinned:      plan.Pinned,
	}, nil
}
