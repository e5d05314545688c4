package camera

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/pdok/globetiles/globe"
)

// Tunables of the visibility search.
const (
	// Threshold is how far below the canvas (in NDC) a corner still counts as visible.
	Threshold = 1.0
	// AreaThreshold is the smallest projected tile area in pixels worth rendering.
	AreaThreshold = 5000
	// LoopLimit bounds the steps of the search in each direction.
	LoopLimit = 10
	// OcclusionSlack in meters before a point counts as behind the globe.
	OcclusionSlack = 5.0
	// PickDepth is the NDC depth at which pick rays are unprojected. An approximation of mid-frustum.
	PickDepth = 0.499
	// CenterProbes is the number of steps when probing the screen centre line for the globe.
	CenterProbes = 10
)

// Options tune the visibility search.
type Options struct {
	Threshold      float64 `json:"threshold" default:"1" validate:"gt=0"`
	AreaThreshold  int     `json:"areaThreshold" default:"5000" validate:"gte=0"`
	LoopLimit      int     `json:"loopLimit" default:"10" validate:"gte=0"`
	OcclusionSlack float64 `json:"occlusionSlack" default:"5" validate:"gte=0"`
	PickDepth      float64 `json:"pickDepth" default:"0.499" validate:"gt=-1,lt=1"`
	CenterProbes   int     `json:"centerProbes" default:"10" validate:"gt=0"`
}

// Config is what a camera is built from.
type Config struct {
	// Fov is the vertical field of view in degrees
	Fov     float64      `json:"fov" default:"30" validate:"gt=0,lt=180"`
	Near    float64      `json:"near" default:"1" validate:"gt=0"`
	Far     float64      `json:"far" default:"20000000" validate:"gtfield=Near"`
	Canvas  globe.Canvas `json:"canvas"`
	Options Options      `json:"options"`
}

// PlanOptions tune RenderPlan.
type PlanOptions struct {
	// LevelOffset is added to the camera level to get the search level
	LevelOffset int `json:"levelOffset" default:"3" validate:"gte=0"`
	// MinLevel is the shallowest level of the pyramid
	MinLevel int `json:"minLevel" default:"2" validate:"gte=0"`
	// MaxLevel caps the camera level
	MaxLevel int `json:"maxLevel" default:"15" validate:"gte=0,lte=27"`
	// PinnedLevel is always carried in full
	PinnedLevel int `json:"pinnedLevel" default:"1" validate:"gte=0,lte=10"`
	// MaxThreshold caps 90/pitch
	MaxThreshold float64 `json:"maxThreshold" default:"1.5" validate:"gte=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func DefaultOptions() Options {
	var o Options
	mustSetDefaults(&o)
	return o
}

func DefaultConfig() Config {
	var c Config
	mustSetDefaults(&c)
	return c
}

func DefaultPlanOptions() PlanOptions {
	var o PlanOptions
	mustSetDefaults(&o)
	return o
}

func mustSetDefaults(ptr any) {
	if err := defaults.Set(ptr); err != nil {
		panic(err)
	}
}

func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid camera options: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid camera config: %w", err)
	}
	return nil
}

func (o PlanOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid plan options: %w", err)
	}
	return nil
}
