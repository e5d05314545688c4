package processing

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Pose is one camera placement: above Lon/Lat at the standard altitude of Level,
// tilted to Pitch degrees above the horizon.
type Pose struct {
	ID    string  `json:"id,omitempty"`
	Lon   float64 `json:"lon" validate:"gte=-180,lte=180"`
	Lat   float64 `json:"lat" validate:"gte=-90,lte=90"`
	Level int     `json:"level" default:"3" validate:"gte=0,lte=30"`
	Pitch float64 `json:"pitch" default:"90" validate:"gt=0,lte=90"`
	// SearchLevel searches one level instead of making a render plan
	SearchLevel *int `json:"searchLevel,omitempty" validate:"omitnil,gte=0,lte=30"`

	// unknown keys of the document, echoed in the result
	Extra map[string]interface{} `json:"-"`

	line int
	err  error
}

// NewPose is a pose with the defaults filled in.
func NewPose(id string, lon, lat float64) Pose {
	p := Pose{ID: id, Lon: lon, Lat: lat}
	if err := defaults.Set(&p); err != nil {
		panic(err)
	}
	return p
}

func (p *Pose) UnmarshalJSON(data []byte) error {
	if err := defaults.Set(p); err != nil {
		return err
	}
	extra, err := marshmallow.Unmarshal(data, p, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	return p.Validate()
}

func (p Pose) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid pose %q: %w", p.ID, err)
	}
	return nil
}

// Line is the line of the pose in its source, 0 when it did not come from a file.
func (p Pose) Line() int {
	return p.line
}
