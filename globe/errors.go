package globe

import (
	"errors"
	"fmt"

	"github.com/pdok/globetiles/mathhelp"
)

// ErrInvalidArgument is matched by every InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError names the parameter a call rejected.
type InvalidArgumentError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Param, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidArgument builds an *InvalidArgumentError.
func InvalidArgument(param string, value any, reason string) error {
	return &InvalidArgumentError{Param: param, Value: value, Reason: reason}
}

// CheckFinite rejects NaN and infinities.
func CheckFinite(param string, f float64) error {
	if !mathhelp.IsFinite(f) {
		return InvalidArgument(param, f, "not a finite number")
	}
	return nil
}

// CheckPositive rejects non-finite values and values <= 0.
func CheckPositive(param string, f float64) error {
	if err := CheckFinite(param, f); err != nil {
		return err
	}
	if f <= 0 {
		return InvalidArgument(param, f, "must be positive")
	}
	return nil
}

func checkLonLat(lon, lat float64) error {
	if err := CheckFinite("lon", lon); err != nil {
		return err
	}
	if err := CheckFinite("lat", lat); err != nil {
		return err
	}
	if !mathhelp.BetweenInc(lon, -180-coordTolerance, 180+coordTolerance) {
		return InvalidArgument("lon", lon, "not in [-180, 180]")
	}
	if !mathhelp.BetweenInc(lat, -90-coordTolerance, 90+coordTolerance) {
		return InvalidArgument("lat", lat, "not in [-90, 90]")
	}
	return nil
}
