package grid

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
)

// Region is a rectangular query window given by its center and its extent on both axes, as used by most map
// viewports.
type Region struct {
	Latitude       float64
	Longitude      float64
	LatitudeDelta  float64
	LongitudeDelta float64
}

func NewRegion(latitude float64, longitude float64, latitudeDelta float64, longitudeDelta float64) Region {
	return Region{
		Latitude:       latitude,
		Longitude:      longitude,
		LatitudeDelta:  latitudeDelta,
		LongitudeDelta: longitudeDelta,
	}
}

func (r Region) MinLat() float64 { return r.Latitude - r.LatitudeDelta/2 }

func (r Region) MaxLat() float64 { return r.Latitude + r.LatitudeDelta/2 }

func (r Region) MinLon() float64 { return r.Longitude - r.LongitudeDelta/2 }

func (r Region) MaxLon() float64 { return r.Longitude + r.LongitudeDelta/2 }

// Bound returns the region as bounding box. Note that orb uses the (lon, lat) order for points.
func (r Region) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinLon(), r.MinLat()},
		Max: orb.Point{r.MaxLon(), r.MaxLat()},
	}
}

// Validate returns an error wrapping ErrInvalidRegion when a field is not finite or a delta is negative.
func (r Region) Validate() error {
	if !isFinite(r.Latitude) || !isFinite(r.Longitude) {
		return errors.Wrapf(ErrInvalidRegion, "center (lat=%f, lon=%f) must be finite", r.Latitude, r.Longitude)
	}
	if !isFinite(r.LatitudeDelta) || !isFinite(r.LongitudeDelta) {
		return errors.Wrapf(ErrInvalidRegion, "deltas (lat=%f, lon=%f) must be finite", r.LatitudeDelta, r.LongitudeDelta)
	}
	if r.LatitudeDelta < 0 || r.LongitudeDelta < 0 {
		return errors.Wrapf(ErrInvalidRegion, "deltas (lat=%f, lon=%f) must not be negative", r.LatitudeDelta, r.LongitudeDelta)
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("region(lat=%f, lon=%f, latDelta=%f, lonDelta=%f)", r.Latitude, r.Longitude, r.LatitudeDelta, r.LongitudeDelta)
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
