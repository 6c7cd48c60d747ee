package grid

import (
	"geogrid/util"
	"github.com/paulmach/orb"
	"math"
	"testing"
)

func TestRegion_bound(t *testing.T) {
	// Arrange
	region := NewRegion(5, 10, 2, 4)

	// Act
	bound := region.Bound()

	// Assert
	util.AssertEqual(t, orb.Bound{Min: orb.Point{8, 4}, Max: orb.Point{12, 6}}, bound)
	util.AssertEqual(t, 4.0, region.MinLat())
	util.AssertEqual(t, 6.0, region.MaxLat())
	util.AssertEqual(t, 8.0, region.MinLon())
	util.AssertEqual(t, 12.0, region.MaxLon())
}

func TestRegion_validate(t *testing.T) {
	util.AssertNil(t, NewRegion(5, 10, 2, 4).Validate())
	util.AssertNil(t, NewRegion(-5, -10, 0, 0).Validate())

	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(math.NaN(), 10, 2, 4).Validate())
	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(5, math.Inf(-1), 2, 4).Validate())
	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(5, 10, math.NaN(), 4).Validate())
	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(5, 10, 2, math.Inf(1)).Validate())
	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(5, 10, -2, 4).Validate())
	util.AssertErrorIs(t, ErrInvalidRegion, NewRegion(5, 10, 2, -0.1).Validate())
}
