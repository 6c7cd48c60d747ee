package grid

import "github.com/pkg/errors"

var (
	ErrEmptyInput      = errors.New("no points given to derive the bounding box from")
	ErrNoCategories    = errors.New("no categories given")
	ErrInvalidGridSize = errors.New("grid size must be at least 1")
	ErrUnknownCategory = errors.New("unknown category")
	ErrOutOfBounds     = errors.New("point lies outside the bounding box of the grid")
	ErrInvalidPoint    = errors.New("point has non-finite coordinates")
	ErrInvalidRegion   = errors.New("invalid query region")
)
