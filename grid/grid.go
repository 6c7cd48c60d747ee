package grid

import (
	"geogrid/common"
	"geogrid/feature"
	"github.com/google/uuid"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
)

const (
	DefaultGridSize = 100
	// MaxGridSize limits the number of cells per axis so that the cell array stays allocatable.
	MaxGridSize = 10000
)

// OutOfBoundsPolicy defines what happens to points that are inserted after construction and lie outside the
// bounding box of the grid.
type OutOfBoundsPolicy int

const (
	// ClipOutOfBounds stores such points in the nearest border cell.
	ClipOutOfBounds OutOfBoundsPolicy = iota
	// RejectOutOfBounds returns an error wrapping ErrOutOfBounds and leaves the grid untouched. An axis on which all
	// initial points share the same coordinate has a span of zero and maps every value to its first cell, so points
	// are never rejected because of their position on such an axis.
	RejectOutOfBounds
)

func (p OutOfBoundsPolicy) String() string {
	switch p {
	case ClipOutOfBounds:
		return "clip"
	case RejectOutOfBounds:
		return "reject"
	}
	return "[!UNKNOWN OutOfBoundsPolicy]"
}

// cell holds the points of one grid cell per category. A nil cell has never received a point.
type cell map[feature.Category][]feature.Point

// newCell creates a cell with a fresh empty list for every category. Cells never share their lists.
func newCell(categories []feature.Category) cell {
	c := make(cell, len(categories))
	for _, category := range categories {
		c[category] = []feature.Point{}
	}
	return c
}

// QueryResult maps every category of the grid to the points found for it.
type QueryResult map[feature.Category][]feature.Point

// Len returns the number of points over all categories.
func (r QueryResult) Len() int {
	count := 0
	for _, points := range r {
		count += len(points)
	}
	return count
}

type Option func(g *GeoGrid)

// WithGridSize sets the number of cells per axis. The default is DefaultGridSize.
func WithGridSize(gridSize int) Option {
	return func(g *GeoGrid) {
		g.gridSize = gridSize
	}
}

func WithOutOfBoundsPolicy(policy OutOfBoundsPolicy) Option {
	return func(g *GeoGrid) {
		g.outOfBoundsPolicy = policy
	}
}

// WithIdGenerator replaces the random UUID generator used for inserted points.
func WithIdGenerator(generator func() uuid.UUID) Option {
	return func(g *GeoGrid) {
		g.idGenerator = generator
	}
}

// GeoGrid is a uniform grid over the bounding box of an initial point set. Each cell stores its points per category.
//
// A GeoGrid is not safe for concurrent use: Insert must not run concurrently with any other call. Concurrent Query
// calls are fine as long as no Insert is in flight.
type GeoGrid struct {
	bound    orb.Bound
	deltaLat float64
	deltaLon float64

	categories  []feature.Category
	categorySet map[feature.Category]bool

	gridSize          int
	cells             []cell // Row-major, see common.CellIndex.FlatIndex
	numberOfPoints    int
	outOfBoundsPolicy OutOfBoundsPolicy
	idGenerator       func() uuid.UUID
}

// NewGeoGrid creates an empty grid whose bounding box covers the given points. The points are only used to derive the
// bounding box, they are not inserted.
func NewGeoGrid(points []orb.Point, categories []feature.Category, options ...Option) (*GeoGrid, error) {
	if len(points) == 0 {
		return nil, errors.Wrap(ErrEmptyInput, "Unable to create grid")
	}
	for i, p := range points {
		if !isFinite(p.Lon()) || !isFinite(p.Lat()) {
			return nil, errors.Wrapf(ErrInvalidPoint, "Unable to create grid: point %d (lon=%f, lat=%f)", i, p.Lon(), p.Lat())
		}
	}

	categories = feature.UniqueCategories(categories)
	if len(categories) == 0 {
		return nil, errors.Wrap(ErrNoCategories, "Unable to create grid")
	}

	bound := orb.MultiPoint(points).Bound()

	g := &GeoGrid{
		bound:             bound,
		deltaLat:          bound.Top() - bound.Bottom(),
		deltaLon:          bound.Right() - bound.Left(),
		categories:        categories,
		categorySet:       map[feature.Category]bool{},
		gridSize:          DefaultGridSize,
		outOfBoundsPolicy: ClipOutOfBounds,
		idGenerator:       uuid.New,
	}
	for _, option := range options {
		option(g)
	}

	if g.gridSize < 1 || g.gridSize > MaxGridSize {
		return nil, errors.Wrapf(ErrInvalidGridSize, "Unable to create grid with size %d, it must be within [1, %d]", g.gridSize, MaxGridSize)
	}

	for _, category := range categories {
		g.categorySet[category] = true
	}
	g.cells = make([]cell, g.gridSize*g.gridSize)

	sigolo.Debugf("Created grid of %dx%d cells for bbox lon=[%f, %f] lat=[%f, %f] with %d categories and policy '%s'", g.gridSize, g.gridSize, bound.Left(), bound.Right(), bound.Bottom(), bound.Top(), len(categories), g.outOfBoundsPolicy)

	return g, nil
}

func (g *GeoGrid) Bound() orb.Bound {
	return g.bound
}

func (g *GeoGrid) GridSize() int {
	return g.gridSize
}

func (g *GeoGrid) Categories() []feature.Category {
	result := make([]feature.Category, len(g.categories))
	copy(result, g.categories)
	return result
}

// Len returns the number of inserted points.
func (g *GeoGrid) Len() int {
	return g.numberOfPoints
}

// CellIndexFor returns the cell the given coordinate normalizes to. The index is not clipped, the boolean tells
// whether it lies within the grid.
func (g *GeoGrid) CellIndexFor(lat float64, lon float64) (common.CellIndex, bool) {
	cellIndex := common.CellIndex{
		g.normalize(lon, g.bound.Left(), g.deltaLon),
		g.normalize(lat, g.bound.Bottom(), g.deltaLat),
	}
	return cellIndex, cellIndex.IsWithin(g.gridSize)
}

// normalize maps the value onto a column or row of the grid. A span of zero means all initial points share this
// coordinate, which puts everything into the first column or row. Results are limited to [-1, gridSize] since
// everything beyond is outside the grid anyway and must not overflow the int conversion.
func (g *GeoGrid) normalize(value float64, min float64, span float64) int {
	if span == 0 {
		return 0
	}

	normalized := math.Floor(((value - min) / span) * float64(g.gridSize-1))
	if normalized < -1 {
		return -1
	}
	if normalized > float64(g.gridSize) {
		return g.gridSize
	}
	return int(normalized)
}

// Insert stores a copy of the point with a newly generated ID under the given category and returns that copy.
func (g *GeoGrid) Insert(point feature.Point, category feature.Category) (feature.Point, error) {
	if !g.categorySet[category] {
		return feature.Point{}, errors.Wrapf(ErrUnknownCategory, "Unable to insert point with category '%s'", category)
	}
	if !isFinite(point.Lat) || !isFinite(point.Lon) {
		return feature.Point{}, errors.Wrapf(ErrInvalidPoint, "Unable to insert point (lat=%f, lon=%f)", point.Lat, point.Lon)
	}

	cellIndex, withinGrid := g.CellIndexFor(point.Lat, point.Lon)
	if !withinGrid {
		if g.outOfBoundsPolicy == RejectOutOfBounds {
			return feature.Point{}, errors.Wrapf(ErrOutOfBounds, "Unable to insert point (lat=%f, lon=%f) into cell %s", point.Lat, point.Lon, cellIndex)
		}
		clippedIndex := cellIndex.Clamp(g.gridSize)
		sigolo.Tracef("Point (lat=%f, lon=%f) is outside the grid, clip cell %s to %s", point.Lat, point.Lon, cellIndex, clippedIndex)
		cellIndex = clippedIndex
	}

	flatIndex := cellIndex.FlatIndex(g.gridSize)
	if g.cells[flatIndex] == nil {
		g.cells[flatIndex] = newCell(g.categories)
	}

	storedPoint := point.WithId(g.idGenerator())
	g.cells[flatIndex][category] = append(g.cells[flatIndex][category], storedPoint)
	g.numberOfPoints++

	if sigolo.ShouldLogTrace() {
		sigolo.Tracef("Inserted point %s (lat=%f, lon=%f) with category '%s' into cell %s", storedPoint.ID, storedPoint.Lat, storedPoint.Lon, category, cellIndex)
	}

	return storedPoint.WithId(storedPoint.ID), nil
}

// Query returns all points of all cells intersecting the region. When the region is larger than minDelta on any
// axis or lies completely outside the bounding box, the result contains no points. The result always has an entry
// for every category.
func (g *GeoGrid) Query(region Region, minDelta float64) (QueryResult, error) {
	err := region.Validate()
	if err != nil {
		return nil, err
	}
	if !isFinite(minDelta) || minDelta < 0 {
		return nil, errors.Wrapf(ErrInvalidRegion, "minDelta %f must be finite and not negative", minDelta)
	}

	result := g.emptyResult()

	if region.LatitudeDelta > minDelta || region.LongitudeDelta > minDelta {
		sigolo.Tracef("Region %s exceeds minDelta=%f, return empty result", region, minDelta)
		return result, nil
	}

	if !g.bound.Intersects(region.Bound()) {
		sigolo.Tracef("Region %s is outside the grid, return empty result", region)
		return result, nil
	}

	lowerLeft, _ := g.CellIndexFor(region.MinLat(), region.MinLon())
	upperRight, _ := g.CellIndexFor(region.MaxLat(), region.MaxLon())
	extent, ok := common.CellExtent{lowerLeft, upperRight}.Clip(g.gridSize)
	if !ok {
		return result, nil
	}

	extent.ForEach(func(cellIndex common.CellIndex) {
		c := g.cells[cellIndex.FlatIndex(g.gridSize)]
		if c == nil {
			return
		}
		for _, category := range g.categories {
			result[category] = append(result[category], c[category]...)
		}
	})

	sigolo.Tracef("Found %d points for %s in cells %s to %s", result.Len(), region, extent.LowerLeftCell(), extent.UpperRightCell())

	return result, nil
}

func (g *GeoGrid) emptyResult() QueryResult {
	result := make(QueryResult, len(g.categories))
	for _, category := range g.categories {
		result[category] = []feature.Point{}
	}
	return result
}
