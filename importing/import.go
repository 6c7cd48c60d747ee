package importing

import (
	"geogrid/feature"
	"geogrid/grid"
	ownIo "geogrid/io"
	"geogrid/osm"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"strings"
	"time"
)

// ReadPoints reads categorized points from a GeoJSON (.geojson, .json) or OSM (.osm, .pbf) file.
func ReadPoints(inputFile string, categoryKey string) ([]feature.CategorizedPoint, error) {
	if osm.IsOsmFile(inputFile) {
		return osm.ReadPoints(inputFile, categoryKey)
	}
	if strings.HasSuffix(inputFile, ".geojson") || strings.HasSuffix(inputFile, ".json") {
		return ownIo.ReadPointsFromGeoJsonFile(inputFile, categoryKey)
	}
	return nil, errors.Errorf("Input file %s must be an .osm, .pbf, .geojson or .json file", inputFile)
}

// Import reads the input file and creates a grid from it. See BuildGrid for details.
func Import(inputFile string, categoryKey string, categories []feature.Category, options ...grid.Option) (*grid.GeoGrid, error) {
	points, err := ReadPoints(inputFile, categoryKey)
	if err != nil {
		return nil, err
	}

	g, err := BuildGrid(points, categories, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to create grid from input file %s", inputFile)
	}

	return g, nil
}

// BuildGrid creates a grid covering the given points and inserts them. When no categories are given, all categories
// of the points are used. Otherwise, points with other categories are ignored.
func BuildGrid(points []feature.CategorizedPoint, categories []feature.Category, options ...grid.Option) (*grid.GeoGrid, error) {
	importStartTime := time.Now()

	if len(categories) == 0 {
		categories = feature.CategoriesOf(points)
	} else {
		points = filterByCategory(points, categories)
	}

	geometries := make([]orb.Point, len(points))
	for i, p := range points {
		geometries[i] = p.Point.Geometry()
	}

	g, err := grid.NewGeoGrid(geometries, categories, options...)
	if err != nil {
		return nil, err
	}

	for _, p := range points {
		_, err = g.Insert(p.Point, p.Category)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to insert point (lat=%f, lon=%f)", p.Point.Lat, p.Point.Lon)
		}
	}

	sigolo.Infof("Created grid with %d points in %d categories in %s", g.Len(), len(g.Categories()), time.Since(importStartTime))

	return g, nil
}

func filterByCategory(points []feature.CategorizedPoint, categories []feature.Category) []feature.CategorizedPoint {
	allowed := map[feature.Category]bool{}
	for _, c := range categories {
		allowed[c] = true
	}

	var result []feature.CategorizedPoint
	for _, p := range points {
		if allowed[p.Category] {
			result = append(result, p)
		}
	}

	sigolo.Debugf("Kept %d of %d points after filtering by categories %v", len(result), len(points), categories)

	return result
}
