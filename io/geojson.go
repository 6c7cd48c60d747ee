package io

import (
	"encoding/json"
	"geogrid/feature"
	"geogrid/grid"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"time"
)

const PropertyCategory = "category"

func ReadPointsFromGeoJsonFile(filename string, categoryKey string) ([]feature.CategorizedPoint, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read GeoJSON file %s", filename)
	}

	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse GeoJSON file %s", filename)
	}

	return ReadPointsFromFeatureCollection(featureCollection, categoryKey), nil
}

// ReadPointsFromFeatureCollection turns every point feature with a string property "categoryKey" into a categorized
// point. Other features are skipped.
func ReadPointsFromFeatureCollection(featureCollection *geojson.FeatureCollection, categoryKey string) []feature.CategorizedPoint {
	var points []feature.CategorizedPoint

	for i, geoJsonFeature := range featureCollection.Features {
		point, err := ToCategorizedPoint(geoJsonFeature, categoryKey)
		if err != nil {
			sigolo.Debugf("Skip feature %d: %v", i, err)
			continue
		}
		points = append(points, point)
	}

	sigolo.Debugf("Read %d points from %d GeoJSON features", len(points), len(featureCollection.Features))

	return points
}

// ToCategorizedPoint converts a GeoJSON point feature. The category is taken from the property "categoryKey", which is
// not part of the resulting properties.
func ToCategorizedPoint(geoJsonFeature *geojson.Feature, categoryKey string) (feature.CategorizedPoint, error) {
	point, err := ToPoint(geoJsonFeature)
	if err != nil {
		return feature.CategorizedPoint{}, err
	}

	category, ok := point.Properties[categoryKey].(string)
	if !ok || category == "" {
		return feature.CategorizedPoint{}, errors.Errorf("Feature has no string property '%s'", categoryKey)
	}
	delete(point.Properties, categoryKey)

	return feature.CategorizedPoint{
		Point:    point,
		Category: feature.Category(category),
	}, nil
}

// ToPoint converts a GeoJSON point feature into a point with all properties of the feature.
func ToPoint(geoJsonFeature *geojson.Feature) (feature.Point, error) {
	if geoJsonFeature == nil {
		return feature.Point{}, errors.New("Feature is empty")
	}

	geometry, ok := geoJsonFeature.Geometry.(orb.Point)
	if !ok {
		return feature.Point{}, errors.Errorf("Feature has geometry type '%s' but only 'Point' is supported", geometryType(geoJsonFeature.Geometry))
	}

	properties := map[string]any{}
	for k, v := range geoJsonFeature.Properties {
		properties[k] = v
	}

	return feature.NewPoint(geometry.Lat(), geometry.Lon(), properties), nil
}

func geometryType(geometry orb.Geometry) string {
	if geometry == nil {
		return "none"
	}
	return geometry.GeoJSONType()
}

// WriteQueryResultAsGeoJson writes all points as one feature collection. Each feature gets the properties "unique_id"
// and "category" besides its own properties.
func WriteQueryResultAsGeoJson(result grid.QueryResult, categories []feature.Category, writer io.Writer) error {
	sigolo.Debug("Write query result to GeoJSON")
	writeStartTime := time.Now()

	featureCollection := geojson.NewFeatureCollection()
	for _, category := range categories {
		for _, point := range result[category] {
			geoJsonFeature := geojson.NewFeature(point.Geometry())
			for k, v := range point.Properties {
				geoJsonFeature.Properties[k] = v
			}
			geoJsonFeature.Properties[feature.PropertyUniqueId] = point.ID.String()
			geoJsonFeature.Properties[PropertyCategory] = category.String()

			featureCollection.Features = append(featureCollection.Features, geoJsonFeature)
		}
	}

	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal query result to GeoJSON")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON query result")
	}

	sigolo.Debugf("Finished writing %d features in %s", len(featureCollection.Features), time.Since(writeStartTime))

	return nil
}

// WriteQueryResultAsJson writes the result as object from category to the list of points.
func WriteQueryResultAsJson(result grid.QueryResult, writer io.Writer) error {
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "Unable to marshal query result to JSON")
	}

	_, err = writer.Write(jsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write JSON query result")
	}

	return nil
}
