package osm

import (
	"geogrid/feature"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
)

const PropertyOsmId = "@osm_id"

// PointCollector collects all nodes having the tag "CategoryKey". The tag value becomes the category of the point and
// all tags become its properties.
type PointCollector struct {
	CategoryKey string
	Points      []feature.CategorizedPoint
}

func NewPointCollector(categoryKey string) *PointCollector {
	return &PointCollector{
		CategoryKey: categoryKey,
	}
}

func (c *PointCollector) Name() string {
	return "PointCollector"
}

func (c *PointCollector) Init() error {
	c.Points = nil
	return nil
}

func (c *PointCollector) HandleNode(node *osm.Node) error {
	category := node.Tags.Find(c.CategoryKey)
	if category == "" {
		return nil
	}

	properties := map[string]any{
		PropertyOsmId: int64(node.ID),
	}
	for _, tag := range node.Tags {
		if tag.Key == c.CategoryKey {
			continue
		}
		properties[tag.Key] = tag.Value
	}

	c.Points = append(c.Points, feature.CategorizedPoint{
		Point:    feature.NewPoint(node.Lat, node.Lon, properties),
		Category: feature.Category(category),
	})

	return nil
}

func (c *PointCollector) HandleWay(way *osm.Way) error {
	return nil
}

func (c *PointCollector) HandleRelation(relation *osm.Relation) error {
	return nil
}

func (c *PointCollector) Done() error {
	sigolo.Debugf("Collected %d points with tag key '%s'", len(c.Points), c.CategoryKey)
	return nil
}

// ReadPoints reads all nodes with the given tag key from the OSM file.
func ReadPoints(filename string, categoryKey string) ([]feature.CategorizedPoint, error) {
	collector := NewPointCollector(categoryKey)
	err := NewOsmReader().Read(filename, collector)
	if err != nil {
		return nil, err
	}
	return collector.Points, nil
}
