package feature

import (
	"encoding/json"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

const (
	PropertyUniqueId = "unique_id"
	PropertyLat      = "lat"
	PropertyLon      = "lon"
)

// Point is a geographic point with an arbitrary payload. The ID is assigned by the grid when the point is inserted and
// stays the same for the lifetime of the point.
type Point struct {
	ID  uuid.UUID
	Lat float64
	Lon float64

	// Caller supplied payload. The grid copies this map on insertion, entries must not be changed afterward.
	Properties map[string]any
}

func NewPoint(lat float64, lon float64, properties map[string]any) Point {
	return Point{
		Lat:        lat,
		Lon:        lon,
		Properties: properties,
	}
}

func (p Point) Geometry() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// WithId returns a copy of this point with the given ID and a copy of its properties.
func (p Point) WithId(id uuid.UUID) Point {
	var properties map[string]any
	if p.Properties != nil {
		properties = make(map[string]any, len(p.Properties))
		for k, v := range p.Properties {
			properties[k] = v
		}
	}

	return Point{
		ID:         id,
		Lat:        p.Lat,
		Lon:        p.Lon,
		Properties: properties,
	}
}

// MarshalJSON flattens the point into one object. The reserved keys "unique_id", "lat" and "lon" win over properties
// with the same name.
func (p Point) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(p.Properties)+3)
	for k, v := range p.Properties {
		flat[k] = v
	}
	flat[PropertyUniqueId] = p.ID.String()
	flat[PropertyLat] = p.Lat
	flat[PropertyLon] = p.Lon
	return json.Marshal(flat)
}
