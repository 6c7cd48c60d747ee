package web

import (
	"encoding/json"
	"geogrid/feature"
	"geogrid/grid"
	"geogrid/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, options ...grid.Option) *Server {
	g, err := grid.NewGeoGrid([]orb.Point{{0, 0}, {10, 10}}, []feature.Category{"poi", "shop"}, options...)
	util.AssertNil(t, err)
	return NewServer(g, 10)
}

func serve(server *Server, method string, url string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, url, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)
	return recorder
}

func insertTestPoint(t *testing.T, server *Server, category string, lat string, lon string) map[string]any {
	response := serve(server, http.MethodPost, "/points?category="+category, `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [`+lon+`, `+lat+`]}, "properties": {"name": "A"}}`)
	util.AssertEqual(t, http.StatusCreated, response.Code)

	var storedPoint map[string]any
	err := json.Unmarshal(response.Body.Bytes(), &storedPoint)
	util.AssertNil(t, err)
	return storedPoint
}

func TestApi_categories(t *testing.T) {
	// Arrange
	server := newTestServer(t)

	// Act
	response := serve(server, http.MethodGet, "/categories", "")

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, `["poi","shop"]`, response.Body.String())
}

func TestApi_insertAndQuery(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	storedPoint := insertTestPoint(t, server, "poi", "5", "5")

	// Act
	response := serve(server, http.MethodGet, "/query?lat=5&lon=5&latDelta=1&lonDelta=1&minDelta=50", "")

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, "application/json", response.Header().Get("Content-Type"))

	var result map[string][]map[string]any
	err := json.Unmarshal(response.Body.Bytes(), &result)
	util.AssertNil(t, err)
	util.AssertLen(t, 1, result["poi"])
	util.AssertLen(t, 0, result["shop"])
	util.AssertEqual(t, storedPoint, result["poi"][0])
	util.AssertEqual(t, "A", result["poi"][0]["name"])
	util.AssertEqual(t, 5.0, result["poi"][0]["lat"])
	util.AssertEqual(t, 5.0, result["poi"][0]["lon"])
}

func TestApi_queryZoomGuard(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	insertTestPoint(t, server, "poi", "5", "5")

	// Act
	response := serve(server, http.MethodGet, "/query?lat=5&lon=5&latDelta=1&lonDelta=1&minDelta=0.5", "")

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, `{"poi":[],"shop":[]}`, response.Body.String())
}

func TestApi_queryGeoJson(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	insertTestPoint(t, server, "shop", "2", "3")

	// Act
	response := serve(server, http.MethodGet, "/query?lat=2&lon=3&latDelta=1&lonDelta=1&minDelta=1&format=geojson", "")

	// Assert
	util.AssertEqual(t, http.StatusOK, response.Code)
	featureCollection, err := geojson.UnmarshalFeatureCollection(response.Body.Bytes())
	util.AssertNil(t, err)
	util.AssertLen(t, 1, featureCollection.Features)
	util.AssertEqual(t, orb.Point{3, 2}, featureCollection.Features[0].Geometry)
	util.AssertEqual(t, "shop", featureCollection.Features[0].Properties["category"])
}

func TestApi_queryInvalidParameters(t *testing.T) {
	server := newTestServer(t)

	response := serve(server, http.MethodGet, "/query?lat=5&lon=5&latDelta=1&lonDelta=1", "")
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	response = serve(server, http.MethodGet, "/query?lat=foo&lon=5&latDelta=1&lonDelta=1&minDelta=1", "")
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	response = serve(server, http.MethodGet, "/query?lat=5&lon=5&latDelta=-1&lonDelta=1&minDelta=1", "")
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	response = serve(server, http.MethodGet, "/query?lat=5&lon=5&latDelta=1&lonDelta=1&minDelta=1&format=kml", "")
	util.AssertEqual(t, http.StatusBadRequest, response.Code)
}

func TestApi_queryIsCachedAndInvalidatedOnInsert(t *testing.T) {
	// Arrange
	server := newTestServer(t)
	insertTestPoint(t, server, "poi", "5", "5")
	url := "/query?lat=5&lon=5&latDelta=1&lonDelta=1&minDelta=50"

	// Act & Assert
	response := serve(server, http.MethodGet, url, "")
	util.AssertEqual(t, http.StatusOK, response.Code)
	util.AssertEqual(t, 1, server.cache.len())

	insertTestPoint(t, server, "poi", "5.1", "5.1")
	util.AssertEqual(t, 0, server.cache.len())

	response = serve(server, http.MethodGet, url, "")
	var result map[string][]map[string]any
	err := json.Unmarshal(response.Body.Bytes(), &result)
	util.AssertNil(t, err)
	util.AssertLen(t, 2, result["poi"])
}

func TestApi_insertErrors(t *testing.T) {
	server := newTestServer(t, grid.WithOutOfBoundsPolicy(grid.RejectOutOfBounds))
	point := `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [5, 5]}, "properties": {}}`

	// Missing category
	response := serve(server, http.MethodPost, "/points", point)
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	// Unknown category
	response = serve(server, http.MethodPost, "/points?category=foo", point)
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	// Invalid body
	response = serve(server, http.MethodPost, "/points?category=poi", "foo")
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	// Not a point
	response = serve(server, http.MethodPost, "/points?category=poi", `{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[5, 5], [6, 6]]}, "properties": {}}`)
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	// Outside the grid
	response = serve(server, http.MethodPost, "/points?category=poi", `{"type": "Feature", "geometry": {"type": "Point", "coordinates": [50, 5]}, "properties": {}}`)
	util.AssertEqual(t, http.StatusBadRequest, response.Code)

	util.AssertEqual(t, 0, server.grid.Len())
}
