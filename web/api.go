package web

import (
	"encoding/json"
	"fmt"
	"geogrid/feature"
	"geogrid/grid"
	ownIo "geogrid/io"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"strconv"
	"sync"
)

const (
	FormatJson    = "json"
	FormatGeoJson = "geojson"
)

// Server exposes a grid via HTTP. The grid itself is not safe for concurrent use, so all inserts take the write lock
// and all queries the read lock.
type Server struct {
	grid  *grid.GeoGrid
	lock  *sync.RWMutex
	cache *lruQueryCache
}

func NewServer(g *grid.GeoGrid, cacheSize int) *Server {
	return &Server{
		grid:  g,
		lock:  &sync.RWMutex{},
		cache: newLruQueryCache(cacheSize),
	}
}

func StartServer(port string, g *grid.GeoGrid, cacheSize int) {
	r := NewServer(g, cacheSize).Router()
	sigolo.Infof("Start server without TLS support on port %s", port)
	err := http.ListenAndServe(":"+port, r)
	sigolo.FatalCheck(err)
}

func StartServerTls(port string, certFile string, keyFile string, g *grid.GeoGrid, cacheSize int) {
	r := NewServer(g, cacheSize).Router()
	sigolo.Infof("Start server with TLS support on port %s", port)
	err := http.ListenAndServeTLS(":"+port, certFile, keyFile, r)
	sigolo.FatalCheck(err)
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	r.HandleFunc("/query", s.handleQuery).Methods(http.MethodGet)
	r.HandleFunc("/points", s.handleInsert).Methods(http.MethodPost)
	return r
}

func (s *Server) handleCategories(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")
	writeJson(writer, http.StatusOK, s.grid.Categories())
}

func (s *Server) handleQuery(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")

	region, minDelta, err := parseQueryParameters(request)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error parsing query parameters: %v", err)
		return
	}

	format := request.URL.Query().Get("format")
	if format == "" {
		format = FormatJson
	}
	if format != FormatJson && format != FormatGeoJson {
		writeError(writer, http.StatusBadRequest, "Unknown format '%s', use '%s' or '%s'", format, FormatJson, FormatGeoJson)
		return
	}

	result, err := s.query(region, minDelta)
	if err != nil {
		if errors.Is(err, grid.ErrInvalidRegion) {
			writeError(writer, http.StatusBadRequest, "Error executing query: %v", err)
		} else {
			writeError(writer, http.StatusInternalServerError, "Error executing query: %v", err)
		}
		return
	}

	sigolo.Debugf("Found %d points for %s", result.Len(), region)

	if format == FormatGeoJson {
		writer.Header().Set("Content-Type", "application/geo+json")
		err = ownIo.WriteQueryResultAsGeoJson(result, s.grid.Categories(), writer)
	} else {
		writer.Header().Set("Content-Type", "application/json")
		err = ownIo.WriteQueryResultAsJson(result, writer)
	}
	if err != nil {
		sigolo.Errorf("Error writing query result: %+v", err)
	}
}

// query returns the cached result or asks the grid and caches its result.
func (s *Server) query(region grid.Region, minDelta float64) (grid.QueryResult, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	key := queryCacheKey(region, minDelta)
	if result, ok := s.cache.get(key); ok {
		sigolo.Tracef("Cache hit for %s", key)
		return result, nil
	}

	result, err := s.grid.Query(region, minDelta)
	if err != nil {
		return nil, err
	}

	s.cache.insert(key, result)
	sigolo.Tracef("Cached result for %s, cache holds %d entries", key, s.cache.len())
	return result, nil
}

func (s *Server) handleInsert(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Access-Control-Allow-Origin", "*")

	category := feature.Category(request.URL.Query().Get("category"))
	if category == "" {
		writeError(writer, http.StatusBadRequest, "Missing query parameter 'category'")
		return
	}

	body, err := io.ReadAll(request.Body)
	if err != nil {
		sigolo.Errorf("Error reading HTTP body of request to '/points': %+v", err)
		writeError(writer, http.StatusInternalServerError, "Error reading HTTP body.")
		return
	}

	geoJsonFeature, err := geojson.UnmarshalFeature(body)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error parsing GeoJSON feature: %v", err)
		return
	}

	point, err := ownIo.ToPoint(geoJsonFeature)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error reading point: %v", err)
		return
	}

	storedPoint, err := s.insert(point, category)
	if err != nil {
		if errors.Is(err, grid.ErrUnknownCategory) || errors.Is(err, grid.ErrOutOfBounds) || errors.Is(err, grid.ErrInvalidPoint) {
			writeError(writer, http.StatusBadRequest, "Error inserting point: %v", err)
		} else {
			writeError(writer, http.StatusInternalServerError, "Error inserting point: %v", err)
		}
		return
	}

	sigolo.Debugf("Inserted point %s with category '%s'", storedPoint.ID, category)
	writeJson(writer, http.StatusCreated, storedPoint)
}

// insert adds the point to the grid and invalidates all cached query results.
func (s *Server) insert(point feature.Point, category feature.Category) (feature.Point, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	storedPoint, err := s.grid.Insert(point, category)
	if err != nil {
		return feature.Point{}, err
	}

	sigolo.Tracef("Insert invalidates %d cached query results", s.cache.len())
	s.cache.clear()
	return storedPoint, nil
}

func parseQueryParameters(request *http.Request) (grid.Region, float64, error) {
	values := map[string]float64{}
	for _, name := range []string{"lat", "lon", "latDelta", "lonDelta", "minDelta"} {
		valueString := request.URL.Query().Get(name)
		if valueString == "" {
			return grid.Region{}, 0, errors.Errorf("Missing parameter '%s'", name)
		}

		value, err := strconv.ParseFloat(valueString, 64)
		if err != nil {
			return grid.Region{}, 0, errors.Wrapf(err, "Unable to parse parameter '%s'", name)
		}
		values[name] = value
	}

	region := grid.NewRegion(values["lat"], values["lon"], values["latDelta"], values["lonDelta"])
	return region, values["minDelta"], nil
}

func queryCacheKey(region grid.Region, minDelta float64) string {
	return fmt.Sprintf("%g|%g|%g|%g|%g", region.Latitude, region.Longitude, region.LatitudeDelta, region.LongitudeDelta, minDelta)
}

func writeJson(writer http.ResponseWriter, status int, value any) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		sigolo.Errorf("Error marshalling response: %+v", err)
		writeError(writer, http.StatusInternalServerError, "Error writing response.")
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, err = writer.Write(jsonBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}

func writeError(writer http.ResponseWriter, status int, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	if status >= http.StatusInternalServerError {
		sigolo.Errorf("%s", message)
	} else {
		sigolo.Debugf("%s", message)
	}

	writer.WriteHeader(status)
	_, err := writer.Write([]byte(message))
	if err != nil {
		sigolo.Errorf("Error writing error response: %+v", err)
	}
}
