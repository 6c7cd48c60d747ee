package main

import (
	"fmt"
	"geogrid/feature"
	"geogrid/grid"
	"geogrid/importing"
	ownIo "geogrid/io"
	"geogrid/web"
	"github.com/alecthomas/kong"
	"github.com/hauke96/sigolo/v2"
	"os"
	"strings"
)

const VERSION = "v0.1.0"

type gridFlags struct {
	Input             string   `help:"The input file. Either .geojson, .json, .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
	CategoryKey       string   `help:"The property (GeoJSON) or tag key (OSM) whose value is the category of a point." short:"k" default:"amenity"`
	Categories        []string `help:"The categories of the grid. Points of other categories are ignored. Default: All categories of the input file." short:"c"`
	GridSize          int      `help:"The number of cells per axis." default:"100"`
	RejectOutOfBounds bool     `help:"Reject inserted points outside the bounding box of the input data instead of putting them into the nearest border cell."`
}

func (f gridFlags) importGrid() (*grid.GeoGrid, error) {
	var categories []feature.Category
	for _, c := range f.Categories {
		categories = append(categories, feature.Category(c))
	}

	policy := grid.ClipOutOfBounds
	if f.RejectOutOfBounds {
		policy = grid.RejectOutOfBounds
	}

	return importing.Import(f.Input, f.CategoryKey, categories, grid.WithGridSize(f.GridSize), grid.WithOutOfBoundsPolicy(policy))
}

var cli struct {
	Logging string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Serve   struct {
		Grid      gridFlags `embed:""`
		Port      string    `help:"The port of the HTTP server." short:"p" default:"8080"`
		TlsCert   string    `help:"The certificate file for TLS. TLS is only used when certificate and key file are given." placeholder:"<cert-file>"`
		TlsKey    string    `help:"The key file for TLS." placeholder:"<key-file>"`
		CacheSize int       `help:"The number of query results kept in the cache. 0 disables the cache." default:"100"`
	} `cmd:"" help:"Starts an HTTP server to query and insert points."`
	Query struct {
		Grid     gridFlags `embed:""`
		Lat      float64   `help:"Latitude of the region center." required:""`
		Lon      float64   `help:"Longitude of the region center." required:""`
		LatDelta float64   `help:"Latitude extent of the region." required:""`
		LonDelta float64   `help:"Longitude extent of the region." required:""`
		MinDelta float64   `help:"Regions larger than this on any axis return no points." required:""`
		Format   string    `help:"The output format." enum:"json,geojson" default:"json"`
	} `cmd:"" help:"Queries the points of one region and writes them to stdout."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("geogrid"),
		kong.Description("A categorized grid index for geographic points."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	switch ctx.Command() {
	case "serve <input>":
		g, err := cli.Serve.Grid.importGrid()
		sigolo.FatalCheck(err)

		if cli.Serve.TlsCert != "" && cli.Serve.TlsKey != "" {
			web.StartServerTls(cli.Serve.Port, cli.Serve.TlsCert, cli.Serve.TlsKey, g, cli.Serve.CacheSize)
		} else {
			web.StartServer(cli.Serve.Port, g, cli.Serve.CacheSize)
		}
	case "query <input>":
		g, err := cli.Query.Grid.importGrid()
		sigolo.FatalCheck(err)

		region := grid.NewRegion(cli.Query.Lat, cli.Query.Lon, cli.Query.LatDelta, cli.Query.LonDelta)
		result, err := g.Query(region, cli.Query.MinDelta)
		sigolo.FatalCheck(err)

		sigolo.Debugf("Found %d points", result.Len())

		if cli.Query.Format == "geojson" {
			err = ownIo.WriteQueryResultAsGeoJson(result, g.Categories(), os.Stdout)
		} else {
			err = ownIo.WriteQueryResultAsJson(result, os.Stdout)
		}
		sigolo.FatalCheck(err)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
	}
}
