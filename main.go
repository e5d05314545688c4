package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	"github.com/pdok/globetiles/camera"
	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/processing"
	"github.com/pdok/globetiles/processing/gpkg"
	"github.com/pdok/globetiles/tms20"
)

const POSES string = `poses`
const TARGET string = `target`
const OVERWRITE string = `overwrite`
const TILEMATRIXSET string = `tilematrixset`
const LON string = `lon`
const LAT string = `lat`
const LEVEL string = `level`
const PITCH string = `pitch`
const SEARCHLEVEL string = `search-level`
const WIDTH string = `width`
const HEIGHT string = `height`
const FOV string = `fov`
const WORKERS string = `workers`
const FORMAT string = `format`
const WKTLENGTH string = `wkt-length`
const PAGESIZE string = `pagesize`

const stdio = "-"

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "globetiles"
	app.Usage = "Finds the quadtree tiles a perspective camera sees on the globe"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    POSES,
			Aliases: []string{"p"},
			Usage:   `JSON lines file with one pose per line, "-" for stdin. E.g.: {"id":"ams","lon":4.9,"lat":52.37,"level":8,"pitch":60}. Without it the pose flags are used`,
			EnvVars: []string{strcase.ToScreamingSnake(POSES)},
		},
		&cli.StringFlag{
			Name:    TARGET,
			Aliases: []string{"t"},
			Usage:   `Output file, "-" for stdout`,
			Value:   stdio,
			EnvVars: []string{strcase.ToScreamingSnake(TARGET)},
		},
		&cli.BoolFlag{
			Name:    OVERWRITE,
			Aliases: []string{"o"},
			Usage:   "Overwrite the output file if it exists",
			EnvVars: []string{strcase.ToScreamingSnake(OVERWRITE)},
		},
		&cli.StringFlag{
			Name:    TILEMATRIXSET,
			Aliases: []string{"tms"},
			Usage:   `ID of a (built-in) tile matrix set or path to a tile matrix set document. E.g.: WebMercatorQuad. Sets the globe and adds native tile extents`,
			EnvVars: []string{strcase.ToScreamingSnake(TILEMATRIXSET)},
		},
		&cli.Float64Flag{
			Name:    LON,
			Usage:   "Longitude in degrees of the pose",
			EnvVars: []string{strcase.ToScreamingSnake(LON)},
		},
		&cli.Float64Flag{
			Name:    LAT,
			Usage:   "Latitude in degrees of the pose",
			EnvVars: []string{strcase.ToScreamingSnake(LAT)},
		},
		&cli.IntFlag{
			Name:    LEVEL,
			Aliases: []string{"z"},
			Usage:   "Zoom level of the pose, sets the altitude",
			Value:   3,
			EnvVars: []string{strcase.ToScreamingSnake(LEVEL)},
		},
		&cli.Float64Flag{
			Name:    PITCH,
			Usage:   "Degrees above the horizon the camera looks down at, 90 is straight down",
			Value:   90,
			EnvVars: []string{strcase.ToScreamingSnake(PITCH)},
		},
		&cli.IntFlag{
			Name:    SEARCHLEVEL,
			Usage:   "Search this level only instead of making a render plan, -1 for a render plan",
			Value:   -1,
			EnvVars: []string{strcase.ToScreamingSnake(SEARCHLEVEL)},
		},
		&cli.Float64Flag{
			Name:    WIDTH,
			Usage:   "Canvas width in pixels",
			Value:   1024,
			EnvVars: []string{strcase.ToScreamingSnake(WIDTH)},
		},
		&cli.Float64Flag{
			Name:    HEIGHT,
			Usage:   "Canvas height in pixels",
			Value:   768,
			EnvVars: []string{strcase.ToScreamingSnake(HEIGHT)},
		},
		&cli.Float64Flag{
			Name:    FOV,
			Usage:   "Vertical field of view in degrees",
			Value:   30,
			EnvVars: []string{strcase.ToScreamingSnake(FOV)},
		},
		&cli.IntFlag{
			Name:    WORKERS,
			Aliases: []string{"w"},
			Usage:   "Number of poses evaluated at the same time",
			Value:   runtime.NumCPU(),
			EnvVars: []string{strcase.ToScreamingSnake(WORKERS)},
		},
		&cli.StringFlag{
			Name:    FORMAT,
			Aliases: []string{"f"},
			Usage:   `Output format: "json" (JSON lines), "wkt" (tile outlines) or "gpkg" (GeoPackage of tile polygons, needs a target file)`,
			Value:   "json",
			EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
		},
		&cli.UintFlag{
			Name:    WKTLENGTH,
			Usage:   "Truncate WKT output to this many characters, 0 for no limit",
			Value:   80,
			EnvVars: []string{strcase.ToScreamingSnake(WKTLENGTH)},
		},
		&cli.IntFlag{
			Name:    PAGESIZE,
			Usage:   "Page Size, how many tiles are written per transaction to a target GPKG",
			Value:   1000,
			EnvVars: []string{strcase.ToScreamingSnake(PAGESIZE)},
		},
	}

	app.Action = func(c *cli.Context) error {
		evaluator, err := newEvaluator(c)
		if err != nil {
			return err
		}

		source, closeSource, err := openSource(c)
		if err != nil {
			return err
		}
		defer closeSource()

		target, closeTarget, err := openTarget(c)
		if err != nil {
			return err
		}
		defer closeTarget()

		log.Println("=== start evaluating poses ===")
		processing.EvaluatePoses(source, target, evaluator, c.Int(WORKERS))
		log.Println("=== done evaluating poses ===")
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newEvaluator(c *cli.Context) (processing.Evaluator, error) {
	cfg := camera.DefaultConfig()
	cfg.Fov = c.Float64(FOV)
	cfg.Canvas = globe.Canvas{Width: c.Float64(WIDTH), Height: c.Float64(HEIGHT)}

	plan := camera.DefaultPlanOptions()
	var tms *tms20.TileMatrixSet
	if id := c.String(TILEMATRIXSET); id != "" {
		tileMatrixSet, err := tms20.Load(id)
		if err != nil {
			return processing.Evaluator{}, err
		}
		tms = &tileMatrixSet
		plan.MaxLevel = min(plan.MaxLevel, tms.MaxLevel())
		log.Printf("  tile matrix set %s, levels up to %d", tms.ID, tms.MaxLevel())
	}
	return processing.NewEvaluator(cfg, plan, tms)
}

func openSource(c *cli.Context) (processing.Source, func(), error) {
	path := c.String(POSES)
	switch path {
	case "":
		pose := processing.NewPose("", c.Float64(LON), c.Float64(LAT))
		pose.Level = c.Int(LEVEL)
		pose.Pitch = c.Float64(PITCH)
		if level := c.Int(SEARCHLEVEL); level >= 0 {
			pose.SearchLevel = &level
		}
		if err := pose.Validate(); err != nil {
			return nil, nil, err
		}
		return processing.SliceSource{pose}, func() {}, nil
	case stdio:
		return processing.JSONLinesSource{Reader: os.Stdin}, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening poses: %w", err)
	}
	return processing.JSONLinesSource{Reader: f}, func() { f.Close() }, nil
}

func openTarget(c *cli.Context) (processing.Target, func(), error) {
	path := c.String(TARGET)
	format := strings.ToLower(c.String(FORMAT))
	if format != "json" && format != "wkt" && format != "gpkg" {
		return nil, nil, fmt.Errorf("unknown format %q", c.String(FORMAT))
	}

	var w io.Writer = os.Stdout
	closeTarget := func() {}
	if path == stdio {
		if format == "gpkg" {
			return nil, nil, fmt.Errorf("a GeoPackage can not be written to stdout, set --%s", TARGET)
		}
	} else {
		if c.Bool(OVERWRITE) {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, nil, fmt.Errorf("could not remove target file: %w", err)
			}
		} else if _, err := os.Stat(path); err == nil {
			return nil, nil, fmt.Errorf("target %s exists, use --%s to replace it", path, OVERWRITE)
		}
		if format != "gpkg" {
			f, err := os.Create(path)
			if err != nil {
				return nil, nil, fmt.Errorf("error creating target: %w", err)
			}
			w = f
			closeTarget = func() { f.Close() }
		}
	}

	switch format {
	case "wkt":
		return processing.WKTTarget{Writer: w, MaxLength: c.Uint(WKTLENGTH), Indent: 2}, closeTarget, nil
	case "gpkg":
		target := &gpkg.TargetGeopackage{}
		if err := target.Init(path, c.Int(PAGESIZE)); err != nil {
			return nil, nil, err
		}
		return target, func() { target.Close() }, nil
	}
	return processing.JSONLinesTarget{Writer: w}, closeTarget, nil
}
