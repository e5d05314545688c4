// Package tms20 reads OGC Tile Matrix Set (v2.0) documents and derives the globe of a quadtree
// tile matrix set from them.
// See https://www.ogc.org/standard/tms/
package tms20

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/slippy"
	"github.com/perimeterx/marshmallow"

	"github.com/pdok/globetiles/mapslicehelp"
)

var (
	//go:embed tilematrixsets/*.json
	embeddedFS embed.FS

	embeddedCache   = make(map[string]TileMatrixSet)
	embeddedCacheMu sync.Mutex

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// LoadEmbeddedTileMatrixSet loads one of the tile matrix sets shipped with this package, e.g. WebMercatorQuad.
func LoadEmbeddedTileMatrixSet(id string) (TileMatrixSet, error) {
	embeddedCacheMu.Lock()
	defer embeddedCacheMu.Unlock()
	if tms, ok := embeddedCache[id]; ok {
		return tms, nil
	}
	data, err := embeddedFS.ReadFile("tilematrixsets/" + id + ".json")
	if err != nil {
		return TileMatrixSet{}, fmt.Errorf("no embedded tile matrix set %q: %w", id, err)
	}
	var tms TileMatrixSet
	if err = json.Unmarshal(data, &tms); err != nil {
		return TileMatrixSet{}, fmt.Errorf("embedded tile matrix set %q: %w", id, err)
	}
	embeddedCache[id] = tms
	return tms, nil
}

// LoadJSONTileMatrixSet reads a tile matrix set document from disk.
func LoadJSONTileMatrixSet(path string) (TileMatrixSet, error) {
	var tms TileMatrixSet
	data, err := os.ReadFile(path)
	if err != nil {
		return tms, err
	}
	if err = json.Unmarshal(data, &tms); err != nil {
		return tms, fmt.Errorf("tile matrix set %s: %w", path, err)
	}
	return tms, nil
}

// Load reads idOrPath from disk when such a file exists, otherwise it is taken as an embedded id.
func Load(idOrPath string) (TileMatrixSet, error) {
	if _, err := os.Stat(idOrPath); err == nil {
		return LoadJSONTileMatrixSet(idOrPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return TileMatrixSet{}, err
	}
	return LoadEmbeddedTileMatrixSet(idOrPath)
}

// TileMatrixSet is a tiling scheme: a CRS and one tile matrix per zoom level.
type TileMatrixSet struct {
	// Tile matrix set identifier
	ID string `json:"id,omitempty"`
	// Human readable title
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	// Reference to an official source for this tile matrix set
	URI         string   `validate:"omitempty,uri" json:"uri,omitempty"`
	OrderedAxes []string `validate:"omitnil,min=1" json:"orderedAxes"`
	CRS         CRS      `validate:"required" json:"-"`
	// Reference to a well-known scale set
	WellKnownScaleSet string           `validate:"omitempty,uri" json:"wellKnownScaleSet,omitempty"`
	BoundingBox       *TwoDBoundingBox `json:"boundingBox,omitempty"`
	// Tile matrices by their integer id, which is the zoom level
	TileMatrices map[int]TileMatrix `validate:"required,min=1" json:"-"`
}

func (tms *TileMatrixSet) MarshalJSON() ([]byte, error) {
	levels := tms.Levels()
	tileMatrices := make([]*TileMatrix, len(levels))
	for i, level := range levels {
		tm := tms.TileMatrices[level]
		tileMatrices[i] = &tm
	}
	return json.Marshal(struct {
		TileMatrixSet                     // a value, the pointer would recurse into this method
		SpecialCRS          *CRS          `json:"crs"`
		SpecialTileMatrices []*TileMatrix `json:"tileMatrices"`
	}{
		TileMatrixSet:       *tms,
		SpecialCRS:          &tms.CRS,
		SpecialTileMatrices: tileMatrices,
	})
}

func (tms *TileMatrixSet) UnmarshalJSON(data []byte) error {
	if err := defaults.Set(tms); err != nil {
		return err
	}
	specials, err := marshmallow.Unmarshal(data, tms, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}

	rawCRS, ok := specials["crs"]
	if !ok {
		return errors.New(`missing key "crs"`)
	}
	if tms.CRS, err = unmarshalCRS(rawCRS); err != nil {
		return err
	}

	rawTileMatrices, ok := specials["tileMatrices"]
	if !ok {
		return errors.New(`missing key "tileMatrices"`)
	}
	if tms.TileMatrices, err = unmarshalTileMatrices(rawTileMatrices); err != nil {
		return err
	}
	return validate.Struct(tms)
}

func unmarshalTileMatrices(raw interface{}) (map[int]TileMatrix, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New(`"tileMatrices" should be an array`)
	}
	tileMatrices := make(map[int]TileMatrix, len(list))
	for _, item := range list {
		var tm TileMatrix
		if err := tm.UnmarshalJSONFromMap(item); err != nil {
			return nil, err
		}
		level, err := strconv.Atoi(tm.ID)
		if err != nil {
			return nil, fmt.Errorf("only integer ids are supported for tile matrices: %w", err)
		}
		if _, dup := tileMatrices[level]; dup {
			return nil, fmt.Errorf("tile matrix %d occurs twice", level)
		}
		tileMatrices[level] = tm
	}
	return tileMatrices, nil
}

// Levels are the tile matrix ids, ascending.
func (tms *TileMatrixSet) Levels() []int {
	return mapslicehelp.SortedKeys(tms.TileMatrices)
}

// SRID is the numeric code of the CRS, e.g. 3857 for EPSG:3857.
func (tms *TileMatrixSet) SRID() (uint, error) {
	code, err := strconv.ParseUint(tms.CRS.AuthorityCode(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse crs authority code: %w", err)
	}
	return uint(code), nil
}

// Size is the number of columns (X) and rows (Y) of a zoom level.
func (tms *TileMatrixSet) Size(zoom uint) (*slippy.Tile, bool) {
	tm, ok := tms.TileMatrices[int(zoom)]
	if !ok {
		return nil, false
	}
	return slippy.NewTile(zoom, tm.MatrixWidth, tm.MatrixHeight), true
}

// FromNative finds the tile of a zoom level that contains pt, given in the CRS of the set.
func (tms *TileMatrixSet) FromNative(zoom uint, pt geom.Point) (*slippy.Tile, bool) {
	tm, ok := tms.TileMatrices[int(zoom)]
	if !ok || tm.VariableMatrixWidths != nil {
		return nil, false
	}

	tileSpanX, tileSpanY := tm.TileSpan()
	originX, originY := tm.PointOfOrigin[0], tm.PointOfOrigin[1]
	x := int(math.Floor((pt.X() - originX) / tileSpanX))
	var y int
	if tm.CornerOfOrigin == BottomLeft {
		y = int(math.Floor((pt.Y() - originY) / tileSpanY))
	} else {
		y = int(math.Floor((originY - pt.Y()) / tileSpanY))
	}
	if x < 0 || uint(x) >= tm.MatrixWidth || y < 0 || uint(y) >= tm.MatrixHeight {
		return nil, false
	}
	return slippy.NewTile(zoom, uint(x), uint(y)), true
}

// ToNative is the top-left corner of a tile in the CRS of the set. X and Y may be one past the
// last column and row, giving the far edges of the matrix.
func (tms *TileMatrixSet) ToNative(tile *slippy.Tile) (geom.Point, bool) {
	tm, ok := tms.TileMatrices[int(tile.Z)]
	if !ok || tile.X > tm.MatrixWidth || tile.Y > tm.MatrixHeight {
		return geom.Point{}, false
	}

	tileSpanX, tileSpanY := tm.TileSpan()
	originX, originY := tm.PointOfOrigin[0], tm.PointOfOrigin[1]
	pt := geom.Point{originX + float64(tile.X)*tileSpanX}
	if tm.CornerOfOrigin == BottomLeft {
		pt[1] = originY + float64(tile.Y+1)*tileSpanY
	} else {
		pt[1] = originY - float64(tile.Y)*tileSpanY
	}
	return pt, true
}
