package tms20

import (
	"encoding/json"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/perimeterx/marshmallow"
)

// TileMatrix is one zoom level of a TileMatrixSet.
type TileMatrix struct {
	// Identifier of the tile matrix, the zoom level for the sets this package works with
	ID          string   `validate:"required" json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	// Scale denominator at 0.28mm per pixel
	ScaleDenominator float64 `validate:"required,gt=0" json:"scaleDenominator"`
	// Size of a pixel in CRS units
	CellSize float64 `validate:"required,gt=0" json:"cellSize"`
	// Corner used as the origin for numbering rows and columns, topLeft when left out
	CornerOfOrigin CornerOfOrigin `validate:"omitempty,oneof=topLeft bottomLeft" json:"cornerOfOrigin,omitempty"`
	// Position of the corner of origin in CRS coordinates, also a corner of tile (0, 0)
	PointOfOrigin TwoDPoint `json:"pointOfOrigin"`
	// Tile size in pixels
	TileWidth  uint `validate:"required,min=1" json:"tileWidth"`
	TileHeight uint `validate:"required,min=1" json:"tileHeight"`
	// Number of tiles
	MatrixWidth  uint `validate:"required,min=1" json:"matrixWidth"`
	MatrixHeight uint `validate:"required,min=1" json:"matrixHeight"`
	// Rows with coalesced tiles, not supported by FromNative
	VariableMatrixWidths []VariableMatrixWidth `json:"variableMatrixWidths,omitempty"`
}

func (tm *TileMatrix) UnmarshalJSON(data []byte) error {
	return UnmarshalJSONMapUsingUnmarshalJSONFromMap(tm, data)
}

func (tm *TileMatrix) UnmarshalJSONFromMap(data interface{}) error {
	if err := defaults.Set(tm); err != nil {
		return err
	}
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		return fmt.Errorf(`tile matrix is not an object but a %T`, data)
	}
	if _, err := marshmallow.UnmarshalFromJSONMap(dataMap, tm, marshmallow.WithExcludeKnownFieldsFromMap(true)); err != nil {
		return err
	}
	return validate.Struct(tm)
}

// TileSpan is the width and height of one tile in CRS units.
func (tm TileMatrix) TileSpan() (x, y float64) {
	return float64(tm.TileWidth) * tm.CellSize, float64(tm.TileHeight) * tm.CellSize
}

// Extent is the width and height of the whole matrix in CRS units.
func (tm TileMatrix) Extent() (x, y float64) {
	spanX, spanY := tm.TileSpan()
	return float64(tm.MatrixWidth) * spanX, float64(tm.MatrixHeight) * spanY
}

type CornerOfOrigin string

const (
	TopLeft    CornerOfOrigin = "topLeft"
	BottomLeft CornerOfOrigin = "bottomLeft"
)

func (c *CornerOfOrigin) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.UnmarshalJSONFromMap(s)
}

func (c *CornerOfOrigin) UnmarshalJSONFromMap(data interface{}) error {
	s, ok := data.(string)
	if !ok {
		return fmt.Errorf(`cornerOfOrigin is not a string but a %T`, data)
	}
	switch CornerOfOrigin(s) {
	case "", TopLeft:
		*c = TopLeft
	case BottomLeft:
		*c = BottomLeft
	default:
		return fmt.Errorf(`unknown cornerOfOrigin: %v`, s)
	}
	return nil
}

type VariableMatrixWidth struct {
	// Number of tiles in width that coalesce in a single tile for these rows
	Coalesce uint `validate:"required,min=2" json:"coalesce"`
	// First and last tile row where the coalescence applies
	MinTileRow uint `validate:"min=0" json:"minTileRow"`
	MaxTileRow uint `validate:"min=0" json:"maxTileRow"`
}

// UnmarshalJSONMapUsingUnmarshalJSONFromMap decodes data to a generic map and hands it to target.
func UnmarshalJSONMapUsingUnmarshalJSONFromMap(target marshmallow.UnmarshalerFromJSONMap, data []byte) error {
	var dataMap map[string]interface{}
	if err := json.Unmarshal(data, &dataMap); err != nil {
		return err
	}
	return target.UnmarshalJSONFromMap(dataMap)
}
