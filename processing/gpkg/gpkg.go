// Package gpkg writes the visible tiles of evaluated poses to a GeoPackage, one polygon row per tile.
package gpkg

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/gpkg"

	"github.com/pdok/globetiles/geomhelp"
	"github.com/pdok/globetiles/processing"
)

const (
	// TableName of the visible tiles
	TableName      = "visible_tiles"
	geometryColumn = "geom"
	// tile sectors are in lon/lat
	wgs84 = 4326
)

type column struct {
	name    string
	ctype   string
	notnull bool
	pk      bool
}

// Table describes a feature table.
type Table struct {
	Name    string
	columns []column
	gcolumn string
	gtype   gpkg.GeometryType
	srs     int32
}

// VisibleTilesTable is the table written by TargetGeopackage.
func VisibleTilesTable() Table {
	return Table{
		Name: TableName,
		columns: []column{
			{name: "fid", ctype: "INTEGER", notnull: true, pk: true},
			{name: "pose_id", ctype: "TEXT"},
			{name: "pose_line", ctype: "INTEGER"},
			{name: "zoom_level", ctype: "INTEGER", notnull: true},
			{name: "tile_row", ctype: "INTEGER", notnull: true},
			{name: "tile_column", ctype: "INTEGER", notnull: true},
			{name: "quadkey", ctype: "TEXT", notnull: true},
			{name: "priority", ctype: "INTEGER", notnull: true},
			{name: "visible_corners", ctype: "INTEGER", notnull: true},
			{name: "pixel_area", ctype: "REAL", notnull: true},
			{name: geometryColumn, ctype: "POLYGON"},
		},
		gcolumn: geometryColumn,
		gtype:   gpkg.Polygon,
		srs:     wgs84,
	}
}

type row struct {
	values  []interface{}
	polygon geom.Polygon
}

// rows of one result, values in the order of the insert columns
func rows(r processing.Result) []row {
	rs := make([]row, 0, len(r.Tiles))
	for i, tile := range r.Tiles {
		rs = append(rs, row{
			values: []interface{}{
				r.Pose.ID, r.Line, tile.Level, tile.Row, tile.Column, tile.Quadkey, i, tile.VisibleCorner, tile.PixelArea,
			},
			polygon: geomhelp.SectorPolygon(tile.Sector),
		})
	}
	return rs
}

type TargetGeopackage struct {
	Table    Table
	pagesize int
	handle   *gpkg.Handle
}

func (target *TargetGeopackage) Init(file string, pagesize int) error {
	if pagesize < 1 {
		return fmt.Errorf("page size should be positive, not %d", pagesize)
	}
	handle, err := gpkg.Open(file)
	if err != nil {
		return fmt.Errorf("error opening GeoPackage: %w", err)
	}
	target.Table = VisibleTilesTable()
	target.pagesize = pagesize
	target.handle = handle
	return buildTable(target.handle, target.Table)
}

func (target *TargetGeopackage) Close() error {
	return target.handle.Close()
}

// WriteResults writes the tiles in transactions of pagesize rows. Failed results have no tiles.
// After a write error the remaining results are drained without writing.
func (target *TargetGeopackage) WriteResults(results <-chan processing.Result) {
	var batch []row
	var ext *geom.Extent
	var written, failed int
	var err error
	for r := range results {
		if r.Error != "" {
			failed++
			continue
		}
		if err != nil {
			continue
		}
		batch = append(batch, rows(r)...)
		if len(batch) >= target.pagesize {
			if ext, err = target.writeRows(batch, ext); err == nil {
				written += len(batch)
			}
			batch = nil
		}
	}
	if err == nil {
		if ext, err = target.writeRows(batch, ext); err == nil {
			written += len(batch)
		}
	}
	if err != nil {
		log.Printf("stopped writing to GeoPackage: %v", err)
	}

	if ext != nil {
		if err = target.handle.UpdateGeometryExtent(target.Table.Name, ext); err != nil {
			log.Println("failed to update extent:", err)
		}
	}
	log.Printf("    tiles written: %d", written)
	log.Printf("  poses left out: %d", failed)
}

func (target *TargetGeopackage) writeRows(rows []row, ext *geom.Extent) (*geom.Extent, error) {
	if len(rows) == 0 {
		return ext, nil
	}
	tx, err := target.handle.Begin()
	if err != nil {
		return ext, fmt.Errorf("could not start a transaction: %w", err)
	}
	stmt, err := tx.Prepare(target.Table.insertSQL())
	if err != nil {
		_ = tx.Rollback()
		return ext, fmt.Errorf("could not prepare a statement: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		sb, err := gpkg.NewBinary(target.Table.srs, r.polygon)
		if err != nil {
			_ = tx.Rollback()
			return ext, fmt.Errorf("could not create a binary geometry: %w", err)
		}
		if _, err = stmt.Exec(append(r.values, sb)...); err != nil {
			_ = tx.Rollback()
			return ext, fmt.Errorf("could not insert tile %v of pose %v: %w", r.values[2:5], r.values[0], err)
		}
		if ext == nil {
			if ext, err = geom.NewExtentFromGeometry(r.polygon); err != nil {
				log.Println("failed to create new extent:", err)
				ext = nil
			}
		} else {
			ext.AddGeometry(r.polygon)
		}
	}
	if err = tx.Commit(); err != nil {
		return ext, fmt.Errorf("could not commit: %w", err)
	}
	return ext, nil
}

// createSQL creates the table, the primary key is the rowid
func (t Table) createSQL() string {
	var parts []string
	for _, c := range t.columns {
		part := c.name + ` ` + c.ctype
		if c.notnull {
			part += ` NOT NULL`
		}
		if c.pk {
			part += ` PRIMARY KEY AUTOINCREMENT`
		}
		parts = append(parts, part)
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%v"(%s);`, t.Name, strings.Join(parts, `, `))
}

// insertSQL leaves the primary key to sqlite and puts the geometry last
func (t Table) insertSQL() string {
	var csql, vsql []string
	for _, c := range t.columns {
		if c.pk || c.name == t.gcolumn {
			continue
		}
		csql = append(csql, c.name)
		vsql = append(vsql, `?`)
	}
	csql = append(csql, t.gcolumn)
	vsql = append(vsql, `?`)
	return `INSERT INTO "` + t.Name + `"(` + strings.Join(csql, `,`) + `) VALUES(` + strings.Join(vsql, `,`) + `)`
}

// buildTable creates the table with the necessary gpkg_ information
func buildTable(h *gpkg.Handle, t Table) error {
	if _, err := h.Exec(t.createSQL()); err != nil {
		return fmt.Errorf("error building table in GeoPackage: %w", err)
	}
	err := h.AddGeometryTable(gpkg.TableDescription{
		Name:          t.Name,
		ShortName:     t.Name,
		Description:   "tiles visible from camera poses",
		GeometryField: t.gcolumn,
		GeometryType:  t.gtype,
		SRS:           t.srs,
		Z:             gpkg.Prohibited,
		M:             gpkg.Prohibited,
	})
	if err != nil {
		return fmt.Errorf("error adding geometry table to GeoPackage: %w", err)
	}
	return nil
}
