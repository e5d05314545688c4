package processing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/muesli/reflow/indent"

	"github.com/pdok/globetiles/geomhelp"
)

// maximum length of one line of poses
const maxLineLength = 1 << 20

// JSONLinesSource reads one JSON pose document per line. Blank lines are skipped.
// Lines that do not hold a valid pose become failed results.
type JSONLinesSource struct {
	Reader io.Reader
}

func (s JSONLinesSource) ReadPoses(poses chan<- Pose) {
	defer close(poses)
	scanner := bufio.NewScanner(s.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var p Pose
		if err := json.Unmarshal(data, &p); err != nil {
			p.err = fmt.Errorf("line %d: %w", line, err)
		}
		p.line = line
		poses <- p
	}
	if err := scanner.Err(); err != nil {
		log.Printf("stopped reading poses after line %d: %v", line, err)
	}
}

// SliceSource hands out a fixed list of poses.
type SliceSource []Pose

func (s SliceSource) ReadPoses(poses chan<- Pose) {
	defer close(poses)
	for _, p := range s {
		poses <- p
	}
}

// JSONLinesTarget writes one JSON result document per line.
type JSONLinesTarget struct {
	Writer io.Writer
}

func (t JSONLinesTarget) WriteResults(results <-chan Result) {
	encoder := json.NewEncoder(t.Writer)
	failed := false
	for r := range results {
		if failed {
			continue
		}
		if err := encoder.Encode(r); err != nil {
			log.Printf("could not write result: %v", err)
			failed = true
		}
	}
}

// WKTTarget writes per pose a header line and, indented below it, one line per tile with its
// sector outline as WKT.
type WKTTarget struct {
	Writer io.Writer
	// MaxLength truncates the WKT, 0 means no limit
	MaxLength uint
	// Indent of the tile lines
	Indent uint
}

func (t WKTTarget) WriteResults(results <-chan Result) {
	failed := false
	for r := range results {
		if failed {
			continue
		}
		if _, err := io.WriteString(t.Writer, t.format(r)); err != nil {
			log.Printf("could not write result: %v", err)
			failed = true
		}
	}
}

func (t WKTTarget) format(r Result) string {
	var header strings.Builder
	fmt.Fprintf(&header, "pose %q lon=%v lat=%v level=%d pitch=%v", r.Pose.ID, r.Pose.Lon, r.Pose.Lat, r.Pose.Level, r.Pose.Pitch)
	if r.Error != "" {
		fmt.Fprintf(&header, " error: %s", r.Error)
	}
	header.WriteString("\n")

	var body strings.Builder
	for _, tile := range r.Tiles {
		fmt.Fprintf(&body, "%s %s %s\n", tile.Grid, tile.Quadkey,
			geomhelp.WktMustEncode(geomhelp.SectorPolygon(tile.Sector), t.MaxLength))
	}
	return header.String() + indent.String(body.String(), t.Indent)
}
