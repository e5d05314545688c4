package processing

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdok/globetiles/camera"
	"github.com/pdok/globetiles/globe"
	"github.com/pdok/globetiles/tilegrid"
	"github.com/pdok/globetiles/tms20"
)

func testConfig() camera.Config {
	return camera.Config{
		Fov:     30,
		Near:    1,
		Far:     2e7,
		Canvas:  globe.Canvas{Width: 900, Height: 600},
		Options: camera.DefaultOptions(),
	}
}

func newEvaluator(t *testing.T, tms *tms20.TileMatrixSet) Evaluator {
	t.Helper()
	e, err := NewEvaluator(testConfig(), camera.DefaultPlanOptions(), tms)
	require.NoError(t, err)
	return e
}

func evaluate(t *testing.T, e Evaluator, p Pose) Result {
	t.Helper()
	c, err := e.NewCamera()
	require.NoError(t, err)
	return e.Evaluate(c, p)
}

func searchLevel(level int) *int {
	return &level
}

func tileGrids(tiles []Tile) []tilegrid.Grid {
	gs := make([]tilegrid.Grid, len(tiles))
	for i, tile := range tiles {
		gs[i] = tile.Grid
	}
	return gs
}

// the tiles around lon 10, lat 45 seen from the altitude of level 3
var level6Around10x45 = []tilegrid.Grid{
	tilegrid.MustNew(6, 22, 32), tilegrid.MustNew(6, 22, 33), tilegrid.MustNew(6, 22, 34),
	tilegrid.MustNew(6, 23, 32), tilegrid.MustNew(6, 23, 33), tilegrid.MustNew(6, 23, 34),
}

func TestPoseUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    Pose
		wantErr bool
	}{
		{
			name: "defaults",
			json: `{"id":"a","lon":10,"lat":45}`,
			want: Pose{ID: "a", Lon: 10, Lat: 45, Level: 3, Pitch: 90},
		},
		{
			name: "everything",
			json: `{"lon":1,"lat":2,"level":5,"pitch":60,"searchLevel":7,"label":"x"}`,
			want: Pose{Lon: 1, Lat: 2, Level: 5, Pitch: 60, SearchLevel: searchLevel(7), Extra: map[string]interface{}{"label": "x"}},
		},
		{name: "lat out of range", json: `{"lon":0,"lat":100}`, wantErr: true},
		{name: "lon out of range", json: `{"lon":-181,"lat":0}`, wantErr: true},
		{name: "zero pitch", json: `{"lon":0,"lat":0,"pitch":0}`, wantErr: true},
		{name: "negative level", json: `{"lon":0,"lat":0,"level":-1}`, wantErr: true},
		{name: "search level too deep", json: `{"lon":0,"lat":0,"searchLevel":31}`, wantErr: true},
		{name: "not json", json: `lon=0`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pose
			err := json.Unmarshal([]byte(tt.json), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestNewPose(t *testing.T) {
	p := NewPose("x", 4.9, 52.37)
	assert.Equal(t, Pose{ID: "x", Lon: 4.9, Lat: 52.37, Level: 3, Pitch: 90}, p)
	assert.NoError(t, p.Validate())
	assert.Equal(t, 0, p.Line())
}

func TestNewEvaluator(t *testing.T) {
	_, err := NewEvaluator(camera.Config{}, camera.DefaultPlanOptions(), nil)
	assert.Error(t, err)
	_, err = NewEvaluator(testConfig(), camera.PlanOptions{}, nil)
	assert.Error(t, err)

	bottomLeft := tms20.TileMatrixSet{TileMatrices: map[int]tms20.TileMatrix{0: {CornerOfOrigin: tms20.BottomLeft}}}
	_, err = NewEvaluator(testConfig(), camera.DefaultPlanOptions(), &bottomLeft)
	assert.ErrorIs(t, err, tms20.ErrNotQuadtree)
}

func TestEvaluateSearchLevel(t *testing.T) {
	e := newEvaluator(t, nil)
	p := NewPose("a", 10, 45)
	p.SearchLevel = searchLevel(6)
	result := evaluate(t, e, p)

	require.Empty(t, result.Error)
	assert.Nil(t, result.Plan)
	assert.ElementsMatch(t, level6Around10x45, tileGrids(result.Tiles))
	for _, tile := range result.Tiles {
		assert.Equal(t, tile.Grid.Quadkey(), tile.Quadkey)
		assert.Len(t, tile.Quadkey, 6)
		assert.Greater(t, tile.PixelArea, 0.0)
		assert.GreaterOrEqual(t, tile.VisibleCorner, 1)
		assert.Nil(t, tile.Native)
		assert.True(t, tile.Sector.Contains(tile.Sector.Center()))
	}
}

func TestEvaluateOrdersByDistanceToCentre(t *testing.T) {
	e := newEvaluator(t, nil)
	p := NewPose("a", 0, 0)
	p.Level = 0
	p.SearchLevel = searchLevel(5)
	result := evaluate(t, e, p)

	require.Empty(t, result.Error)
	require.NotEmpty(t, result.Tiles)
	// the four tiles sharing the nadir corner come first
	centre := map[tilegrid.Grid]bool{
		tilegrid.MustNew(5, 15, 15): true, tilegrid.MustNew(5, 15, 16): true,
		tilegrid.MustNew(5, 16, 15): true, tilegrid.MustNew(5, 16, 16): true,
	}
	require.Greater(t, len(result.Tiles), 4)
	for _, tile := range result.Tiles[:4] {
		assert.True(t, centre[tile.Grid], "%v", tile.Grid)
	}
}

func TestEvaluateRenderPlan(t *testing.T) {
	e := newEvaluator(t, nil)
	p := NewPose("b", 0, 0)
	p.Level = 0
	result := evaluate(t, e, p)

	require.Empty(t, result.Error)
	require.NotNil(t, result.Plan)
	assert.Equal(t, 0, result.Plan.Level)
	assert.Equal(t, 3, result.Plan.SearchLevel)
	assert.Equal(t, 1.0, result.Plan.Threshold)
	assert.Len(t, result.Tiles, 4)
	require.Len(t, result.Plan.Levels, 2)
	assert.ElementsMatch(t, result.Plan.Levels[1].Grids, tileGrids(result.Tiles))
	assert.Len(t, result.Plan.Pinned.Grids, 4)
}

func TestEvaluateTilted(t *testing.T) {
	e := newEvaluator(t, nil)
	p := NewPose("c", 10, 45)
	p.Pitch = 60
	result := evaluate(t, e, p)

	require.Empty(t, result.Error)
	require.NotNil(t, result.Plan)
	assert.InDelta(t, 1.5, result.Plan.Threshold, 1e-12)
	assert.Equal(t, 6, result.Plan.SearchLevel)
}

func TestEvaluateNativeEnvelope(t *testing.T) {
	tms, err := tms20.LoadEmbeddedTileMatrixSet("WebMercatorQuad")
	require.NoError(t, err)
	e := newEvaluator(t, &tms)
	p := NewPose("a", 10, 45)
	p.SearchLevel = searchLevel(6)
	result := evaluate(t, e, p)

	require.Empty(t, result.Error)
	require.Len(t, result.Tiles, len(level6Around10x45))
	for _, tile := range result.Tiles {
		require.NotNil(t, tile.Native, "%v", tile.Grid)
		want, err := tilegrid.WebMercator().WebMercatorEnvelope(tile.Grid)
		require.NoError(t, err)
		for i := range want {
			assert.InDelta(t, want[i], tile.Native[i], 1e-3)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	e := newEvaluator(t, nil)

	result := evaluate(t, e, Pose{ID: "far east", Lon: 200, Level: 3, Pitch: 90})
	assert.Contains(t, result.Error, "far east")
	assert.Empty(t, result.Tiles)
	assert.NotNil(t, result.Tiles)

	p := NewPose("deep", 0, 0)
	p.SearchLevel = searchLevel(40)
	result = evaluate(t, e, p)
	assert.NotEmpty(t, result.Error)
}

type collectTarget struct {
	results []Result
}

func (c *collectTarget) WriteResults(results <-chan Result) {
	for r := range results {
		c.results = append(c.results, r)
	}
}

func TestEvaluatePoses(t *testing.T) {
	e := newEvaluator(t, nil)
	poses := SliceSource{NewPose("a", 10, 45), NewPose("b", 0, 0), NewPose("c", -70, -30)}
	target := &collectTarget{}
	EvaluatePoses(poses, target, e, 2)

	require.Len(t, target.results, len(poses))
	sort.Slice(target.results, func(i, j int) bool {
		return target.results[i].Pose.ID < target.results[j].Pose.ID
	})
	for i, r := range target.results {
		assert.Equal(t, poses[i].ID, r.Pose.ID)
		assert.Empty(t, r.Error)
		assert.NotEmpty(t, r.Tiles)
	}
}

func TestEvaluatePosesWithoutCamera(t *testing.T) {
	e := newEvaluator(t, nil)
	e.Config = camera.Config{}
	target := &collectTarget{}
	EvaluatePoses(SliceSource{NewPose("a", 10, 45), NewPose("b", 0, 0)}, target, e, 0)

	require.Len(t, target.results, 2)
	for _, r := range target.results {
		assert.NotEmpty(t, r.Error)
	}
}

func TestJSONLines(t *testing.T) {
	input := strings.Join([]string{
		`{"id":"a","lon":10,"lat":45,"level":3,"searchLevel":6,"label":"x"}`,
		`{"id":"b","lon":0,"lat":0,"level":0,"searchLevel":2}`,
		`{"id":"c","lon":0,"lat":0,"level":0,"searchLevel":0}`,
		``,
		`{"id":"bad","lon":500,"lat":0}`,
		`not json`,
	}, "\n")
	var output bytes.Buffer
	EvaluatePoses(JSONLinesSource{Reader: strings.NewReader(input)}, JSONLinesTarget{Writer: &output}, newEvaluator(t, nil), 3)

	type row struct {
		Line int `json:"line"`
		Pose struct {
			ID string `json:"id"`
		} `json:"pose"`
		Extra map[string]interface{} `json:"extra"`
		Tiles []tilegrid.Grid        `json:"tiles"`
		Error string                 `json:"error"`
	}
	var rows []row
	decoder := json.NewDecoder(&output)
	for decoder.More() {
		var r row
		require.NoError(t, decoder.Decode(&r))
		rows = append(rows, r)
	}
	require.Len(t, rows, 5)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Line < rows[j].Line })

	assert.Equal(t, []int{1, 2, 3, 5, 6}, []int{rows[0].Line, rows[1].Line, rows[2].Line, rows[3].Line, rows[4].Line})

	assert.Equal(t, "a", rows[0].Pose.ID)
	assert.Equal(t, map[string]interface{}{"label": "x"}, rows[0].Extra)
	assert.ElementsMatch(t, level6Around10x45, rows[0].Tiles)
	assert.Empty(t, rows[0].Error)

	assert.ElementsMatch(t, []tilegrid.Grid{
		tilegrid.MustNew(2, 1, 1), tilegrid.MustNew(2, 1, 2),
		tilegrid.MustNew(2, 2, 1), tilegrid.MustNew(2, 2, 2),
	}, rows[1].Tiles)

	assert.Empty(t, rows[2].Tiles, "level 0 has no renderable tile")
	assert.Empty(t, rows[2].Error)

	assert.Equal(t, "bad", rows[3].Pose.ID)
	assert.Contains(t, rows[3].Error, "line 5")
	assert.Contains(t, rows[4].Error, "line 6")
}

func TestWKTTarget(t *testing.T) {
	p := NewPose("a", 10, 45)
	p.SearchLevel = searchLevel(6)
	var output bytes.Buffer
	target := WKTTarget{Writer: &output, MaxLength: 20, Indent: 2}
	EvaluatePoses(SliceSource{p, {ID: "bad", Lon: 500, Pitch: 90}}, target, newEvaluator(t, nil), 1)

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	require.Len(t, lines, 2+len(level6Around10x45))
	headers := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "pose ") {
			headers++
			if strings.HasPrefix(line, `pose "bad"`) {
				assert.Contains(t, line, "error:")
			}
			continue
		}
		assert.True(t, strings.HasPrefix(line, "  6/"), line)
		fields := strings.SplitN(strings.TrimSpace(line), " ", 3)
		require.Len(t, fields, 3)
		assert.Len(t, fields[1], 6)
		assert.True(t, strings.HasPrefix(fields[2], "POLYGON"), fields[2])
		assert.LessOrEqual(t, len(fields[2]), 20)
		assert.True(t, strings.HasSuffix(fields[2], "..."), fields[2])
	}
	assert.Equal(t, 2, headers)
}
