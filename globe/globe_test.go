package globe

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeographicCartesianRoundTrip(t *testing.T) {
	for lon := -179.5; lon < 180; lon += 7.3 {
		for lat := -88.5; lat < 89; lat += 4.1 {
			v, err := Earth().GeographicToCartesian(lon, lat)
			require.NoError(t, err)
			assert.InDelta(t, EarthRadius, v.Vector().Length(), 1e-6)

			gotLon, gotLat := CartesianToGeographic(v)
			assert.InDelta(t, lon, gotLon, 1e-9, "lon of (%v, %v)", lon, lat)
			assert.InDelta(t, lat, gotLat, 1e-9, "lat of (%v, %v)", lon, lat)
		}
	}
}

func TestGeographicToCartesianAxes(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     Vertice
	}{
		{name: "null island on +Z", lon: 0, lat: 0, want: NewVertice(0, 0, EarthRadius)},
		{name: "east on +X", lon: 90, lat: 0, want: NewVertice(EarthRadius, 0, 0)},
		{name: "north pole on +Y", lon: 0, lat: 90, want: NewVertice(0, EarthRadius, 0)},
		{name: "antimeridian on -Z", lon: 180, lat: 0, want: NewVertice(0, 0, -EarthRadius)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Earth().GeographicToCartesian(tt.lon, tt.lat)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.X, got.X, 1e-6)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-6)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-6)
		})
	}
}

func TestCartesianToGeographicDegenerate(t *testing.T) {
	lon, lat := CartesianToGeographic(Origin())
	assert.Equal(t, 0.0, lon)
	assert.Equal(t, 0.0, lat)

	lon, lat = CartesianToGeographic(NewVertice(0, -10, 0))
	assert.Equal(t, 0.0, lon)
	assert.InDelta(t, -90, lat, 1e-12)

	// far above the surface maps to the point below
	lon, lat = CartesianToGeographic(NewVertice(0, 0, -3*EarthRadius))
	assert.InDelta(t, 180, math.Abs(lon), 1e-12)
	assert.InDelta(t, 0, lat, 1e-12)
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		call  func() error
		param string
	}{
		{name: "lon out of range", param: "lon", call: func() error {
			_, err := Earth().GeographicToCartesian(200, 0)
			return err
		}},
		{name: "lat out of range", param: "lat", call: func() error {
			_, err := Earth().GeographicToCartesian(0, -91)
			return err
		}},
		{name: "nan radius", param: "r", call: func() error {
			_, err := Earth().GeographicToCartesianRadius(0, 0, math.NaN())
			return err
		}},
		{name: "mercator pole", param: "lat", call: func() error {
			_, _, err := Earth().DegreeGeographicToWebMercator(0, 90)
			return err
		}},
		{name: "infinite mercator y", param: "y", call: func() error {
			_, _, err := Earth().WebMercatorToDegreeGeographic(0, math.Inf(1))
			return err
		}},
		{name: "negative level", param: "level", call: func() error {
			_, err := LengthFromCamera2EarthSurface(-1)
			return err
		}},
		{name: "zero canvas", param: "height", call: func() error {
			_, err := NewCanvas(10, 0)
			return err
		}},
		{name: "inverted sector", param: "minLat", call: func() error {
			_, err := NewSector(0, 10, 1, 5)
			return err
		}},
		{name: "plane without normal", param: "plan", call: func() error {
			_, err := NewPlan(0, 0, 0, 1)
			return err
		}},
		{name: "nan degree", param: "degree", call: func() error {
			_, err := DegreeToRadian(math.NaN())
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			var invalid *InvalidArgumentError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.param, invalid.Param)
		})
	}
}

func TestAngles(t *testing.T) {
	r, err := DegreeToRadian(180)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, r, 1e-15)
	d, err := RadianToDegree(math.Pi / 2)
	require.NoError(t, err)
	assert.InDelta(t, 90, d, 1e-12)
	assert.InDelta(t, 1, OneDegreeEqualRadian*OneRadianEqualDegree, 1e-15)
}

func TestWebMercatorRoundTrip(t *testing.T) {
	for lon := -180.0; lon <= 180; lon += 11.25 {
		for lat := -84.9; lat < 85; lat += 3.7 {
			x, y, err := Earth().DegreeGeographicToWebMercator(lon, lat)
			require.NoError(t, err)
			gotLon, gotLat, err := Earth().WebMercatorToDegreeGeographic(x, y)
			require.NoError(t, err)
			assert.InDelta(t, lon, gotLon, 1e-9)
			assert.InDelta(t, lat, gotLat, 1e-9)
		}
	}
}

func TestWebMercatorRadianRoundTrip(t *testing.T) {
	x, y, err := Earth().RadianGeographicToWebMercator(0.5, -0.7)
	require.NoError(t, err)
	lon, lat, err := Earth().WebMercatorToRadianGeographic(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, lon, 1e-12)
	assert.InDelta(t, -0.7, lat, 1e-12)

	_, _, err = Earth().WebMercatorToRadianGeographic(math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = Earth().RadianGeographicToWebMercator(0, math.Pi/2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestWebMercatorExtent(t *testing.T) {
	x, y, err := Earth().DegreeGeographicToWebMercator(180, MaxMercatorLatitude)
	require.NoError(t, err)
	assert.InDelta(t, Earth().MaxProjectedCoord, x, 1e-6)
	assert.InDelta(t, Earth().MaxProjectedCoord, y, 1e-6)
	assert.InDelta(t, 20037508.342789244, Earth().MaxProjectedCoord, 1e-6)
}

func TestCanvasNDC(t *testing.T) {
	canvas, err := NewCanvas(800, 600)
	require.NoError(t, err)
	tests := []struct {
		cx, cy, ndcX, ndcY float64
	}{
		{cx: 0, cy: 0, ndcX: -1, ndcY: 1},
		{cx: 800, cy: 600, ndcX: 1, ndcY: -1},
		{cx: 400, cy: 300, ndcX: 0, ndcY: 0},
		{cx: 600, cy: 150, ndcX: 0.5, ndcY: 0.5},
	}
	for _, tt := range tests {
		ndcX, ndcY, err := canvas.CanvasToNDC(tt.cx, tt.cy)
		require.NoError(t, err)
		assert.InDelta(t, tt.ndcX, ndcX, 1e-12)
		assert.InDelta(t, tt.ndcY, ndcY, 1e-12)

		cx, cy, err := canvas.NDCToCanvas(ndcX, ndcY)
		require.NoError(t, err)
		assert.InDelta(t, tt.cx, cx, 1e-9)
		assert.InDelta(t, tt.cy, cy, 1e-9)
	}
}

func TestLengthFromCamera2EarthSurface(t *testing.T) {
	l0, err := LengthFromCamera2EarthSurface(0)
	require.NoError(t, err)
	assert.Equal(t, 7820683.0, l0)

	l20, err := LengthFromCamera2EarthSurface(20)
	require.NoError(t, err)
	assert.InDelta(t, 7.46, l20, 0.01)
}

func TestLineIntersectPointWithEarth(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want int
	}{
		{
			name: "through the centre",
			line: NewLine(NewVertice(0, 0, 2*EarthRadius), NewVector(0, 0, -1)),
			want: 2,
		},
		{
			name: "diagonal through the centre",
			line: NewLine(NewVertice(1e7, 1e7, 1e7), NewVector(-3, -3, -3)),
			want: 2,
		},
		{
			name: "outside",
			line: NewLine(NewVertice(0, 2*EarthRadius, 0), NewVector(1, 0, 0)),
			want: 0,
		},
		{
			name: "tangent",
			line: NewLine(NewVertice(EarthRadius, 0, 5*EarthRadius), NewVector(0, 0, -1)),
			want: 1,
		},
		{
			name: "no direction",
			line: NewLine(NewVertice(0, 0, 2*EarthRadius), Vector{}),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Earth().LineIntersectPointWithEarth(tt.line)
			require.Len(t, got, tt.want)
			for _, v := range got {
				assert.InDelta(t, EarthRadius, v.Vector().Length(), 1e-3)
			}
		})
	}
}

func TestDistancesAndPlanes(t *testing.T) {
	xAxis := NewLine(Origin(), NewVector(2, 0, 0))
	assert.InDelta(t, 5, LengthFromVerticeToLine(NewVertice(3, 5, 0), xAxis), 1e-12)
	assert.InDelta(t, 5, LengthFromVerticeToVertice(NewVertice(0, 0, 0), NewVertice(3, 4, 0)), 1e-12)

	z2, err := NewPlan(0, 0, 2, -4)
	require.NoError(t, err)
	assert.InDelta(t, 3, LengthFromVerticeToPlan(NewVertice(1, 1, 5), z2), 1e-12)

	foot := VerticeVerticalIntersectPointWithPlan(NewVertice(1, 1, 5), z2)
	assert.InDelta(t, 1, foot.X, 1e-12)
	assert.InDelta(t, 1, foot.Y, 1e-12)
	assert.InDelta(t, 2, foot.Z, 1e-12)

	hit, ok := IntersectPointByLineAndPlan(NewLine(NewVertice(0, 0, -7), NewVector(0, 0, 3)), z2)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Z, 1e-12)

	_, ok = IntersectPointByLineAndPlan(xAxis, z2)
	assert.False(t, ok)

	plan, ok := CrossPlaneByLine(NewVertice(1, 2, 3), NewVector(0, 0, 2))
	require.True(t, ok)
	assert.Equal(t, Plan{A: 0, B: 0, C: 1, D: -3}, plan)
	_, ok = CrossPlaneByLine(NewVertice(1, 2, 3), Vector{})
	assert.False(t, ok)

	assert.InDelta(t, 6, TriangleArea(Origin(), NewVertice(3, 0, 0), NewVertice(0, 4, 0)), 1e-12)
	assert.Equal(t, 0.0, TriangleArea(Origin(), NewVertice(1, 0, 0), NewVertice(2, 0, 0)))
}

func TestSector(t *testing.T) {
	s, err := NewSector(-10, -5, 10, 5)
	require.NoError(t, err)
	lon, lat := s.Center()
	assert.Equal(t, 0.0, lon)
	assert.Equal(t, 0.0, lat)
	assert.True(t, s.Contains(10, -5))
	assert.False(t, s.Contains(10.1, 0))

	back, err := SectorFromBound(s.Bound())
	require.NoError(t, err)
	assert.Equal(t, s, back)
	ext := s.Extent()
	assert.Equal(t, -10.0, ext.MinX())
	assert.Equal(t, 5.0, ext.MaxY())
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(EarthRadius)
	require.NoError(t, err)
	assert.Equal(t, Earth().Radius, m.Radius)
	assert.InDelta(t, Earth().MaxProjectedCoord, m.MaxProjectedCoord, 1e-6)
	require.NoError(t, m.Validate())

	// every call is a fresh copy
	earth := Earth()
	earth.Radius = 1
	assert.Equal(t, EarthRadius, Earth().Radius)
	origin := Origin()
	origin.X = 1
	assert.True(t, Origin().IsOrigin())
	assert.False(t, origin.IsOrigin())

	_, err = NewModel(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Error(t, Model{Radius: 1}.Validate())
}
