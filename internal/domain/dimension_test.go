package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver returns canned places, or an error, and records the points it
// was asked about.
type fakeResolver struct {
	places []Place
	err    error
	got    []Point
}

func (f *fakeResolver) Resolve(_ context.Context, points []Point) ([]Place, error) {
	f.got = points
	if f.err != nil {
		return nil, f.err
	}
	if f.places != nil {
		return f.places, nil
	}
	return make([]Place, len(points)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildWavelengthDim(t *testing.T) {
	long := []LongRecord{
		{WavelengthNm: 870},
		{WavelengthNm: 440},
		{WavelengthNm: 870},
		{WavelengthNm: 340},
	}

	rows := BuildWavelengthDim(long)

	require.Len(t, rows, 3)
	assert.Equal(t, WavelengthRow{ID: 1, WavelengthNm: 340, SpectralBand: BandUV, Sensitivity: SensitivityFine}, rows[0])
	assert.Equal(t, WavelengthRow{ID: 2, WavelengthNm: 440, SpectralBand: BandVIS, Sensitivity: SensitivityFine}, rows[1])
	assert.Equal(t, WavelengthRow{ID: 3, WavelengthNm: 870, SpectralBand: BandNIR, Sensitivity: SensitivityCoarse}, rows[2])
}

func TestBuildDateDim(t *testing.T) {
	jan1 := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb5 := time.Date(2020, time.February, 5, 0, 0, 0, 0, time.UTC)

	rows := BuildDateDim([]LongRecord{{Date: feb5}, {Date: jan1}, {Date: feb5}})

	require.Len(t, rows, 2)
	assert.Equal(t, DateRow{ID: 1, Date: jan1, Year: 2020, Month: 1, Day: 1, DayOfYear: 1}, rows[0])
	assert.Equal(t, DateRow{ID: 2, Date: feb5, Year: 2020, Month: 2, Day: 5, DayOfYear: 36}, rows[1])
}

func TestBuildSiteDim(t *testing.T) {
	t.Run("dedups on the full tuple and keys in first-encounter order", func(t *testing.T) {
		long := []LongRecord{
			{Site: "B", Latitude: 10, Longitude: 20, Elevation: 100},
			{Site: "A", Latitude: 30, Longitude: 40, Elevation: 200},
			{Site: "B", Latitude: 10, Longitude: 20, Elevation: 100},
			{Site: "B", Latitude: 10, Longitude: 20, Elevation: 999}, // differs in elevation
		}
		resolver := &fakeResolver{places: []Place{
			{Country: "Italy", Continent: "Europe"},
			{Country: "Chad", Continent: "Africa"},
			{Country: "Italy", Continent: "Europe"},
		}}

		rows, filtered := BuildSiteDim(context.Background(), long, resolver, discardLogger())

		require.Len(t, rows, 3)
		assert.Empty(t, filtered)
		assert.Equal(t, SiteRow{ID: 1, Site: "B", Latitude: 10, Longitude: 20, Elevation: 100, Country: "Italy", Continent: "Europe"}, rows[0])
		assert.Equal(t, SiteRow{ID: 2, Site: "A", Latitude: 30, Longitude: 40, Elevation: 200, Country: "Chad", Continent: "Africa"}, rows[1])
		assert.Equal(t, 999.0, rows[2].Elevation)
		assert.Equal(t, []Point{{Lon: 20, Lat: 10}, {Lon: 40, Lat: 30}, {Lon: 20, Lat: 10}}, resolver.got)
	})

	t.Run("repairs transposed coordinates", func(t *testing.T) {
		long := []LongRecord{{Site: "Swapped", Latitude: 120, Longitude: 40, Elevation: 5}}

		rows, filtered := BuildSiteDim(context.Background(), long, NoopResolver{}, discardLogger())

		require.Len(t, rows, 1)
		assert.Empty(t, filtered)
		assert.Equal(t, 40.0, rows[0].Latitude)
		assert.Equal(t, 120.0, rows[0].Longitude)
	})

	t.Run("discards sites still out of range after repair", func(t *testing.T) {
		long := []LongRecord{
			{Site: "Broken", Latitude: 120, Longitude: 200, Elevation: 5},
			{Site: "Fine", Latitude: 45, Longitude: 7, Elevation: 300},
		}

		rows, filtered := BuildSiteDim(context.Background(), long, NoopResolver{}, discardLogger())

		require.Len(t, rows, 1)
		assert.Equal(t, "Fine", rows[0].Site)
		assert.Equal(t, 1, rows[0].ID, "surrogate keys stay dense after filtering")
		assert.Equal(t, []string{"Broken"}, filtered)
	})

	t.Run("missing coordinates are filtered, not enriched", func(t *testing.T) {
		long := []LongRecord{{Site: "NoCoords", Latitude: math.NaN(), Longitude: math.NaN()}}

		rows, filtered := BuildSiteDim(context.Background(), long, NoopResolver{}, discardLogger())

		assert.Empty(t, rows)
		assert.Equal(t, []string{"NoCoords"}, filtered)
	})

	t.Run("resolver failure degrades to missing country and continent", func(t *testing.T) {
		long := []LongRecord{{Site: "A", Latitude: 10, Longitude: 20}}
		resolver := &fakeResolver{err: errors.New("boundary dataset unreadable")}

		rows, _ := BuildSiteDim(context.Background(), long, resolver, discardLogger())

		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Country)
		assert.Empty(t, rows[0].Continent)
	})

	t.Run("short resolver result degrades to missing", func(t *testing.T) {
		long := []LongRecord{
			{Site: "A", Latitude: 10, Longitude: 20},
			{Site: "B", Latitude: 30, Longitude: 40},
		}
		resolver := &fakeResolver{places: []Place{{Country: "Italy", Continent: "Europe"}}}

		rows, _ := BuildSiteDim(context.Background(), long, resolver, discardLogger())

		require.Len(t, rows, 2)
		assert.Empty(t, rows[0].Country)
		assert.Empty(t, rows[1].Country)
	})
}
