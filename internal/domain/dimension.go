package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// WavelengthRow is one dim_wavelength entry.
type WavelengthRow struct {
	ID           int
	WavelengthNm float64
	SpectralBand string
	Sensitivity  string
}

// DateRow is one dim_date entry.
type DateRow struct {
	ID        int
	Date      time.Time
	Year      int
	Month     int
	Day       int
	DayOfYear int
}

// SiteRow is one dim_site entry. Country and Continent are "" when spatial
// enrichment found no match or was unavailable.
type SiteRow struct {
	ID        int
	Site      string
	Latitude  float64
	Longitude float64
	Elevation float64
	Country   string
	Continent string
}

// BuildWavelengthDim derives the wavelength dimension: distinct wavelengths
// with their band and sensitivity labels, sorted ascending, keyed 1..N.
func BuildWavelengthDim(long []LongRecord) []WavelengthRow {
	seen := make(map[float64]struct{})
	var waves []float64
	for _, r := range long {
		if _, ok := seen[r.WavelengthNm]; !ok {
			seen[r.WavelengthNm] = struct{}{}
			waves = append(waves, r.WavelengthNm)
		}
	}
	sort.Float64s(waves)

	rows := make([]WavelengthRow, len(waves))
	for i, nm := range waves {
		rows[i] = WavelengthRow{
			ID:           i + 1,
			WavelengthNm: nm,
			SpectralBand: SpectralBand(nm),
			Sensitivity:  AerosolSensitivity(nm),
		}
	}
	return rows
}

// BuildDateDim derives the date dimension: distinct dates sorted ascending,
// keyed 1..N, with year/month/day/day-of-year unpacked from the date value.
func BuildDateDim(long []LongRecord) []DateRow {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, r := range long {
		if _, ok := seen[r.Date]; !ok {
			seen[r.Date] = struct{}{}
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	rows := make([]DateRow, len(dates))
	for i, d := range dates {
		rows[i] = DateRow{
			ID:        i + 1,
			Date:      d,
			Year:      d.Year(),
			Month:     int(d.Month()),
			Day:       d.Day(),
			DayOfYear: d.YearDay(),
		}
	}
	return rows
}

// BuildSiteDim derives the site dimension: distinct (site, lat, long,
// elevation) tuples in first-encounter order, with coordinate repair, range
// filtering, surrogate keys 1..N in post-filter order, and one spatial
// lookup for country/continent across all retained sites.
//
// Coordinate repair: when |lat| > 90 and |long| <= 90 the two values were
// transposed in the source and are swapped back. Rows whose repaired
// coordinates still fall outside lat [-90,90] / long [-180,180] are
// discarded; the second return value lists their site names so the fact
// assembler can distinguish filtered sites from join defects.
func BuildSiteDim(ctx context.Context, long []LongRecord, resolver Resolver, logger *slog.Logger) ([]SiteRow, []string) {
	seen := make(map[string]struct{})
	var rows []SiteRow
	var filtered []string

	for _, r := range long {
		// NaN-safe dedup key: NaN != NaN, so a map keyed on the floats
		// would never dedup rows with missing coordinates.
		key := fmt.Sprintf("%s|%g|%g|%g", r.Site, r.Latitude, r.Longitude, r.Elevation)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		lat, lon := repairCoordinates(r.Latitude, r.Longitude)
		if !inRange(lat, -90, 90) || !inRange(lon, -180, 180) {
			filtered = append(filtered, r.Site)
			continue
		}
		rows = append(rows, SiteRow{
			ID:        len(rows) + 1,
			Site:      r.Site,
			Latitude:  lat,
			Longitude: lon,
			Elevation: r.Elevation,
		})
	}

	points := make([]Point, len(rows))
	for i, s := range rows {
		points[i] = Point{Lon: s.Longitude, Lat: s.Latitude}
	}
	places := resolvePlaces(ctx, resolver, points, logger)
	for i := range rows {
		rows[i].Country = places[i].Country
		rows[i].Continent = places[i].Continent
	}
	return rows, filtered
}

// repairCoordinates swaps lat/long when the pair was clearly transposed in
// the source (|lat| beyond the pole range while |long| fits it).
func repairCoordinates(lat, lon float64) (float64, float64) {
	if math.Abs(lat) > 90 && math.Abs(lon) <= 90 {
		return lon, lat
	}
	return lat, lon
}

// inRange reports lo <= v <= hi. NaN is never in range, so sites with
// missing coordinates are filtered rather than enriched against (0, 0).
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
