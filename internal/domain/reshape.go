package domain

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"
)

// aodColumnRe matches wide AOD columns and captures the embedded wavelength,
// e.g. "AOD_440nm" → 440.
var aodColumnRe = regexp.MustCompile(`^AOD_(\d+)nm$`)

// ErrNoAODColumns indicates the input schema carries no AOD_<wavelength>nm
// columns at all. That is a contract violation, not a data-quality issue,
// and aborts the run.
var ErrNoAODColumns = errors.New("no AOD_<wavelength>nm columns in input")

// AODColumn is one wide AOD column together with its extracted wavelength.
type AODColumn struct {
	Name         string
	WavelengthNm float64
	Pos          int // column position in the source table
}

// WideRecord is one normalized input row: parsed context fields plus the AOD
// value of every discovered wavelength column, parallel to the AODColumn
// slice returned by ParseWideRecords.
type WideRecord struct {
	Site         string
	Date         time.Time
	DayOfYear    float64
	PrecipWater  float64
	AngstromExp  float64
	ParticleType string
	Latitude     float64
	Longitude    float64
	Elevation    float64
	AOD          []float64
}

// LongRecord is one (site, date, wavelength) observation after the unpivot,
// annotated with band and sensitivity.
type LongRecord struct {
	Site         string
	Date         time.Time
	DayOfYear    float64
	PrecipWater  float64
	AngstromExp  float64
	ParticleType string
	Latitude     float64
	Longitude    float64
	Elevation    float64
	WavelengthNm float64
	AODValue     float64
	SpectralBand string
	Sensitivity  string
}

// DiscoverAODColumns returns every column matching AOD_<integer>nm, in table
// order, or ErrNoAODColumns when the input carries none.
func DiscoverAODColumns(t Table) ([]AODColumn, error) {
	var cols []AODColumn
	for i, name := range t.Columns {
		m := aodColumnRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		nm, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cols = append(cols, AODColumn{Name: name, WavelengthNm: float64(nm), Pos: i})
	}
	if len(cols) == 0 {
		return nil, ErrNoAODColumns
	}
	return cols, nil
}

// ParseWideRecords coerces every row of a sentinel-cleaned table into a
// WideRecord: numeric columns to float64 (non-numeric → NaN), the date column
// to a time.Time (unparseable → zero), and the particle type classified from
// the Ångström exponent. Per-value malformation never fails the parse.
func ParseWideRecords(t Table) ([]WideRecord, []AODColumn, error) {
	aodCols, err := DiscoverAODColumns(t)
	if err != nil {
		return nil, nil, err
	}

	idx := t.Index()
	records := make([]WideRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		ae := ParseNumber(cell(row, idx, ColAngstromExp))
		rec := WideRecord{
			Site:         cell(row, idx, ColSite),
			Date:         ParseDate(cell(row, idx, ColDateText)),
			DayOfYear:    ParseNumber(cell(row, idx, ColDayOfYear)),
			PrecipWater:  ParseNumber(cell(row, idx, ColPrecipWater)),
			AngstromExp:  ae,
			ParticleType: ClassifyParticle(ae),
			Latitude:     ParseNumber(cell(row, idx, ColLatitude)),
			Longitude:    ParseNumber(cell(row, idx, ColLongitude)),
			Elevation:    ParseNumber(cell(row, idx, ColElevation)),
			AOD:          make([]float64, len(aodCols)),
		}
		for j, c := range aodCols {
			var v string
			if c.Pos < len(row) {
				v = row[c.Pos]
			}
			rec.AOD[j] = ParseNumber(v)
		}
		records = append(records, rec)
	}
	return records, aodCols, nil
}

// ReshapeStats counts rows removed during the unpivot.
type ReshapeStats struct {
	// DroppedMissingAOD counts candidate long rows whose AOD value was
	// missing (the wavelength is always known, it comes from the column name).
	DroppedMissingAOD int
	// DroppedIncomplete counts long rows removed because the site name or
	// date was missing. Such rows could never resolve their dimension keys;
	// dropping them here keeps per-value malformation non-fatal while
	// preserving fact-table referential integrity.
	DroppedIncomplete int
}

// Melt unpivots wide records into one LongRecord per (row, AOD column) pair,
// annotating each with spectral band and sensitivity, and drops rows that
// cannot reach the warehouse (missing AOD value, site, or date).
func Melt(records []WideRecord, aodCols []AODColumn) ([]LongRecord, ReshapeStats) {
	var stats ReshapeStats
	long := make([]LongRecord, 0, len(records)*len(aodCols))
	for _, rec := range records {
		for j, c := range aodCols {
			v := rec.AOD[j]
			if math.IsNaN(v) {
				stats.DroppedMissingAOD++
				continue
			}
			if rec.Site == "" || rec.Date.IsZero() {
				stats.DroppedIncomplete++
				continue
			}
			long = append(long, LongRecord{
				Site:         rec.Site,
				Date:         rec.Date,
				DayOfYear:    rec.DayOfYear,
				PrecipWater:  rec.PrecipWater,
				AngstromExp:  rec.AngstromExp,
				ParticleType: rec.ParticleType,
				Latitude:     rec.Latitude,
				Longitude:    rec.Longitude,
				Elevation:    rec.Elevation,
				WavelengthNm: c.WavelengthNm,
				AODValue:     v,
				SpectralBand: SpectralBand(c.WavelengthNm),
				Sensitivity:  AerosolSensitivity(c.WavelengthNm),
			})
		}
	}
	return long, stats
}
