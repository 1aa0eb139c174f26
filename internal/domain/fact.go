package domain

import (
	"fmt"
	"time"
)

// FactRow is one fact_aod entry: a single AOD observation referencing the
// three dimension surrogate keys.
type FactRow struct {
	ID           int
	DateID       int
	WavelengthID int
	SiteID       int
	ParticleType string
	AODValue     float64
	PrecipWater  float64
	AngstromExp  float64
}

// BuildFacts joins long records against the three dimensions on their
// natural keys (wavelength value, date, site name) and projects the eight
// warehouse columns, assigning a dense Fact_ID 1..N in row order.
//
// An unresolved key is a data-integrity defect and fails the build: a NULL
// foreign key would be rejected by the warehouse constraints anyway, so the
// defect is surfaced here with the offending key named. The one exception:
// rows whose site was discarded by the coordinate range filter are dropped
// and counted, since that removal is a deliberate data-quality rule.
func BuildFacts(long []LongRecord, waves []WavelengthRow, dates []DateRow, sites []SiteRow, filteredSites []string) ([]FactRow, int, error) {
	waveID := make(map[float64]int, len(waves))
	for _, w := range waves {
		waveID[w.WavelengthNm] = w.ID
	}
	dateID := make(map[time.Time]int, len(dates))
	for _, d := range dates {
		dateID[d.Date] = d.ID
	}
	// First-encounter row wins for duplicate site names, so each fact row
	// resolves to exactly one site key.
	siteID := make(map[string]int, len(sites))
	for _, s := range sites {
		if _, ok := siteID[s.Site]; !ok {
			siteID[s.Site] = s.ID
		}
	}
	filtered := make(map[string]struct{}, len(filteredSites))
	for _, name := range filteredSites {
		filtered[name] = struct{}{}
	}

	facts := make([]FactRow, 0, len(long))
	dropped := 0
	for i, r := range long {
		sID, ok := siteID[r.Site]
		if !ok {
			if _, wasFiltered := filtered[r.Site]; wasFiltered {
				dropped++
				continue
			}
			return nil, dropped, fmt.Errorf("fact row %d: site %q has no dim_site entry", i, r.Site)
		}
		wID, ok := waveID[r.WavelengthNm]
		if !ok {
			return nil, dropped, fmt.Errorf("fact row %d: wavelength %gnm has no dim_wavelength entry", i, r.WavelengthNm)
		}
		dID, ok := dateID[r.Date]
		if !ok {
			return nil, dropped, fmt.Errorf("fact row %d: date %s has no dim_date entry", i, r.Date.Format("2006-01-02"))
		}
		facts = append(facts, FactRow{
			ID:           len(facts) + 1,
			DateID:       dID,
			WavelengthID: wID,
			SiteID:       sID,
			ParticleType: r.ParticleType,
			AODValue:     r.AODValue,
			PrecipWater:  r.PrecipWater,
			AngstromExp:  r.AngstromExp,
		})
	}
	return facts, dropped, nil
}
