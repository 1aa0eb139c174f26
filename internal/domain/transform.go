package domain

import (
	"context"
	"log/slog"
	"time"
)

// Star is one complete warehouse snapshot: the fact table, its three
// dimensions, and the instant the transform produced them.
type Star struct {
	Facts       []FactRow
	Wavelengths []WavelengthRow
	Dates       []DateRow
	Sites       []SiteRow
	BuiltAt     time.Time
}

// TransformStats summarizes what the transform did to the input, for logs
// and metrics.
type TransformStats struct {
	SentinelCells     int // -999 cells rewritten to missing
	WideRows          int // input rows parsed
	LongRows          int // observations surviving the unpivot
	DroppedMissingAOD int // candidate observations with no AOD value
	DroppedIncomplete int // observations missing site or date
	FilteredSites     int // site tuples discarded by the coordinate filter
	OrphanedFacts     int // observations dropped with their filtered site
}

// Transform runs the full wide-to-star pipeline over a raw table:
// sentinel cleanup, normalization and particle classification, the
// wide-to-long unpivot with band/sensitivity annotation, dimension
// derivation (including the spatial site enrichment), and fact assembly.
//
// Per-value malformation degrades to missing values and is never an error.
// The two failure modes are an input schema without AOD columns
// (ErrNoAODColumns) and a fact row that cannot resolve a dimension key.
func Transform(ctx context.Context, t *Table, resolver Resolver, logger *slog.Logger) (Star, TransformStats, error) {
	var stats TransformStats
	stats.SentinelCells = ReplaceSentinels(t)

	wide, aodCols, err := ParseWideRecords(*t)
	if err != nil {
		return Star{}, stats, err
	}
	stats.WideRows = len(wide)

	long, reshape := Melt(wide, aodCols)
	stats.LongRows = len(long)
	stats.DroppedMissingAOD = reshape.DroppedMissingAOD
	stats.DroppedIncomplete = reshape.DroppedIncomplete
	if reshape.DroppedIncomplete > 0 {
		logger.Warn("dropped observations with missing site or date",
			"count", reshape.DroppedIncomplete)
	}

	waves := BuildWavelengthDim(long)
	dates := BuildDateDim(long)
	sites, filtered := BuildSiteDim(ctx, long, resolver, logger)
	stats.FilteredSites = len(filtered)
	if len(filtered) > 0 {
		logger.Warn("discarded sites with out-of-range coordinates",
			"count", len(filtered), "sites", filtered)
	}

	facts, orphaned, err := BuildFacts(long, waves, dates, sites, filtered)
	if err != nil {
		return Star{}, stats, err
	}
	stats.OrphanedFacts = orphaned
	if orphaned > 0 {
		logger.Warn("dropped observations belonging to discarded sites",
			"count", orphaned)
	}

	return Star{
		Facts:       facts,
		Wavelengths: waves,
		Dates:       dates,
		Sites:       sites,
		BuiltAt:     clock.Now(),
	}, stats, nil
}
