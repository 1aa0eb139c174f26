package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Point is a WGS-84 coordinate in lon/lat order (the order boundary datasets
// use).
type Point struct {
	Lon float64
	Lat float64
}

// Place is the geographic enrichment for one point. Empty fields mean the
// point matched no country polygon, or enrichment was unavailable.
type Place struct {
	Country   string
	Continent string
}

// Resolver maps coordinates to the country and continent containing them.
type Resolver interface {
	// Resolve returns one Place per input point, in order. A returned error
	// means the lookup capability failed as a whole; callers degrade to
	// all-missing rather than aborting.
	Resolve(ctx context.Context, points []Point) ([]Place, error)
}

// NoopResolver satisfies Resolver when spatial enrichment is unavailable.
// Every point resolves to a missing country and continent.
type NoopResolver struct{}

func (NoopResolver) Resolve(_ context.Context, points []Point) ([]Place, error) {
	return make([]Place, len(points)), nil
}

// resolvePlaces runs the resolver over the points, degrading gracefully: a
// nil resolver, a lookup error, or a short result all yield all-missing
// places with a warning, never a failed transform.
func resolvePlaces(ctx context.Context, resolver Resolver, points []Point, logger *slog.Logger) []Place {
	missing := make([]Place, len(points))
	if resolver == nil || len(points) == 0 {
		return missing
	}

	places, err := resolver.Resolve(ctx, points)
	if err == nil && len(places) != len(points) {
		err = fmt.Errorf("resolver returned %d places for %d points", len(places), len(points))
	}
	if err != nil {
		logger.Warn("geographic enrichment skipped", "error", err)
		return missing
	}
	return places
}
