package naturalearth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"

	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
	"github.com/atmosdata/aeronet-dw-etl/internal/observability"
)

// Attribute names in the Natural Earth admin-0 countries table.
const (
	fieldCountry   = "ADMIN"
	fieldContinent = "CONTINENT"
)

// country is one admin-0 polygon with its attributes, indexed in the rtree.
type country struct {
	geom.Polygonal
	name      string
	continent string
}

// Resolver answers point-in-country lookups against the Natural Earth
// boundary polygons. It implements domain.Resolver.
type Resolver struct {
	index   *rtree.Rtree
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResolver loads the countries shapefile into an in-memory spatial index.
func NewResolver(shpPath string, metrics *observability.Metrics, logger *slog.Logger) (*Resolver, error) {
	dec, err := shp.NewDecoder(shpPath)
	if err != nil {
		return nil, fmt.Errorf("open countries shapefile: %w", err)
	}
	defer dec.Close()

	index := rtree.NewTree(25, 50)
	loaded := 0
	for {
		g, fields, more := dec.DecodeRowFields(fieldCountry, fieldContinent)
		if !more {
			break
		}
		poly, ok := g.(geom.Polygonal)
		if !ok {
			continue
		}
		index.Insert(&country{
			Polygonal: poly,
			name:      fields[fieldCountry],
			continent: fields[fieldContinent],
		})
		loaded++
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("decode countries shapefile: %w", err)
	}
	if loaded == 0 {
		return nil, fmt.Errorf("countries shapefile %s holds no polygons", shpPath)
	}

	logger.Info("boundary polygons indexed", "countries", loaded)
	return &Resolver{index: index, logger: logger, metrics: metrics}, nil
}

// New ensures the boundary dataset is cached under dir (fetching it when
// absent) and builds a Resolver from it. Callers degrade to
// domain.NoopResolver when this returns an error.
func New(ctx context.Context, dir, url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) (*Resolver, error) {
	shpPath, err := EnsureDataset(ctx, dir, url, timeout, logger)
	if err != nil {
		return nil, err
	}
	return NewResolver(shpPath, metrics, logger)
}

// Resolve maps each point to the country containing it. Points inside no
// polygon are retried with an on-edge (touching) test before resolving to
// missing; coastal sites often round onto a polygon boundary.
func (r *Resolver) Resolve(ctx context.Context, points []domain.Point) ([]domain.Place, error) {
	places := make([]domain.Place, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pt := geom.Point{X: p.Lon, Y: p.Lat}
		c, outcome := r.lookup(pt)
		r.metrics.GeoLookups.WithLabelValues(outcome).Inc()
		if c != nil {
			places[i] = domain.Place{Country: c.name, Continent: c.continent}
		}
	}
	return places, nil
}

// lookup finds the country polygon for a point: containment first, touching
// as fallback. Returns nil and "miss" when neither test matches.
func (r *Resolver) lookup(pt geom.Point) (*country, string) {
	candidates := r.index.SearchIntersect(pt.Bounds())

	for _, item := range candidates {
		c := item.(*country)
		if pt.Within(c.Polygonal) == geom.Inside {
			return c, "within"
		}
	}
	for _, item := range candidates {
		c := item.(*country)
		if pt.Within(c.Polygonal) == geom.OnEdge {
			return c, "touching"
		}
	}
	return nil, "miss"
}
