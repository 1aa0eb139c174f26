package naturalearth

import (
	"context"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atmosdata/aeronet-dw-etl/internal/domain"
	"github.com/atmosdata/aeronet-dw-etl/internal/observability"
)

// square returns a closed axis-aligned polygon ring.
func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}}
}

func testResolver() *Resolver {
	index := rtree.NewTree(25, 50)
	index.Insert(&country{Polygonal: square(0, 0, 10, 10), name: "Alphaland", continent: "Testia"})
	index.Insert(&country{Polygonal: square(20, 20, 30, 30), name: "Betaland", continent: "Testia"})
	return &Resolver{
		index:   index,
		logger:  testLogger(),
		metrics: observability.NewMetricsForTesting(),
	}
}

func TestResolve(t *testing.T) {
	r := testResolver()

	places, err := r.Resolve(context.Background(), []domain.Point{
		{Lon: 5, Lat: 5},    // inside Alphaland
		{Lon: 25, Lat: 25},  // inside Betaland
		{Lon: 50, Lat: -50}, // inside nothing
	})
	require.NoError(t, err)
	require.Len(t, places, 3)

	assert.Equal(t, domain.Place{Country: "Alphaland", Continent: "Testia"}, places[0])
	assert.Equal(t, domain.Place{Country: "Betaland", Continent: "Testia"}, places[1])
	assert.Equal(t, domain.Place{}, places[2], "no polygon means missing enrichment")
}

func TestResolve_BoundaryPointFallsBackToTouching(t *testing.T) {
	r := testResolver()

	places, err := r.Resolve(context.Background(), []domain.Point{{Lon: 0, Lat: 5}})
	require.NoError(t, err)
	assert.Equal(t, "Alphaland", places[0].Country)
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testResolver().Resolve(ctx, []domain.Point{{Lon: 5, Lat: 5}})
	assert.ErrorIs(t, err, context.Canceled)
}
