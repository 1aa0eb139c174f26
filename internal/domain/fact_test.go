package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFacts(t *testing.T) {
	jan1 := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)

	waves := []WavelengthRow{
		{ID: 1, WavelengthNm: 440},
		{ID: 2, WavelengthNm: 870},
	}
	dates := []DateRow{
		{ID: 1, Date: jan1},
		{ID: 2, Date: jan2},
	}
	sites := []SiteRow{
		{ID: 1, Site: "SiteA"},
		{ID: 2, Site: "SiteB"},
	}

	t.Run("joins every observation on its natural keys", func(t *testing.T) {
		long := []LongRecord{
			{Site: "SiteB", Date: jan2, WavelengthNm: 870, ParticleType: ParticleFine, AODValue: 0.1, PrecipWater: 2.5, AngstromExp: 1.6},
			{Site: "SiteA", Date: jan1, WavelengthNm: 440, ParticleType: ParticleCoarse, AODValue: 0.3, PrecipWater: 1.0, AngstromExp: 0.5},
		}

		facts, dropped, err := BuildFacts(long, waves, dates, sites, nil)
		require.NoError(t, err)
		assert.Zero(t, dropped)
		require.Len(t, facts, 2)

		assert.Equal(t, FactRow{
			ID: 1, DateID: 2, WavelengthID: 2, SiteID: 2,
			ParticleType: ParticleFine, AODValue: 0.1, PrecipWater: 2.5, AngstromExp: 1.6,
		}, facts[0])
		assert.Equal(t, FactRow{
			ID: 2, DateID: 1, WavelengthID: 1, SiteID: 1,
			ParticleType: ParticleCoarse, AODValue: 0.3, PrecipWater: 1.0, AngstromExp: 0.5,
		}, facts[1])
	})

	t.Run("drops and counts observations of filtered sites", func(t *testing.T) {
		long := []LongRecord{
			{Site: "SiteA", Date: jan1, WavelengthNm: 440},
			{Site: "Discarded", Date: jan1, WavelengthNm: 440},
			{Site: "Discarded", Date: jan2, WavelengthNm: 870},
		}

		facts, dropped, err := BuildFacts(long, waves, dates, sites, []string{"Discarded"})
		require.NoError(t, err)
		assert.Equal(t, 2, dropped)
		require.Len(t, facts, 1)
		assert.Equal(t, 1, facts[0].ID)
	})

	t.Run("unknown site is an error", func(t *testing.T) {
		long := []LongRecord{{Site: "Ghost", Date: jan1, WavelengthNm: 440}}

		_, _, err := BuildFacts(long, waves, dates, sites, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `site "Ghost"`)
	})

	t.Run("unknown wavelength is an error", func(t *testing.T) {
		long := []LongRecord{{Site: "SiteA", Date: jan1, WavelengthNm: 500}}

		_, _, err := BuildFacts(long, waves, dates, sites, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500nm")
	})

	t.Run("unknown date is an error", func(t *testing.T) {
		long := []LongRecord{{Site: "SiteA", Date: jan1.AddDate(0, 0, 7), WavelengthNm: 440}}

		_, _, err := BuildFacts(long, waves, dates, sites, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2020-01-08")
	})
}
