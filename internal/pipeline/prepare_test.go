package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wash-insights/sanireport/internal/countryname"
	"github.com/wash-insights/sanireport/internal/model"
)

const sanitationIndicator = "Proportion of schools with basic sanitation services"

func indicatorRows() []model.IndicatorRow {
	return []model.IndicatorRow{
		{Country: "Brazil", Indicator: sanitationIndicator, Year: 2019, Value: 45.0, AgeGroup: "Primary"},
		{Country: "Brazil", Indicator: sanitationIndicator, Year: 2021, Value: 60.0, AgeGroup: "Primary"},
		{Country: "Chad", Indicator: sanitationIndicator, Year: 2020, Value: 12.0, AgeGroup: "Primary"},
		{Country: "Brazil", Indicator: "Proportion of schools with basic drinking water", Year: 2021, Value: 80.0, AgeGroup: "Primary"},
	}
}

func metaRows() []model.CountryMeta {
	return []model.CountryMeta{
		{Country: "Brazil", Population: 2e8, GDPPerCapita: 9000, GNI: 1.8e12, LifeExpectancy: 75, Inflation: 4.5},
		{Country: "Chad", Population: 1.6e7, GDPPerCapita: 700, GNI: 1.1e10, LifeExpectancy: 54, Inflation: 2.1},
	}
}

func TestFilterIndicator(t *testing.T) {
	obs := FilterIndicator(indicatorRows(), sanitationIndicator)
	require.Len(t, obs, 3)
	assert.Equal(t, model.Observation{Country: "Brazil", Year: 2019, Value: 45.0, AgeGroup: "Primary"}, obs[0])
}

func TestFilterIndicator_NoMatchIsEmptyNotFault(t *testing.T) {
	obs := FilterIndicator(indicatorRows(), "No such indicator")
	assert.Empty(t, obs)
}

func TestFilterIndicator_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterIndicator(nil, sanitationIndicator))
}

func TestJoin_PreservesLeftCardinality(t *testing.T) {
	obs := FilterIndicator(indicatorRows(), sanitationIndicator)
	joined, matched := Join(obs, metaRows(), countryname.Default())

	require.Len(t, joined, len(obs))
	assert.Equal(t, 3, matched)
	for _, row := range joined {
		require.NotNil(t, row.Meta)
	}
}

func TestJoin_UnmatchedCountryGetsNilMeta(t *testing.T) {
	obs := []model.Observation{
		{Country: "Brazil", Year: 2021, Value: 60.0, AgeGroup: "Primary"},
		{Country: "Atlantis", Year: 2021, Value: 99.0, AgeGroup: "Primary"},
	}
	joined, matched := Join(obs, metaRows(), countryname.Default())

	require.Len(t, joined, 2)
	assert.Equal(t, 1, matched)
	assert.NotNil(t, joined[0].Meta)
	assert.Nil(t, joined[1].Meta)
}

func TestJoin_NormalizedNamesMatch(t *testing.T) {
	obs := []model.Observation{
		{Country: "VIET NAM", Year: 2021, Value: 88.0, AgeGroup: "Primary"},
	}
	metas := []model.CountryMeta{{Country: "Vietnam", GDPPerCapita: 4100}}

	joined, matched := Join(obs, metas, countryname.Default())
	require.Len(t, joined, 1)
	assert.Equal(t, 1, matched)
	require.NotNil(t, joined[0].Meta)
	assert.Equal(t, 4100.0, joined[0].Meta.GDPPerCapita)
}

func TestJoin_ExactNormalizerReproducesStrictMatch(t *testing.T) {
	obs := []model.Observation{
		{Country: "brazil", Year: 2021, Value: 60.0, AgeGroup: "Primary"},
	}
	joined, matched := Join(obs, metaRows(), countryname.Exact{})
	require.Len(t, joined, 1)
	assert.Equal(t, 0, matched)
	assert.Nil(t, joined[0].Meta)
}

func TestJoin_DuplicateMetadataLastWins(t *testing.T) {
	obs := []model.Observation{{Country: "Brazil", Year: 2021, Value: 60.0}}
	metas := []model.CountryMeta{
		{Country: "Brazil", GDPPerCapita: 8000},
		{Country: "Brazil", GDPPerCapita: 9000},
	}
	joined, _ := Join(obs, metas, countryname.Default())
	require.NotNil(t, joined[0].Meta)
	assert.Equal(t, 9000.0, joined[0].Meta.GDPPerCapita)
}

func TestPipelineRun_Idempotent(t *testing.T) {
	p := New(sanitationIndicator, nil, 10)

	first := p.Run(indicatorRows(), metaRows())
	second := p.Run(indicatorRows(), metaRows())

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Rows, second.Results[i].Rows)
		assert.Equal(t, first.Results[i].Stat, second.Results[i].Stat)
	}
	assert.Equal(t, first.Matched, second.Matched)
}

func TestPipelineRun_ExampleScenario(t *testing.T) {
	// The latest-per-country view must keep (Brazil, 2021, 60.0) and
	// (Chad, 2020, 12.0) with their metadata attached.
	p := New(sanitationIndicator, nil, 10)
	out := p.Run(indicatorRows(), metaRows())

	gdp := out.ResultByView("gdp")
	require.NotNil(t, gdp)
	require.Len(t, gdp.Rows, 2)

	assert.Equal(t, "Brazil", gdp.Rows[0].Country)
	assert.Equal(t, 2021, gdp.Rows[0].Year)
	assert.Equal(t, 60.0, gdp.Rows[0].Value)
	assert.Equal(t, 9000.0, gdp.Rows[0].GDP)

	assert.Equal(t, "Chad", gdp.Rows[1].Country)
	assert.Equal(t, 2020, gdp.Rows[1].Year)
	assert.Equal(t, 12.0, gdp.Rows[1].Value)
	assert.Equal(t, 700.0, gdp.Rows[1].GDP)
}

func TestMissingValueSentinel(t *testing.T) {
	assert.True(t, model.IsMissing(model.Missing()))
	assert.False(t, model.IsMissing(0))
	assert.True(t, math.IsNaN(model.Missing()))
}
