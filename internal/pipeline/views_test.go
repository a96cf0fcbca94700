package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wash-insights/sanireport/internal/model"
)

func joinedRow(country string, year int, value float64, age string, meta *model.CountryMeta) model.JoinedRow {
	return model.JoinedRow{
		Observation: model.Observation{Country: country, Year: year, Value: value, AgeGroup: age},
		Meta:        meta,
	}
}

func TestLatestPerCountry_KeepsMostRecentYear(t *testing.T) {
	joined := []model.JoinedRow{
		joinedRow("Brazil", 2015, 40, "Primary", nil),
		joinedRow("Brazil", 2020, 55, "Primary", nil),
	}

	latest := latestPerCountry(joined)
	require.Len(t, latest, 1)
	assert.Equal(t, 2020, latest[0].Year)
	assert.Equal(t, 55.0, latest[0].Value)
}

func TestLatestPerCountry_TieBreaksOnAgeGroup(t *testing.T) {
	// Two age groups share the most recent year; the alphabetically first
	// one wins regardless of input order.
	joined := []model.JoinedRow{
		joinedRow("Kenya", 2021, 70, "Upper secondary", nil),
		joinedRow("Kenya", 2021, 65, "Primary", nil),
		joinedRow("Kenya", 2019, 50, "Primary", nil),
	}

	latest := latestPerCountry(joined)
	require.Len(t, latest, 1)
	assert.Equal(t, "Primary", latest[0].AgeGroup)
	assert.Equal(t, 65.0, latest[0].Value)
}

func TestTopN_ExcludesSaturatedAndMissingValues(t *testing.T) {
	joined := []model.JoinedRow{
		joinedRow("A", 2020, 100, "Primary", nil), // excluded exactly at 100
		joinedRow("B", 2020, 90, "Primary", nil),
		joinedRow("C", 2020, model.Missing(), "Primary", nil),
		joinedRow("D", 2020, 95, "Primary", nil),
	}

	view := &TopN{N: 10, Exclude: 100}
	res := view.Build(joined)

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "D", res.Rows[0].Country)
	assert.Equal(t, "B", res.Rows[1].Country)

	assert.Equal(t, 4, res.Stat.RowsIn)
	assert.Equal(t, 2, res.Stat.RowsOut)
	assert.Equal(t, 1, res.Stat.DroppedExcluded)
	assert.Equal(t, 1, res.Stat.DroppedMissingValue)
	assert.Equal(t, res.Stat.RowsIn-res.Stat.RowsOut, res.Stat.Dropped())
}

func TestTopN_TruncatesToN(t *testing.T) {
	var joined []model.JoinedRow
	for i := 0; i < 15; i++ {
		joined = append(joined, joinedRow(string(rune('A'+i)), 2020, float64(i), "Primary", nil))
	}

	view := &TopN{N: 10, Exclude: 100}
	res := view.Build(joined)
	assert.Len(t, res.Rows, 10)
	// Descending by value.
	for i := 1; i < len(res.Rows); i++ {
		assert.GreaterOrEqual(t, res.Rows[i-1].Value, res.Rows[i].Value)
	}
}

func TestLatestMap_DropsMissingValues(t *testing.T) {
	joined := []model.JoinedRow{
		joinedRow("Brazil", 2021, 60, "Primary", nil),
		joinedRow("Brazil", 2019, 45, "Primary", nil),
		joinedRow("Chad", 2020, model.Missing(), "Primary", nil),
	}

	res := (&LatestMap{}).Build(joined)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Brazil", res.Rows[0].Country)
	assert.Equal(t, 1, res.Stat.DroppedMissingValue)
	assert.Equal(t, 1, res.Stat.DroppedSuperseded)
	assert.Equal(t, res.Stat.RowsIn-res.Stat.RowsOut, res.Stat.Dropped())
}

func TestGDPScatter_RequiresBothCoordinates(t *testing.T) {
	meta := &model.CountryMeta{Country: "Brazil", GDPPerCapita: 9000}
	noGDP := &model.CountryMeta{Country: "Chad", GDPPerCapita: model.Missing()}
	joined := []model.JoinedRow{
		joinedRow("Brazil", 2021, 60, "Primary", meta),
		joinedRow("Chad", 2020, 12, "Primary", noGDP),
		joinedRow("Atlantis", 2020, 50, "Primary", nil),
	}

	res := (&GDPScatter{}).Build(joined)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Brazil", res.Rows[0].Country)
	assert.Equal(t, 2, res.Stat.DroppedMissingMeta)
}

func TestTimeSeries_KeepsEveryValuedObservation(t *testing.T) {
	joined := []model.JoinedRow{
		joinedRow("Brazil", 2019, 45, "Primary", nil),
		joinedRow("Brazil", 2021, 60, "Primary", nil),
		joinedRow("Chad", 2020, model.Missing(), "Primary", nil),
	}

	res := (&TimeSeries{}).Build(joined)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, 1, res.Stat.DroppedMissingValue)
}

func TestGDPBubble_FloorsMissingPopulation(t *testing.T) {
	withPop := &model.CountryMeta{Country: "Brazil", GDPPerCapita: 9000, Population: 2e8}
	noPop := &model.CountryMeta{Country: "Chad", GDPPerCapita: 700, Population: model.Missing()}
	noValue := &model.CountryMeta{Country: "Mali", GDPPerCapita: 850, Population: 2e7}
	joined := []model.JoinedRow{
		joinedRow("Brazil", 2021, 60, "Primary", withPop),
		joinedRow("Chad", 2020, 12, "Primary", noPop),
		joinedRow("Mali", 2020, model.Missing(), "Primary", noValue),
	}

	res := (&GDPBubble{}).Build(joined)
	require.Len(t, res.Rows, 2)

	assert.Equal(t, 2e8, res.Rows[0].Population)
	assert.Equal(t, 1.0, res.Rows[1].Population) // floored, not dropped
	assert.Equal(t, 1, res.Stat.DroppedMissingValue)
}

func TestRegistry_FiveViewsInReportOrder(t *testing.T) {
	views := Registry(10)
	require.Len(t, views, 5)

	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"top10", "latest", "gdp", "series", "bubble"}, names)
}
