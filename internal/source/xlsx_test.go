package source

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestLoadIndicator_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicator.xlsx")

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("data")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, col := range []string{"country", "indicator", "time_period", "obs_value", "current_age"} {
		header.AddCell().Value = col
	}
	row := sheet.AddRow()
	row.AddCell().Value = "Brazil"
	row.AddCell().Value = "Basic sanitation"
	row.AddCell().SetInt(2021)
	row.AddCell().SetFloat(60.5)
	row.AddCell().Value = "Primary"

	require.NoError(t, file.Save(path))

	rows, stats, err := LoadIndicator(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Brazil", rows[0].Country)
	assert.Equal(t, 2021, rows[0].Year)
	assert.InDelta(t, 60.5, rows[0].Value, 1e-9)
	assert.Equal(t, 1, stats.Rows)
}
