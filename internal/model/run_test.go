package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewStatDropped(t *testing.T) {
	st := ViewStat{
		RowsIn:              10,
		RowsOut:             4,
		DroppedMissingValue: 2,
		DroppedMissingMeta:  1,
		DroppedExcluded:     1,
		DroppedSuperseded:   2,
	}
	assert.Equal(t, 6, st.Dropped())
	assert.Equal(t, st.RowsIn-st.RowsOut, st.Dropped())
}
