package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRowsFromRows(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	rows := Rows(m)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, rows)

	back, err := FromRows(rows)
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, back))
}

func TestRowsEmpty(t *testing.T) {
	assert.Empty(t, Rows(&mat.Dense{}))

	m, err := FromRows(nil)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Zero(t, r)
	assert.Zero(t, c)
}

func TestFromRowsRagged(t *testing.T) {
	_, err := FromRows([][]float64{{0, 1}, {1}})
	require.Error(t, err)

	_, err = FromRows([][]float64{{}})
	require.Error(t, err)
}

func TestLabelSetKey(t *testing.T) {
	ls := LabelSet{DocId: 3, SentId: 12, Task: "parse"}
	assert.Equal(t, "3-12/parse", ls.Key())
}
