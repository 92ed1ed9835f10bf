package kdtree

import (
	"context"
	"testing"

	"github.com/doquedb/qxkernel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSearchReturnsClosestFirst(t *testing.T) {
	candidates := []Candidate{
		{Key: value.NewString("far"), Point: []float64{10, 10}},
		{Key: value.NewString("near"), Point: []float64{0, 1}},
		{Key: value.NewString("mid"), Point: []float64{3, 3}},
	}

	out, err := DoSearch(context.Background(), candidates, []float64{0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "near", out[0].Str())
	assert.Equal(t, "mid", out[1].Str())
}

func TestDoSearchKLargerThanCandidates(t *testing.T) {
	candidates := []Candidate{
		{Key: value.NewString("a"), Point: []float64{1}},
	}
	out, err := DoSearch(context.Background(), candidates, []float64{0}, 5)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestDoSearchEmptyCandidates(t *testing.T) {
	out, err := DoSearch(context.Background(), nil, []float64{0}, 3)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDoSearchManyPartitions(t *testing.T) {
	n := itemsPerWorker + 1000
	candidates := make([]Candidate, n)
	for i := 0; i < n; i++ {
		candidates[i] = Candidate{Key: value.NewInteger(int32(i)), Point: []float64{float64(i)}}
	}
	out, err := DoSearch(context.Background(), candidates, []float64{0}, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, int32(0), out[0].Integer())
	assert.Equal(t, int32(1), out[1].Integer())
	assert.Equal(t, int32(2), out[2].Integer())
}
