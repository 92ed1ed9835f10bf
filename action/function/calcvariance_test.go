package function

import (
	"testing"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVars struct {
	vars map[action.DataID]*value.Value
}

func (f *fakeVars) Get(id action.DataID) *value.Value { return f.vars[id] }
func (f *fakeVars) IsArray(id action.DataID) bool {
	v := f.vars[id]
	return v != nil && v.Kind() == value.KindArray
}

func TestCalcVarianceKnownSeries(t *testing.T) {
	arr := value.NewArray(value.KindDouble)
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		arr.AppendElement(value.NewDouble(x))
	}
	vt := &fakeVars{vars: map[action.DataID]*value.Value{
		0: arr,
		1: value.New(value.KindDouble),
	}}

	clock := action.NewClock()
	cv := NewCalcVariance(1, clock, 0, 1)
	require.NoError(t, cv.Apply(vt))

	out := vt.Get(1)
	require.False(t, out.IsNull())
	assert.InDelta(t, 4.0, out.Double(), 1e-9)
}

func TestCalcVarianceNullInput(t *testing.T) {
	vt := &fakeVars{vars: map[action.DataID]*value.Value{
		0: value.NewNull(),
		1: value.New(value.KindDouble),
	}}
	clock := action.NewClock()
	cv := NewCalcVariance(1, clock, 0, 1)
	require.NoError(t, cv.Apply(vt))
	assert.True(t, vt.Get(1).IsNull())
}

func TestCalcVarianceManyItemsAcrossChunks(t *testing.T) {
	arr := value.NewArray(value.KindInteger)
	// exceed one worker's item threshold to force multi-chunk fan-out
	const n = itemsPerWorker + 500
	for i := 0; i < n; i++ {
		arr.AppendElement(value.NewInteger(int32(i % 10)))
	}
	vt := &fakeVars{vars: map[action.DataID]*value.Value{
		0: arr,
		1: value.New(value.KindDouble),
	}}
	clock := action.NewClock()
	cv := NewCalcVariance(1, clock, 0, 1)
	require.NoError(t, cv.Apply(vt))
	assert.False(t, vt.Get(1).IsNull())
}
