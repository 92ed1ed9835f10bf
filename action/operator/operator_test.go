package operator

import (
	"testing"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearNullsAllGivenIDs(t *testing.T) {
	p := program.New()
	a, b := p.AddVariable(), p.AddVariable()
	p.Get(a).Assign(value.NewInteger(1))
	p.Get(b).Assign(value.NewInteger(2))

	clock := action.NewClock()
	c := NewClear(1, clock, a, b)

	_, err := c.Execute(p)
	require.NoError(t, err)
	assert.True(t, p.Get(a).IsNull())
	assert.True(t, p.Get(b).IsNull())
}

func TestClearIsIdempotentWithinEpoch(t *testing.T) {
	p := program.New()
	a := p.AddVariable()
	p.Get(a).Assign(value.NewInteger(1))

	clock := action.NewClock()
	c := NewClear(1, clock, a)

	_, err := c.Execute(p)
	require.NoError(t, err)
	p.Get(a).Assign(value.NewInteger(5))

	// Done() latches until the clock advances, so a second Execute in the
	// same epoch must not re-clear.
	_, err = c.Execute(p)
	require.NoError(t, err)
	assert.Equal(t, int32(5), p.Get(a).Integer())
}

func TestSetNullClearsArrayElementsInPlace(t *testing.T) {
	p := program.New()
	arrID := p.AddArrayVariable(value.KindInteger)
	arr := p.Get(arrID)
	arr.AppendElement(value.NewInteger(1))
	arr.AppendElement(value.NewInteger(2))

	clock := action.NewClock()
	s := NewSetNull(1, clock, arrID)

	_, err := s.Execute(p)
	require.NoError(t, err)
	for _, elem := range p.Get(arrID).Array() {
		assert.True(t, elem.IsNull())
	}
}
