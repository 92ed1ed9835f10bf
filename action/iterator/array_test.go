package iterator

import (
	"testing"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayScansElementsInOrder(t *testing.T) {
	p := program.New()
	inID := p.AddArrayVariable(value.KindInteger)
	in := p.Get(inID)
	in.AppendElement(value.NewInteger(1))
	in.AppendElement(value.NewInteger(2))
	in.AppendElement(value.NewInteger(3))
	outID := p.AddVariable()

	clock := action.NewClock()
	a := NewArray(1, clock, inID, outID)

	var seen []int32
	for {
		ok, err := a.Next(p)
		require.NoError(t, err)
		if !ok {
			break
		}
		seen = append(seen, p.Get(outID).Integer())
	}
	assert.Equal(t, []int32{1, 2, 3}, seen)
	assert.True(t, a.WasLast())
	assert.False(t, a.HasNext())
}

func TestArrayResetRewindsCursor(t *testing.T) {
	p := program.New()
	inID := p.AddArrayVariable(value.KindInteger)
	in := p.Get(inID)
	in.AppendElement(value.NewInteger(7))
	outID := p.AddVariable()

	clock := action.NewClock()
	a := NewArray(1, clock, inID, outID)

	ok, err := a.Next(p)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = a.Next(p)
	require.NoError(t, err)
	require.False(t, ok)

	a.Reset()
	assert.True(t, a.HasNext())
	ok, err = a.Next(p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(7), p.Get(outID).Integer())
}

func TestArrayEmptyHasNoElements(t *testing.T) {
	p := program.New()
	inID := p.AddArrayVariable(value.KindInteger)
	outID := p.AddVariable()

	clock := action.NewClock()
	a := NewArray(1, clock, inID, outID)

	ok, err := a.Next(p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, a.WasLast())
}
