package predicate

import (
	"testing"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isNull is a minimal is-null predicate used only to drive ArrayCheck in
// these tests; the real kernel builds it from a Monadic Comparison against
// a null constant, but a direct IsNull check keeps the scenario readable.
type isNull struct {
	action.Base
}

func newIsNull(id int, clock *action.Clock) *isNull {
	return &isNull{Base: action.NewBase(id, action.ClassComparisonMonadic, clock)}
}

func (p *isNull) Evaluate(vt action.VariableTable) (value.Tri, error) {
	return value.TriUnknown, nil
}

func (p *isNull) CheckByData(v *value.Value) (value.Tri, error) {
	return value.FromBool(v.IsNull()), nil
}

func TestArrayCheckAnyElementIsNull(t *testing.T) {
	// S4: [1, null, 3]; AnyElement(is-null) -> true
	p := program.New()
	arrID := p.AddArrayVariable(value.KindInteger)
	arr := p.Get(arrID)
	arr.AppendElement(value.NewInteger(1))
	arr.AppendElement(value.NewNull())
	arr.AppendElement(value.NewInteger(3))

	clock := action.NewClock()
	inner := newIsNull(1, clock)
	ac := NewArrayCheck(2, clock, arrID, inner, false)

	got, err := ac.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)
}

func TestArrayCheckAnyElementEmptyIsUnknown(t *testing.T) {
	// S5: []; AnyElement(is-null) -> unknown
	p := program.New()
	arrID := p.AddArrayVariable(value.KindInteger)

	clock := action.NewClock()
	inner := newIsNull(1, clock)
	ac := NewArrayCheck(2, clock, arrID, inner, false)

	got, err := ac.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriUnknown, got)
}

func TestArrayCheckAllElementEmptyIsUnknown(t *testing.T) {
	p := program.New()
	arrID := p.AddArrayVariable(value.KindInteger)

	clock := action.NewClock()
	inner := newIsNull(1, clock)
	ac := NewArrayCheck(2, clock, arrID, inner, true)

	got, err := ac.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriUnknown, got)
}

func TestArrayCheckAllElementNonEmpty(t *testing.T) {
	p := program.New()
	arrID := p.AddArrayVariable(value.KindInteger)
	arr := p.Get(arrID)
	arr.AppendElement(value.NewNull())
	arr.AppendElement(value.NewNull())

	clock := action.NewClock()
	inner := newIsNull(1, clock)
	ac := NewArrayCheck(2, clock, arrID, inner, true)

	got, err := ac.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)

	arr.AppendElement(value.NewInteger(9))
	got, err = ac.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriFalse, got)
}

func TestDistinctBothNullIsFalse(t *testing.T) {
	// S6: Distinct(null, null) -> false
	p := program.New()
	l := p.AddVariable()
	r := p.AddVariable()

	clock := action.NewClock()
	d := NewDistinct(1, clock, l, r)

	got, err := d.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriFalse, got)
}

func TestComparisonRowLexicographicLess(t *testing.T) {
	// S7: (1,2,3) < (1,2,4) -> true
	p := program.New()
	l1, l2, l3 := p.AddVariable(), p.AddVariable(), p.AddVariable()
	r1, r2, r3 := p.AddVariable(), p.AddVariable(), p.AddVariable()
	p.Get(l1).Assign(value.NewInteger(1))
	p.Get(l2).Assign(value.NewInteger(2))
	p.Get(l3).Assign(value.NewInteger(3))
	p.Get(r1).Assign(value.NewInteger(1))
	p.Get(r2).Assign(value.NewInteger(2))
	p.Get(r3).Assign(value.NewInteger(4))

	clock := action.NewClock()
	cmp := NewRowComparison(1, clock, value.CmpLT, []action.DataID{l1, l2, l3}, []action.DataID{r1, r2, r3})

	got, err := cmp.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)
}

func TestComparisonRowLexicographicEqualRowsUseOperatorAsEquality(t *testing.T) {
	p := program.New()
	l1, l2 := p.AddVariable(), p.AddVariable()
	r1, r2 := p.AddVariable(), p.AddVariable()
	p.Get(l1).Assign(value.NewInteger(1))
	p.Get(l2).Assign(value.NewInteger(2))
	p.Get(r1).Assign(value.NewInteger(1))
	p.Get(r2).Assign(value.NewInteger(2))

	clock := action.NewClock()

	lt := NewRowComparison(1, clock, value.CmpLT, []action.DataID{l1, l2}, []action.DataID{r1, r2})
	got, err := lt.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriFalse, got)

	le := NewRowComparison(2, clock, value.CmpLE, []action.DataID{l1, l2}, []action.DataID{r1, r2})
	got, err = le.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)
}

func TestBetweenInRange(t *testing.T) {
	// S8: Between(5, 1, 10) -> true
	p := program.New()
	target, lo, hi := p.AddVariable(), p.AddVariable(), p.AddVariable()
	p.Get(target).Assign(value.NewInteger(5))
	p.Get(lo).Assign(value.NewInteger(1))
	p.Get(hi).Assign(value.NewInteger(10))

	clock := action.NewClock()
	b := NewBetween(1, clock, target, lo, hi, false)

	got, err := b.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)
}

func TestBetweenNullTargetIsUnknown(t *testing.T) {
	// S8: Between(null, 1, 10) -> unknown
	p := program.New()
	target, lo, hi := p.AddVariable(), p.AddVariable(), p.AddVariable()
	p.Get(lo).Assign(value.NewInteger(1))
	p.Get(hi).Assign(value.NewInteger(10))

	clock := action.NewClock()
	b := NewBetween(1, clock, target, lo, hi, false)

	got, err := b.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriUnknown, got)
}

func TestInMatchFound(t *testing.T) {
	p := program.New()
	target := p.AddVariable()
	c1, c2 := p.AddVariable(), p.AddVariable()
	p.Get(target).Assign(value.NewInteger(2))
	p.Get(c1).Assign(value.NewInteger(1))
	p.Get(c2).Assign(value.NewInteger(2))

	clock := action.NewClock()
	in := NewIn(1, clock, target, []action.DataID{c1, c2}, false)

	got, err := in.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriTrue, got)
}

func TestInNoMatchWithNullCandidateIsUnknown(t *testing.T) {
	p := program.New()
	target := p.AddVariable()
	c1, c2 := p.AddVariable(), p.AddVariable()
	p.Get(target).Assign(value.NewInteger(5))
	p.Get(c1).Assign(value.NewInteger(1))
	p.Get(c2).Assign(value.NewNull())

	clock := action.NewClock()
	in := NewIn(1, clock, target, []action.DataID{c1, c2}, false)

	got, err := in.Evaluate(p)
	require.NoError(t, err)
	assert.Equal(t, value.TriUnknown, got)
}
