// Package predicate implements the action graph's three-valued boolean
// nodes: Comparison, Distinct, Between/NotBetween, In/NotIn, ArrayCheck
// and FileCheck, grounded on Kernel/Execution/Predicate/*.cpp of the
// original implementation and built directly on value.Eval's Kleene-logic
// comparison table.
package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// ComparisonArity distinguishes Comparison.cpp's dyadic (two operands),
// monadic (one operand against a constant) and row (tuple-of-operands)
// forms.
type ComparisonArity int

const (
	Dyadic ComparisonArity = iota
	Monadic
	Row
)

// Comparison evaluates one of value.CompareKind's relations between two
// data-ids (Dyadic), a data-id and a fixed constant (Monadic), or two
// equal-length lists of data-ids compared lexicographically (Row).
type Comparison struct {
	action.Base
	arity ComparisonArity
	kind  value.CompareKind
	left  action.DataID
	right action.DataID
	// constant holds the Monadic form's literal right-hand operand.
	constant *value.Value
	// rowLeft/rowRight hold the Row form's operand lists.
	rowLeft  []action.DataID
	rowRight []action.DataID
}

var _ action.Predicate = (*Comparison)(nil)
var _ program.Describable = (*Comparison)(nil)

func classIDForArity(arity ComparisonArity) action.ClassID {
	switch arity {
	case Monadic:
		return action.ClassComparisonMonadic
	case Row:
		return action.ClassComparisonRow
	default:
		return action.ClassComparisonDyadic
	}
}

func NewDyadicComparison(id int, clock *action.Clock, kind value.CompareKind, left, right action.DataID) *Comparison {
	return &Comparison{Base: action.NewBase(id, action.ClassComparisonDyadic, clock), arity: Dyadic, kind: kind, left: left, right: right}
}

func NewMonadicComparison(id int, clock *action.Clock, kind value.CompareKind, left action.DataID, constant *value.Value) *Comparison {
	return &Comparison{Base: action.NewBase(id, action.ClassComparisonMonadic, clock), arity: Monadic, kind: kind, left: left, constant: constant}
}

func NewRowComparison(id int, clock *action.Clock, kind value.CompareKind, left, right []action.DataID) *Comparison {
	return &Comparison{Base: action.NewBase(id, action.ClassComparisonRow, clock), arity: Row, kind: kind, rowLeft: left, rowRight: right}
}

func (c *Comparison) Evaluate(vt action.VariableTable) (value.Tri, error) {
	switch c.arity {
	case Dyadic:
		l, r := vt.Get(c.left), vt.Get(c.right)
		if l == nil || r == nil {
			return value.TriUnknown, fmt.Errorf("predicate.Comparison: operand not allocated")
		}
		return value.Eval(c.kind, l.IsNull(), r.IsNull(), sign(l, r)), nil

	case Monadic:
		l := vt.Get(c.left)
		if l == nil {
			return value.TriUnknown, fmt.Errorf("predicate.Comparison: operand not allocated")
		}
		return value.Eval(c.kind, l.IsNull(), c.constant.IsNull(), sign(l, c.constant)), nil

	case Row:
		// DyadicRow::evaluate (Comparison.cpp): scan while corresponding
		// pairs compare equal, then apply the operator to the first
		// non-equal pair; if every pair is equal, apply the operator as
		// equality. A plain AND-of-element-wise-OP is only correct for
		// EQ/NE — ordering operators need lexicographic short-circuit.
		if len(c.rowLeft) != len(c.rowRight) {
			return value.TriUnknown, fmt.Errorf("predicate.Comparison: row arity mismatch")
		}
		if len(c.rowLeft) == 0 {
			return value.Eval(c.kind, false, false, 0), nil
		}
		for i := range c.rowLeft {
			l, r := vt.Get(c.rowLeft[i]), vt.Get(c.rowRight[i])
			if l == nil || r == nil {
				return value.TriUnknown, fmt.Errorf("predicate.Comparison: row operand not allocated")
			}
			eq := value.Eval(value.CmpEQ, l.IsNull(), r.IsNull(), sign(l, r))
			if eq == value.TriUnknown {
				return value.TriUnknown, nil
			}
			if eq == value.TriTrue && i != len(c.rowLeft)-1 {
				continue
			}
			// Either the first non-equal pair, or every pair was equal
			// through the last one: apply kind to this pair.
			return value.Eval(c.kind, l.IsNull(), r.IsNull(), sign(l, r)), nil
		}
		return value.TriUnknown, nil
	}
	return value.TriUnknown, fmt.Errorf("predicate.Comparison: unknown arity")
}

func sign(a, b *value.Value) int {
	if a.IsNull() || b.IsNull() {
		return 0
	}
	return a.CompareTo(b)
}

// CheckByData evaluates the left operand against a single supplied value,
// used by ArrayCheck to test a comparison once per array element.
func (c *Comparison) CheckByData(v *value.Value) (value.Tri, error) {
	if c.arity == Row {
		return value.TriUnknown, fmt.Errorf("predicate.Comparison: CheckByData not supported for row comparisons")
	}
	if c.constant == nil {
		return value.TriUnknown, fmt.Errorf("predicate.Comparison: CheckByData requires a constant operand")
	}
	return value.Eval(c.kind, v.IsNull(), c.constant.IsNull(), sign(v, c.constant)), nil
}

func (c *Comparison) Describe() program.Descriptor {
	fields := map[string]interface{}{
		"arity": int(c.arity),
		"kind":  int(c.kind),
	}
	switch c.arity {
	case Dyadic:
		fields["left"] = int(c.left)
		fields["right"] = int(c.right)
	case Monadic:
		fields["left"] = int(c.left)
		data, _ := c.constant.Serialize()
		fields["constant"] = data
	case Row:
		fields["rowLeft"] = dataIDsToInts(c.rowLeft)
		fields["rowRight"] = dataIDsToInts(c.rowRight)
	}
	return program.Descriptor{ClassID: classIDForArity(c.arity), ID: c.ID(), Fields: fields}
}

func dataIDsToInts(ids []action.DataID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func intsToDataIDs(ints []int) []action.DataID {
	out := make([]action.DataID, len(ints))
	for i, n := range ints {
		out[i] = action.DataID(n)
	}
	return out
}

func init() {
	factory := func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		arityInt, _ := d.Fields["arity"].(int)
		kindInt, _ := d.Fields["kind"].(int)
		kind := value.CompareKind(kindInt)
		switch ComparisonArity(arityInt) {
		case Monadic:
			left, _ := d.Fields["left"].(int)
			raw, _ := d.Fields["constant"].([]byte)
			constant, err := value.Deserialize(raw)
			if err != nil {
				return nil, fmt.Errorf("predicate.Comparison: decode constant: %w", err)
			}
			return NewMonadicComparison(d.ID, clock, kind, action.DataID(left), constant), nil
		case Row:
			rl, _ := d.Fields["rowLeft"].([]int)
			rr, _ := d.Fields["rowRight"].([]int)
			return NewRowComparison(d.ID, clock, kind, intsToDataIDs(rl), intsToDataIDs(rr)), nil
		default:
			left, _ := d.Fields["left"].(int)
			right, _ := d.Fields["right"].(int)
			return NewDyadicComparison(d.ID, clock, kind, action.DataID(left), action.DataID(right)), nil
		}
	}
	program.RegisterFactory(action.ClassComparisonDyadic, factory)
	program.RegisterFactory(action.ClassComparisonMonadic, factory)
	program.RegisterFactory(action.ClassComparisonRow, factory)
}
