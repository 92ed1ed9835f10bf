package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// Distinct evaluates value.Value.Distinct between two operands: the
// NULL-aware "is distinct from" relation SQL uses for MERGE/upsert
// matching, where two nulls are not distinct but a null and a non-null
// are.
type Distinct struct {
	action.Base
	left, right action.DataID
}

var _ action.Predicate = (*Distinct)(nil)
var _ program.Describable = (*Distinct)(nil)

func NewDistinct(id int, clock *action.Clock, left, right action.DataID) *Distinct {
	return &Distinct{Base: action.NewBase(id, action.ClassDistinct, clock), left: left, right: right}
}

func (d *Distinct) Evaluate(vt action.VariableTable) (value.Tri, error) {
	l, r := vt.Get(d.left), vt.Get(d.right)
	if l == nil || r == nil {
		return value.TriUnknown, fmt.Errorf("predicate.Distinct: operand not allocated")
	}
	return value.FromBool(l.Distinct(r)), nil
}

func (d *Distinct) CheckByData(v *value.Value) (value.Tri, error) {
	return value.TriUnknown, fmt.Errorf("predicate.Distinct: CheckByData not supported")
}

func (d *Distinct) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassDistinct,
		ID:      d.ID(),
		Fields:  map[string]interface{}{"left": int(d.left), "right": int(d.right)},
	}
}

func init() {
	program.RegisterFactory(action.ClassDistinct, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		l, _ := d.Fields["left"].(int)
		r, _ := d.Fields["right"].(int)
		return NewDistinct(d.ID, clock, action.DataID(l), action.DataID(r)), nil
	})
}
