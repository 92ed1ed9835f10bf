package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// Between evaluates target BETWEEN lo AND hi as (target >= lo) AND
// (target <= hi) under Kleene logic; negate flips it to the NotBetween
// form by De Morgan rather than duplicating the comparison plumbing.
type Between struct {
	action.Base
	target, lo, hi action.DataID
	negate         bool
}

var _ action.Predicate = (*Between)(nil)
var _ program.Describable = (*Between)(nil)

func NewBetween(id int, clock *action.Clock, target, lo, hi action.DataID, negate bool) *Between {
	return &Between{Base: action.NewBase(id, classIDForBetween(negate), clock), target: target, lo: lo, hi: hi, negate: negate}
}

func classIDForBetween(negate bool) action.ClassID {
	if negate {
		return action.ClassNotBetween
	}
	return action.ClassBetween
}

func (b *Between) Evaluate(vt action.VariableTable) (value.Tri, error) {
	t, lo, hi := vt.Get(b.target), vt.Get(b.lo), vt.Get(b.hi)
	if t == nil || lo == nil || hi == nil {
		return value.TriUnknown, fmt.Errorf("predicate.Between: operand not allocated")
	}
	ge := value.Eval(value.CmpGE, t.IsNull(), lo.IsNull(), sign(t, lo))
	le := value.Eval(value.CmpLE, t.IsNull(), hi.IsNull(), sign(t, hi))
	result := ge.And(le)
	if b.negate {
		return result.Not(), nil
	}
	return result, nil
}

func (b *Between) CheckByData(v *value.Value) (value.Tri, error) {
	return value.TriUnknown, fmt.Errorf("predicate.Between: CheckByData not supported")
}

func (b *Between) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: classIDForBetween(b.negate),
		ID:      b.ID(),
		Fields: map[string]interface{}{
			"target": int(b.target),
			"lo":     int(b.lo),
			"hi":     int(b.hi),
			"negate": b.negate,
		},
	}
}

func init() {
	factory := func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		target, _ := d.Fields["target"].(int)
		lo, _ := d.Fields["lo"].(int)
		hi, _ := d.Fields["hi"].(int)
		negate, _ := d.Fields["negate"].(bool)
		return NewBetween(d.ID, clock, action.DataID(target), action.DataID(lo), action.DataID(hi), negate), nil
	}
	program.RegisterFactory(action.ClassBetween, factory)
	program.RegisterFactory(action.ClassNotBetween, factory)
}
