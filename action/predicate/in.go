package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// In evaluates target IN (candidates...) as a disjunction of equality
// comparisons, same three-valued rule SQL's IN predicate follows: TRUE if
// any candidate equals target, UNKNOWN if no match was found but some
// comparison was UNKNOWN (a NULL candidate or NULL target), else FALSE.
// NotIn negates by De Morgan.
type In struct {
	action.Base
	target     action.DataID
	candidates []action.DataID
	negate     bool
}

var _ action.Predicate = (*In)(nil)
var _ program.Describable = (*In)(nil)

func classIDForIn(negate bool) action.ClassID {
	if negate {
		return action.ClassNotIn
	}
	return action.ClassIn
}

func NewIn(id int, clock *action.Clock, target action.DataID, candidates []action.DataID, negate bool) *In {
	return &In{Base: action.NewBase(id, classIDForIn(negate), clock), target: target, candidates: candidates, negate: negate}
}

func (in *In) Evaluate(vt action.VariableTable) (value.Tri, error) {
	t := vt.Get(in.target)
	if t == nil {
		return value.TriUnknown, fmt.Errorf("predicate.In: target %d not allocated", in.target)
	}
	sawUnknown := false
	for _, cid := range in.candidates {
		c := vt.Get(cid)
		if c == nil {
			return value.TriUnknown, fmt.Errorf("predicate.In: candidate %d not allocated", cid)
		}
		eq := value.Eval(value.CmpEQ, t.IsNull(), c.IsNull(), sign(t, c))
		switch eq {
		case value.TriTrue:
			if in.negate {
				return value.TriFalse, nil
			}
			return value.TriTrue, nil
		case value.TriUnknown:
			sawUnknown = true
		}
	}
	if sawUnknown {
		return value.TriUnknown, nil
	}
	if in.negate {
		return value.TriTrue, nil
	}
	return value.TriFalse, nil
}

func (in *In) CheckByData(v *value.Value) (value.Tri, error) {
	return value.TriUnknown, fmt.Errorf("predicate.In: CheckByData not supported")
}

func (in *In) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: classIDForIn(in.negate),
		ID:      in.ID(),
		Fields: map[string]interface{}{
			"target":     int(in.target),
			"candidates": dataIDsToInts(in.candidates),
			"negate":     in.negate,
		},
	}
}

func init() {
	factory := func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		target, _ := d.Fields["target"].(int)
		cand, _ := d.Fields["candidates"].([]int)
		negate, _ := d.Fields["negate"].(bool)
		return NewIn(d.ID, clock, action.DataID(target), intsToDataIDs(cand), negate), nil
	}
	program.RegisterFactory(action.ClassIn, factory)
	program.RegisterFactory(action.ClassNotIn, factory)
}
