package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// ArrayCheck applies a wrapped predicate to every element of an array
// variable via CheckByData and combines the results: AnyElement ORs them
// (true once one element matches), AllElement ANDs them (true only if
// every element matches) — ArrayCheck.h's template wrapper generalized
// from compile-time to a runtime flag.
type ArrayCheck struct {
	action.Base
	arrayID action.DataID
	inner   action.Predicate
	all     bool
}

var _ action.Predicate = (*ArrayCheck)(nil)
var _ program.Describable = (*ArrayCheck)(nil)

func classIDForArrayCheck(all bool) action.ClassID {
	if all {
		return action.ClassArrayCheckAll
	}
	return action.ClassArrayCheckAny
}

func NewArrayCheck(id int, clock *action.Clock, arrayID action.DataID, inner action.Predicate, all bool) *ArrayCheck {
	ac := &ArrayCheck{Base: action.NewBase(id, classIDForArrayCheck(all), clock), arrayID: arrayID, all: all}
	ac.AddChild(inner)
	ac.inner = inner
	return ac
}

func (a *ArrayCheck) AddChild(child action.Action) {
	a.Base.AddChild(child)
	if pr, ok := child.(action.Predicate); ok {
		a.inner = pr
	}
}

func (a *ArrayCheck) Evaluate(vt action.VariableTable) (value.Tri, error) {
	arr := vt.Get(a.arrayID)
	if arr == nil || arr.Kind() != value.KindArray {
		return value.TriUnknown, fmt.Errorf("predicate.ArrayCheck: data %d is not an array", a.arrayID)
	}
	if a.inner == nil {
		return value.TriUnknown, fmt.Errorf("predicate.ArrayCheck: no inner predicate")
	}
	if arr.IsNull() || arr.Len() == 0 {
		return value.TriUnknown, nil
	}
	result := value.TriFalse
	if a.all {
		result = value.TriTrue
	}
	for _, elem := range arr.Array() {
		tri, err := a.inner.CheckByData(elem)
		if err != nil {
			return value.TriUnknown, err
		}
		if a.all {
			result = result.And(tri)
		} else {
			result = result.Or(tri)
		}
	}
	return result, nil
}

func (a *ArrayCheck) CheckByData(v *value.Value) (value.Tri, error) {
	return value.TriUnknown, fmt.Errorf("predicate.ArrayCheck: CheckByData not supported (nested arrays)")
}

func (a *ArrayCheck) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID:  classIDForArrayCheck(a.all),
		ID:       a.ID(),
		ChildIDs: []int{a.inner.ID()},
		Fields:   map[string]interface{}{"array": int(a.arrayID), "all": a.all},
	}
}

func init() {
	factory := func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		arr, _ := d.Fields["array"].(int)
		all, _ := d.Fields["all"].(bool)
		return &ArrayCheck{Base: action.NewBase(d.ID, classIDForArrayCheck(all), clock), arrayID: action.DataID(arr), all: all}, nil
	}
	program.RegisterFactory(action.ClassArrayCheckAny, factory)
	program.RegisterFactory(action.ClassArrayCheckAll, factory)
}
