// Package operator implements the action graph's side-effecting steps:
// Clear, SetNull, FileFetch (Normal/GetLocator) and Generator (RowID /
// Identity / IdentityByInput / RecoveryRowID / RecoveryIdentity),
// grounded on Kernel/Execution/Operator/{Clear,SetNull,FileFetch,
// Generator}.cpp of the original implementation.
package operator

import (
	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
)

// Clear resets one or more data-ids back to a null value, the operator
// form of Operator::Clear.
type Clear struct {
	action.Base
	ids []action.DataID
}

var _ action.Operator = (*Clear)(nil)
var _ program.Describable = (*Clear)(nil)

func NewClear(id int, clock *action.Clock, ids ...action.DataID) *Clear {
	return &Clear{Base: action.NewBase(id, action.ClassClear, clock), ids: ids}
}

func (c *Clear) Execute(vt action.VariableTable) (action.Result, error) {
	if c.Done() {
		return action.Success, nil
	}
	for _, id := range c.ids {
		if v := vt.Get(id); v != nil {
			v.SetNull()
		}
	}
	c.MarkDone()
	return action.Success, nil
}

func (c *Clear) Describe() program.Descriptor {
	ids := make([]int, len(c.ids))
	for i, id := range c.ids {
		ids[i] = int(id)
	}
	return program.Descriptor{
		ClassID: action.ClassClear,
		ID:      c.ID(),
		Fields:  map[string]interface{}{"ids": ids},
	}
}

func init() {
	program.RegisterFactory(action.ClassClear, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		raw, _ := d.Fields["ids"].([]int)
		ids := make([]action.DataID, len(raw))
		for i, v := range raw {
			ids[i] = action.DataID(v)
		}
		return NewClear(d.ID, clock, ids...), nil
	})
}
