// Package function implements the action graph's pure, out-data-writing
// transforms. CharJoin is grounded on
// Kernel/Execution/Function/CharJoin.cpp: it concatenates a list of
// string-valued data-ids with a separator, writing the result to one
// out-data-id.
package function

import (
	"strings"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// CharJoin concatenates the string form of each operand in ids with
// separator, same as CharJoinImpl::execute's addSeparator-between-values
// loop.
type CharJoin struct {
	action.Base
	ids       []action.DataID
	separator string
	outID     action.DataID
}

var _ action.Function = (*CharJoin)(nil)
var _ program.Describable = (*CharJoin)(nil)

func NewCharJoin(id int, clock *action.Clock, ids []action.DataID, separator string, outID action.DataID) *CharJoin {
	return &CharJoin{Base: action.NewBase(id, action.ClassCharJoin, clock), ids: ids, separator: separator, outID: outID}
}

func (c *CharJoin) Apply(vt action.VariableTable) error {
	parts := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		v := vt.Get(id)
		if v == nil || v.IsNull() {
			continue
		}
		parts = append(parts, v.String())
	}
	out := vt.Get(c.outID)
	if out == nil {
		return nil
	}
	out.Assign(value.NewString(strings.Join(parts, c.separator)))
	return nil
}

func (c *CharJoin) Describe() program.Descriptor {
	ids := make([]int, len(c.ids))
	for i, id := range c.ids {
		ids[i] = int(id)
	}
	return program.Descriptor{
		ClassID: action.ClassCharJoin,
		ID:      c.ID(),
		Fields: map[string]interface{}{
			"ids":       ids,
			"separator": c.separator,
			"out":       int(c.outID),
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassCharJoin, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		raw, _ := d.Fields["ids"].([]int)
		ids := make([]action.DataID, len(raw))
		for i, v := range raw {
			ids[i] = action.DataID(v)
		}
		sep, _ := d.Fields["separator"].(string)
		out, _ := d.Fields["out"].(int)
		return NewCharJoin(d.ID, clock, ids, sep, action.DataID(out)), nil
	})
}
