package operator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
)

// SetNull nulls every element of an array-valued variable in place
// (SetNull.cpp's ArrayDataHolder walk), used to reset per-tuple
// aggregation buffers between groups.
type SetNull struct {
	action.Base
	arrayID action.DataID
}

var _ action.Operator = (*SetNull)(nil)
var _ program.Describable = (*SetNull)(nil)

func NewSetNull(id int, clock *action.Clock, arrayID action.DataID) *SetNull {
	return &SetNull{Base: action.NewBase(id, action.ClassSetNull, clock), arrayID: arrayID}
}

func (s *SetNull) Execute(vt action.VariableTable) (action.Result, error) {
	if s.Done() {
		return action.Success, nil
	}
	arr := vt.Get(s.arrayID)
	if arr == nil {
		return action.Success, fmt.Errorf("operator.SetNull: data %d not allocated", s.arrayID)
	}
	for _, elem := range arr.Array() {
		elem.SetNull()
	}
	s.MarkDone()
	return action.Success, nil
}

func (s *SetNull) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassSetNull,
		ID:      s.ID(),
		Fields:  map[string]interface{}{"array": int(s.arrayID)},
	}
}

func init() {
	program.RegisterFactory(action.ClassSetNull, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		arr, _ := d.Fields["array"].(int)
		return NewSetNull(d.ID, clock, action.DataID(arr)), nil
	})
}
