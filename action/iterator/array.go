// Package iterator implements the concrete producers of the action graph:
// Array (array scan), Loop (Forever/Once), and the file-access driven
// FileScan/Fetch/GetLocator (spec.md §4.3), grounded on
// Kernel/Execution/Iterator/{Array,Loop}.cpp of the original implementation.
package iterator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// Array scans an array-valued variable one element at a time, copying each
// element into its out-data-id, same as Iterator::Array in the original: an
// in-data array holder plus a cursor (Array.cpp's m_pArrayData/m_iCursor).
type Array struct {
	action.Base
	inID  action.DataID
	outID action.DataID

	startUps  []action.Action
	perTuples []action.Action

	cursor   int
	wasLast  bool
	finished bool
}

var _ action.Iterator = (*Array)(nil)
var _ program.Describable = (*Array)(nil)

// NewArray returns an Array scanning the array variable at inID, writing
// each element to outID.
func NewArray(id int, clock *action.Clock, inID, outID action.DataID) *Array {
	return &Array{
		Base:   action.NewBase(id, action.ClassArray, clock),
		inID:   inID,
		outID:  outID,
		cursor: -1,
	}
}

func (a *Array) OutDataID() action.DataID { return a.outID }

func (a *Array) AddStartUp(ac action.Action)  { a.startUps = append(a.startUps, ac) }
func (a *Array) StartUps() []action.Action    { return a.startUps }
func (a *Array) AddPerTuple(ac action.Action) { a.perTuples = append(a.perTuples, ac) }
func (a *Array) PerTuples() []action.Action   { return a.perTuples }

func (a *Array) HasNext() bool { return !a.finished }
func (a *Array) HasData() bool { return a.cursor >= 0 && !a.finished }
func (a *Array) WasLast() bool { return a.wasLast }
func (a *Array) SetWasLast()   { a.wasLast = true }

// Reset rewinds the cursor so the array can be rescanned, e.g. by an
// enclosing Loop (Array.cpp's reset()).
func (a *Array) Reset() {
	a.cursor = -1
	a.wasLast = false
	a.finished = false
}

func (a *Array) Finish() error {
	a.finished = true
	return nil
}

// Next advances the cursor and copies the next element into outID. It
// returns false once the array is exhausted, matching Array::next()'s
// boolean "is there a tuple" contract.
func (a *Array) Next(vt action.VariableTable) (bool, error) {
	arr := vt.Get(a.inID)
	if arr == nil || arr.Kind() != value.KindArray {
		return false, fmt.Errorf("iterator.Array: in-data %d is not an array", a.inID)
	}
	a.cursor++
	if a.cursor >= arr.Len() {
		a.finished = true
		return false, nil
	}
	out := vt.Get(a.outID)
	if out == nil {
		return false, fmt.Errorf("iterator.Array: out-data %d not allocated", a.outID)
	}
	out.Assign(arr.Array()[a.cursor])
	if a.cursor == arr.Len()-1 {
		a.wasLast = true
	}
	return true, nil
}

// Describe implements program.Describable.
func (a *Array) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassArray,
		ID:      a.ID(),
		Fields: map[string]interface{}{
			"in":  int(a.inID),
			"out": int(a.outID),
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassArray, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		in, ok := d.Fields["in"].(int)
		if !ok {
			return nil, fmt.Errorf("iterator.Array: missing in-data field")
		}
		out, ok := d.Fields["out"].(int)
		if !ok {
			return nil, fmt.Errorf("iterator.Array: missing out-data field")
		}
		return NewArray(d.ID, clock, action.DataID(in), action.DataID(out)), nil
	})
}
