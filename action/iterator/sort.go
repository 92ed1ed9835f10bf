package iterator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/action/collection"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// Sort exhausts its single child on the first Next call, buffering every
// tuple's key/row pair into a collection.SortBuffer, then replays them in
// sorted order. Children()[0] is the child iterator being sorted.
type Sort struct {
	action.Base
	child  action.Iterator
	buffer *collection.SortBuffer
	keyID  action.DataID
	outID  action.DataID
	asc    bool

	startUps  []action.Action
	perTuples []action.Action

	loaded  bool
	sorted  []*value.Value
	cursor  int
	wasLast bool
}

var _ action.Iterator = (*Sort)(nil)
var _ program.Describable = (*Sort)(nil)

func NewSort(id int, clock *action.Clock, child action.Iterator, buffer *collection.SortBuffer, keyID, outID action.DataID, ascending bool) *Sort {
	s := &Sort{
		Base:   action.NewBase(id, action.ClassSort, clock),
		child:  child,
		buffer: buffer,
		keyID:  keyID,
		outID:  outID,
		asc:    ascending,
	}
	s.AddChild(child)
	return s
}

func (s *Sort) AddChild(child action.Action) {
	s.Base.AddChild(child)
	if len(s.Base.Children()) == 1 {
		if it, ok := s.Base.Children()[0].(action.Iterator); ok {
			s.child = it
		}
	}
}

func (s *Sort) OutDataID() action.DataID { return s.outID }

func (s *Sort) AddStartUp(ac action.Action)  { s.startUps = append(s.startUps, ac) }
func (s *Sort) StartUps() []action.Action    { return s.startUps }
func (s *Sort) AddPerTuple(ac action.Action) { s.perTuples = append(s.perTuples, ac) }
func (s *Sort) PerTuples() []action.Action   { return s.perTuples }

func (s *Sort) HasNext() bool { return !s.loaded || s.cursor < len(s.sorted) }
func (s *Sort) HasData() bool { return s.cursor > 0 && s.cursor <= len(s.sorted) }
func (s *Sort) WasLast() bool { return s.wasLast }
func (s *Sort) SetWasLast()   { s.wasLast = true }

func (s *Sort) Reset() {
	s.buffer.Clear()
	s.loaded = false
	s.sorted = nil
	s.cursor = 0
	s.wasLast = false
	s.child.Reset()
}

func (s *Sort) Finish() error { return s.child.Finish() }

func (s *Sort) Next(vt action.VariableTable) (bool, error) {
	if s.child == nil {
		return false, fmt.Errorf("iterator.Sort: missing child")
	}
	if !s.loaded {
		for {
			ok, err := s.child.Next(vt)
			if err != nil {
				return false, err
			}
			if !ok {
				break
			}
			key := vt.Get(s.keyID)
			row := vt.Get(s.outID)
			if key == nil || row == nil {
				return false, fmt.Errorf("iterator.Sort: key/out data not allocated")
			}
			s.buffer.Add(key, row)
		}
		s.sorted = s.buffer.Sorted()
		s.loaded = true
	}
	if s.cursor >= len(s.sorted) {
		s.wasLast = true
		return false, nil
	}
	out := vt.Get(s.outID)
	if out == nil {
		return false, fmt.Errorf("iterator.Sort: out-data %d not allocated", s.outID)
	}
	out.Assign(s.sorted[s.cursor])
	s.cursor++
	if s.cursor == len(s.sorted) {
		s.wasLast = true
	}
	return true, nil
}

func (s *Sort) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID:  action.ClassSort,
		ID:       s.ID(),
		ChildIDs: []int{s.child.ID()},
		Fields: map[string]interface{}{
			"key": int(s.keyID),
			"out": int(s.outID),
			"asc": s.asc,
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassSort, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		key, _ := d.Fields["key"].(int)
		out, _ := d.Fields["out"].(int)
		asc, _ := d.Fields["asc"].(bool)
		buf := collection.NewSortBuffer(-1, clock, asc)
		s := &Sort{
			Base:   action.NewBase(d.ID, action.ClassSort, clock),
			buffer: buf,
			keyID:  action.DataID(key),
			outID:  action.DataID(out),
			asc:    asc,
		}
		return s, nil
	})
}
