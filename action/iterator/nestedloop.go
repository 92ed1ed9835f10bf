package iterator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
)

// NestedLoop drives an outer iterator and, for every outer tuple, rescans
// an inner iterator from the start — the join strategy that needs no
// collaborator beyond its two children. Children()[0] is the outer,
// Children()[1] the inner, wired via AddChild in that order.
type NestedLoop struct {
	action.Base
	outer, inner action.Iterator

	startUps  []action.Action
	perTuples []action.Action
	started   bool
	wasLast   bool
}

var _ action.Iterator = (*NestedLoop)(nil)
var _ program.Describable = (*NestedLoop)(nil)

func NewNestedLoop(id int, clock *action.Clock, outer, inner action.Iterator) *NestedLoop {
	nl := &NestedLoop{Base: action.NewBase(id, action.ClassNestedLoop, clock), outer: outer, inner: inner}
	nl.AddChild(outer)
	nl.AddChild(inner)
	return nl
}

// AddChild shadows Base.AddChild so that reconstruction (which wires
// children generically by id, not by name) also populates outer/inner.
func (n *NestedLoop) AddChild(child action.Action) {
	n.Base.AddChild(child)
	children := n.Base.Children()
	if len(children) >= 1 {
		if it, ok := children[0].(action.Iterator); ok {
			n.outer = it
		}
	}
	if len(children) >= 2 {
		if it, ok := children[1].(action.Iterator); ok {
			n.inner = it
		}
	}
}

func (n *NestedLoop) OutDataID() action.DataID { return n.inner.OutDataID() }

func (n *NestedLoop) AddStartUp(ac action.Action)  { n.startUps = append(n.startUps, ac) }
func (n *NestedLoop) StartUps() []action.Action    { return n.startUps }
func (n *NestedLoop) AddPerTuple(ac action.Action) { n.perTuples = append(n.perTuples, ac) }
func (n *NestedLoop) PerTuples() []action.Action   { return n.perTuples }

func (n *NestedLoop) HasNext() bool { return n.outer.HasNext() || n.inner.HasNext() }
func (n *NestedLoop) HasData() bool { return n.inner.HasData() }
func (n *NestedLoop) WasLast() bool { return n.wasLast }
func (n *NestedLoop) SetWasLast()   { n.wasLast = true }

func (n *NestedLoop) Reset() {
	n.outer.Reset()
	n.inner.Reset()
	n.started = false
	n.wasLast = false
}

func (n *NestedLoop) Finish() error {
	if err := n.inner.Finish(); err != nil {
		return err
	}
	return n.outer.Finish()
}

// Next advances the inner iterator; when it is exhausted, it advances the
// outer iterator and resets the inner one for another pass, same shape as
// a textbook nested-loop join driver.
func (n *NestedLoop) Next(vt action.VariableTable) (bool, error) {
	if n.outer == nil || n.inner == nil {
		return false, fmt.Errorf("iterator.NestedLoop: missing outer/inner child")
	}
	if !n.started {
		ok, err := n.outer.Next(vt)
		if err != nil || !ok {
			return false, err
		}
		n.started = true
	}
	for {
		ok, err := n.inner.Next(vt)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		outerOK, err := n.outer.Next(vt)
		if err != nil || !outerOK {
			return false, err
		}
		n.inner.Reset()
	}
}

func (n *NestedLoop) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID:  action.ClassNestedLoop,
		ID:       n.ID(),
		ChildIDs: []int{n.outer.ID(), n.inner.ID()},
	}
}

func init() {
	program.RegisterFactory(action.ClassNestedLoop, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		// outer/inner are wired by Program.Deserialize via AddChild after
		// construction; this shell gets replaced once both are known.
		return newNestedLoopShell(d.ID, clock), nil
	})
}

// nestedLoopShell exists because NestedLoop's constructor requires both
// children up front but the generic deserialize pass wires children in
// after construction via AddChild; the shell accepts AddChild calls and
// fills outer/inner from them in order.
func newNestedLoopShell(id int, clock *action.Clock) *NestedLoop {
	return &NestedLoop{Base: action.NewBase(id, action.ClassNestedLoop, clock)}
}
