package iterator

import (
	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
)

// LoopMode selects between Loop's two original forms, LoopImpl::ForEver and
// LoopImpl::Once.
type LoopMode int

const (
	Forever LoopMode = iota
	Once
)

// Loop drives its per-tuple actions repeatedly (Forever) or exactly once
// (Once); Forever terminates only when a per-tuple action stops the
// driver (action.Break), same as the original's "doAction" status loop
// (Loop.cpp), while Once stops by itself after its single iteration.
// Loop itself has no out-data of its own.
type Loop struct {
	action.Base
	mode LoopMode

	startUps  []action.Action
	perTuples []action.Action

	done bool
}

var _ action.Iterator = (*Loop)(nil)
var _ program.Describable = (*Loop)(nil)

func NewLoop(id int, clock *action.Clock, mode LoopMode) *Loop {
	classID := action.ClassLoop
	return &Loop{
		Base: action.NewBase(id, classID, clock),
		mode: mode,
	}
}

func (l *Loop) OutDataID() action.DataID { return action.NoData }

func (l *Loop) AddStartUp(ac action.Action)  { l.startUps = append(l.startUps, ac) }
func (l *Loop) StartUps() []action.Action    { return l.startUps }
func (l *Loop) AddPerTuple(ac action.Action) { l.perTuples = append(l.perTuples, ac) }
func (l *Loop) PerTuples() []action.Action   { return l.perTuples }

func (l *Loop) HasNext() bool { return !l.done }
func (l *Loop) HasData() bool { return !l.done }
func (l *Loop) WasLast() bool { return l.mode == Once }
func (l *Loop) SetWasLast()   { l.done = true }

func (l *Loop) Reset() { l.done = false }
func (l *Loop) Finish() error {
	l.done = true
	return nil
}

// Next reports whether another iteration should run. Forever always says
// yes (the driver relies on a per-tuple operator/predicate returning
// action.Break to stop); Once says yes exactly once.
func (l *Loop) Next(vt action.VariableTable) (bool, error) {
	if l.done {
		return false, nil
	}
	if l.mode == Once {
		l.done = true
	}
	return true, nil
}

func (l *Loop) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassLoop,
		ID:      l.ID(),
		Fields:  map[string]interface{}{"mode": int(l.mode)},
	}
}

func init() {
	program.RegisterFactory(action.ClassLoop, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		mode, _ := d.Fields["mode"].(int)
		return NewLoop(d.ID, clock, LoopMode(mode)), nil
	})
}
