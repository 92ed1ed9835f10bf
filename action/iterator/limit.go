package iterator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/action/collection"
	"github.com/doquedb/qxkernel/program"
)

// Limit pulls from its child, discarding rows until past Offset then
// emitting up to Limit of them, using a collection.LimitCounter to track
// position (spec.md's Limit/Offset pair).
type Limit struct {
	action.Base
	child   action.Iterator
	counter *collection.LimitCounter

	startUps  []action.Action
	perTuples []action.Action
	wasLast   bool
	done      bool
}

var _ action.Iterator = (*Limit)(nil)
var _ program.Describable = (*Limit)(nil)

func NewLimit(id int, clock *action.Clock, child action.Iterator, counter *collection.LimitCounter) *Limit {
	l := &Limit{Base: action.NewBase(id, action.ClassLimit, clock), counter: counter}
	l.AddChild(child)
	return l
}

func (l *Limit) AddChild(child action.Action) {
	l.Base.AddChild(child)
	if len(l.Base.Children()) == 1 {
		if it, ok := l.Base.Children()[0].(action.Iterator); ok {
			l.child = it
		}
	}
}

func (l *Limit) OutDataID() action.DataID { return l.child.OutDataID() }

func (l *Limit) AddStartUp(ac action.Action)  { l.startUps = append(l.startUps, ac) }
func (l *Limit) StartUps() []action.Action    { return l.startUps }
func (l *Limit) AddPerTuple(ac action.Action) { l.perTuples = append(l.perTuples, ac) }
func (l *Limit) PerTuples() []action.Action   { return l.perTuples }

func (l *Limit) HasNext() bool { return !l.done && l.child.HasNext() }
func (l *Limit) HasData() bool { return l.child.HasData() }
func (l *Limit) WasLast() bool { return l.wasLast }
func (l *Limit) SetWasLast()   { l.wasLast = true }

func (l *Limit) Reset() {
	l.counter.Clear()
	l.done = false
	l.wasLast = false
	l.child.Reset()
}

func (l *Limit) Finish() error { return l.child.Finish() }

func (l *Limit) Next(vt action.VariableTable) (bool, error) {
	if l.child == nil {
		return false, fmt.Errorf("iterator.Limit: missing child")
	}
	for {
		ok, err := l.child.Next(vt)
		if err != nil || !ok {
			l.done = true
			return false, err
		}
		emit, exhausted := l.counter.Advance()
		if exhausted {
			l.done = true
		}
		if emit {
			if exhausted || l.child.WasLast() {
				l.wasLast = true
			}
			return true, nil
		}
		if exhausted {
			return false, nil
		}
	}
}

func (l *Limit) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID:  action.ClassLimit,
		ID:       l.ID(),
		ChildIDs: []int{l.child.ID()},
		Fields:   l.counter.Describe().Fields,
	}
}

func init() {
	program.RegisterFactory(action.ClassLimit, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		limit, _ := d.Fields["limit"].(int)
		offset, _ := d.Fields["offset"].(int)
		return &Limit{
			Base:    action.NewBase(d.ID, action.ClassLimit, clock),
			counter: collection.NewLimitCounter(-1, clock, limit, offset),
		}, nil
	})
}
