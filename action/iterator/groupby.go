package iterator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/action/collection"
	"github.com/doquedb/qxkernel/program"
)

// GroupBy exhausts its child, partitioning rows by key equality (tracked
// through a collection.HashSet of seen keys) and emits one representative
// row per distinct key — the aggregation-free grouping shape the action
// graph needs before per-group functions run as PerTuple actions.
type GroupBy struct {
	action.Base
	child  action.Iterator
	seen   *collection.HashSet
	keyID  action.DataID
	outID  action.DataID

	startUps  []action.Action
	perTuples []action.Action
	wasLast   bool
}

var _ action.Iterator = (*GroupBy)(nil)
var _ program.Describable = (*GroupBy)(nil)

func NewGroupBy(id int, clock *action.Clock, child action.Iterator, seen *collection.HashSet, keyID, outID action.DataID) *GroupBy {
	g := &GroupBy{Base: action.NewBase(id, action.ClassGroupBy, clock), seen: seen, keyID: keyID, outID: outID}
	g.AddChild(child)
	return g
}

func (g *GroupBy) AddChild(child action.Action) {
	g.Base.AddChild(child)
	if len(g.Base.Children()) == 1 {
		if it, ok := g.Base.Children()[0].(action.Iterator); ok {
			g.child = it
		}
	}
}

func (g *GroupBy) OutDataID() action.DataID { return g.outID }

func (g *GroupBy) AddStartUp(ac action.Action)  { g.startUps = append(g.startUps, ac) }
func (g *GroupBy) StartUps() []action.Action    { return g.startUps }
func (g *GroupBy) AddPerTuple(ac action.Action) { g.perTuples = append(g.perTuples, ac) }
func (g *GroupBy) PerTuples() []action.Action   { return g.perTuples }

func (g *GroupBy) HasNext() bool { return g.child.HasNext() }
func (g *GroupBy) HasData() bool { return g.child.HasData() }
func (g *GroupBy) WasLast() bool { return g.wasLast }
func (g *GroupBy) SetWasLast()   { g.wasLast = true }

func (g *GroupBy) Reset() {
	g.seen.Clear()
	g.wasLast = false
	g.child.Reset()
}

func (g *GroupBy) Finish() error { return g.child.Finish() }

func (g *GroupBy) Next(vt action.VariableTable) (bool, error) {
	if g.child == nil {
		return false, fmt.Errorf("iterator.GroupBy: missing child")
	}
	for {
		ok, err := g.child.Next(vt)
		if err != nil || !ok {
			return false, err
		}
		key := vt.Get(g.keyID)
		if key == nil {
			return false, fmt.Errorf("iterator.GroupBy: key data %d not allocated", g.keyID)
		}
		if g.seen.Add(key) {
			if g.child.WasLast() {
				g.wasLast = true
			}
			return true, nil
		}
		// Not a new group: skip this row and pull the next one.
	}
}

func (g *GroupBy) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID:  action.ClassGroupBy,
		ID:       g.ID(),
		ChildIDs: []int{g.child.ID()},
		Fields: map[string]interface{}{
			"key": int(g.keyID),
			"out": int(g.outID),
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassGroupBy, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		key, _ := d.Fields["key"].(int)
		out, _ := d.Fields["out"].(int)
		return &GroupBy{
			Base:  action.NewBase(d.ID, action.ClassGroupBy, clock),
			seen:  collection.NewHashSet(-1, clock),
			keyID: action.DataID(key),
			outID: action.DataID(out),
		}, nil
	})
}
