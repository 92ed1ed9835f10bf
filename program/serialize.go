package program

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/value"
)

// Descriptor is the serializable shape of one action node: its class,
// id, children (by id, never by pointer — spec.md §3), and a bag of
// construction parameters specific to that class (data-ids, thresholds,
// comparison kinds, …). Concrete action types implement Describable to
// produce one, and register a Factory that turns a Descriptor back into
// a live node.
type Descriptor struct {
	ClassID  action.ClassID
	ID       int
	ChildIDs []int
	Fields   map[string]interface{}
}

// Describable is implemented by any action that wants to survive
// Program.Serialize / program.Deserialize.
type Describable interface {
	Describe() Descriptor
}

// Factory rebuilds a node from its Descriptor. Children are wired in by
// the caller afterward via Action.AddChild, so factories never need to
// resolve other nodes themselves.
type Factory func(d Descriptor, clock *action.Clock) (action.Action, error)

var factories = map[action.ClassID]Factory{}

// RegisterFactory is called from the init() of each concrete action
// package (iterator, operator, predicate, function, collection) so that
// program never needs to import them — avoiding an import cycle.
func RegisterFactory(id action.ClassID, f Factory) {
	factories[id] = f
}

// snapshot is the gob-serialized shape of an entire Program.
type snapshot struct {
	Variables   [][]byte
	ArrayFlag   []bool
	Descriptors []Descriptor
	RootID      int
	HasRoot     bool
}

func init() {
	gob.Register(map[string]interface{}{})
	// Descriptor.Fields values are transmitted through interface{}, so each
	// concrete type that ever appears there must be registered up front.
	gob.Register(int(0))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register(string(""))
	gob.Register(bool(false))
	gob.Register([]int{})
	gob.Register([]string{})
	gob.Register([]byte{})
}

// Serialize encodes the whole program: its variable table and every
// registered action's Descriptor, by walking the iterator/operator/
// predicate/function registries. Actions that don't implement
// Describable (locators, file-access handles — session-scoped, not
// plan-scoped) are skipped.
func (p *Program) Serialize() ([]byte, error) {
	snap := snapshot{
		ArrayFlag: p.arrayFlag,
	}
	for _, v := range p.variables {
		data, err := v.Serialize()
		if err != nil {
			return nil, fmt.Errorf("program: serialize variable: %w", err)
		}
		snap.Variables = append(snap.Variables, data)
	}
	collect := func(d Describable) {
		snap.Descriptors = append(snap.Descriptors, d.Describe())
	}
	for _, it := range p.iterators {
		if d, ok := it.(Describable); ok {
			collect(d)
		}
	}
	for _, op := range p.operators {
		if d, ok := op.(Describable); ok {
			collect(d)
		}
	}
	for _, pr := range p.predicates {
		if d, ok := pr.(Describable); ok {
			collect(d)
		}
	}
	for _, fn := range p.functions {
		if d, ok := fn.(Describable); ok {
			collect(d)
		}
	}
	if p.Root != nil {
		snap.HasRoot = true
		snap.RootID = p.Root.ID()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, fmt.Errorf("program: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize rebuilds a Program from bytes produced by Serialize. It is
// a two-pass reconstruction: first every node is instantiated from its
// Descriptor (so any id can be resolved regardless of which registry it
// belongs to), then children are wired in by id.
func Deserialize(data []byte) (*Program, error) {
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("program: decode: %w", err)
	}

	p := New()
	p.arrayFlag = snap.ArrayFlag
	for _, data := range snap.Variables {
		v, err := value.Deserialize(data)
		if err != nil {
			return nil, fmt.Errorf("program: deserialize variable: %w", err)
		}
		p.variables = append(p.variables, v)
	}

	built := map[int]action.Action{}
	maxID := 0
	for _, d := range snap.Descriptors {
		factory, ok := factories[d.ClassID]
		if !ok {
			return nil, fmt.Errorf("program: no factory registered for class %d", d.ClassID)
		}
		node, err := factory(d, p.clock)
		if err != nil {
			return nil, fmt.Errorf("program: build node %d (class %d): %w", d.ID, d.ClassID, err)
		}
		built[d.ID] = node
		if d.ID > maxID {
			maxID = d.ID
		}
		switch n := node.(type) {
		case action.Iterator:
			p.iterators[d.ID] = n
		case action.Operator:
			p.operators[d.ID] = n
		case action.Predicate:
			p.predicates[d.ID] = n
		case action.Function:
			p.functions[d.ID] = n
		default:
			return nil, fmt.Errorf("program: node %d is not a known action kind", d.ID)
		}
	}
	p.nextID = maxID

	for _, d := range snap.Descriptors {
		parent := built[d.ID]
		for _, cid := range d.ChildIDs {
			child, ok := built[cid]
			if !ok {
				return nil, fmt.Errorf("program: node %d references unknown child %d", d.ID, cid)
			}
			parent.AddChild(child)
		}
	}

	if snap.HasRoot {
		root, ok := built[snap.RootID]
		if !ok {
			return nil, fmt.Errorf("program: root id %d not found", snap.RootID)
		}
		it, ok := root.(action.Iterator)
		if !ok {
			return nil, fmt.Errorf("program: root %d is not an iterator", snap.RootID)
		}
		p.Root = it
	}

	return p, nil
}
