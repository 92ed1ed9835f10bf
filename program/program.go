// Package program implements the reusable, serializable execution plan:
// the indexed table of variables and the registries of actions that
// reference each other only by id (spec.md §3/§4.2).
package program

import (
	"fmt"
	"io"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/value"
)

// Program owns every action and value object reachable from its Root. It is
// the sole means by which one action reaches another's data: actions never
// hold direct pointers to other actions' values (spec.md §3).
type Program struct {
	clock *action.Clock

	variables []*value.Value
	arrayFlag []bool

	iterators  map[int]action.Iterator
	operators  map[int]action.Operator
	predicates map[int]action.Predicate
	functions  map[int]action.Function
	locators   map[int]Locator
	files      map[int]FileAccessHandle

	nextID int

	Root action.Iterator
}

// NewID mints a globally unique action id. Concrete action constructors
// (iterator.NewArray, operator.NewClear, …) take the id as an argument, so
// callers pass p.NewID() to them — ids are unique across iterators, operators,
// predicates, functions, locators, and file-access handles, which lets
// serialization resolve any action's children regardless of kind.
func (p *Program) NewID() int {
	p.nextID++
	return p.nextID
}

// Locator and FileAccessHandle are named here, not imported from their
// owning packages, to avoid a import cycle (locator/fileaccess both need to
// be constructible without depending back on program); concrete
// implementations satisfy these via the real locator.Locator /
// fileaccess.FileAccess interfaces, registered through RegisterLocator /
// RegisterFileAccess.
type Locator interface {
	ID() int
}

type FileAccessHandle interface {
	ID() int
}

// New returns an empty Program with its own done-latch Clock.
func New() *Program {
	return &Program{
		clock:      action.NewClock(),
		iterators:  map[int]action.Iterator{},
		operators:  map[int]action.Operator{},
		predicates: map[int]action.Predicate{},
		functions:  map[int]action.Function{},
		locators:   map[int]Locator{},
		files:      map[int]FileAccessHandle{},
	}
}

func (p *Program) Clock() *action.Clock { return p.clock }

// AddVariable allocates a new data-id holding a null, not-default
// null-marker value (value.NewNull) and returns its id. data-ids are valid for the whole
// program lifetime; variables are never reallocated (spec.md §3 invariants).
func (p *Program) AddVariable() action.DataID {
	id := action.DataID(len(p.variables))
	p.variables = append(p.variables, value.NewNull())
	p.arrayFlag = append(p.arrayFlag, false)
	return id
}

// AddArrayVariable allocates a data-id holding an empty array of elemType.
func (p *Program) AddArrayVariable(elemType value.Kind) action.DataID {
	id := action.DataID(len(p.variables))
	p.variables = append(p.variables, value.NewArray(elemType))
	p.arrayFlag = append(p.arrayFlag, true)
	return id
}

// Get implements action.VariableTable.
func (p *Program) Get(id action.DataID) *value.Value {
	if id == action.NoData || int(id) >= len(p.variables) {
		return nil
	}
	return p.variables[id]
}

// IsArray implements action.VariableTable.
func (p *Program) IsArray(id action.DataID) bool {
	if id == action.NoData || int(id) >= len(p.arrayFlag) {
		return false
	}
	return p.arrayFlag[id]
}

func (p *Program) RegisterIterator(it action.Iterator) int {
	p.iterators[it.ID()] = it
	return it.ID()
}

func (p *Program) RegisterOperator(op action.Operator) int {
	p.operators[op.ID()] = op
	return op.ID()
}

func (p *Program) RegisterPredicate(pr action.Predicate) int {
	p.predicates[pr.ID()] = pr
	return pr.ID()
}

func (p *Program) RegisterFunction(fn action.Function) int {
	p.functions[fn.ID()] = fn
	return fn.ID()
}

func (p *Program) RegisterLocator(l Locator) int {
	p.locators[l.ID()] = l
	return l.ID()
}

func (p *Program) RegisterFileAccess(f FileAccessHandle) int {
	p.files[f.ID()] = f
	return f.ID()
}

func (p *Program) Iterator(id int) (action.Iterator, bool)   { it, ok := p.iterators[id]; return it, ok }
func (p *Program) Operator(id int) (action.Operator, bool)   { op, ok := p.operators[id]; return op, ok }
func (p *Program) Predicate(id int) (action.Predicate, bool) { pr, ok := p.predicates[id]; return pr, ok }
func (p *Program) Function(id int) (action.Function, bool)   { fn, ok := p.functions[id]; return fn, ok }
func (p *Program) Locator(id int) (Locator, bool)            { l, ok := p.locators[id]; return l, ok }
func (p *Program) FileAccess(id int) (FileAccessHandle, bool) { f, ok := p.files[id]; return f, ok }

// ExplainVariable renders a variable's current value to an explain sink
// (spec.md §4.2). The sink is any io.Writer; kernel.ExplainDriver wraps one
// with k0kubun/pp for structured dumping of the whole variable table.
func (p *Program) ExplainVariable(id action.DataID, sink io.Writer) error {
	v := p.Get(id)
	if v == nil {
		_, err := fmt.Fprintf(sink, "$%d = <absent>\n", id)
		return err
	}
	_, err := fmt.Fprintf(sink, "$%d = %s\n", id, v.String())
	return err
}
