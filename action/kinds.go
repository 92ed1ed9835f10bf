package action

import "github.com/doquedb/qxkernel/value"

// Iterator produces tuples (spec.md §3/§4.3).
type Iterator interface {
	Action
	OutDataID() DataID
	Next(vt VariableTable) (bool, error)
	Reset()
	Finish() error
	HasNext() bool
	HasData() bool
	WasLast() bool
	SetWasLast()
	// StartUp actions run exactly once, before the first Next.
	AddStartUp(Action)
	StartUps() []Action
	// PerTuple actions run once per Next call.
	AddPerTuple(Action)
	PerTuples() []Action
}

// Operator performs a side-effecting step (spec.md §3/§4.4/§4.5). Execute
// is idempotent within one tuple: each operator checks its own
// Base.Done()/MarkDone() latch, so a second call in the same clock epoch
// is a no-op; the driver does not check the latch itself.
type Operator interface {
	Action
	Execute(vt VariableTable) (Result, error)
}

// Predicate is a three-valued boolean (spec.md §3/§4.4).
type Predicate interface {
	Action
	Evaluate(vt VariableTable) (value.Tri, error)
	// CheckByData evaluates the predicate against a single element value,
	// used by array-cascading forms (ArrayCheck).
	CheckByData(v *value.Value) (value.Tri, error)
}

// Function writes a result variable from input variables; pure (spec.md
// §3/§4.4).
type Function interface {
	Action
	Apply(vt VariableTable) error
}

// Collection is an intermediate store: an array-scan source, sort buffer,
// hash set, or limit counter (spec.md §3).
type Collection interface {
	Action
	Clear()
}
