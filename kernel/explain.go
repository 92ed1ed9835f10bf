package kernel

import (
	"context"
	"fmt"
	"io"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/k0kubun/pp/v3"
)

// ExplainDriver wraps a Driver the way the teacher's DryRunDatabase wraps
// a real Database: it swaps the effectful half of the run (Operator.
// Execute) for a stand-in that only records what would have happened,
// while still evaluating predicates and functions for real so the
// explain output reflects the actual tuple flow and row counts rather
// than a static plan dump.
type ExplainDriver struct {
	prog *program.Program
	sink io.Writer
	pretty *pp.PrettyPrinter
}

// NewExplainDriver returns a driver that writes a running trace of the
// program's execution to sink instead of performing operator side
// effects.
func NewExplainDriver(p *program.Program, sink io.Writer) *ExplainDriver {
	printer := pp.New()
	printer.SetOutput(sink)
	return &ExplainDriver{prog: p, sink: sink, pretty: printer}
}

func (e *ExplainDriver) Run(ctx context.Context) error {
	root := e.prog.Root
	if root == nil {
		return fmt.Errorf("kernel: program has no root iterator")
	}
	fmt.Fprintf(e.sink, "-- explain: root=%d class=%d --\n", root.ID(), root.ClassID())

	for _, su := range root.StartUps() {
		e.explainAction(su)
	}

	tuple := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.prog.Clock().Tick()
		ok, err := root.Next(e.prog)
		if err != nil {
			return fmt.Errorf("kernel: next: %w", err)
		}
		if !ok {
			break
		}
		if root.HasData() {
			tuple++
			fmt.Fprintf(e.sink, "-- tuple %d --\n", tuple)
			for _, pt := range root.PerTuples() {
				if broke := e.explainAction(pt); broke {
					break
				}
			}
		}
		if root.WasLast() {
			break
		}
	}
	fmt.Fprintf(e.sink, "-- explain: %d tuples --\n", tuple)
	return root.Finish()
}

// explainAction prints what a per-tuple action would do without running
// an Operator's side effects; Predicates and Functions, being pure, are
// still evaluated/applied so the trace reflects real control flow.
// It returns true if this action stopped the tuple: a predicate
// evaluating false/unknown, or a predicate or function that returned an
// error. Operators are not executed and never stop the tuple.
func (e *ExplainDriver) explainAction(a action.Action) bool {
	switch n := a.(type) {
	case action.Operator:
		fmt.Fprintf(e.sink, "operator %d (class %d): [dry-run, not executed]\n", n.ID(), n.ClassID())
		return false
	case action.Predicate:
		tri, err := n.Evaluate(e.prog)
		if err != nil {
			fmt.Fprintf(e.sink, "predicate %d (class %d): error: %v\n", n.ID(), n.ClassID(), err)
			return true
		}
		fmt.Fprintf(e.sink, "predicate %d (class %d) = %v\n", n.ID(), n.ClassID(), tri)
		return !tri.Bool()
	case action.Function:
		if err := n.Apply(e.prog); err != nil {
			fmt.Fprintf(e.sink, "function %d (class %d): error: %v\n", n.ID(), n.ClassID(), err)
			return true
		}
		fmt.Fprintf(e.sink, "function %d (class %d) applied\n", n.ID(), n.ClassID())
		return false
	default:
		return false
	}
}

// DumpVariables pretty-prints every allocated variable via k0kubun/pp,
// used by the explain command's final summary.
func (e *ExplainDriver) DumpVariables(ids []action.DataID) {
	for _, id := range ids {
		v := e.prog.Get(id)
		e.pretty.Printf("$%d = %v\n", id, v)
	}
}
