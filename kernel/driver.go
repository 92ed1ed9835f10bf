// Package kernel is the execution driver: the loop that ticks a
// program's Clock once per tuple, pulls from the root iterator, and runs
// its start-up and per-tuple actions in order, stopping on the first
// action.Break or when the root iterator is exhausted (spec.md §4.5,
// grounded on the original's doAction/next driver loop referenced from
// Kernel/Execution/Iterator/{Array,Loop}.cpp).
package kernel

import (
	"context"
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// Driver runs one Program's root iterator to completion.
type Driver struct {
	prog      *program.Program
	startedUp bool
}

func New(p *program.Program) *Driver {
	return &Driver{prog: p}
}

// Run pulls every tuple from the program's root iterator, executing its
// start-up actions once and its per-tuple actions once per tuple, until
// the root is exhausted, WasLast fires, or ctx is canceled.
func (d *Driver) Run(ctx context.Context) error {
	root := d.prog.Root
	if root == nil {
		return fmt.Errorf("kernel: program has no root iterator")
	}

	if !d.startedUp {
		for _, su := range root.StartUps() {
			if err := runAction(d.prog, su); err != nil {
				return fmt.Errorf("kernel: start-up action %d: %w", su.ID(), err)
			}
		}
		d.startedUp = true
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.prog.Clock().Tick()
		ok, err := root.Next(d.prog)
		if err != nil {
			return fmt.Errorf("kernel: next: %w", err)
		}
		if !ok {
			return root.Finish()
		}

		if root.HasData() {
			broke, err := runPerTuples(d.prog, root.PerTuples())
			if err != nil {
				return err
			}
			if broke {
				return root.Finish()
			}
		}

		if root.WasLast() {
			return root.Finish()
		}
	}
}

// runPerTuples runs every per-tuple action in order, short-circuiting the
// rest when one returns action.Break or a predicate evaluates to anything
// but TriTrue (false or unknown) — equivalent to the original's
// doAction/checkByData-chained conjunction. It then reports broke=true,
// and Run finishes the root and ends the whole run.
func runPerTuples(vt action.VariableTable, actions []action.Action) (broke bool, err error) {
	for _, a := range actions {
		switch n := a.(type) {
		case action.Operator:
			res, err := n.Execute(vt)
			if err != nil {
				return false, fmt.Errorf("kernel: operator %d: %w", n.ID(), err)
			}
			if res == action.Break {
				return true, nil
			}
		case action.Predicate:
			tri, err := n.Evaluate(vt)
			if err != nil {
				return false, fmt.Errorf("kernel: predicate %d: %w", n.ID(), err)
			}
			if tri != value.TriTrue {
				return true, nil
			}
		case action.Function:
			if err := n.Apply(vt); err != nil {
				return false, fmt.Errorf("kernel: function %d: %w", n.ID(), err)
			}
		case action.Iterator:
			if _, err := n.Next(vt); err != nil {
				return false, fmt.Errorf("kernel: nested iterator %d: %w", n.ID(), err)
			}
		}
	}
	return false, nil
}

func runAction(vt action.VariableTable, a action.Action) error {
	_, err := runPerTuples(vt, []action.Action{a})
	return err
}
