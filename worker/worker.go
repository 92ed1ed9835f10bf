// Package worker provides the bounded fan-out the kernel uses to run
// independent per-partition work (e.g. a DoSearch-style scatter across a
// file's segments, or a CalcVariance-style reduction over a result set)
// concurrently with an upper bound on in-flight goroutines, grounded on
// the teacher's database.ConcurrentMapFuncWithError (database/
// concurrent.go), which does the same ordered fan-out/fan-in over
// golang.org/x/sync/errgroup.
package worker

import (
	"cmp"
	"slices"

	"golang.org/x/sync/errgroup"
)

type ordered[T any] struct {
	order int
	value T
}

// Map runs f over every input with at most concurrency goroutines in
// flight, returning results in input order. concurrency <= 0 means
// unlimited; it never receives 0 from this module's callers (unlike the
// teacher's variant, where 0 means "disabled"), so that case isn't
// special-cased here.
func Map[Tin any, Tout any](inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	eg := errgroup.Group{}
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}

	ch := make(chan ordered[Tout], len(inputs))
	for i := range inputs {
		order := i
		in := inputs[i]
		eg.Go(func() error {
			out, err := f(in)
			if err != nil {
				return err
			}
			ch <- ordered[Tout]{order, out}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	close(ch)

	tmp := make([]ordered[Tout], 0, len(inputs))
	for t := range ch {
		tmp = append(tmp, t)
	}
	slices.SortFunc(tmp, func(a, b ordered[Tout]) int {
		return cmp.Compare(a.order, b.order)
	})

	outputs := make([]Tout, len(tmp))
	for i, t := range tmp {
		outputs[i] = t.value
	}
	return outputs, nil
}

// Each is Map without a return value, for fire-and-collect-errors fan-out
// (e.g. opening every fileaccess.FileAccess partition in parallel before
// a scan).
func Each[Tin any](inputs []Tin, concurrency int, f func(Tin) error) error {
	_, err := Map(inputs, concurrency, func(in Tin) (struct{}, error) {
		return struct{}{}, f(in)
	})
	return err
}
