package function

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
	"github.com/doquedb/qxkernel/worker"
)

// itemsPerWorker is the per-worker adaptive threshold spec.md §4.8 names
// ("100,000 items per thread") bounding CalcVariance's fan-out.
const itemsPerWorker = 100000

// CalcVariance is the parallel-fan-out aggregate function spec.md §4.8/§5
// names alongside DoSearch: it reads an array-of-numeric input variable,
// partitions it into chunks of at most itemsPerWorker elements, computes
// each chunk's sum and sum-of-squares concurrently via the worker
// package's bounded fan-out, and combines the partials into the
// population variance written to outID.
type CalcVariance struct {
	action.Base
	inID  action.DataID
	outID action.DataID
}

var _ action.Function = (*CalcVariance)(nil)
var _ program.Describable = (*CalcVariance)(nil)

func NewCalcVariance(id int, clock *action.Clock, inID, outID action.DataID) *CalcVariance {
	return &CalcVariance{Base: action.NewBase(id, action.ClassCalcVariance, clock), inID: inID, outID: outID}
}

type chunkStat struct {
	sum   float64
	sumSq float64
	n     int
}

func numeric(v *value.Value) (float64, bool) {
	switch v.Kind() {
	case value.KindInteger:
		return float64(v.Integer()), true
	case value.KindUnsigned:
		return float64(v.Unsigned()), true
	case value.KindLong:
		return float64(v.Long()), true
	case value.KindDouble:
		return v.Double(), true
	default:
		return 0, false
	}
}

func (c *CalcVariance) Apply(vt action.VariableTable) error {
	in := vt.Get(c.inID)
	out := vt.Get(c.outID)
	if out == nil {
		return nil
	}
	if in == nil || in.IsNull() {
		out.SetNull()
		return nil
	}
	if in.Kind() != value.KindArray {
		return fmt.Errorf("function(CalcVariance): %w", errNotCompatible)
	}

	elems := in.Array()
	if len(elems) == 0 {
		out.SetNull()
		return nil
	}

	chunks := chunk(elems, itemsPerWorker)
	concurrency := len(chunks)
	stats, err := worker.Map(chunks, concurrency, func(part []*value.Value) (chunkStat, error) {
		var st chunkStat
		for _, e := range part {
			f, ok := numeric(e)
			if !ok {
				return chunkStat{}, fmt.Errorf("function(CalcVariance): %w", errNotCompatible)
			}
			st.sum += f
			st.sumSq += f * f
			st.n++
		}
		return st, nil
	})
	if err != nil {
		return err
	}

	var total chunkStat
	for _, s := range stats {
		total.sum += s.sum
		total.sumSq += s.sumSq
		total.n += s.n
	}
	if total.n == 0 {
		out.SetNull()
		return nil
	}
	mean := total.sum / float64(total.n)
	variance := total.sumSq/float64(total.n) - mean*mean
	out.Assign(value.NewDouble(variance))
	return nil
}

func chunk(elems []*value.Value, size int) [][]*value.Value {
	if size <= 0 {
		size = len(elems)
	}
	var out [][]*value.Value
	for i := 0; i < len(elems); i += size {
		end := i + size
		if end > len(elems) {
			end = len(elems)
		}
		out = append(out, elems[i:end])
	}
	return out
}

func (c *CalcVariance) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassCalcVariance,
		ID:      c.ID(),
		Fields: map[string]interface{}{
			"in":  int(c.inID),
			"out": int(c.outID),
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassCalcVariance, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		in, _ := d.Fields["in"].(int)
		out, _ := d.Fields["out"].(int)
		return NewCalcVariance(d.ID, clock, action.DataID(in), action.DataID(out)), nil
	})
}
