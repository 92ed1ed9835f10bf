package operator

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// GeneratorMode selects among Generator.cpp's five implementation
// classes: RowID and Identity both hand out a fresh sequential value per
// call; IdentityByInput folds a caller-supplied value into the sequence
// (see the isGetMax resolution below); RecoveryRowID/RecoveryIdentity
// reset the counter during log recovery without producing output.
type GeneratorMode int

const (
	RowID GeneratorMode = iota
	Identity
	IdentityByInput
	RecoveryRowID
	RecoveryIdentity
)

// Generator writes the next value in a monotonic sequence (row-id or
// identity-column) to an out-data-id.
type Generator struct {
	action.Base
	mode    GeneratorMode
	outID   action.DataID
	inID    action.DataID // IdentityByInput only
	isGetMax bool          // IdentityByInput only

	current int64
}

var _ action.Operator = (*Generator)(nil)
var _ program.Describable = (*Generator)(nil)

func classIDFor(mode GeneratorMode) action.ClassID {
	switch mode {
	case RowID:
		return action.ClassGeneratorRowID
	case Identity:
		return action.ClassGeneratorIdentity
	case IdentityByInput:
		return action.ClassGeneratorIdentityByInput
	case RecoveryRowID:
		return action.ClassGeneratorRecoveryRowID
	default:
		return action.ClassGeneratorRecoveryIdentity
	}
}

// NewGenerator builds a plain RowID/Identity/RecoveryRowID/RecoveryIdentity
// generator starting at start.
func NewGenerator(id int, clock *action.Clock, mode GeneratorMode, outID action.DataID, start int64) *Generator {
	return &Generator{Base: action.NewBase(id, classIDFor(mode), clock), mode: mode, outID: outID, current: start}
}

// NewIdentityByInput builds the IdentityByInput form. isGetMax resolves
// the original's ambiguous "input vs generated" choice: when false, the
// caller-supplied value at inID is used as-is (it becomes the new
// current); when true, current is raised to max(current, input) and the
// (possibly unchanged) current is what gets used — so a caller can freely
// interleave explicit values with auto-generated ones without ever going
// backwards.
func NewIdentityByInput(id int, clock *action.Clock, inID, outID action.DataID, start int64, isGetMax bool) *Generator {
	return &Generator{
		Base:     action.NewBase(id, action.ClassGeneratorIdentityByInput, clock),
		mode:     IdentityByInput,
		outID:    outID,
		inID:     inID,
		isGetMax: isGetMax,
		current:  start,
	}
}

func (g *Generator) Execute(vt action.VariableTable) (action.Result, error) {
	if g.Done() {
		return action.Success, nil
	}
	out := vt.Get(g.outID)
	if out == nil {
		return action.Success, fmt.Errorf("operator.Generator: out-data %d not allocated", g.outID)
	}

	switch g.mode {
	case RowID, Identity:
		g.current++
		out.Assign(value.NewLong(g.current))

	case IdentityByInput:
		in := vt.Get(g.inID)
		if in == nil {
			return action.Success, fmt.Errorf("operator.Generator: in-data %d not allocated", g.inID)
		}
		if in.IsNull() {
			g.current++
			out.Assign(value.NewLong(g.current))
		} else if g.isGetMax {
			if in.Long() > g.current {
				g.current = in.Long()
			}
			out.Assign(value.NewLong(g.current))
		} else {
			g.current = in.Long()
			out.Assign(in)
		}

	case RecoveryRowID, RecoveryIdentity:
		in := vt.Get(g.inID)
		if in != nil && !in.IsNull() && in.Long() > g.current {
			g.current = in.Long()
		}
		// Recovery forms reset the counter only; they produce no output.
	}

	g.MarkDone()
	return action.Success, nil
}

func (g *Generator) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: classIDFor(g.mode),
		ID:      g.ID(),
		Fields: map[string]interface{}{
			"mode":    int(g.mode),
			"out":     int(g.outID),
			"in":      int(g.inID),
			"getmax":  g.isGetMax,
			"current": g.current,
		},
	}
}

func init() {
	register := func(classID action.ClassID, mode GeneratorMode) {
		program.RegisterFactory(classID, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
			out, _ := d.Fields["out"].(int)
			in, _ := d.Fields["in"].(int)
			getmax, _ := d.Fields["getmax"].(bool)
			current, _ := d.Fields["current"].(int64)
			g := &Generator{
				Base:     action.NewBase(d.ID, classID, clock),
				mode:     mode,
				outID:    action.DataID(out),
				inID:     action.DataID(in),
				isGetMax: getmax,
				current:  current,
			}
			return g, nil
		})
	}
	register(action.ClassGeneratorRowID, RowID)
	register(action.ClassGeneratorIdentity, Identity)
	register(action.ClassGeneratorIdentityByInput, IdentityByInput)
	register(action.ClassGeneratorRecoveryRowID, RecoveryRowID)
	register(action.ClassGeneratorRecoveryIdentity, RecoveryIdentity)
}
