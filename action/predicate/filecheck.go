package predicate

import (
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/action/collection"
	"github.com/doquedb/qxkernel/program"
	"github.com/doquedb/qxkernel/value"
)

// FileCheck asks whether a row-id variable is a member of a file's
// result set, either as a value.BitSet (ByBitSet — fast for inverted/
// bitmap files) or a collection.HashSet of ids (ByCollection — for
// backends that never materialize a bitmap). If the set is known empty
// up front, Evaluate short-circuits to FALSE without looking anything
// up — the NeverTrue optimization inverted-file predicates rely on when
// a term has no postings at all.
type FileCheck struct {
	action.Base
	rowID  action.DataID
	bitset *value.BitSet
	set    *collection.HashSet
	byBitSet bool
}

var _ action.Predicate = (*FileCheck)(nil)
var _ program.Describable = (*FileCheck)(nil)

func classIDForFileCheck(byBitSet bool) action.ClassID {
	if byBitSet {
		return action.ClassFileCheckByBitSet
	}
	return action.ClassFileCheckByCollection
}

func NewFileCheckByBitSet(id int, clock *action.Clock, rowID action.DataID, bits *value.BitSet) *FileCheck {
	return &FileCheck{Base: action.NewBase(id, action.ClassFileCheckByBitSet, clock), rowID: rowID, bitset: bits, byBitSet: true}
}

func NewFileCheckByCollection(id int, clock *action.Clock, rowID action.DataID, set *collection.HashSet) *FileCheck {
	return &FileCheck{Base: action.NewBase(id, action.ClassFileCheckByCollection, clock), rowID: rowID, set: set}
}

// NeverTrue reports whether this node's set is known to contain nothing,
// letting the driver prune it without ever calling Evaluate.
func (f *FileCheck) NeverTrue() bool {
	if f.byBitSet {
		return f.bitset == nil || f.bitset.IsEmpty()
	}
	return f.set == nil || f.set.Len() == 0
}

func (f *FileCheck) Evaluate(vt action.VariableTable) (value.Tri, error) {
	if f.NeverTrue() {
		return value.TriFalse, nil
	}
	row := vt.Get(f.rowID)
	if row == nil {
		return value.TriUnknown, fmt.Errorf("predicate.FileCheck: row-id %d not allocated", f.rowID)
	}
	if f.byBitSet {
		idx := int(row.Long())
		return value.FromBool(f.bitset.Test(idx)), nil
	}
	return value.FromBool(f.set.Contains(row)), nil
}

func (f *FileCheck) CheckByData(v *value.Value) (value.Tri, error) {
	if f.NeverTrue() {
		return value.TriFalse, nil
	}
	if f.byBitSet {
		return value.FromBool(f.bitset.Test(int(v.Long()))), nil
	}
	return value.FromBool(f.set.Contains(v)), nil
}

// Describe records only the row-id and which form this node is; the
// bitset/collection contents are a runtime query result, not serializable
// plan data, and must be rebound (via SetBitSet/SetCollection) after
// Deserialize, the same way fileaccess handles are rebound.
func (f *FileCheck) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: classIDForFileCheck(f.byBitSet),
		ID:      f.ID(),
		Fields:  map[string]interface{}{"row": int(f.rowID), "byBitSet": f.byBitSet},
	}
}

func (f *FileCheck) SetBitSet(bits *value.BitSet)         { f.bitset = bits }
func (f *FileCheck) SetCollection(set *collection.HashSet) { f.set = set }

func init() {
	program.RegisterFactory(action.ClassFileCheckByBitSet, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		row, _ := d.Fields["row"].(int)
		return &FileCheck{Base: action.NewBase(d.ID, action.ClassFileCheckByBitSet, clock), rowID: action.DataID(row), byBitSet: true, bitset: &value.BitSet{}}, nil
	})
	program.RegisterFactory(action.ClassFileCheckByCollection, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		row, _ := d.Fields["row"].(int)
		return &FileCheck{Base: action.NewBase(d.ID, action.ClassFileCheckByCollection, clock), rowID: action.DataID(row), set: collection.NewHashSet(-1, clock)}, nil
	})
}
