package iterator

import (
	"context"
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/program"
)

// FileScan walks a fileaccess.FileAccess sequentially, copying each row
// into its out-data-id, the record-oriented counterpart to Array for data
// that lives outside the variable table (spec.md §4.3, grounded on
// Kernel/Execution/Iterator alongside FileFetch.cpp's file-access-by-id
// pattern). The concrete FileAccess is bound after construction (by the
// session/kernel layer, once the real backend is open) since it is a
// runtime resource, not serializable plan data — the descriptor only
// records which file-access id this node targets.
type FileScan struct {
	action.Base
	fileID int
	outID  action.DataID
	ctx    context.Context

	fa fileaccess.FileAccess
	cu fileaccess.Cursor

	startUps  []action.Action
	perTuples []action.Action
	wasLast   bool
	finished  bool
}

var _ action.Iterator = (*FileScan)(nil)
var _ program.Describable = (*FileScan)(nil)

func NewFileScan(id int, clock *action.Clock, fileID int, outID action.DataID) *FileScan {
	return &FileScan{
		Base:   action.NewBase(id, action.ClassFileScan, clock),
		fileID: fileID,
		outID:  outID,
		ctx:    context.Background(),
	}
}

// Bind attaches the live FileAccess this node scans and the context its
// calls run under. It must be called once before the first Next.
func (f *FileScan) Bind(fa fileaccess.FileAccess, ctx context.Context) {
	f.fa = fa
	if ctx != nil {
		f.ctx = ctx
	}
}

func (f *FileScan) OutDataID() action.DataID { return f.outID }

func (f *FileScan) AddStartUp(ac action.Action)  { f.startUps = append(f.startUps, ac) }
func (f *FileScan) StartUps() []action.Action    { return f.startUps }
func (f *FileScan) AddPerTuple(ac action.Action) { f.perTuples = append(f.perTuples, ac) }
func (f *FileScan) PerTuples() []action.Action   { return f.perTuples }

func (f *FileScan) HasNext() bool { return !f.finished }
func (f *FileScan) HasData() bool { return f.cu != nil && !f.finished }
func (f *FileScan) WasLast() bool { return f.wasLast }
func (f *FileScan) SetWasLast()   { f.wasLast = true }

func (f *FileScan) Reset() {
	if f.cu != nil {
		f.cu.Close()
		f.cu = nil
	}
	f.wasLast = false
	f.finished = false
}

func (f *FileScan) Finish() error {
	f.finished = true
	if f.cu != nil {
		return f.cu.Close()
	}
	return nil
}

func (f *FileScan) Next(vt action.VariableTable) (bool, error) {
	if f.fa == nil {
		return false, fmt.Errorf("iterator.FileScan: file access %d not bound", f.fileID)
	}
	if f.cu == nil {
		cu, err := f.fa.Scan(f.ctx)
		if err != nil {
			return false, err
		}
		f.cu = cu
	}
	row, ok, err := f.cu.Next(f.ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		f.finished = true
		return false, nil
	}
	out := vt.Get(f.outID)
	if out == nil {
		return false, fmt.Errorf("iterator.FileScan: out-data %d not allocated", f.outID)
	}
	out.Assign(row)
	return true, nil
}

func (f *FileScan) Describe() program.Descriptor {
	return program.Descriptor{
		ClassID: action.ClassFileScan,
		ID:      f.ID(),
		Fields: map[string]interface{}{
			"file": f.fileID,
			"out":  int(f.outID),
		},
	}
}

func init() {
	program.RegisterFactory(action.ClassFileScan, func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
		file, _ := d.Fields["file"].(int)
		out, _ := d.Fields["out"].(int)
		return NewFileScan(d.ID, clock, file, action.DataID(out)), nil
	})
}
