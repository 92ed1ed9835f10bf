package operator

import (
	"context"
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/locator"
	"github.com/doquedb/qxkernel/program"
)

// FileFetch looks a row (or a locator onto one) up by key and writes it
// to out-data, the Operator counterpart of iterator.Fetch — used when the
// lookup is a side-effecting step within a larger per-tuple action list
// rather than a tuple source of its own (FileFetch.cpp's Normal/GetLocator
// subclasses).
type FileFetch struct {
	action.Base
	fileID   int
	keyID    action.DataID
	outID    action.DataID
	locators bool
	ctx      context.Context

	fa      fileaccess.FileAccess
	lastLoc locator.Locator
}

var _ action.Operator = (*FileFetch)(nil)
var _ program.Describable = (*FileFetch)(nil)

func NewFileFetch(id int, clock *action.Clock, fileID int, keyID, outID action.DataID, asLocator bool) *FileFetch {
	classID := action.ClassFileFetchNormal
	if asLocator {
		classID = action.ClassFileFetchGetLocator
	}
	return &FileFetch{
		Base:     action.NewBase(id, classID, clock),
		fileID:   fileID,
		keyID:    keyID,
		outID:    outID,
		locators: asLocator,
		ctx:      context.Background(),
	}
}

func (f *FileFetch) Bind(fa fileaccess.FileAccess, ctx context.Context) {
	f.fa = fa
	if ctx != nil {
		f.ctx = ctx
	}
}

func (f *FileFetch) Locator() locator.Locator { return f.lastLoc }

func (f *FileFetch) Execute(vt action.VariableTable) (action.Result, error) {
	if f.Done() {
		return action.Success, nil
	}
	if f.fa == nil {
		return action.Success, fmt.Errorf("operator.FileFetch: file access %d not bound", f.fileID)
	}
	key := vt.Get(f.keyID)
	if key == nil {
		return action.Success, fmt.Errorf("operator.FileFetch: key data %d not allocated", f.keyID)
	}

	if f.locators {
		loc, err := f.fa.GetLocator(f.ctx, key)
		if err != nil {
			return action.Success, err
		}
		f.lastLoc = loc
		f.MarkDone()
		return action.Success, nil
	}

	row, ok, err := f.fa.Fetch(f.ctx, key)
	if err != nil {
		return action.Success, err
	}
	if !ok {
		f.MarkDone()
		return action.Break, nil
	}
	out := vt.Get(f.outID)
	if out == nil {
		return action.Success, fmt.Errorf("operator.FileFetch: out-data %d not allocated", f.outID)
	}
	out.Assign(row)
	f.MarkDone()
	return action.Success, nil
}

func (f *FileFetch) Describe() program.Descriptor {
	classID := action.ClassFileFetchNormal
	if f.locators {
		classID = action.ClassFileFetchGetLocator
	}
	return program.Descriptor{
		ClassID: classID,
		ID:      f.ID(),
		Fields: map[string]interface{}{
			"file": f.fileID,
			"key":  int(f.keyID),
			"out":  int(f.outID),
		},
	}
}

func init() {
	build := func(asLocator bool) program.Factory {
		return func(d program.Descriptor, clock *action.Clock) (action.Action, error) {
			file, _ := d.Fields["file"].(int)
			key, _ := d.Fields["key"].(int)
			out, _ := d.Fields["out"].(int)
			return NewFileFetch(d.ID, clock, file, action.DataID(key), action.DataID(out), asLocator), nil
		}
	}
	program.RegisterFactory(action.ClassFileFetchNormal, build(false))
	program.RegisterFactory(action.ClassFileFetchGetLocator, build(true))
}
