package iterator

import (
	"context"
	"fmt"

	"github.com/doquedb/qxkernel/action"
	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/locator"
	"github.com/doquedb/qxkernel/program"
)

// Fetch looks a single row up by key, the iterator counterpart of
// Operator.FileFetch's "Normal" and "GetLocator" forms (FileFetch.cpp):
// it runs exactly once per key value (HasNext flips false after the first
// Next, whether or not a row was found), yielding at most one tuple rather
// than a whole scan.
type Fetch struct {
	action.Base
	fileID   int
	keyID    action.DataID
	outID    action.DataID
	locators bool // true => GetLocator form; out-data receives nothing, locator is stashed
	ctx      context.Context

	fa       fileaccess.FileAccess
	lastLoc  locator.Locator
	startUps []action.Action
	perTuples []action.Action
	done     bool
	found    bool
}

var _ action.Iterator = (*Fetch)(nil)
var _ program.Describable = (*Fetch)(nil)

func NewFetch(id int, clock *action.Clock, fileID int, keyID, outID action.DataID, asLocator bool) *Fetch {
	classID := action.ClassFetch
	if asLocator {
		classID = action.ClassGetLocator
	}
	return &Fetch{
		Base:     action.NewBase(id, classID, clock),
		fileID:   fileID,
		keyID:    keyID,
		outID:    outID,
		locators: asLocator,
		ctx:      context.Background(),
	}
}

func (f *Fetch) Bind(fa fileaccess.FileAccess, ctx context.Context) {
	f.fa = fa
	if ctx != nil {
		f.ctx = ctx
	}
}

// Locator returns the locator obtained by the most recent Next call, only
// meaningful when this node was built with asLocator=true.
func (f *Fetch) Locator() locator.Locator { return f.lastLoc }

func (f *Fetch) OutDataID() action.DataID { return f.outID }

func (f *Fetch) AddStartUp(ac action.Action)  { f.startUps = append(f.startUps, ac) }
func (f *Fetch) StartUps() []action.Action    { return f.startUps }
func (f *Fetch) AddPerTuple(ac action.Action) { f.perTuples = append(f.perTuples, ac) }
func (f *Fetch) PerTuples() []action.Action   { return f.perTuples }

func (f *Fetch) HasNext() bool { return !f.done }
func (f *Fetch) HasData() bool { return f.found }
func (f *Fetch) WasLast() bool { return true }
func (f *Fetch) SetWasLast()   {}

func (f *Fetch) Reset() {
	f.done = false
	f.found = false
	f.lastLoc = nil
}

func (f *Fetch) Finish() error { f.done = true; return nil }

func (f *Fetch) Next(vt action.VariableTable) (bool, error) {
	if f.done {
		return false, nil
	}
	f.done = true
	if f.fa == nil {
		return false, fmt.Errorf("iterator.Fetch: file access %d not bound", f.fileID)
	}
	key := vt.Get(f.keyID)
	if key == nil {
		return false, fmt.Errorf("iterator.Fetch: key data %d not allocated", f.keyID)
	}

	if f.locators {
		loc, err := f.fa.GetLocator(f.ctx, key)
		if err != nil {
			return false, err
		}
		f.lastLoc = loc
		f.found = true
		return true, nil
	}

	row, ok, err := f.fa.Fetch(f.ctx, key)
	if err != nil {
		return false, err
	}
	f.found = ok
	if !ok {
		return false, nil
	}
	out := vt.Get(f.outID)
	if out == nil {
		return false, fmt.Errorf("iterator.Fetch: out-data %d not allocated", f.outID)
	}
	out.Assign(row)
	return true, nil
}

func (f *Fetch) Describe() program.Descriptor {
	classID := action.ClassFetch
	if f.locators {
		classID = action.ClassGetLocator
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
			return NewFetch(d.ID, clock, file, action.DataID(key), action.DataID(out), asLocator), nil
		}
	}
	program.RegisterFactory(action.ClassFetch, build(false))
	program.RegisterFactory(action.ClassGetLocator, build(true))
}
