// Package fileaccess is the collaborator abstraction an action graph's
// FileScan/Fetch/FileFetch/FileCheck nodes use to reach storage, grounded
// on the teacher's database.Database abstraction layer (one interface,
// several driver-backed implementations keyed off a Config). Each of the
// five logical-file kinds the kernel names — inverted, bitmap, B-tree,
// KD-tree, record — gets its own concrete backend in a subpackage, each
// wired to a different driver from the example pack so the module
// exercises as much of that stack as a query-execution layer plausibly
// can.
package fileaccess

import (
	"context"

	"github.com/doquedb/qxkernel/locator"
	"github.com/doquedb/qxkernel/value"
)

// Config names one physical file's connection parameters: a ready-made
// DSN and driver name (not the teacher's split DbName/User/Password/Host/
// Port/Socket fields) plus the table/column mapping a FileAccess needs to
// turn a fetch key into a row.
type Config struct {
	DSN        string
	Driver     string
	Table      string
	KeyColumn  string
	ValColumns []string
}

// Cursor sequentially yields rows for FileScan, closing its underlying
// *sql.Rows (or flat-file handle) when exhausted or Close is called early.
type Cursor interface {
	Next(ctx context.Context) (*value.Value, bool, error)
	Close() error
}

// FileAccess is the abstraction layer every logical-file kind implements;
// spec.md names it as an external collaborator, so only a driver-backed
// reference implementation per kind lives here, not a storage engine.
type FileAccess interface {
	ID() int
	Kind() Kind
	Open(ctx context.Context) error
	Close() error
	Scan(ctx context.Context) (Cursor, error)
	Fetch(ctx context.Context, key *value.Value) (*value.Value, bool, error)
	GetLocator(ctx context.Context, key *value.Value) (locator.Locator, error)
}

// Kind is one of the five logical-file categories the kernel drives
// iterators and predicates against.
type Kind int

const (
	KindInverted Kind = iota
	KindBitmap
	KindBTree
	KindKDTree
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindInverted:
		return "inverted"
	case KindBitmap:
		return "bitmap"
	case KindBTree:
		return "b-tree"
	case KindKDTree:
		return "kd-tree"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}
