// Package btree backs the kernel's B-tree logical-file kind (the ordered
// index FileScan/Fetch walk for range and equality lookups) with SQLite,
// using the same driver the teacher imports for its own Sqlite3 backend.
package btree

import (
	_ "modernc.org/sqlite"

	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/fileaccess/sqlbackend"
)

// FileAccess is the B-tree backend, grounded on the teacher's
// Sqlite3Database (database/sqlite3 via modernc.org/sqlite).
type FileAccess struct {
	*sqlbackend.Backend
}

var _ fileaccess.FileAccess = (*FileAccess)(nil)

func New(id int, cfg fileaccess.Config) *FileAccess {
	return &FileAccess{Backend: sqlbackend.New(id, fileaccess.KindBTree, "sqlite", cfg)}
}
