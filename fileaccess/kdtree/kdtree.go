// Package kdtree backs the kernel's KD-tree logical-file kind (the
// multi-dimensional index behind spatial/nearest-neighbour predicates)
// with SQL Server, using the same driver the teacher imports for its own
// MSSQL backend.
package kdtree

import (
	_ "github.com/denisenkom/go-mssqldb"

	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/fileaccess/sqlbackend"
)

// FileAccess is the KD-tree backend, grounded on the teacher's
// MssqlDatabase (database/mssql via denisenkom/go-mssqldb).
type FileAccess struct {
	*sqlbackend.Backend
}

var _ fileaccess.FileAccess = (*FileAccess)(nil)

func New(id int, cfg fileaccess.Config) *FileAccess {
	return &FileAccess{Backend: sqlbackend.New(id, fileaccess.KindKDTree, "sqlserver", cfg)}
}
