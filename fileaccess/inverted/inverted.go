// Package inverted backs the kernel's inverted-file logical-file kind
// (the collection behind FileCheck's text-search predicates) with MySQL,
// using the same driver the teacher imports for its own MySQL backend.
package inverted

import (
	_ "github.com/go-sql-driver/mysql"

	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/fileaccess/sqlbackend"
)

// FileAccess is the inverted-file backend, grounded on the teacher's
// MysqlDatabase (database/mysql via go-sql-driver/mysql).
type FileAccess struct {
	*sqlbackend.Backend
}

var _ fileaccess.FileAccess = (*FileAccess)(nil)

func New(id int, cfg fileaccess.Config) *FileAccess {
	return &FileAccess{Backend: sqlbackend.New(id, fileaccess.KindInverted, "mysql", cfg)}
}
