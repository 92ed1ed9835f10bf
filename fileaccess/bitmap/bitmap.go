// Package bitmap backs the kernel's bitmap logical-file kind (the
// collection FileCheck's ByBitSet form reads) with PostgreSQL, using the
// same driver the teacher imports for its own Postgres backend.
package bitmap

import (
	_ "github.com/lib/pq"

	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/fileaccess/sqlbackend"
)

// FileAccess is the bitmap-file backend, grounded on the teacher's
// PostgresDatabase (database/postgres via lib/pq).
type FileAccess struct {
	*sqlbackend.Backend
}

var _ fileaccess.FileAccess = (*FileAccess)(nil)

func New(id int, cfg fileaccess.Config) *FileAccess {
	return &FileAccess{Backend: sqlbackend.New(id, fileaccess.KindBitmap, "postgres", cfg)}
}
