// Package record backs the kernel's record logical-file kind — the flat
// heap file FileScan walks sequentially and FileFetch looks rows up in by
// key — grounded on the teacher's database/file.FileDatabase, which
// reads a single named file directly rather than through a database/sql
// driver. This backend does the same: one file on disk holding
// newline-separated, comma-joined rows, with an in-memory index from key
// (column 0) to row index built once at Open.
package record

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/doquedb/qxkernel/fileaccess"
	"github.com/doquedb/qxkernel/locator"
	"github.com/doquedb/qxkernel/value"
)

// FileAccess is the record-file backend.
type FileAccess struct {
	id   int
	path string

	mu      sync.RWMutex
	rows    []string
	index   map[string]int // key -> row index
	keyCol  int
	isOpen  bool
}

var _ fileaccess.FileAccess = (*FileAccess)(nil)

// New returns a record FileAccess reading path, using column 0 of
// each comma-joined row as the fetch key.
func New(id int, path string) *FileAccess {
	return &FileAccess{id: id, path: path, index: map[string]int{}}
}

func (f *FileAccess) ID() int               { return f.id }
func (f *FileAccess) Kind() fileaccess.Kind { return fileaccess.KindRecord }

func (f *FileAccess) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		f.isOpen = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("fileaccess(record): open %s: %w", f.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		cols := strings.Split(line, ",")
		f.index[cols[f.keyCol]] = len(f.rows)
		f.rows = append(f.rows, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("fileaccess(record): scan %s: %w", f.path, err)
	}
	f.isOpen = true
	return nil
}

func (f *FileAccess) Close() error { return nil }

type cursor struct {
	rows []string
	pos  int
}

func (f *FileAccess) Scan(ctx context.Context) (fileaccess.Cursor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rows := make([]string, len(f.rows))
	copy(rows, f.rows)
	return &cursor{rows: rows}, nil
}

func (c *cursor) Next(ctx context.Context) (*value.Value, bool, error) {
	if c.pos >= len(c.rows) {
		return nil, false, nil
	}
	v := rowValue(c.rows[c.pos])
	c.pos++
	return v, true, nil
}

func (c *cursor) Close() error { return nil }

func rowValue(line string) *value.Value {
	arr := value.NewArray(value.KindString)
	for _, col := range strings.Split(line, ",") {
		arr.AppendElement(value.NewString(col))
	}
	return arr
}

func (f *FileAccess) Fetch(ctx context.Context, key *value.Value) (*value.Value, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	idx, ok := f.index[key.String()]
	if !ok {
		return nil, false, nil
	}
	return rowValue(f.rows[idx]), true, nil
}

func (f *FileAccess) GetLocator(ctx context.Context, key *value.Value) (locator.Locator, error) {
	f.mu.RLock()
	idx, ok := f.index[key.String()]
	var line string
	if ok {
		line = f.rows[idx]
	}
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("fileaccess(record): getlocator: key %q not found", key.String())
	}
	return locator.New(f.id, []byte(line), nil), nil
}
