package auth

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// writeScratchSize is the write path's per-record scratch buffer (spec.md
// §4.6: "buffers one record into a 4 KiB scratch area").
const writeScratchSize = 4096

// PasswordFile is the on-disk, crash-safe sibling of a UserList (spec.md
// §4.6). It owns the path and the AutoRecoverer discipline; callers never
// write to path directly.
type PasswordFile struct {
	path string
}

// NewPasswordFile returns a PasswordFile bound to path; it does not touch
// the filesystem until Load or Save is called.
func NewPasswordFile(path string) *PasswordFile {
	return &PasswordFile{path: path}
}

// Load reads path (first reverting any interrupted write per spec.md
// §4.6) into a fresh UserList.
func (f *PasswordFile) Load() (*UserList, error) {
	if err := RevertBackupFile(f.path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return NewUserList(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPasswordFile, err)
	}

	records, err := parsePasswordFile(string(data))
	if err != nil {
		return nil, err
	}

	list := NewUserList()
	for _, rec := range records {
		entry := rec.toEntry()
		if entry == nil {
			slog.Warn("password file: dropping unparseable record with no recoverable id")
			continue
		}
		if err := list.Add(entry.Name, entry, true); err != nil {
			// Add with noCheck=true skips every validation and duplicate
			// check and currently always returns nil; surface any error
			// rather than silently dropping a user.
			return nil, fmt.Errorf("auth: loading %q: %w", entry.Name, err)
		}
	}
	slog.Info("password file loaded", "path", f.path, "users", len(records))
	return list, nil
}

// Save writes every entry in list to path using the replace-then-rename
// discipline (spec.md §4.6).
func (f *PasswordFile) Save(list *UserList) error {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return f.saveLocked(list)
}

// saveLocked assumes the caller already holds list's lock (read or
// write) for the duration of the persist, matching spec.md §4.7's
// "persist under auto-recoverer" note for changePassword, which must not
// let a concurrent reader observe a half-written file.
func (f *PasswordFile) saveLocked(list *UserList) error {
	recoverer, err := NewAutoRecoverer(f.path)
	if err != nil {
		return err
	}

	if err := f.writeAll(list.snapshot()); err != nil {
		if abortErr := recoverer.Abort(); abortErr != nil {
			slog.Error("password file write failed and revert also failed", "write_err", err, "revert_err", abortErr)
		}
		return err
	}

	if err := recoverer.Commit(); err != nil {
		return err
	}
	slog.Info("password file saved", "path", f.path, "users", len(list.byName))
	return nil
}

// writeAll writes every entry with write-through, exclusive create
// semantics (spec.md §4.6's "create file (write-through, exclusive)").
func (f *PasswordFile) writeAll(entries []*UserEntry) error {
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_SYNC, 0600)
	if err != nil {
		return fmt.Errorf("auth: create %s: %w", f.path, err)
	}
	defer file.Close()

	w := bufio.NewWriterSize(file, writeScratchSize)
	for _, e := range entries {
		if err := writeRecord(w, e); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("auth: flush %s: %w", f.path, err)
	}
	return file.Sync()
}

// writeRecord buffers one record into the scratch area and writes it:
// name ':' password ':' id ':' category ':' '\n' (spec.md §4.6). An
// invalid entry serializes with the literal password "NP" per spec.md §6.
func writeRecord(w *bufio.Writer, e *UserEntry) error {
	password := e.MD5Hex()
	if e.Category == CategoryInvalid {
		password = "NP"
	}
	var b strings.Builder
	b.Grow(writeScratchSize)
	b.WriteString(e.Name)
	b.WriteByte(':')
	b.WriteString(password)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(e.ID))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(e.Category)))
	b.WriteByte(':')
	b.WriteByte('\n')
	_, err := w.WriteString(b.String())
	if err != nil {
		return fmt.Errorf("auth: write record for %q: %w", e.Name, err)
	}
	return nil
}
