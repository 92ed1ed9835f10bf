package auth

import (
	"fmt"
	"log/slog"
	"os"
)

// backupSuffix is the password-file backup sibling's suffix (spec.md §6:
// "same path with _BAK suffix").
const backupSuffix = "_BAK"

// AutoRecoverer runs the replace-then-rename persistence discipline
// spec.md §4.6 specifies, grounded on the teacher's transaction-wrapped
// DDL application (database/database.go's RunDDLs: begin, run, commit-or-
// rollback-on-defer) generalized from "one SQL transaction" to "one file
// replace". Commit marks the write successful; if the recoverer is
// discarded (process death, panic) without a Commit, RevertIfNeeded
// restores the pre-write snapshot on the next startup.
type AutoRecoverer struct {
	path       string
	backupPath string
	committed  bool
}

// NewAutoRecoverer prepares to overwrite path: it renames path to its
// backup sibling (saveOld) before the caller writes a fresh path.
func NewAutoRecoverer(path string) (*AutoRecoverer, error) {
	r := &AutoRecoverer{path: path, backupPath: path + backupSuffix}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, r.backupPath); err != nil {
			return nil, fmt.Errorf("auth: saveOld %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("auth: stat %s: %w", path, err)
	}

	return r, nil
}

// Commit finishes the sequence: it unlinks the backup (dropOld). Once
// Commit returns nil the new content at path is the durable snapshot.
func (r *AutoRecoverer) Commit() error {
	if err := os.Remove(r.backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("auth: dropOld %s: %w", r.backupPath, err)
	}
	r.committed = true
	return nil
}

// Abort restores path from the backup without waiting for process death,
// used when the write itself failed partway through.
func (r *AutoRecoverer) Abort() error {
	if r.committed {
		return nil
	}
	return RevertBackupFile(r.path)
}

// RevertBackupFile is the startup recovery routine spec.md §4.6
// describes: if path is missing but path+_BAK exists, a crash happened
// between saveOld and dropOld, and the backup is the last committed
// snapshot — rename it back into place. It is a no-op if no backup
// exists.
func RevertBackupFile(path string) error {
	backup := path + backupSuffix
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		// path already exists: the write that created backup must have
		// completed (dropOld just hadn't run yet, or a retry already
		// rewrote path); prefer the live file and drop the stale backup.
		slog.Warn("password file backup found alongside live file, dropping backup", "path", path)
		return os.Remove(backup)
	}
	slog.Warn("reverting password file to last committed snapshot", "path", path)
	return os.Rename(backup, path)
}
