package auth

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// UserList is the dual-indexed, RW-locked in-memory identity store
// (spec.md §3/§4.7): name -> entry (case-insensitive) and id -> name.
type UserList struct {
	mu      sync.RWMutex
	byName  map[string]*UserEntry // keyed by lowercase name
	idToName map[int]string
}

// NewUserList returns an empty list.
func NewUserList() *UserList {
	return &UserList{
		byName:   map[string]*UserEntry{},
		idToName: map[int]string{},
	}
}

// Add validates and inserts entry under name (spec.md §4.7). noCheck
// skips the name/duplicate validation, used when loading a password file
// that already enforced these invariants at write time (e.g. an invalid
// record retained for its id).
func (l *UserList) Add(name string, entry *UserEntry, noCheck bool) error {
	if !noCheck {
		if err := ValidUserName(name); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToLower(name)
	if !noCheck {
		if _, exists := l.byName[key]; exists {
			return fmt.Errorf("auth: user %q already exists", name)
		}
		if _, exists := l.idToName[entry.ID]; exists {
			return fmt.Errorf("auth: user id %d already in use", entry.ID)
		}
	}

	l.byName[key] = entry
	l.idToName[entry.ID] = name
	slog.Debug("user added", "name", name, "id", entry.ID, "category", entry.Category)
	return nil
}

// Get looks a user up by name, case-insensitively (spec.md §4.7).
func (l *UserList) Get(name string) (*UserEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.byName[strings.ToLower(name)]
	return e, ok
}

// GetNext scans by id, returning the entry whose id is the smallest one
// strictly greater than id, for an administrative "list all users" walk
// (spec.md §4.7 "getNext(id) -> (name, entry)?").
func (l *UserList) GetNext(id int) (string, *UserEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	best := -1
	for candidate := range l.idToName {
		if candidate > id && (best == -1 || candidate < best) {
			best = candidate
		}
	}
	if best == -1 {
		return "", nil, false
	}
	name := l.idToName[best]
	return name, l.byName[strings.ToLower(name)], true
}

// DeleteUser removes name from the list and persists the change through
// file (spec.md §4.7). cascade additionally revokes every privilege the
// user's id holds across all databases; the schema catalog that owns
// privilege rows is out of scope here, so cascade is reported back to the
// caller, which is expected to run the catalog-side revoke.
func (l *UserList) DeleteUser(file *PasswordFile, name string, cascade bool) (revokeID int, err error) {
	l.mu.Lock()
	key := strings.ToLower(name)
	entry, ok := l.byName[key]
	if !ok {
		l.mu.Unlock()
		return 0, errUserNotFound
	}
	delete(l.byName, key)
	delete(l.idToName, entry.ID)
	l.mu.Unlock()

	if file != nil {
		if err := file.Save(l); err != nil {
			return 0, err
		}
	}
	slog.Info("user deleted", "name", name, "id", entry.ID, "cascade", cascade)
	if cascade {
		return entry.ID, nil
	}
	return 0, nil
}

// ChangePassword replaces name's MD5 digest and persists atomically: the
// list lock is held for the whole read-modify-persist sequence so a
// concurrent Save sees either the old or the new digest, never a
// half-updated entry (spec.md §4.7).
func (l *UserList) ChangePassword(file *PasswordFile, name, password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := strings.ToLower(name)
	entry, ok := l.byName[key]
	if !ok {
		return errUserNotFound
	}
	entry.Digest = NewUserEntry("", password, 0, 0).Digest

	if file != nil {
		return file.saveLocked(l)
	}
	return nil
}

// VerifyPassword resolves the session's effective identity (spec.md
// §4.7). managementEnabled mirrors "password management is disabled (no
// password-file configured)": when false, any non-empty name is accepted
// and logged for backward compatibility.
func (l *UserList) VerifyPassword(name, password string, managementEnabled bool) (*UserEntry, error) {
	if !managementEnabled {
		if name != "" {
			slog.Warn("password management disabled, accepting unchecked user", "name", name)
		}
		return &UserEntry{Name: name, Category: CategoryOSUser}, nil
	}

	if name == "" {
		return nil, errUserRequired
	}

	entry, ok := l.Get(name)
	if !ok {
		return nil, errUserNotFound
	}
	if entry.Category == CategoryInvalid {
		return nil, errAuthFailed
	}
	if !entry.CheckPassword(password) {
		return nil, errAuthFailed
	}
	return entry, nil
}

// snapshot returns every entry for PasswordFile.Save to serialize, in a
// stable order by id. The caller holds l.mu (read or write) already.
func (l *UserList) snapshot() []*UserEntry {
	out := make([]*UserEntry, 0, len(l.byName))
	for _, e := range l.byName {
		out = append(out, e)
	}
	sortEntriesByID(out)
	return out
}

func sortEntriesByID(entries []*UserEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j-1].ID > entries[j].ID; j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
