// Package session implements the per-connection execution context: the
// Session itself (user identity, the prepared-statement lock, privilege
// state), its Transaction, the Privilege set, a bitset-variable map for
// session-scoped predicates, an explain-option stack, and the server-wide
// Availability registry — grounded on Kernel/Server/Server/Session.h and
// UserList.h.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/doquedb/qxkernel/value"
)

// StatementType identifies the kind of SQL statement currently holding a
// session's PreparedStatementLock (Session.h's m_iStatementType).
type StatementType int

const (
	StatementNone StatementType = iota
	StatementSelect
	StatementInsert
	StatementUpdate
	StatementDelete
	StatementDDL
)

// Session is one client connection's execution context (Session.h).
type Session struct {
	mu sync.Mutex

	userID    int
	userName  string
	superUser bool

	databaseName string
	databaseID   int

	// IsSlave marks a session admitted on a replica, supplemented from the
	// original's replication-aware Session variant — it gates whether DML
	// is allowed at all (replicas are read-only) independent of privilege.
	IsSlave bool

	// locked / statementType are the PreparedStatementLock pair: a session
	// may hold at most one statement's execution lock at a time so a
	// cancel request can identify exactly what it's canceling.
	locked        bool
	statementType StatementType

	privilegeInitialized bool
	privilege            Privilege

	bitsetVariables map[string]*value.BitSet
	explainStack    []*ExplainOption

	preparedIDs  map[string]struct{}
	preparedPlan map[string]*PreparedPlan

	currentSQL    *string
	currentParams *string

	startTime time.Time

	tx *Transaction
}

// PreparedPlan is one entry of the session's prepared-plan table: the
// compiled plan handed in by the (out-of-scope) planner keyed by the
// statement id the client used to PREPARE it, plus the statement type it
// was compiled for so ChangeStatementType callers can validate reuse.
type PreparedPlan struct {
	ID            string
	StatementType StatementType
	Plan          interface{}
}

// New returns a Session for the given authenticated user, database, and
// super-user flag.
func New(userID int, userName string, databaseID int, databaseName string, superUser bool) *Session {
	return &Session{
		userID:          userID,
		userName:        userName,
		databaseID:      databaseID,
		databaseName:    databaseName,
		superUser:       superUser,
		bitsetVariables: map[string]*value.BitSet{},
		preparedIDs:     map[string]struct{}{},
		preparedPlan:    map[string]*PreparedPlan{},
		startTime:       time.Now(),
	}
}

func (s *Session) UserID() int           { return s.userID }
func (s *Session) UserName() string      { return s.userName }
func (s *Session) SuperUser() bool       { return s.superUser }
func (s *Session) DatabaseName() string  { return s.databaseName }
func (s *Session) DatabaseID() int       { return s.databaseID }
func (s *Session) StartTime() time.Time  { return s.startTime }

// SessionID returns the session's id, inherited from the currently open
// transaction (spec.md §3: "Session-id is inherited from the embedded
// transaction object"); it is 0 if no transaction has been started yet.
func (s *Session) SessionID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return 0
	}
	return s.tx.ID()
}

// Prepare registers a compiled plan under id, rejecting a duplicate id
// (a client must UNPREPARE/release before reusing one).
func (s *Session) Prepare(id string, statementType StatementType, plan interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.preparedPlan[id]; exists {
		return fmt.Errorf("session: prepared id %q already in use", id)
	}
	s.preparedIDs[id] = struct{}{}
	s.preparedPlan[id] = &PreparedPlan{ID: id, StatementType: statementType, Plan: plan}
	slog.Debug("session prepared plan registered", "session", s.userID, "id", id)
	return nil
}

// Prepared looks up a previously prepared plan by id.
func (s *Session) Prepared(id string) (*PreparedPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preparedPlan[id]
	return p, ok
}

// Unprepare releases a prepared plan's id so it may be reused.
func (s *Session) Unprepare(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.preparedIDs, id)
	delete(s.preparedPlan, id)
	slog.Debug("session prepared plan released", "session", s.userID, "id", id)
}

// SetCurrentSQL records the in-flight statement text so administrative
// tools can sample it (spec.md §4.9); the caller retains ownership of the
// string's lifetime and is responsible for calling ClearCurrentSQL.
func (s *Session) SetCurrentSQL(sql, params string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSQL = &sql
	s.currentParams = &params
}

// ClearCurrentSQL clears the in-flight statement pointer; owned by the
// caller that set it, per spec.md §4.9.
func (s *Session) ClearCurrentSQL() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSQL = nil
	s.currentParams = nil
}

// CurrentSQL returns the in-flight statement text, or "" if none is set.
func (s *Session) CurrentSQL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentSQL == nil {
		return ""
	}
	return *s.currentSQL
}

// TryLock acquires the prepared-statement lock for statementType,
// reporting false if the session is already locked by another statement
// (Session::tryLock).
func (s *Session) TryLock(statementType StatementType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return false
	}
	s.locked = true
	s.statementType = statementType
	return true
}

// Unlock releases the prepared-statement lock (Session::unlock).
func (s *Session) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
	s.statementType = StatementNone
}

func (s *Session) Locked() bool { s.mu.Lock(); defer s.mu.Unlock(); return s.locked }

func (s *Session) StatementType() StatementType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statementType
}

// ChangeStatementType updates the statement type in place while locked
// (Session::changeStatementType); it is a no-op if not locked.
func (s *Session) ChangeStatementType(t StatementType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		s.statementType = t
	}
}

func (s *Session) PrivilegeInitialized() bool { return s.privilegeInitialized }

func (s *Session) SetPrivilege(p Privilege) {
	s.privilege = p
	s.privilegeInitialized = true
}

func (s *Session) Privilege() Privilege { return s.privilege }

// BitsetVariable returns the named session-scoped bitset, allocating an
// empty one of size n on first use.
func (s *Session) BitsetVariable(name string, n int) *value.BitSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bitsetVariables[name]
	if !ok {
		nb := value.NewBitSet(n)
		b = &nb
		s.bitsetVariables[name] = b
	}
	return b
}

// PushExplain pushes a new explain option onto the session's stack (SQL's
// nested EXPLAIN blocks can appear inside a routine body).
func (s *Session) PushExplain(opt *ExplainOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.explainStack = append(s.explainStack, opt)
}

// PopExplain pops the most recently pushed explain option, or returns nil
// if the stack is empty.
func (s *Session) PopExplain() *ExplainOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.explainStack)
	if n == 0 {
		return nil
	}
	opt := s.explainStack[n-1]
	s.explainStack = s.explainStack[:n-1]
	return opt
}

func (s *Session) CurrentExplain() *ExplainOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.explainStack) == 0 {
		return nil
	}
	return s.explainStack[len(s.explainStack)-1]
}

func (s *Session) BeginTransaction(isolation IsolationLevel) *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tx = NewTransaction(isolation)
	slog.Info("transaction begin", "session", s.userID, "tx", s.tx.ID(), "isolation", isolation)
	return s.tx
}

func (s *Session) Transaction() *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx
}

// EndTransaction commits or rolls back the session's current transaction.
// commit selects which is logged; both clear the transaction the same
// way since recovery/commit-log semantics are out of scope here.
func (s *Session) EndTransaction(commit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction")
	}
	if commit {
		slog.Info("transaction commit", "session", s.userID, "tx", s.tx.ID())
	} else {
		slog.Info("transaction rollback", "session", s.userID, "tx", s.tx.ID())
	}
	s.tx = nil
	return nil
}
