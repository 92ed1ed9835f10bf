// Package admission is the password-authenticated session-admission gate
// (spec.md §4.7/§6): it resolves (user-name, password) through an
// auth.UserList, applies the spec's retry policy, and on success creates
// a session.Session bound to the requested database. Retry logic lives
// here, not in auth.UserList.VerifyPassword, per spec.md §9 DESIGN NOTES
// ("Authentication. Stateless; retry logic belongs to the admission
// loop, not the verifier.").
package admission

import (
	"log/slog"

	"github.com/doquedb/qxkernel/auth"
	"github.com/doquedb/qxkernel/errs"
	"github.com/doquedb/qxkernel/session"
)

// InteractiveAttempts / ScriptedAttempts are spec.md §4.7/§6's retry
// bounds: "up to three attempts over interactive session-admission;
// non-interactive callers get one attempt."
const (
	InteractiveAttempts = 3
	ScriptedAttempts    = 1
)

// Credentials is one (user-name, password) pair offered by a transport
// round, plus the database the client asked to bind to.
type Credentials struct {
	UserName     string
	Password     string
	DatabaseName string
	DatabaseID   int
}

// PasswordPrompt asks the caller for one more (user-name, password) pair,
// used to retry interactively; a scripted caller passes a PasswordPrompt
// that returns the same Credentials every time so its single attempt is
// just that one try.
type PasswordPrompt func(attempt int) (Credentials, error)

// Gate is the session admission point. ManagementEnabled mirrors
// auth.UserList.VerifyPassword's "no password-file configured" case.
type Gate struct {
	Users             *auth.UserList
	ManagementEnabled bool
}

// NewGate returns a Gate backed by users.
func NewGate(users *auth.UserList, managementEnabled bool) *Gate {
	return &Gate{Users: users, ManagementEnabled: managementEnabled}
}

// Admit runs the admission loop: it calls prompt up to maxAttempts times,
// verifying each offered credential, and on the first success creates and
// returns a Session bound to that credential's database. Every attempt
// failing with an authentication-class error (spec.md: "The session
// admission loop catches only authentication-class errors for retry")
// consumes one of maxAttempts; any other error (e.g. server shutting
// down) aborts immediately without retrying.
func (g *Gate) Admit(maxAttempts int, prompt PasswordPrompt) (*session.Session, error) {
	if session.Availability.IsShutdown() {
		return nil, errs.New(errs.ServerNotAvailable, nil)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		creds, err := prompt(attempt)
		if err != nil {
			return nil, err
		}

		entry, err := g.Users.VerifyPassword(creds.UserName, creds.Password, g.ManagementEnabled)
		if err == nil {
			sess := session.New(entry.ID, entry.Name, creds.DatabaseID, creds.DatabaseName, entry.IsSuperUser())
			slog.Info("session admitted", "user", entry.Name, "database", creds.DatabaseName, "attempt", attempt)
			return sess, nil
		}

		lastErr = err
		if !isAuthenticationClass(err) {
			return nil, err
		}
		slog.Warn("session admission attempt failed", "user", creds.UserName, "attempt", attempt, "err", err)
	}
	return nil, lastErr
}

// isAuthenticationClass reports whether err is one of the retry-eligible
// kinds spec.md §4.7 names: authorization-failed, user-not-found,
// user-required.
func isAuthenticationClass(err error) bool {
	switch errs.KindOf(err) {
	case errs.AuthorizationFailed, errs.UserNotFound, errs.UserRequired:
		return true
	default:
		return false
	}
}

// Shutdown is the privileged admission variant spec.md §6 names: it
// requires the already-admitted session to be super-user, and on success
// flips the process-wide availability flag so every subsequent Admit call
// fails fast with server-not-available.
func Shutdown(sess *session.Session) error {
	if !sess.SuperUser() {
		return errs.New(errs.PermissionDenied, nil)
	}
	session.Availability.Shutdown()
	slog.Warn("server shutdown requested", "user", sess.UserName())
	return nil
}
