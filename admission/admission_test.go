package admission

import (
	"testing"

	"github.com/doquedb/qxkernel/auth"
	"github.com/doquedb/qxkernel/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsers(t *testing.T) *auth.UserList {
	t.Helper()
	list := auth.NewUserList()
	require.NoError(t, list.Add("alice", auth.NewUserEntry("alice", "pw", 1, auth.CategoryDBUser), false))
	return list
}

func TestAdmitSucceedsFirstTry(t *testing.T) {
	gate := NewGate(newTestUsers(t), true)
	sess, err := gate.Admit(InteractiveAttempts, func(attempt int) (Credentials, error) {
		return Credentials{UserName: "alice", Password: "pw", DatabaseName: "db1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sess.UserID())
}

func TestAdmitRetriesThenSucceeds(t *testing.T) {
	gate := NewGate(newTestUsers(t), true)
	tries := 0
	sess, err := gate.Admit(InteractiveAttempts, func(attempt int) (Credentials, error) {
		tries++
		if attempt < 3 {
			return Credentials{UserName: "alice", Password: "wrong"}, nil
		}
		return Credentials{UserName: "alice", Password: "pw"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, tries)
	assert.Equal(t, 1, sess.UserID())
}

func TestAdmitExhaustsAttempts(t *testing.T) {
	gate := NewGate(newTestUsers(t), true)
	_, err := gate.Admit(ScriptedAttempts, func(attempt int) (Credentials, error) {
		return Credentials{UserName: "alice", Password: "wrong"}, nil
	})
	assert.Equal(t, errs.AuthorizationFailed, errs.KindOf(err))
}

