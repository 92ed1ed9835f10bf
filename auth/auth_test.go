package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserListAddAndVerify(t *testing.T) {
	list := NewUserList()
	entry := NewUserEntry("alice", "pw", 1, CategoryDBUser)
	require.NoError(t, list.Add("alice", entry, false))

	got, err := list.VerifyPassword("Alice", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
}

func TestUserListVerifyWrongPassword(t *testing.T) {
	list := NewUserList()
	require.NoError(t, list.Add("alice", NewUserEntry("alice", "pw", 1, CategoryDBUser), false))

	_, err := list.VerifyPassword("alice", "PW", true)
	assert.ErrorIs(t, err, errAuthFailed)
}

func TestUserListDuplicateNameCaseInsensitive(t *testing.T) {
	list := NewUserList()
	require.NoError(t, list.Add("alice", NewUserEntry("alice", "pw", 1, CategoryDBUser), false))

	err := list.Add("ALICE", NewUserEntry("ALICE", "pw2", 2, CategoryDBUser), false)
	assert.Error(t, err)
}

func TestUserListDuplicateID(t *testing.T) {
	list := NewUserList()
	require.NoError(t, list.Add("alice", NewUserEntry("alice", "pw", 1, CategoryDBUser), false))

	err := list.Add("bob", NewUserEntry("bob", "pw2", 1, CategoryDBUser), false)
	assert.Error(t, err)
}

func TestVerifyPasswordManagementDisabled(t *testing.T) {
	list := NewUserList()
	entry, err := list.VerifyPassword("anybody", "whatever", false)
	require.NoError(t, err)
	assert.Equal(t, "anybody", entry.Name)
}

func TestVerifyPasswordUserRequired(t *testing.T) {
	list := NewUserList()
	_, err := list.VerifyPassword("", "pw", true)
	assert.ErrorIs(t, err, errUserRequired)
}

func TestVerifyPasswordUserNotFound(t *testing.T) {
	list := NewUserList()
	_, err := list.VerifyPassword("ghost", "pw", true)
	assert.ErrorIs(t, err, errUserNotFound)
}

func TestPasswordFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	pf := NewPasswordFile(path)

	list := NewUserList()
	require.NoError(t, list.Add("alice", NewUserEntry("alice", "pw", 1, CategorySuperUser), false))
	require.NoError(t, list.Add("bob", NewUserEntry("bob", "x", 2, CategoryDBUser), false))
	require.NoError(t, pf.Save(list))

	loaded, err := pf.Load()
	require.NoError(t, err)

	alice, ok := loaded.Get("alice")
	require.True(t, ok)
	assert.Equal(t, CategorySuperUser, alice.Category)
	assert.True(t, alice.CheckPassword("pw"))

	bob, ok := loaded.Get("bob")
	require.True(t, ok)
	assert.Equal(t, 2, bob.ID)
}

func TestPasswordFileParsesKnownRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	content := "bob:" + NewUserEntry("", "x", 0, 0).MD5Hex() + ":2:0:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	pf := NewPasswordFile(path)
	list, err := pf.Load()
	require.NoError(t, err)

	bob, ok := list.Get("bob")
	require.True(t, ok)
	assert.Equal(t, 2, bob.ID)
	assert.Equal(t, CategorySuperUser, bob.Category)
}

func TestPasswordFileMalformedRecordBecomesInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	// category 9 is out of range and "NP" is not an MD5 hex digest ->
	// malformed, but id is intact so the id must still be reserved under
	// CategoryInvalid.
	content := "carol:NP:3:9:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	pf := NewPasswordFile(path)
	list, err := pf.Load()
	require.NoError(t, err)

	carol, ok := list.Get("carol")
	require.True(t, ok)
	assert.Equal(t, 3, carol.ID)
	assert.Equal(t, CategoryInvalid, carol.Category)
}

func TestPasswordFileIllegalCharacterFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	content := "al\tice:x:1:0:\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	pf := NewPasswordFile(path)
	_, err := pf.Load()
	assert.Error(t, err)
}

func TestRevertBackupFileRestoresPreCrashSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(path, []byte("alice:x:1:0:\n"), 0600))

	// simulate a crash between saveOld and dropOld: rename path -> backup
	// and never create a replacement.
	require.NoError(t, os.Rename(path, path+backupSuffix))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, RevertBackupFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice:x:1:0:\n", string(data))
	_, err = os.Stat(path + backupSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestValidUserNameTooLong(t *testing.T) {
	err := ValidUserName("thisnameiswaytoolongforsure")
	assert.ErrorIs(t, err, errTooLongUserName)
}
