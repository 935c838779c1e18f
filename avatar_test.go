package accounts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/quipulabs/go-accounts"
)

func TestAvatarFileName(t *testing.T) {
	storage := accounts.NewAvatarStorage(t.TempDir())
	id := uuid.New()

	assert.Equal(t, id.String()+"selfie.png", storage.FileName(id, "selfie.png"))

	// path components in the client supplied name are dropped
	assert.Equal(t, id.String()+"passwd", storage.FileName(id, "../../etc/passwd"))
}

func TestAvatarPathStaysInDir(t *testing.T) {
	dir := t.TempDir()
	storage := accounts.NewAvatarStorage(dir)

	assert.Equal(t, filepath.Join(dir, "a.png"), storage.Path("a.png"))
	assert.Equal(t, filepath.Join(dir, "passwd"), storage.Path("../passwd"))
}

func TestAvatarRemove(t *testing.T) {
	dir := t.TempDir()
	storage := accounts.NewAvatarStorage(dir)

	name := uuid.New().String() + "selfie.png"
	require.NoError(t, os.WriteFile(storage.Path(name), []byte("img"), 0o644))

	require.NoError(t, storage.Remove(name))
	_, err := os.Stat(storage.Path(name))
	assert.True(t, os.IsNotExist(err))

	// already gone is not an error
	assert.NoError(t, storage.Remove(name))
}

func TestAvatarRemoveKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	storage := accounts.NewAvatarStorage(dir)

	require.NoError(t, os.WriteFile(storage.Path(accounts.DefaultAvatar), []byte("img"), 0o644))

	require.NoError(t, storage.Remove(accounts.DefaultAvatar))

	_, err := os.Stat(storage.Path(accounts.DefaultAvatar))
	assert.NoError(t, err, "the shared default image must survive")
}
