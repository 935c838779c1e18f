package accounts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AvatarStorage keeps uploaded avatar images in a flat directory. File names
// are prefixed with the owner's id, so concurrent uploads by different users
// never collide.
type AvatarStorage struct {
	dir string
}

func NewAvatarStorage(dir string) *AvatarStorage {
	return &AvatarStorage{dir: dir}
}

// Dir returns the backing directory.
func (s *AvatarStorage) Dir() string {
	return s.dir
}

// FileName derives the stored name for an upload, stripping any path
// components a client may have smuggled into the original file name.
func (s *AvatarStorage) FileName(id uuid.UUID, original string) string {
	return id.String() + filepath.Base(original)
}

// Path resolves a stored file name inside the avatar directory.
func (s *AvatarStorage) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Remove deletes a previously stored avatar. The shared default image is
// never removed, and a file already gone is not an error.
func (s *AvatarStorage) Remove(name string) error {
	if name == "" || name == DefaultAvatar {
		return nil
	}

	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
