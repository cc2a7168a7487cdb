//go:build windows

package roster

import (
	"os"

	"github.com/hpungsan/studymatch/internal/errors"
)

// Windows has no O_NOFOLLOW. ValidatePath rejects symlinks with Lstat before
// the open, which is the strongest check available there.

func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}
