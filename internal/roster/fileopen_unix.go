//go:build !windows

package roster

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/studymatch/internal/errors"
)

// openNoFollow opens path with O_NOFOLLOW so a symlink in the final
// component fails with ELOOP instead of being followed. Intermediate
// directories are covered by ValidatePath, which only accepts files sitting
// directly inside an allowed directory.
func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := openNoFollow(path, flag, perm)
	if stderrors.Is(err, syscall.ELOOP) {
		return nil, errors.NewInvalidRequest("cannot write to symlink")
	}
	return f, err
}

func openFileNoFollowRead(path string) (*os.File, error) {
	f, err := openNoFollow(path, syscall.O_RDONLY, 0)
	switch {
	case stderrors.Is(err, syscall.ELOOP):
		return nil, errors.NewInvalidRequest("cannot read from symlink")
	case stderrors.Is(err, syscall.ENOENT):
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}
