package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/errors"
)

// PathCheckMode selects which rules ValidatePath applies.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import reads rosters
	PathCheckWrite                      // report writes .md/.html
)

// Rosters come in as CSV; reports go out as Markdown or HTML.
var allowedExtensions = map[PathCheckMode][]string{
	PathCheckRead:  {".csv"},
	PathCheckWrite: {".md", ".html"},
}

// ValidatePath vets a user-supplied path before import reads it or report
// writes it. A path passes when it has no ".." components, carries an
// extension from the mode's allowlist, sits DIRECTLY inside an allowed
// directory (no subdirectories — an intermediate directory could be swapped
// for a symlink between this check and the open), and is not itself a
// symlink. The open itself uses O_NOFOLLOW, so the Lstat here only trades a
// runtime ELOOP for a clearer error.
//
// AllowUnsafePaths lifts the directory rule but never the symlink rule.
func ValidatePath(path string, mode PathCheckMode, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !hasAllowedExtension(cleaned, mode) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("path must have one of extensions: %s",
				strings.Join(allowedExtensions[mode], ", ")))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	unsafe := cfg != nil && cfg.AllowUnsafePaths
	if !unsafe {
		allowedDirs, err := getAllowedDirs(cfg)
		if err != nil {
			return err
		}
		parentDir := filepath.Clean(filepath.Dir(absPath))
		if !containsString(allowedDirs, parentDir) {
			return errors.NewInvalidRequest(
				fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
					allowedDirs))
		}
		if isSymlink(parentDir) {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return errors.NewFileNotFound(path)
		}
	}

	if isSymlink(absPath) {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	return nil
}

func hasAllowedExtension(path string, mode PathCheckMode) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range allowedExtensions[mode] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// getAllowedDirs returns the default exports directory plus the configured
// AllowedPaths, absolute and cleaned. An allowed entry that is itself a
// symlink is resolved so the comparison runs against the real directory.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	defaultDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	dirs := []string{defaultDir}

	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}
		if isSymlink(abs) {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// isSymlink reports whether path exists and is a symlink. A missing path is
// not a symlink.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DefaultExportsDir is where reports land when no path is given:
// ~/.studymatch/exports.
func DefaultExportsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}
	return filepath.Join(homeDir, ".studymatch", "exports"), nil
}

// containsTraversal reports whether any path component is "..". Forward
// slashes are checked on every platform since the path may come from user
// input.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename maps s onto a conservative filename alphabet. Path
// separators and ".." sequences become dashes, as does anything outside
// [a-zA-Z0-9._-].
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
