// Package safepath resolves request paths against a directory and refuses
// any result that would land outside of it.
package safepath

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a name resolves to a location outside the root.
var ErrOutsideRoot = errors.New("path escapes root directory")

// Resolve joins name onto root and returns the absolute path of the result.
// Names with a ".." segment, a NUL byte, or a symlink leading outside of root
// are rejected with ErrOutsideRoot. A target that does not exist is returned
// as is, so the caller can report it as missing.
func Resolve(root, name string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", ErrOutsideRoot
	}

	// backslashes count as separators so "..\\" can't slip past on any OS
	slashed := strings.ReplaceAll(name, `\`, "/")
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", ErrOutsideRoot
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	p := filepath.Join(absRoot, filepath.FromSlash(slashed))
	if !Within(absRoot, p) {
		return "", ErrOutsideRoot
	}

	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return p, nil
	}
	realPath, err := filepath.EvalSymlinks(p)
	if err != nil {
		// missing or unreadable, opening it will say which
		return p, nil
	}
	if !Within(realRoot, realPath) {
		return "", ErrOutsideRoot
	}

	return realPath, nil
}

// Within reports whether p is root itself or lies below it. Both paths are
// compared lexically.
func Within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	if filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
