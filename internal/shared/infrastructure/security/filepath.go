// Package security validates user-supplied file paths before they are opened.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned for paths that are empty or carry shell
// metacharacters.
var ErrUnsafePath = errors.New("unsafe file path")

const forbiddenChars = ";&|$`(){}<>!\n\r"

// CleanPath returns the absolute, symlink-resolved form of path. Paths that do
// not exist yet are returned cleaned but unresolved.
func CleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	if i := strings.IndexAny(path, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w: forbidden character %q in %s", ErrUnsafePath, path[i], path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// Open opens path for reading after CleanPath accepts it.
func Open(path string) (*os.File, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.Open(clean)
}

// WriteFile writes data to path after CleanPath accepts it.
func WriteFile(path string, data []byte) error {
	clean, err := CleanPath(path)
	if err != nil {
		return err
	}
	return os.WriteFile(clean, data, 0o644)
}
