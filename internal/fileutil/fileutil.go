package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound reports a path that does not exist under any letter case.
	ErrNotFound = errors.New("path not found")
	// ErrIdenticalCaseMatch reports a directory listing that contains the
	// exact missing segment. The filesystem contradicts itself and the
	// caller should stop.
	ErrIdenticalCaseMatch = errors.New("directory entry matches missing segment with identical case")
)

// ResolveCaseInsensitive returns path when it exists. Otherwise it walks up
// to the deepest existing ancestor, replaces the first missing segment with
// the directory entry that matches it case-insensitively, and tries again
// until the path exists or no entry matches.
func ResolveCaseInsensitive(path string) (string, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	fold := cases.Fold()
	segments := len(strings.Split(path, string(filepath.Separator)))
	for attempt := 0; attempt < segments; attempt++ {
		ancestor, missing, rest := splitAtMissing(path)
		if missing == "" {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		entries, err := os.ReadDir(ancestor)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
		}

		want := fold.String(norm.NFC.String(missing))
		match := ""
		for _, entry := range entries {
			name := entry.Name()
			if name == missing {
				return "", fmt.Errorf("%w: %s in %s", ErrIdenticalCaseMatch, missing, ancestor)
			}
			if match == "" && fold.String(norm.NFC.String(name)) == want {
				match = name
			}
		}
		if match == "" {
			return "", fmt.Errorf("%w: no entry matching %q in %s", ErrNotFound, missing, ancestor)
		}

		path = filepath.Join(append([]string{ancestor, match}, rest...)...)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// splitAtMissing returns the deepest existing ancestor of path, the first
// segment below it, and the segments after that one.
func splitAtMissing(path string) (string, string, []string) {
	var below []string
	current := path
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return "", "", nil
		}
		below = append(below, filepath.Base(current))
		if _, err := os.Stat(parent); err == nil {
			missing := below[len(below)-1]
			rest := make([]string, 0, len(below)-1)
			for i := len(below) - 2; i >= 0; i-- {
				rest = append(rest, below[i])
			}
			return parent, missing, rest
		}
		current = parent
	}
}

// WriteFileAtomic writes the output of fn to a temporary file next to path
// and renames it into place once fn succeeds and the data is synced. The
// temporary file is removed on every failure.
func WriteFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if err = fn(buffered); err != nil {
		return err
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
