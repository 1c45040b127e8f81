package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlinkPath marks a write target that resolves through a symlink or a
// Windows reparse point.
var ErrSymlinkPath = errors.New("refusing to write through symlink")

// RejectSymlinkPath walks path from the root down and fails with
// ErrSymlinkPath at the first component that is a link. The walk stops at the
// first component that does not exist yet.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for _, prefix := range pathPrefixes(abs) {
		info, err := os.Lstat(prefix)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s (link at %s)", ErrSymlinkPath, abs, prefix)
		}
		reparse, err := isReparsePoint(prefix)
		if err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		}
		if reparse {
			return fmt.Errorf("%w: %s (reparse point at %s)", ErrSymlinkPath, abs, prefix)
		}
	}
	return nil
}

// pathPrefixes lists the cumulative prefixes of an absolute path, shortest
// first, excluding the volume root itself.
func pathPrefixes(abs string) []string {
	sep := string(os.PathSeparator)
	volume := filepath.VolumeName(abs)
	current := volume + sep

	var prefixes []string
	for _, part := range strings.Split(abs[len(volume):], sep) {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		prefixes = append(prefixes, current)
	}
	return prefixes
}
