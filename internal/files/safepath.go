package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxNumberedSuffix bounds the name_n probing before falling back to a UUID.
const maxNumberedSuffix = 9

// UniquePath returns dir/name if nothing exists there yet. Otherwise it probes
// name_1..name_9 (before the extension) and finally a UUIDv7 suffix. The bool
// reports whether the name was changed.
func UniquePath(dir, name string) (string, bool, error) {
	if strings.TrimSpace(name) == "" {
		return "", false, ErrEmptyPath
	}
	path := filepath.Join(dir, name)
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return path, false, nil
	}
	if err != nil {
		return "", false, err
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; i <= maxNumberedSuffix; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, true, nil
		} else if err != nil {
			return "", false, err
		}
	}

	suffix := uuid.NewString()[:8]
	if u, err := uuid.NewV7(); err == nil {
		suffix = u.String()
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", base, suffix, ext)), true, nil
}
