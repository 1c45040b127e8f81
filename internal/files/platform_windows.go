//go:build windows

package files

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

const replaceAttempts = 5

// replaceFile moves src over dst. Image viewers and thumbnailers briefly hold
// freshly written files open, so sharing violations are retried.
func replaceFile(src, dst string) error {
	srcPtr, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	dstPtr, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}

	flags := uint32(windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH)
	for attempt := 1; ; attempt++ {
		err = windows.MoveFileEx(srcPtr, dstPtr, flags)
		if err == nil || attempt == replaceAttempts || !isSharingViolation(err) {
			return err
		}
		time.Sleep(time.Duration(attempt) * 25 * time.Millisecond)
	}
}

func isSharingViolation(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_ACCESS_DENIED)
}

func isReparsePoint(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
