//go:build unix

package gate

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// IsMountpoint reports whether path sits on a different device than its
// parent directory, or is the filesystem root.
func IsMountpoint(path string) (bool, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	var st, parent unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, err
	}
	if err := unix.Stat(filepath.Dir(path), &parent); err != nil {
		return false, err
	}
	if st.Dev != parent.Dev {
		return true, nil
	}
	return st.Ino == parent.Ino, nil
}
