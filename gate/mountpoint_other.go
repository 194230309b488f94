//go:build !unix

package gate

import "github.com/pkg/errors"

func IsMountpoint(path string) (bool, error) {
	return false, errors.New("mountpoint detection is not supported on this platform")
}
