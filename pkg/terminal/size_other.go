//go:build !unix

package terminal

import "errors"

func cellSize() (int, int, error) {
	return 0, 0, errors.New("cell size unavailable on this platform")
}
