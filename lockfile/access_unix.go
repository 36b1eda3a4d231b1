//go:build !windows

package lockfile

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// preflight verifies the artifact's directory is writable before the claim
// loop starts, so a permission problem surfaces as an immediate error
// instead of burning retries against EACCES.
func preflight(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return &fs.PathError{Op: "access", Path: dir, Err: err}
	}
	return nil
}
