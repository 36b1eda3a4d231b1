package xauth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvAuthority names the environment variable holding an explicit authority
// file path. When set and non-empty it wins over the home-directory default.
const EnvAuthority = "XAUTHORITY"

// DefaultFileName is the authority file name under the home directory.
const DefaultFileName = ".Xauthority"

// ErrNoHome reports that no default path exists because the caller's home
// directory could not be determined.
var ErrNoHome = errors.New("xauth: home directory not found")

// DefaultPath resolves the authority file path: the EnvAuthority override
// first, then DefaultFileName under the caller's home directory. It has no
// side effects and does not require the file to exist.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvAuthority); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return filepath.Join(home, DefaultFileName), nil
}
