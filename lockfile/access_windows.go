//go:build windows

package lockfile

// Windows has no cheap access(2) equivalent; the claim itself reports
// permission failures, which do not consume retries.
func preflight(dir string) error {
	return nil
}
