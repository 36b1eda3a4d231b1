// Package lockfile implements the cooperative cross-process lock guarding an
// authority file. The lock is a sibling artifact, the file path plus a fixed
// suffix, claimed with an exclusive create. Exclusivity rests entirely on
// O_CREATE|O_EXCL being atomic at the filesystem level; no OS advisory lock
// is involved, so the artifact outlives a crashed holder and is reclaimed by
// age instead. The artifact name interoperates with the creat()-based scheme
// of the established C implementation; the link()-based variant for NFS
// clients without atomic exclusive create is out of scope.
//
// The lock is advisory. Readers scan without it; every writer must hold it.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Suffix appended to the guarded file's path to form the lock artifact.
const Suffix = "-c"

// Status is the three-valued acquisition outcome shared with existing
// callers: 0 success, 1 non-contention error, 2 timeout. The numeric values
// are part of the external contract.
type Status int

const (
	StatusSuccess Status = 0
	StatusError   Status = 1
	StatusTimeout Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// StatusOf maps an Acquire result to its Status value.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrTimeout):
		return StatusTimeout
	default:
		return StatusError
	}
}

var (
	// ErrTimeout reports retries exhausted against a live (non-stale) holder.
	ErrTimeout = errors.New("lockfile: timed out waiting for lock")

	// ErrNotOwner reports a release attempt against an artifact this handle
	// does not own. The artifact is left untouched.
	ErrNotOwner = errors.New("lockfile: lock not owned by this handle")
)

// Policy holds the caller-supplied acquisition knobs. There are no implicit
// defaults: a zero Retries means a single claim attempt, and a zero Stale
// treats every existing artifact as dead.
type Policy struct {
	// Retries is the number of additional claim attempts made against a
	// held lock after the initial one, before giving up with ErrTimeout.
	Retries int

	// RetryDelay is the wait between claim attempts.
	RetryDelay time.Duration

	// Stale is the age past which an existing artifact is presumed
	// abandoned by a dead holder and forcibly reclaimed. Age is the only
	// available failure detector: there is no liveness channel to the
	// original holder. Zero forces removal of any existing artifact,
	// regardless of age.
	Stale time.Duration
}

// Handle represents a held lock. It is returned only by a successful Acquire
// and is released exactly once.
type Handle struct {
	artifact string
	owner    Owner
}

// ArtifactPath returns the lock artifact path for the guarded file at path.
// The derivation is deterministic so independent implementations reading the
// same file contend on the same artifact.
func ArtifactPath(path string) string {
	return path + Suffix
}

// sleep is a test seam.
var sleep = time.Sleep

// acquire state machine.
type lockState int

const (
	stateClaiming lockState = iota
	stateHeld
)

// Acquire claims the lock for the file at path. On contention it waits
// policy.RetryDelay and claims again, policy.Retries times over, then fails
// with ErrTimeout. An artifact older than policy.Stale (any artifact, when
// Stale is zero) is removed and the claim retried; the reclaim consumes no
// retry, and racing reclaimers settle at the exclusive create, where exactly
// one wins. Any failure unrelated to contention returns immediately without
// consuming retries.
func Acquire(path string, policy Policy) (*Handle, error) {
	artifact := ArtifactPath(path)
	if err := preflight(filepath.Dir(artifact)); err != nil {
		return nil, fmt.Errorf("lockfile: %w", err)
	}

	owner, err := NewOwner()
	if err != nil {
		return nil, fmt.Errorf("lockfile: %w", err)
	}

	remaining := policy.Retries
	st := stateClaiming
	for {
		switch st {
		case stateClaiming:
			err := claim(artifact, owner)
			if err == nil {
				st = stateHeld
				continue
			}
			if !errors.Is(err, fs.ErrExist) {
				return nil, fmt.Errorf("lockfile: claim %s: %w", artifact, err)
			}

			age, err := artifactAge(artifact)
			if errors.Is(err, fs.ErrNotExist) {
				// Holder released between claim and stat.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("lockfile: stat %s: %w", artifact, err)
			}

			if policy.Stale <= 0 || age > policy.Stale {
				if err := os.Remove(artifact); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return nil, fmt.Errorf("lockfile: reclaim %s: %w", artifact, err)
				}
				continue
			}

			if remaining <= 0 {
				return nil, ErrTimeout
			}
			remaining--
			sleep(policy.RetryDelay)

		case stateHeld:
			return &Handle{artifact: artifact, owner: owner}, nil
		}
	}
}

// claim creates the artifact exclusively and writes the owner payload into
// it. Implementations that only test artifact existence ignore the payload.
func claim(artifact string, owner Owner) error {
	f, err := os.OpenFile(artifact, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	data, err := owner.encode()
	if err != nil {
		f.Close()
		os.Remove(artifact)
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(artifact)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(artifact)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(artifact)
		return err
	}
	return nil
}

func artifactAge(artifact string) (time.Duration, error) {
	fi, err := os.Stat(artifact)
	if err != nil {
		return 0, err
	}
	return time.Since(fi.ModTime()), nil
}

// Release removes the lock artifact after verifying this handle still owns
// it: the payload token must match the token written at claim time. A
// mismatched or unreadable payload means another holder reclaimed the lock,
// and Release returns ErrNotOwner without touching the artifact. The check
// is advisory; a reclaimer racing the removal itself wins the file.
func (h *Handle) Release() error {
	cur, err := ReadOwner(h.artifact)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("lockfile: release %s: %w", h.artifact, err)
		}
		return fmt.Errorf("%w: %v", ErrNotOwner, err)
	}
	if cur.Token != h.owner.Token {
		return ErrNotOwner
	}
	if err := os.Remove(h.artifact); err != nil {
		return fmt.Errorf("lockfile: release %s: %w", h.artifact, err)
	}
	return nil
}

// Owner returns the owner payload written at claim time.
func (h *Handle) Owner() Owner {
	return h.owner
}

// Break removes the lock artifact unconditionally, regardless of owner. It
// is the recovery path for an operator who has determined the holder is
// gone; under contention it destroys a live holder's exclusivity.
func Break(path string) error {
	if err := os.Remove(ArtifactPath(path)); err != nil {
		return fmt.Errorf("lockfile: break: %w", err)
	}
	return nil
}

// Info describes an existing lock artifact.
type Info struct {
	// Age is the time since the artifact was last written.
	Age time.Duration

	// Owner is the claim payload, or nil when the artifact carries none (a
	// foreign implementation's empty artifact) or it cannot be decoded.
	Owner *Owner
}

// Inspect reports the lock artifact guarding path without acquiring it.
// fs.ErrNotExist means the file is unlocked.
func Inspect(path string) (*Info, error) {
	artifact := ArtifactPath(path)
	age, err := artifactAge(artifact)
	if err != nil {
		return nil, fmt.Errorf("lockfile: inspect: %w", err)
	}
	info := &Info{Age: age}
	if owner, err := ReadOwner(artifact); err == nil {
		info.Owner = &owner
	}
	return info, nil
}
