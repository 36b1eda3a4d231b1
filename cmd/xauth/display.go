package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kardianos/xauth"
	"github.com/kardianos/xauth/lockfile"
)

// query is a parsed (family, address, number) triple from command arguments.
type query struct {
	family  uint16
	address []byte
	number  []byte
}

// parseDisplay parses "host:number", ":number", or "host/unix:number" into a
// query. This tool does not resolve host names to network addresses: a plain
// host is stored as a local-family address, matching the common
// single-machine use of authority files. Use --family to store another
// discriminant.
func parseDisplay(display string, familyOverride string) (query, error) {
	host, number, ok := strings.Cut(display, ":")
	if !ok {
		return query{}, fmt.Errorf("display %q: want host:number", display)
	}
	if number == "" {
		return query{}, fmt.Errorf("display %q: missing display number", display)
	}
	if _, err := strconv.Atoi(number); err != nil {
		return query{}, fmt.Errorf("display %q: bad display number: %w", display, err)
	}

	family := xauth.FamilyLocal
	host = strings.TrimSuffix(host, "/unix")
	if host == "" {
		name, err := os.Hostname()
		if err != nil {
			return query{}, fmt.Errorf("resolve local hostname: %w", err)
		}
		host = name
	}
	if familyOverride != "" {
		f, err := parseFamily(familyOverride)
		if err != nil {
			return query{}, err
		}
		family = f
	}
	return query{family: family, address: []byte(host), number: []byte(number)}, nil
}

func parseFamily(s string) (uint16, error) {
	switch strings.ToLower(s) {
	case "local":
		return xauth.FamilyLocal, nil
	case "inet":
		return xauth.FamilyInternet, nil
	case "inet6":
		return xauth.FamilyInternet6, nil
	case "decnet":
		return xauth.FamilyDECnet, nil
	case "chaos":
		return xauth.FamilyChaos, nil
	case "si":
		return xauth.FamilyServerInterpreted, nil
	case "localhost":
		return xauth.FamilyLocalHost, nil
	case "krb5":
		return xauth.FamilyKrb5Principal, nil
	case "netname":
		return xauth.FamilyNetname, nil
	case "wild":
		return xauth.FamilyWild, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown family %q", s)
	}
	return uint16(n), nil
}

// formatRecord renders one record for listing. The secret is shown as a
// fingerprint unless showSecrets asks for the raw hex.
func formatRecord(rec *xauth.Record, showSecrets bool) string {
	secret := rec.Fingerprint()
	if showSecrets {
		secret = fmt.Sprintf("%x", rec.Data)
	}
	return fmt.Sprintf("%s/%s:%s  %s  %s",
		xauth.FamilyName(rec.Family), rec.Address, rec.Number, rec.Name, secret)
}

// lockFlags carries the acquisition policy knobs shared by every mutating
// command.
type lockFlags struct {
	retries int
	delay   int
	stale   int
}

func (l *lockFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&l.retries, "lock-retries", 10, "claim attempts before timing out")
	fs.IntVar(&l.delay, "lock-delay", 1, "seconds between claim attempts")
	fs.IntVar(&l.stale, "lock-stale", 600, "seconds after which a lock is presumed dead (0 reclaims any existing lock)")
}

func (l *lockFlags) policy() lockfile.Policy {
	return lockfile.Policy{
		Retries:    l.retries,
		RetryDelay: time.Duration(l.delay) * time.Second,
		Stale:      time.Duration(l.stale) * time.Second,
	}
}

// withLock brackets fn with an acquire/release of the authority file lock.
func withLock(path string, policy lockfile.Policy, fn func() error) error {
	h, err := lockfile.Acquire(path, policy)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Release(); err != nil {
			slog.Warn("release lock", "path", path, "err", err)
		}
	}()
	return fn()
}
