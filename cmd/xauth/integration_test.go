package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kardianos/xauth"
	"github.com/kardianos/xauth/lockfile"
)

// run executes the CLI in-process and returns its combined stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAddListRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".Xauthority")

	key := strings.Repeat("ab", 16)
	if _, err := run(t, "-f", path, "add", "host:0", xauth.MITMagicCookie1, key,
		"--lock-delay", "0"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "-f", path, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "local/host:0") || !strings.Contains(out, xauth.MITMagicCookie1) {
		t.Fatalf("list output missing record: %q", out)
	}
	if strings.Contains(out, key) {
		t.Fatalf("list leaked the raw secret: %q", out)
	}

	out, err = run(t, "-f", path, "list", "--show-secrets")
	if err != nil {
		t.Fatalf("list --show-secrets: %v", err)
	}
	if !strings.Contains(out, key) {
		t.Fatalf("list --show-secrets hid the secret: %q", out)
	}

	out, err = run(t, "-f", path, "remove", "host:0", xauth.MITMagicCookie1,
		"--lock-delay", "0")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(out, "removed 1") {
		t.Fatalf("remove output: %q", out)
	}

	s, err := xauth.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("%d records after remove, want 0", s.Len())
	}
}

func TestGenerateAndExtractAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".Xauthority")

	if _, err := run(t, "-f", path, "generate", "host:0", "--lock-delay", "0"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := run(t, "-f", path, "generate", "host:1", "--lock-delay", "0"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	extracted := filepath.Join(dir, "transfer")
	if _, err := run(t, "-f", path, "extract", extracted, "host:1"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	es, err := xauth.Load(extracted)
	if err != nil {
		t.Fatalf("Load extracted: %v", err)
	}
	if es.Len() != 1 {
		t.Fatalf("extracted %d records, want 1", es.Len())
	}

	other := filepath.Join(dir, "other-authority")
	if _, err := run(t, "-f", other, "merge", extracted, "--lock-delay", "0"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	ms, err := xauth.Load(other)
	if err != nil {
		t.Fatalf("Load merged: %v", err)
	}
	got := ms.FindExact(xauth.FamilyLocal, []byte("host"), []byte("1"),
		[]byte(xauth.MITMagicCookie1))
	if got == nil {
		t.Fatal("merged file missing the transferred record")
	}
}

func TestLockUnlockCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".Xauthority")

	if _, err := run(t, "-f", path, "lock", "--lock-delay", "0"); err != nil {
		t.Fatalf("lock: %v", err)
	}

	// The artifact persists past the command; a second claim times out.
	_, err := run(t, "-f", path, "lock", "--lock-retries", "1", "--lock-delay", "0")
	if lockfile.StatusOf(err) != lockfile.StatusTimeout {
		t.Fatalf("second lock: want timeout status, got %v", err)
	}

	out, err := run(t, "-f", path, "lockinfo")
	if err != nil {
		t.Fatalf("lockinfo: %v", err)
	}
	if !strings.Contains(out, "locked by pid") {
		t.Fatalf("lockinfo output: %q", out)
	}

	if _, err := run(t, "-f", path, "unlock"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	out, err = run(t, "-f", path, "lockinfo")
	if err != nil {
		t.Fatalf("lockinfo after unlock: %v", err)
	}
	if !strings.Contains(out, "unlocked") {
		t.Fatalf("lockinfo after unlock: %q", out)
	}
}

func TestPathCommand(t *testing.T) {
	t.Setenv(xauth.EnvAuthority, "/tmp/from-env")
	out, err := run(t, "path")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if strings.TrimSpace(out) != "/tmp/from-env" {
		t.Fatalf("path output %q", out)
	}
}
