package xauth_test

import (
	"bytes"
	"testing"

	"github.com/kardianos/xauth"
)

func TestGenerateCookie(t *testing.T) {
	a, err := xauth.GenerateCookie(xauth.MITMagicCookieLen)
	if err != nil {
		t.Fatalf("GenerateCookie: %v", err)
	}
	if len(a) != xauth.MITMagicCookieLen {
		t.Fatalf("cookie length %d, want %d", len(a), xauth.MITMagicCookieLen)
	}
	b, err := xauth.GenerateCookie(xauth.MITMagicCookieLen)
	if err != nil {
		t.Fatalf("GenerateCookie: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two generated cookies are identical")
	}

	for _, n := range []int{0, -1, xauth.MaxFieldLen + 1} {
		if _, err := xauth.GenerateCookie(n); err == nil {
			t.Errorf("GenerateCookie(%d) accepted", n)
		}
	}
}
