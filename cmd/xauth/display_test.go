package main

import (
	"os"
	"testing"

	"github.com/kardianos/xauth"
)

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		display string
		family  string
		want    query
		wantErr bool
	}{
		{display: "host:0", want: query{family: xauth.FamilyLocal, address: []byte("host"), number: []byte("0")}},
		{display: "host/unix:2", want: query{family: xauth.FamilyLocal, address: []byte("host"), number: []byte("2")}},
		{display: "box:1", family: "inet", want: query{family: xauth.FamilyInternet, address: []byte("box"), number: []byte("1")}},
		{display: "box:1", family: "252", want: query{family: xauth.FamilyLocalHost, address: []byte("box"), number: []byte("1")}},
		{display: "nocolon", wantErr: true},
		{display: "host:", wantErr: true},
		{display: "host:abc", wantErr: true},
		{display: "host:0", family: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDisplay(tt.display, tt.family)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDisplay(%q, %q): want error", tt.display, tt.family)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDisplay(%q, %q): %v", tt.display, tt.family, err)
			continue
		}
		if got.family != tt.want.family ||
			string(got.address) != string(tt.want.address) ||
			string(got.number) != string(tt.want.number) {
			t.Errorf("parseDisplay(%q, %q) = %+v, want %+v", tt.display, tt.family, got, tt.want)
		}
	}
}

func TestParseDisplayEmptyHost(t *testing.T) {
	host, err := os.Hostname()
	if err != nil {
		t.Skipf("no hostname: %v", err)
	}
	got, err := parseDisplay(":0", "")
	if err != nil {
		t.Fatalf("parseDisplay: %v", err)
	}
	if string(got.address) != host {
		t.Fatalf("address %q, want local hostname %q", got.address, host)
	}
}

func TestParseFamilyNames(t *testing.T) {
	for name, want := range map[string]uint16{
		"local":     xauth.FamilyLocal,
		"inet":      xauth.FamilyInternet,
		"inet6":     xauth.FamilyInternet6,
		"wild":      xauth.FamilyWild,
		"krb5":      xauth.FamilyKrb5Principal,
		"netname":   xauth.FamilyNetname,
		"localhost": xauth.FamilyLocalHost,
		"si":        xauth.FamilyServerInterpreted,
		"decnet":    xauth.FamilyDECnet,
		"chaos":     xauth.FamilyChaos,
	} {
		got, err := parseFamily(name)
		if err != nil {
			t.Errorf("parseFamily(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("parseFamily(%q) = %d, want %d", name, got, want)
		}
	}
}
