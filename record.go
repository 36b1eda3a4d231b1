package xauth

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Address family values recognized in authority files. The standard protocol
// families share their wire values with the core protocol; the high values
// are authority-file extensions. The family is an opaque discriminant for
// matching: this package never interprets the address bytes against it.
const (
	FamilyInternet          uint16 = 0
	FamilyDECnet            uint16 = 1
	FamilyChaos             uint16 = 2
	FamilyServerInterpreted uint16 = 5
	FamilyInternet6         uint16 = 6
	FamilyLocalHost         uint16 = 252
	FamilyKrb5Principal     uint16 = 253
	FamilyNetname           uint16 = 254
	FamilyLocal             uint16 = 256

	// FamilyWild matches any family during best-match lookup, whether it
	// appears on the record or in the query.
	FamilyWild uint16 = 65535
)

// MITMagicCookie1 is the protocol name of the shared-secret cookie scheme
// used by virtually every authority file in practice.
const MITMagicCookie1 = "MIT-MAGIC-COOKIE-1"

// MITMagicCookieLen is the conventional cookie length for MITMagicCookie1.
const MITMagicCookieLen = 16

// MaxFieldLen is the largest encodable buffer: lengths are 16-bit on the wire.
const MaxFieldLen = 0xFFFF

// Record is one authority-file entry. Each of the four byte buffers is owned
// exclusively by the record; records never share backing storage. Data holds
// the authentication secret itself.
type Record struct {
	Family  uint16
	Address []byte
	Number  []byte
	Name    []byte
	Data    []byte
}

// Validate reports whether every buffer fits the 16-bit wire length field.
func (r *Record) Validate() error {
	for _, f := range []struct {
		name string
		b    []byte
	}{
		{"address", r.Address},
		{"number", r.Number},
		{"name", r.Name},
		{"data", r.Data},
	} {
		if len(f.b) > MaxFieldLen {
			return fmt.Errorf("%s is %d bytes: %w", f.name, len(f.b), ErrTooLong)
		}
	}
	return nil
}

// Clone returns a deep copy with freshly owned buffers.
func (r *Record) Clone() *Record {
	return &Record{
		Family:  r.Family,
		Address: bytes.Clone(r.Address),
		Number:  bytes.Clone(r.Number),
		Name:    bytes.Clone(r.Name),
		Data:    bytes.Clone(r.Data),
	}
}

// SameIdentity reports whether the (family, address, number, name) tuple is
// byte-for-byte equal. Identity excludes the secret data.
func (r *Record) SameIdentity(family uint16, address, number, name []byte) bool {
	return r.Family == family &&
		bytes.Equal(r.Address, address) &&
		bytes.Equal(r.Number, number) &&
		bytes.Equal(r.Name, name)
}

// Dispose zeroes the record's buffers, the secret first, then drops them.
// Every reference to the record is invalid afterward; disposing twice, or
// disposing a record another holder still uses, is the caller's bug to avoid.
func (r *Record) Dispose() {
	wipe(r.Data)
	wipe(r.Address)
	wipe(r.Number)
	wipe(r.Name)
	r.Data = nil
	r.Address = nil
	r.Number = nil
	r.Name = nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

const fpSize = 8

// Fingerprint returns a short hex digest of the secret data, usable in
// output and logs without revealing the secret. An empty data buffer yields
// an empty string.
func (r *Record) Fingerprint() string {
	if len(r.Data) == 0 {
		return ""
	}
	h, err := blake2b.New(fpSize, nil)
	if err != nil {
		panic("blake2b.New: " + err.Error())
	}
	h.Write(r.Data)
	return hex.EncodeToString(h.Sum(nil))
}

// FamilyName returns the conventional name for a family value, or the
// decimal value for families this package does not name.
func FamilyName(family uint16) string {
	switch family {
	case FamilyInternet:
		return "inet"
	case FamilyDECnet:
		return "decnet"
	case FamilyChaos:
		return "chaos"
	case FamilyServerInterpreted:
		return "si"
	case FamilyInternet6:
		return "inet6"
	case FamilyLocalHost:
		return "localhost"
	case FamilyKrb5Principal:
		return "krb5"
	case FamilyNetname:
		return "netname"
	case FamilyLocal:
		return "local"
	case FamilyWild:
		return "wild"
	}
	return fmt.Sprintf("%d", family)
}
