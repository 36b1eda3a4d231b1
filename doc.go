// Package xauth reads, queries, and mutates X authority files: flat binary
// databases of per-display authentication credentials, conventionally stored
// at ~/.Xauthority.
//
// # File Format
//
// An authority file is a sequence of variable-length records with no header,
// footer, or checksum. Each record is a 16-bit big-endian family followed by
// four length-prefixed byte buffers (address, display number, protocol name,
// and secret data), each prefixed by a 16-bit big-endian length. End of file
// terminates the sequence.
//
// # Locking
//
// Readers may scan the file without coordination; a concurrent writer can at
// worst produce a stale or malformed read, which the reader should treat as
// "try again later". Any mutation must be bracketed by an acquire/release of
// the cooperative cross-process lock in the lockfile subpackage. The lock is
// advisory: a process that writes without it breaks the exclusion invariant.
//
// # Secret Handling
//
// The data buffer of a record holds a live authentication secret. Records are
// not garbage collected into safety: call [Record.Dispose] (or
// [Store.Dispose]) to zero secret material before the buffers are released.
// Omitting the call leaks the secret to reused allocations and crash dumps,
// not just memory. Use [Record.Fingerprint] to identify a credential in
// output or logs without printing secret bytes.
package xauth
