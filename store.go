package xauth

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store holds the records of one authority file in file order. Order is
// meaningful: lookups break ties by earliest stored record. A Store is safe
// for concurrent use within a process; cross-process coordination is the
// lockfile subpackage's job.
type Store struct {
	mu      sync.RWMutex
	records []*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load reads every record from the authority file at path. Loading is
// all-or-nothing: a malformed record mid-stream discards all partial results
// and surfaces the error, so a truncated credential set is never acted on.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open authority file: %w", err)
	}
	defer f.Close()

	s, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// LoadOrEmpty is Load, except a missing file yields an empty store. Every
// other failure, malformed contents included, is still surfaced.
func LoadOrEmpty(path string) (*Store, error) {
	s, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewStore(), nil
	}
	return s, err
}

// Decode reads records from r until a clean end of stream.
func Decode(r io.Reader) (*Store, error) {
	s := NewStore()
	for {
		rec, err := ReadRecord(r)
		if err == io.EOF {
			return s, nil
		}
		if err != nil {
			s.Dispose()
			return nil, err
		}
		s.records = append(s.records, rec)
	}
}

// Save writes every record to path, replacing the file atomically: records
// are encoded to a temp file in the same directory, synced, and renamed over
// the target with mode 0600. Callers mutating a shared file must hold the
// lockfile lock across the load-mutate-save sequence.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	var buf bytes.Buffer
	for _, rec := range s.records {
		if err := WriteRecord(&buf, rec); err != nil {
			s.mu.RUnlock()
			return err
		}
	}
	s.mu.RUnlock()

	err := atomicWriteFile(path, buf.Bytes(), 0600)
	wipe(buf.Bytes())
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Encode writes every record to w in stored order.
func (s *Store) Encode(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if err := WriteRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns the stored records in order. The slice is a copy but the
// records are the store's own; dispose them through the store, not piecemeal
// while the store still holds them.
func (s *Store) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Add inserts rec, taking ownership of its buffers. When a stored record has
// the same identity tuple it is disposed and replaced in place, preserving
// file order; otherwise rec is appended.
func (s *Store) Add(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.records {
		if cur.SameIdentity(rec.Family, rec.Address, rec.Number, rec.Name) {
			cur.Dispose()
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// Remove disposes and removes every record whose identity tuple matches,
// returning the count removed.
func (s *Store) Remove(family uint16, address, number, name []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.SameIdentity(family, address, number, name) {
			rec.Dispose()
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept
	return removed
}

// Merge adds a clone of every record in other, with Add's replace-or-append
// semantics, and returns the number of records taken in. The source store is
// left untouched.
func (s *Store) Merge(other *Store) int {
	n := 0
	for _, rec := range other.Records() {
		s.Add(rec.Clone())
		n++
	}
	return n
}

// FindExact returns the first stored record whose identity tuple is
// byte-for-byte equal to the query, or nil when none matches. The returned
// record remains the store's until removed; dispose it exactly once, through
// whichever side owns it when done.
func (s *Store) FindExact(family uint16, address, number, name []byte) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.SameIdentity(family, address, number, name) {
			return rec
		}
	}
	return nil
}

// FindBest returns the stored record matching (family, address, number)
// whose protocol name appears earliest in names, the caller's preference
// list with most-preferred first. A record whose name is absent from the
// list is disqualified. Equal ranks fall to the earliest stored record.
//
// Matching honors the wildcard conventions of the discriminant: FamilyWild
// on the record or in the query matches any family (and skips the address
// comparison), and an empty number on either side matches any number.
func (s *Store) FindBest(family uint16, address, number []byte, names [][]byte) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *Record
	bestRank := len(names)
	for _, rec := range s.records {
		if !matchTriple(rec, family, address, number) {
			continue
		}
		for rank, name := range names {
			if !bytes.Equal(rec.Name, name) {
				continue
			}
			if rank < bestRank {
				best = rec
				bestRank = rank
			}
			break
		}
	}
	return best
}

func matchTriple(rec *Record, family uint16, address, number []byte) bool {
	if family != FamilyWild && rec.Family != FamilyWild {
		if rec.Family != family || !bytes.Equal(rec.Address, address) {
			return false
		}
	}
	if len(number) > 0 && len(rec.Number) > 0 && !bytes.Equal(rec.Number, number) {
		return false
	}
	return true
}

// Dispose zeroes and releases every stored record. The store is empty and
// still usable afterward; any record pointers previously handed out are
// invalid.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		rec.Dispose()
		s.records[i] = nil
	}
	s.records = nil
}

// atomicWriteFile writes data to a temp file and renames it to the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
