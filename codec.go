package xauth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformed reports a record truncated or corrupted mid-stream. The
	// stream position afterward is undefined; callers must stop scanning.
	ErrMalformed = errors.New("xauth: malformed record")

	// ErrTooLong reports a buffer that cannot be represented by the 16-bit
	// wire length field.
	ErrTooLong = errors.New("xauth: field exceeds 65535 bytes")
)

// ReadRecord decodes one record from r. A clean end of stream before any
// byte of a record returns io.EOF; running out of bytes mid-record returns
// an error wrapping ErrMalformed. No partial record is ever returned.
func ReadRecord(r io.Reader) (*Record, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: truncated family: %v", ErrMalformed, err)
	}
	rec := &Record{Family: binary.BigEndian.Uint16(hdr[:])}

	var err error
	if rec.Address, err = readBuffer(r, "address"); err != nil {
		return nil, err
	}
	if rec.Number, err = readBuffer(r, "number"); err != nil {
		return nil, err
	}
	if rec.Name, err = readBuffer(r, "name"); err != nil {
		return nil, err
	}
	if rec.Data, err = readBuffer(r, "data"); err != nil {
		return nil, err
	}
	return rec, nil
}

// readBuffer decodes one (16-bit big-endian length, bytes) pair. Any short
// read here is mid-record and therefore malformed, not end of stream.
func readBuffer(r io.Reader, field string) ([]byte, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated %s length: %v", ErrMalformed, field, err)
	}
	n := binary.BigEndian.Uint16(hdr[:])
	if n == 0 {
		return []byte{}, nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: truncated %s: %v", ErrMalformed, field, err)
	}
	return b, nil
}

// WriteRecord encodes rec to w in wire order: family, then the address,
// number, name, and data buffers, each length-prefixed. The record is
// encoded into a single buffer and written with one call so a failed write
// cannot leave a torn prefix behind buffered writers.
func WriteRecord(w io.Writer, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	n := 2 + 8 + len(rec.Address) + len(rec.Number) + len(rec.Name) + len(rec.Data)
	buf := make([]byte, 0, n)
	buf = binary.BigEndian.AppendUint16(buf, rec.Family)
	for _, b := range [][]byte{rec.Address, rec.Number, rec.Name, rec.Data} {
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(b)))
		buf = append(buf, b...)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
