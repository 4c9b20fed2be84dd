// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import (
	"encoding/binary"
	"fmt"
)

// Warning flags an advisory condition found while parsing a file that
// was otherwise structurally valid.
type Warning uint8

const (
	// WarnChecksumMismatch means the stored checksum doesn't match the
	// data section. The parsed structure is intact; callers decide
	// whether a corrupted-but-well-formed file is acceptable.
	WarnChecksumMismatch Warning = iota + 1
)

func (w Warning) String() string {
	switch w {
	case WarnChecksumMismatch:
		return "checksum mismatch"
	default:
		return fmt.Sprintf("Warning(%d)", uint8(w))
	}
}

// File is an in-memory variable file: one header and an ordered
// sequence of variable entries.
type File struct {
	Signature Signature
	Comment   Comment
	Entries   []Entry

	// Checksum is the 16-bit byte sum over the data section. Parse
	// stores the value read from the file; MarshalBinary recomputes it
	// from Entries and ignores this field.
	Checksum uint16

	// Warnings holds advisory conditions noticed by Parse. Never set
	// on files built in memory.
	Warnings []Warning
}

// New builds a file targeting the TI-83+/84+ family with the given
// comment and entries.
func New(comment string, entries ...Entry) *File {
	return &File{
		Signature: Signature83F,
		Comment:   NewComment(comment),
		Entries:   entries,
	}
}

// Parse decomposes a complete variable file.
//
// Structural problems (unknown signature, truncation, disagreeing
// length fields) are fatal: no partial result is returned, since a
// repaired guess at a corrupt file is worse than no file. A checksum
// mismatch alone is not structural -- the file parses and the result
// carries WarnChecksumMismatch.
//
// The returned File owns all of its bytes; data may be retained after
// the input buffer is reused.
func Parse(data []byte) (*File, error) {
	var h fileHeader
	if err := h.UnmarshalBytes(data); err != nil {
		return nil, err
	}

	body := data[headerSize:]
	declared := int(h.dataLen)
	if len(body) < declared+checksumSize {
		return nil, fmt.Errorf("%w: header declares %d data bytes plus checksum, %d remain", ErrTruncatedFile, declared, len(body))
	}

	f := &File{
		Signature: h.signature,
		Comment:   h.comment,
	}

	section := body[:declared]
	for off := 0; off < len(section); {
		e, n, err := decodeEntry(section[off:])
		if err != nil {
			return nil, fmt.Errorf("entry at offset %d: %w", headerSize+off, err)
		}
		f.Entries = append(f.Entries, e)
		off += n
	}

	f.Checksum = binary.LittleEndian.Uint16(body[declared : declared+checksumSize])
	if computed := checksum(section); computed != f.Checksum {
		f.Warnings = append(f.Warnings, WarnChecksumMismatch)
	}

	// Bytes past the checksum are ignored, matching what calculators
	// and link software tolerate.
	return f, nil
}

// MarshalBinary serializes the file as one contiguous buffer: header,
// data section, checksum. A zero Signature is written as Signature83F.
//
// Encoding is all-or-nothing: an oversized name or entry fails before
// any bytes are produced.
func (f *File) MarshalBinary() ([]byte, error) {
	dataLen := 0
	for i := range f.Entries {
		e := &f.Entries[i]
		if len(e.Name) > MaxNameLen {
			return nil, fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, e.Name, len(e.Name))
		}
		if len(e.Data) > maxDataLen {
			return nil, fmt.Errorf("%w: %d bytes of data for %q", ErrEntryTooLarge, len(e.Data), e.Name)
		}
		dataLen += e.encodedSize()
	}
	if dataLen > maxDataLen {
		return nil, fmt.Errorf("%w: %d bytes across %d entries", ErrFileTooLarge, dataLen, len(f.Entries))
	}

	sig := f.Signature
	if sig == (Signature{}) {
		sig = Signature83F
	}

	h := fileHeader{
		signature: sig,
		comment:   f.Comment,
		dataLen:   uint16(dataLen),
	}

	buf := make([]byte, 0, headerSize+dataLen+checksumSize)
	buf = h.appendTo(buf)
	for i := range f.Entries {
		var err error
		if buf, err = appendEntry(buf, &f.Entries[i]); err != nil {
			return nil, err
		}
	}
	return binary.LittleEndian.AppendUint16(buf, checksum(buf[headerSize:])), nil
}
