// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bundle packs variable files into the b83/b84 bundle format
// understood by TI Connect CE for multi-file transfers.
//
// A bundle is a zip archive holding regular variable files plus two
// bookkeeping entries: METADATA, a plain-text list of key:value fields,
// and _CHECKSUM, the hex-formatted wrapping sum of every other entry's
// uncompressed CRC32. Entry order matters to link software: variable
// files first, then METADATA, then _CHECKSUM.
//
// The package is an adapter over the archive library. It never
// inspects variable-file bytes; use the tifile package on whatever
// Unpack returns.
package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/calctools/tifile"
)

// Error wraps a failure from the archive layer (or a violated bundle
// convention). Archive-format details are opaque to callers here;
// Unwrap exposes the underlying error for those that care.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "bundle: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind selects the bundle flavor. TI Connect may refuse to transfer a
// bundle whose kind doesn't match the target calculator, but the file
// contents are otherwise identical.
type Kind int

const (
	// B83 targets the TI-83 Premium CE (.b83).
	B83 Kind = iota
	// B84 targets the TI-84 Plus CE (.b84).
	B84
)

// FileExtension returns the extension customarily given to bundles of
// this kind, without the leading dot.
func (k Kind) FileExtension() string {
	if k == B83 {
		return "b83"
	}
	return "b84"
}

func (k Kind) deviceName() string {
	if k == B83 {
		return "83CE"
	}
	return "84CE"
}

const (
	metadataName = "METADATA"
	checksumName = "_CHECKSUM"

	identifier    = "TI Bundle"
	formatVersion = "1"
)

// Pack stores named byte blobs in a fresh archive. It is the generic
// half of the format: no METADATA or _CHECKSUM entries are written and
// the blobs are not inspected. Entries are written in sorted name
// order so packing a map is deterministic.
func Pack(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, &Error{Op: "create " + name, Err: err}
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, &Error{Op: "write " + name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &Error{Op: "close", Err: err}
	}
	return buf.Bytes(), nil
}

// Unpack extracts every entry of an archive into a name -> bytes
// mapping, bookkeeping entries included.
func Unpack(archive []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	files := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, &Error{Op: "open " + zf.Name, Err: err}
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, &Error{Op: "read " + zf.Name, Err: err}
		}
		files[zf.Name] = b
	}
	return files, nil
}

// Builder accumulates variables for a single bundle. Each added entry
// becomes its own complete variable file within the archive, named
// NAME.<ext> after the variable and its type.
type Builder struct {
	kind     Kind
	comments string
	names    []string
	blobs    [][]byte
}

// NewBuilder starts an empty bundle of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{
		kind:     kind,
		comments: "Generated by tifile",
	}
}

// SetComments overrides the free-text bundle_comments metadata field.
func (b *Builder) SetComments(comments string) {
	b.comments = comments
}

// Add serializes one variable into the bundle.
func (b *Builder) Add(e tifile.Entry) error {
	blob, err := tifile.New(b.comments, e).MarshalBinary()
	if err != nil {
		return err
	}
	b.names = append(b.names, e.Name+"."+e.Type.FileExtension())
	b.blobs = append(b.blobs, blob)
	return nil
}

// AddFile includes an already-serialized variable file under the given
// entry name. The bytes are stored as-is.
func (b *Builder) AddFile(name string, blob []byte) {
	b.names = append(b.names, name)
	b.blobs = append(b.blobs, append([]byte(nil), blob...))
}

// Bytes assembles the archive: variable files in the order added, then
// METADATA, then _CHECKSUM.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// _CHECKSUM holds the wrapping sum of each prior entry's
	// uncompressed CRC32, METADATA included.
	var crcSum uint32
	writeEntry := func(name string, data []byte) error {
		crcSum += crc32.ChecksumIEEE(data)
		w, err := zw.Create(name)
		if err != nil {
			return &Error{Op: "create " + name, Err: err}
		}
		if _, err := w.Write(data); err != nil {
			return &Error{Op: "write " + name, Err: err}
		}
		return nil
	}

	for i, name := range b.names {
		if err := writeEntry(name, b.blobs[i]); err != nil {
			return nil, err
		}
	}

	metadata := "bundle_identifier:" + identifier + "\n" +
		"bundle_format_version:" + formatVersion + "\n" +
		"bundle_target_device:" + b.kind.deviceName() + "\n" +
		"bundle_target_type:CUSTOM\n" +
		"bundle_comments:" + b.comments + "\n"
	if err := writeEntry(metadataName, []byte(metadata)); err != nil {
		return nil, err
	}

	w, err := zw.Create(checksumName)
	if err != nil {
		return nil, &Error{Op: "create " + checksumName, Err: err}
	}
	if _, err := fmt.Fprintf(w, "%x", crcSum); err != nil {
		return nil, &Error{Op: "write " + checksumName, Err: err}
	}

	if err := zw.Close(); err != nil {
		return nil, &Error{Op: "close", Err: err}
	}
	return buf.Bytes(), nil
}

// Metadata is the parsed METADATA entry of a bundle.
type Metadata struct {
	Identifier    string
	FormatVersion string
	TargetDevice  string
	TargetType    string
	Comments      string
}

// Bundle is the decomposed content of a b83/b84 archive.
type Bundle struct {
	Metadata Metadata

	// Files maps entry name to complete variable-file bytes, in no
	// particular order. Parse each with tifile.Parse as needed.
	Files map[string][]byte

	// ChecksumMismatch is set when the _CHECKSUM entry disagrees with
	// the recomputed CRC sum. Like a variable file's own checksum this
	// is advisory: the contained files were extracted intact.
	ChecksumMismatch bool
}

// Read decomposes a bundle, verifying its conventions: a METADATA
// entry must be present and _CHECKSUM, if present, is recomputed over
// the other entries in archive order.
func Read(archive []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}

	b := &Bundle{Files: make(map[string][]byte)}
	var crcSum uint32
	var claimed string
	sawMetadata := false

	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, &Error{Op: "open " + zf.Name, Err: err}
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, &Error{Op: "read " + zf.Name, Err: err}
		}

		switch zf.Name {
		case checksumName:
			claimed = strings.TrimSpace(string(data))
		case metadataName:
			sawMetadata = true
			b.Metadata = parseMetadata(string(data))
			crcSum += crc32.ChecksumIEEE(data)
		default:
			b.Files[zf.Name] = data
			crcSum += crc32.ChecksumIEEE(data)
		}
	}

	if !sawMetadata {
		return nil, &Error{Op: "read " + metadataName, Err: errors.New("entry missing")}
	}
	if claimed != "" {
		want, err := strconv.ParseUint(claimed, 16, 32)
		if err != nil || uint32(want) != crcSum {
			b.ChecksumMismatch = true
		}
	}
	return b, nil
}

func parseMetadata(text string) Metadata {
	var m Metadata
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch key {
		case "bundle_identifier":
			m.Identifier = value
		case "bundle_format_version":
			m.FormatVersion = value
		case "bundle_target_device":
			m.TargetDevice = value
		case "bundle_target_type":
			m.TargetType = value
		case "bundle_comments":
			m.Comments = value
		}
	}
	return m
}
