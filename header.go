// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	signatureSize = 8
	commentSize   = 42
	// signature + comment + 16-bit data section length
	headerSize   = signatureSize + commentSize + 2
	checksumSize = 2
)

// Signature is the fixed magic-byte prefix identifying the calculator
// family a file targets.
type Signature [signatureSize]byte

var (
	// Signature83F marks TI-83+/TI-84+ family files (8xp, 8xv, ...).
	Signature83F = Signature{'*', '*', 'T', 'I', '8', '3', 'F', '*'}
	// Signature83 marks original TI-83 files.
	Signature83 = Signature{'*', '*', 'T', 'I', '8', '3', '*', '*'}
	// Signature82 marks TI-82 files.
	Signature82 = Signature{'*', '*', 'T', 'I', '8', '2', '*', '*'}
)

var knownSignatures = []Signature{Signature83F, Signature83, Signature82}

func (s Signature) known() bool {
	for _, k := range knownSignatures {
		if s == k {
			return true
		}
	}
	return false
}

func (s Signature) String() string {
	return string(s[:])
}

// Comment is the free-text field of a file header. It holds raw bytes:
// no charset is enforced, and padding bytes read from a file are kept
// verbatim so a re-encode is byte-identical.
type Comment [commentSize]byte

// NewComment pads text with zero bytes to the fixed width, silently
// truncating if it is too long. Callers that need the full text back
// must keep it under 42 bytes themselves.
func NewComment(text string) Comment {
	var c Comment
	copy(c[:], text)
	return c
}

// String returns the comment with trailing padding removed.
func (c Comment) String() string {
	return string(bytes.TrimRight(c[:], "\x00"))
}

type fileHeader struct {
	signature Signature
	comment   Comment
	dataLen   uint16
}

func (h *fileHeader) appendTo(dst []byte) []byte {
	dst = append(dst, h.signature[:]...)
	dst = append(dst, h.comment[:]...)
	return binary.LittleEndian.AppendUint16(dst, h.dataLen)
}

func (h *fileHeader) UnmarshalBytes(headerBytes []byte) error {
	if len(headerBytes) < signatureSize {
		return fmt.Errorf("%w: %d bytes is too short for a signature", ErrTruncatedFile, len(headerBytes))
	}

	copy(h.signature[:], headerBytes[:signatureSize])
	if !h.signature.known() {
		return fmt.Errorf("%w: %q", ErrInvalidSignature, h.signature[:])
	}

	if len(headerBytes) < headerSize {
		return fmt.Errorf("%w: header is %d bytes, need %d", ErrTruncatedFile, len(headerBytes), headerSize)
	}

	copy(h.comment[:], headerBytes[signatureSize:signatureSize+commentSize])
	h.dataLen = binary.LittleEndian.Uint16(headerBytes[signatureSize+commentSize : headerSize])

	// h.dataLen is checked against the actual data section by Parse,
	// which has the rest of the file in hand.
	return nil
}
