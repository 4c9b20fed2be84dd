// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import "errors"

var (
	// ErrInvalidSignature means a file's first 8 bytes match no known
	// calculator family signature.
	ErrInvalidSignature = errors.New("unrecognized file signature")
	// ErrTruncatedFile means a file ends before its declared contents do.
	ErrTruncatedFile = errors.New("file shorter than declared contents")
	// ErrMalformedEntry means the data section ends partway through a
	// variable entry.
	ErrMalformedEntry = errors.New("malformed variable entry")
	// ErrLengthMismatch means an entry's two length fields disagree.
	ErrLengthMismatch = errors.New("entry length fields disagree")
	// ErrNameTooLong means a variable name exceeds 8 bytes. Names are
	// never silently truncated: a shortened name is a different variable.
	ErrNameTooLong = errors.New("variable name too long")
	// ErrEntryTooLarge means a single entry's data doesn't fit its
	// 16-bit length fields.
	ErrEntryTooLarge = errors.New("variable data too large")
	// ErrFileTooLarge means the combined data section doesn't fit the
	// header's 16-bit length field.
	ErrFileTooLarge = errors.New("data section too large")
)
