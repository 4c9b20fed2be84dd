// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_RoundTrip(t *testing.T) {
	origH := fileHeader{
		signature: Signature83F,
		comment:   NewComment("round trip me"),
		dataLen:   1234,
	}

	headerBytes := origH.appendTo(nil)
	require.Equal(t, headerSize, len(headerBytes))

	var newH fileHeader
	err := newH.UnmarshalBytes(headerBytes)
	require.NoError(t, err)
	assert.Equal(t, origH, newH)

	// every known signature should parse
	for _, sig := range knownSignatures {
		h := fileHeader{signature: sig}
		var got fileHeader
		err := got.UnmarshalBytes(h.appendTo(nil))
		require.NoError(t, err)
		assert.Equal(t, sig, got.signature)
	}
}

func TestFileHeader_Errors(t *testing.T) {
	var h fileHeader

	// too short for a signature
	err := h.UnmarshalBytes([]byte("**TI"))
	assert.ErrorIs(t, err, ErrTruncatedFile)

	err = h.UnmarshalBytes(nil)
	assert.ErrorIs(t, err, ErrTruncatedFile)

	// full signature, nothing else
	err = h.UnmarshalBytes(Signature83F[:])
	assert.ErrorIs(t, err, ErrTruncatedFile)

	// bad magic should be an error regardless of what follows
	bad := fileHeader{
		signature: Signature{'*', '*', 'T', 'I', '9', '9', '*', '*'},
		dataLen:   3,
	}
	err = h.UnmarshalBytes(bad.appendTo(nil))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestComment_Padding(t *testing.T) {
	c := NewComment("test")
	assert.Equal(t, "test", c.String())
	assert.Equal(t, byte(0), c[4])
	assert.Equal(t, byte(0), c[commentSize-1])

	// overlong comments truncate silently and do not round-trip
	long := "this comment is longer than the forty-two bytes the field holds"
	c = NewComment(long)
	assert.Equal(t, long[:commentSize], c.String())

	// padding read from a file is preserved verbatim, including
	// non-zero padding some tools emit
	var raw Comment
	copy(raw[:], "spaces")
	for i := 6; i < commentSize; i++ {
		raw[i] = ' '
	}
	h := fileHeader{signature: Signature83F, comment: raw}
	var got fileHeader
	require.NoError(t, got.UnmarshalBytes(h.appendTo(nil)))
	assert.Equal(t, raw, got.comment)
}
