// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_RoundTrip(t *testing.T) {
	orig := Entry{
		Type:    TypeProgram,
		Name:    "HELLO",
		Version: 1,
		Flags:   FlagArchived,
		Data:    []byte{0x01, 0x02, 0x03},
	}

	b, err := appendEntry(nil, &orig)
	require.NoError(t, err)
	require.Equal(t, orig.encodedSize(), len(b))

	got, n, err := decodeEntry(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, orig, got)
	assert.True(t, got.Archived())

	// decoded data must be a copy, not a view into the input
	b[len(b)-1] ^= 0xff
	assert.Equal(t, byte(0x03), got.Data[2])
}

func TestEntry_NameBoundary(t *testing.T) {
	e := Entry{Type: TypeAppVar, Name: "EXACTLY8"}
	b, err := appendEntry(nil, &e)
	require.NoError(t, err)

	got, _, err := decodeEntry(b)
	require.NoError(t, err)
	assert.Equal(t, "EXACTLY8", got.Name)

	e.Name = "NINELONGX"
	_, err = appendEntry(nil, &e)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestEntry_TooLarge(t *testing.T) {
	e := Entry{Type: TypeAppVar, Name: "BIG", Data: make([]byte, maxDataLen+1)}
	_, err := appendEntry(nil, &e)
	assert.ErrorIs(t, err, ErrEntryTooLarge)

	e.Data = e.Data[:maxDataLen]
	_, err = appendEntry(nil, &e)
	require.NoError(t, err)
}

func TestDecodeEntry_LengthMismatch(t *testing.T) {
	e := Entry{Type: TypeProgram, Name: "PROG", Data: make([]byte, 10)}
	b, err := appendEntry(nil, &e)
	require.NoError(t, err)

	// make the second length field disagree: 10 vs 12
	binary.LittleEndian.PutUint16(b[entryLen2Off:entryLen2Off+2], 12)
	_, _, err = decodeEntry(b)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestDecodeEntry_Truncated(t *testing.T) {
	e := Entry{Type: TypeProgram, Name: "PROG", Data: []byte{1, 2, 3, 4}}
	b, err := appendEntry(nil, &e)
	require.NoError(t, err)

	// header cut short
	_, _, err = decodeEntry(b[:entryHeaderSize-1])
	assert.ErrorIs(t, err, ErrMalformedEntry)

	// payload cut short
	_, _, err = decodeEntry(b[:len(b)-2])
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestDecodeEntry_UnknownTypeRoundTrips(t *testing.T) {
	orig := Entry{Type: VariableType(0xc3), Name: "FUTURE", Data: []byte{0xff}}
	b, err := appendEntry(nil, &orig)
	require.NoError(t, err)

	got, _, err := decodeEntry(b)
	require.NoError(t, err)
	assert.Equal(t, VariableType(0xc3), got.Type)

	again, err := appendEntry(nil, &got)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestVariableType_Strings(t *testing.T) {
	assert.Equal(t, "Program", TypeProgram.String())
	assert.Equal(t, "AppVar", TypeAppVar.String())
	assert.Equal(t, "VariableType(0xc3)", VariableType(0xc3).String())

	assert.Equal(t, "8xp", TypeProgram.FileExtension())
	assert.Equal(t, "8xp", TypeProtectedProgram.FileExtension())
	assert.Equal(t, "8xl", TypeComplexList.FileExtension())
	assert.Equal(t, "8xx", TypeLCD.FileExtension())
	assert.Equal(t, "8xx", VariableType(0xc3).FileExtension())
}
