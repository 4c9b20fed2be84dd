// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// VariableType identifies the kind of data a variable holds.
//
// The values correspond to the *Obj constants from ti83plus.inc and
// match the type byte stored in the VAT on a calculator. Values outside
// the known set are preserved as-is so files using future type bytes
// round-trip losslessly.
type VariableType uint8

const (
	TypeReal             VariableType = 0x00
	TypeList             VariableType = 0x01
	TypeMatrix           VariableType = 0x02
	TypeEquation         VariableType = 0x03
	TypeString           VariableType = 0x04
	TypeProgram          VariableType = 0x05
	TypeProtectedProgram VariableType = 0x06
	TypePicture          VariableType = 0x07
	TypeGDB              VariableType = 0x08
	TypeUnknown          VariableType = 0x09
	TypeUnknownEquation  VariableType = 0x0a
	TypeNewEquation      VariableType = 0x0b
	TypeComplex          VariableType = 0x0c
	TypeComplexList      VariableType = 0x0d
	TypeUndefined        VariableType = 0x0e
	TypeWindow           VariableType = 0x0f
	TypeZoom             VariableType = 0x10
	TypeTableSetup       VariableType = 0x11
	TypeLCD              VariableType = 0x12
	TypeBackup           VariableType = 0x13
	// 0x14 (application) never appears in variable files; apps use the
	// flash file format instead.
	TypeAppVar           VariableType = 0x15
	TypeTemporaryProgram VariableType = 0x16
	TypeGroup            VariableType = 0x17
)

var typeNames = map[VariableType]string{
	TypeReal:             "Real",
	TypeList:             "List",
	TypeMatrix:           "Matrix",
	TypeEquation:         "Equation",
	TypeString:           "String",
	TypeProgram:          "Program",
	TypeProtectedProgram: "ProtectedProgram",
	TypePicture:          "Picture",
	TypeGDB:              "GDB",
	TypeUnknown:          "Unknown",
	TypeUnknownEquation:  "UnknownEquation",
	TypeNewEquation:      "NewEquation",
	TypeComplex:          "Complex",
	TypeComplexList:      "ComplexList",
	TypeUndefined:        "Undefined",
	TypeWindow:           "Window",
	TypeZoom:             "Zoom",
	TypeTableSetup:       "TableSetup",
	TypeLCD:              "LCD",
	TypeBackup:           "Backup",
	TypeAppVar:           "AppVar",
	TypeTemporaryProgram: "TemporaryProgram",
	TypeGroup:            "Group",
}

func (t VariableType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("VariableType(%#x)", uint8(t))
}

// FileExtension returns the file extension customarily given to a file
// holding a single variable of this type, without the leading dot.
// Types with no customary extension get the generic "8xx".
func (t VariableType) FileExtension() string {
	switch t {
	case TypeReal:
		return "8xn"
	case TypeComplex:
		return "8xc"
	case TypeList, TypeComplexList:
		return "8xl"
	case TypeMatrix:
		return "8xm"
	case TypeEquation:
		return "8xy"
	case TypeString:
		return "8xs"
	case TypeProgram, TypeProtectedProgram:
		return "8xp"
	case TypePicture:
		return "8xi"
	case TypeGDB:
		return "8xd"
	case TypeZoom:
		return "8xz"
	case TypeTableSetup:
		return "8xt"
	case TypeAppVar:
		return "8xv"
	case TypeGroup:
		return "8xg"
	default:
		return "8xx"
	}
}

const (
	// MaxNameLen is the longest encodable variable name, in bytes.
	MaxNameLen = 8

	// two 16-bit length fields + type byte + padded name + version + flags
	entryHeaderSize = 2 + 1 + MaxNameLen + 1 + 1 + 2

	entryTypeOff    = 2
	entryNameOff    = 3
	entryVersionOff = 11
	entryFlagsOff   = 12
	entryLen2Off    = 13

	maxDataLen = (1 << 16) - 1

	// FlagArchived marks a variable for placement in flash archive
	// rather than RAM when it reaches a calculator.
	FlagArchived = 0x80
)

// Entry is one named, typed variable record within a file. Data is
// opaque to this package: programs, pictures, and the rest all pass
// through as raw bytes.
type Entry struct {
	Type    VariableType
	Name    string // at most 8 bytes; stored zero-padded on disk
	Version byte   // carried verbatim, not interpreted
	Flags   byte   // carried verbatim, see FlagArchived
	Data    []byte
}

// Archived reports whether the entry is marked for flash archive.
func (e *Entry) Archived() bool {
	return e.Flags&FlagArchived != 0
}

func (e *Entry) encodedSize() int {
	return entryHeaderSize + len(e.Data)
}

func appendEntry(dst []byte, e *Entry) ([]byte, error) {
	if len(e.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, e.Name, len(e.Name))
	}
	if len(e.Data) > maxDataLen {
		return nil, fmt.Errorf("%w: %d bytes of data for %q", ErrEntryTooLarge, len(e.Data), e.Name)
	}

	var header [entryHeaderSize]byte
	binary.LittleEndian.PutUint16(header[:2], uint16(len(e.Data)))
	header[entryTypeOff] = byte(e.Type)
	copy(header[entryNameOff:entryNameOff+MaxNameLen], e.Name)
	header[entryVersionOff] = e.Version
	header[entryFlagsOff] = e.Flags
	binary.LittleEndian.PutUint16(header[entryLen2Off:entryLen2Off+2], uint16(len(e.Data)))

	dst = append(dst, header[:]...)
	return append(dst, e.Data...), nil
}

// decodeEntry reads one entry from the front of b, returning it along
// with the number of bytes it occupied. Name and data are copied out of
// b, never aliased.
func decodeEntry(b []byte) (Entry, int, error) {
	if len(b) < entryHeaderSize {
		return Entry{}, 0, fmt.Errorf("%w: %d bytes left, need %d for an entry header", ErrMalformedEntry, len(b), entryHeaderSize)
	}

	// bounds check elimination
	_ = b[entryHeaderSize-1]
	dataLen := binary.LittleEndian.Uint16(b[:2])
	dataLen2 := binary.LittleEndian.Uint16(b[entryLen2Off : entryLen2Off+2])
	if dataLen != dataLen2 {
		return Entry{}, 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, dataLen, dataLen2)
	}

	consumed := entryHeaderSize + int(dataLen)
	if len(b) < consumed {
		return Entry{}, 0, fmt.Errorf("%w: entry declares %d data bytes but only %d remain", ErrMalformedEntry, dataLen, len(b)-entryHeaderSize)
	}

	e := Entry{
		Type:    VariableType(b[entryTypeOff]),
		Name:    string(bytes.TrimRight(b[entryNameOff:entryNameOff+MaxNameLen], "\x00")),
		Version: b[entryVersionOff],
		Flags:   b[entryFlagsOff],
		Data:    append([]byte(nil), b[entryHeaderSize:consumed]...),
	}
	return e, consumed, nil
}
