// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package tifile reads and writes the variable files used by TI-8x
// graphing calculators to exchange programs, typed variables, and
// pictures with a host computer. Variable contents are opaque bytes
// tagged with a type and a name; this package handles structure only.
//
// A variable file looks like (all integers little-endian):
//
//	┌────────────────────────────────┐
//	│ 0      8   signature           │
//	│ 8     42   comment             │
//	│ 50     2   data length (u16)   │
//	├────────────────────────────────┤
//	│ 52     N   data section:       │
//	│            variable entries    │
//	├────────────────────────────────┤
//	│ 52+N   2   checksum (u16)      │
//	└────────────────────────────────┘
//
// Each entry within the data section starts with a fixed 15-byte header
// and is variable length:
//
//	 0    1    2    3    4    5    6    7
//	+----+----+----+----+----+----+----+----+
//	|len      |type| name...                |
//	+----+----+----+----+----+----+----+----+
//	| name...           |ver |flag|len      |
//	+----+----+----+----+----+----+----+----+
//	| data...                               |
//	+----+----+----+----+----+----+----+----+
//
// The entry length appears twice and both copies must equal the actual
// data length; the file checksum is the 16-bit truncated sum of every
// data-section byte. Neither is cryptographic -- they detect accidental
// corruption only.
//
// Refer to the TI link protocol & file format guide
// (https://www.ticalc.org/archives/files/fileinfo/247/24750.html) for
// background on the formats.
package tifile
