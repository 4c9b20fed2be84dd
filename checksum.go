// Copyright 2026 The tifile Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package tifile

// checksum sums every byte of a data section and truncates to 16 bits,
// which is the integrity value calculators expect at the end of a file.
// The accumulator is wide enough that it can't wrap before the final
// truncation: data sections max out at 65535 bytes of 0xff.
func checksum(dataSection []byte) uint16 {
	var sum uint32
	for _, b := range dataSection {
		sum += uint32(b)
	}
	return uint16(sum)
}
