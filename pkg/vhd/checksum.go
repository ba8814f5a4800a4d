package vhd

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

// Checksum returns the one's complement of the byte sum of footer, counting
// the stored checksum field as zero. footer is not modified.
func Checksum(footer []byte) uint32 {

	var checksum uint32

	for i, x := range footer {
		if i >= checksumOffset && i < checksumOffset+checksumSize {
			continue
		}
		checksum += uint32(x)
	}

	return ^checksum
}
