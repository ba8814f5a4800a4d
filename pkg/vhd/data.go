package vhd

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

// FooterSize is the length of the footer at the end of every VHD.
const FooterSize = 512

// Cookie identifies a VHD footer.
const Cookie = "conectix"

// FileFormatVersion is the only footer version understood by this package.
const FileFormatVersion = 0x00010000

const (
	checksumOffset = 64
	checksumSize   = 4
	epochOffset    = 946684800 // 2000 offset
)

type footer struct { // 512 bytes
	Cookie             [8]byte
	Features           uint32
	FileFormatVersion  uint32
	DataOffset         uint64
	TimeStamp          uint32
	CreatorApplication [4]byte
	CreatorVersion     uint32
	CreatorHostOS      [4]byte
	OriginalSize       uint64
	CurrentSize        uint64
	DiskGeometry       uint32
	DiskType           uint32
	Checksum           uint32
	UniqueID           [16]byte
	SavedState         byte
	Reserved           [427]byte
}
