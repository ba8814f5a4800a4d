package vhd

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskType is the disk type field of a VHD footer.
type DiskType uint32

// Disk types defined by the VHD format. Only DiskTypeFixed is supported.
const (
	DiskTypeNone         DiskType = 0
	DiskTypeFixed        DiskType = 2
	DiskTypeDynamic      DiskType = 3
	DiskTypeDifferencing DiskType = 4
)

func (t DiskType) String() string {
	switch t {
	case DiskTypeNone:
		return "none"
	case DiskTypeFixed:
		return "fixed"
	case DiskTypeDynamic:
		return "dynamic"
	case DiskTypeDifferencing:
		return "differencing"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// Geometry is the CHS geometry recorded in a footer.
type Geometry struct {
	Cylinders       uint16
	Heads           uint8
	SectorsPerTrack uint8
}

// Sectors returns the number of sectors addressable through the geometry.
func (g Geometry) Sectors() uint64 {
	return uint64(g.Cylinders) * uint64(g.Heads) * uint64(g.SectorsPerTrack)
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Cylinders, g.Heads, g.SectorsPerTrack)
}

// Footer is a decoded VHD footer. It is a snapshot: nothing ties it back to
// the file it came from.
type Footer struct {
	raw footer
}

// Features returns the raw feature bits.
func (f *Footer) Features() uint32 {
	return f.raw.Features
}

// FileFormatVersion returns the raw format version.
func (f *Footer) FileFormatVersion() uint32 {
	return f.raw.FileFormatVersion
}

// DataOffset is 0xFFFFFFFFFFFFFFFF for fixed disks.
func (f *Footer) DataOffset() uint64 {
	return f.raw.DataOffset
}

// Created returns the creation time stamp.
func (f *Footer) Created() time.Time {
	return time.Unix(int64(f.raw.TimeStamp)+epochOffset, 0).UTC()
}

// CreatorApplication returns the four character creator tag, e.g. "vpc".
func (f *Footer) CreatorApplication() string {
	return trimTag(f.raw.CreatorApplication)
}

// CreatorVersion returns the raw creator version.
func (f *Footer) CreatorVersion() uint32 {
	return f.raw.CreatorVersion
}

// CreatorHostOS returns the four character host tag, e.g. "Wi2k".
func (f *Footer) CreatorHostOS() string {
	return trimTag(f.raw.CreatorHostOS)
}

// OriginalSize returns the disk size at creation time.
func (f *Footer) OriginalSize() uint64 {
	return f.raw.OriginalSize
}

// CurrentSize returns the logical disk size.
func (f *Footer) CurrentSize() uint64 {
	return f.raw.CurrentSize
}

// Geometry decodes the disk geometry field.
func (f *Footer) Geometry() Geometry {
	g := f.raw.DiskGeometry
	return Geometry{
		Cylinders:       uint16(g >> 16),
		Heads:           uint8(g >> 8),
		SectorsPerTrack: uint8(g),
	}
}

// DiskType returns the disk type field.
func (f *Footer) DiskType() DiskType {
	return DiskType(f.raw.DiskType)
}

// Checksum returns the stored checksum.
func (f *Footer) Checksum() uint32 {
	return f.raw.Checksum
}

// UniqueID returns the disk identifier.
func (f *Footer) UniqueID() uuid.UUID {
	return uuid.UUID(f.raw.UniqueID)
}

// SavedState reports whether the disk was in a saved state.
func (f *Footer) SavedState() bool {
	return f.raw.SavedState != 0
}

func trimTag(tag [4]byte) string {
	return strings.TrimRight(string(tag[:]), " \x00")
}
