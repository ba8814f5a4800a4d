// Package vhdtest builds fixed VHD footers and images for tests.
package vhdtest

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Field offsets within a footer.
const (
	OffsetVersion     = 12
	OffsetCurrentSize = 48
	OffsetDiskType    = 60
	OffsetChecksum    = 64
)

// Footer describes the fields of a footer to build.
type Footer struct {
	Cookie       string
	Version      uint32
	DiskType     uint32
	OriginalSize uint64
	CurrentSize  uint64
	Created      time.Time
	UniqueID     uuid.UUID
}

// Fixed returns a well-formed fixed disk footer description for a disk of
// size bytes.
func Fixed(size uint64) Footer {
	return Footer{
		Cookie:       "conectix",
		Version:      0x00010000,
		DiskType:     2,
		OriginalSize: size,
		CurrentSize:  size,
		Created:      time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
		UniqueID:     uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-0a1b2c3d4e5f"),
	}
}

type footer struct {
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

// Bytes encodes the footer with a correct checksum.
func (f Footer) Bytes() []byte {

	raw := &footer{
		Features:          0x00000002,
		FileFormatVersion: f.Version,
		DataOffset:        0xFFFFFFFFFFFFFFFF,
		TimeStamp:         uint32(f.Created.Unix() - 946684800),
		CreatorVersion:    0x00010000,
		OriginalSize:      f.OriginalSize,
		CurrentSize:       f.CurrentSize,
		DiskGeometry:      geometry(int64(f.CurrentSize)),
		DiskType:          f.DiskType,
		UniqueID:          f.UniqueID,
	}
	copy(raw.Cookie[:], f.Cookie)
	copy(raw.CreatorApplication[:], "vcli")
	copy(raw.CreatorHostOS[:], "Wi2k")

	buf := new(bytes.Buffer)
	err := binary.Write(buf, binary.BigEndian, raw)
	if err != nil {
		panic(err)
	}

	b := buf.Bytes()
	var checksum uint32
	for _, x := range b {
		checksum += uint32(x)
	}
	binary.BigEndian.PutUint32(b[OffsetChecksum:], ^checksum)

	return b
}

// geometry is the CHS algorithm from the VHD format appendix.
func geometry(size int64) uint32 {

	var cylinders, heads, sectorsPerTrack int64
	var cylinderTimesHeads int64

	totalSectors := size / 512
	if totalSectors > 65535*16*255 {
		totalSectors = 65535 * 16 * 255
	}

	if totalSectors >= 65535*16*63 {
		sectorsPerTrack = 255
		heads = 16
		cylinderTimesHeads = totalSectors / sectorsPerTrack
	} else {
		sectorsPerTrack = 17
		cylinderTimesHeads = totalSectors / sectorsPerTrack
		heads = (cylinderTimesHeads + 1023) / 1024
		if heads < 4 {
			heads = 4
		}
		if cylinderTimesHeads >= (heads*1024) || heads > 16 {
			sectorsPerTrack = 31
			heads = 16
			cylinderTimesHeads = totalSectors / sectorsPerTrack
		}
		if cylinderTimesHeads >= heads*1024 {
			sectorsPerTrack = 63
			heads = 16
			cylinderTimesHeads = totalSectors / sectorsPerTrack
		}
	}
	cylinders = cylinderTimesHeads / heads

	return uint32(cylinders<<16 | heads<<8 | sectorsPerTrack)
}

// WriteImage writes payload zero bytes followed by tail to a new temporary
// file and returns its path. The file is removed when the test ends.
func WriteImage(t testing.TB, payload int64, tail []byte) string {
	t.Helper()

	f, err := ioutil.TempFile("", "vhdprobe-test-")
	if err != nil {
		t.Fatal(err.Error())
	}
	t.Cleanup(func() {
		os.Remove(f.Name())
	})
	defer f.Close()

	err = f.Truncate(payload)
	if err != nil {
		t.Fatal(err.Error())
	}

	_, err = f.WriteAt(tail, payload)
	if err != nil {
		t.Fatal(err.Error())
	}

	return f.Name()
}
