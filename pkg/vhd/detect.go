package vhd

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Errors returned alongside, never instead of, a classification.
var (
	ErrShortRead = errors.New("short read of vhd footer")
	ErrNoFooter  = errors.New("vhd footer not found")
)

// Source is an open file that can be stat'd, such as an *os.File.
type Source interface {
	io.ReadSeeker
	Stat() (os.FileInfo, error)
}

// DetectFile classifies src, which must not be used concurrently while the
// call is in progress. Anything other than a regular file is NotCandidate.
func DetectFile(src Source) (Result, error) {

	fi, err := src.Stat()
	if err != nil {
		return Result{}, errors.Wrap(err, "stat")
	}

	if !fi.Mode().IsRegular() {
		return Result{Status: NotCandidate}, nil
	}

	return Detect(src, fi.Size())
}

// Detect classifies the size bytes behind r as a fixed VHD or explains why it
// is not one. A non-nil error means the footer could not be read and the
// Result is meaningless. The position of r is left at the start of the file,
// except when seeking itself fails, in which case it is undefined.
func Detect(r io.ReadSeeker, size int64) (Result, error) {

	if size < FooterSize {
		return Result{Status: NotCandidate}, nil
	}

	var buf [FooterSize]byte
	err := readFooter(r, size, buf[:])
	if err != nil {
		return Result{}, err
	}

	return classify(buf[:], size)
}

// ReadFooter decodes the footer of the size bytes behind r without
// validating it. ErrNoFooter is returned if the cookie is missing.
func ReadFooter(r io.ReadSeeker, size int64) (*Footer, error) {

	if size < FooterSize {
		return nil, errors.Wrapf(ErrNoFooter, "%d bytes is too small", size)
	}

	var buf [FooterSize]byte
	err := readFooter(r, size, buf[:])
	if err != nil {
		return nil, err
	}

	if !hasCookie(buf[:]) {
		return nil, ErrNoFooter
	}

	return decodeFooter(buf[:])
}

func readFooter(r io.ReadSeeker, size int64, buf []byte) error {

	_, err := r.Seek(size-FooterSize, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "seek to vhd footer")
	}

	n, err := io.ReadFull(r, buf)
	if err != nil {
		// best effort, the read error is the one reported
		_, _ = r.Seek(0, io.SeekStart)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrShortRead, "read %d of %d bytes", n, FooterSize)
		}
		return errors.Wrap(err, "read vhd footer")
	}

	_, err = r.Seek(0, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "rewind")
	}

	return nil
}

func hasCookie(buf []byte) bool {
	return bytes.Equal(buf[:len(Cookie)], []byte(Cookie))
}

func decodeFooter(buf []byte) (*Footer, error) {
	f := new(Footer)
	err := binary.Read(bytes.NewReader(buf), binary.BigEndian, &f.raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode vhd footer")
	}
	return f, nil
}

func classify(buf []byte, size int64) (Result, error) {

	// Nothing past the cookie means anything until it matches.
	if !hasCookie(buf) {
		return Result{Status: NotCandidate}, nil
	}

	f, err := decodeFooter(buf)
	if err != nil {
		return Result{}, err
	}

	if f.raw.FileFormatVersion != FileFormatVersion {
		return Result{Status: UnsupportedVersion}, nil
	}

	if DiskType(f.raw.DiskType) != DiskTypeFixed {
		return Result{Status: UnsupportedType}, nil
	}

	if f.raw.Checksum != Checksum(buf) {
		return Result{Status: ChecksumMismatch}, nil
	}

	if f.raw.CurrentSize > uint64(size-FooterSize) {
		return Result{Status: SizeInconsistent}, nil
	}

	return Result{Status: Valid, Size: f.raw.CurrentSize}, nil
}
