package vhd

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Status is the classification produced by Detect.
type Status int

// Statuses, in the order the checks that produce them are applied.
const (
	NotCandidate Status = iota
	UnsupportedVersion
	UnsupportedType
	ChecksumMismatch
	SizeInconsistent
	Valid
)

var statuses = map[Status]string{
	NotCandidate:       "not-candidate",
	UnsupportedVersion: "unsupported-version",
	UnsupportedType:    "unsupported-type",
	ChecksumMismatch:   "checksum-mismatch",
	SizeInconsistent:   "size-inconsistent",
	Valid:              "valid",
}

// AllStatusStrings returns the names of every Status, sorted.
func AllStatusStrings() []string {
	strs := make([]string, 0, len(statuses))
	for _, v := range statuses {
		strs = append(strs, v)
	}
	sort.Strings(strs)
	return strs
}

func (x Status) String() string {
	if s, ok := statuses[x]; ok {
		return s
	}
	return fmt.Sprintf("status(%d)", int(x))
}

// MarshalText implements encoding.TextMarshaler.
func (x Status) MarshalText() (text []byte, err error) {
	if _, ok := statuses[x]; !ok {
		return nil, fmt.Errorf("invalid vhd status %d", int(x))
	}
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Status) UnmarshalText(text []byte) error {
	var err error
	*x, err = ParseStatus(string(text))
	if err != nil {
		return err
	}
	return nil
}

// ParseStatus resolves a string into a Status.
func ParseStatus(s string) (Status, error) {

	original := s

	s = strings.TrimSpace(s)
	s = strings.ToLower(s)

	for k, v := range statuses {
		if v == s {
			return k, nil
		}
	}

	return NotCandidate, fmt.Errorf("unrecognized vhd status '%s'", original)

}

// Result is the outcome of a single detection. Size is only meaningful when
// Status is Valid, in which case it is the logical size of the disk in bytes.
type Result struct {
	Status Status
	Size   uint64
}

// Valid reports whether the result identifies a well-formed fixed VHD.
func (r Result) Valid() bool {
	return r.Status == Valid
}

func (r Result) String() string {
	if r.Valid() {
		return fmt.Sprintf("%s (%d bytes)", r.Status, r.Size)
	}
	return r.Status.String()
}

type jsonResult struct {
	Status Status `json:"status"`
	Size   uint64 `json:"size"`
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonResult(r))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var x jsonResult
	err := json.Unmarshal(data, &x)
	if err != nil {
		return err
	}
	*r = Result(x)
	return nil
}
