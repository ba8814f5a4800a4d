package cli

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudfoundry/bytefmt"
	"github.com/sisatech/tablewriter"
)

var (
	release = "0.0.0"
	commit  = ""
	date    = "Thu, 01 Jan 1970 00:00:00 +0000"
)

// Each command executed may have a error message and status code
var errorStatusCode int
var errorStatusMessage error

// SetError sets the global variables for when the process exits to display accordingly
func SetError(err error, code int) {
	errorStatusCode = code
	errorStatusMessage = err
}

// HandleErrors logs the recorded error, if any, and exits with the recorded
// status code. It is meant to be deferred first thing in main.
func HandleErrors() {
	if errorStatusMessage != nil {
		log.Errorf("%v", errorStatusMessage)
	}
	if errorStatusCode != 0 {
		os.Exit(errorStatusCode)
	}
}

// NumbersMode determines how PrintableSize values are formatted:
// 0 short, 1 decimal, 2 hexadecimal.
var NumbersMode int

// SetNumbersMode parses one of 'short', 'dec', or 'hex' into NumbersMode.
func SetNumbersMode(s string) error {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	switch s {
	case "", "short":
		NumbersMode = 0
	case "dec", "decimal":
		NumbersMode = 1
	case "hex", "hexadecimal":
		NumbersMode = 2
	default:
		return fmt.Errorf("numbers mode must be one of 'dec', 'hex', or 'short'")
	}
	return nil
}

// PrintableSize is a wrapper around uint64 to alter its string formatting behaviour.
type PrintableSize uint64

// String returns a string representation of the PrintableSize, formatted according to the global NumbersMode.
func (c PrintableSize) String() string {
	switch NumbersMode {
	case 0:
		return bytefmt.ByteSize(uint64(c))
	case 1:
		return fmt.Sprintf("%d", uint64(c))
	case 2:
		return fmt.Sprintf("%#x", uint64(c))
	default:
		panic("invalid NumbersMode")
	}
}

// PlainTable prints data in a grid, handling alignment automatically. The
// first row is the header.
func PlainTable(w io.Writer, vals [][]string) {
	if len(vals) == 0 {
		panic(errors.New("no rows provided"))
	}

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetHeader(vals[0])
	for i := 1; i < len(vals); i++ {
		table.Append(vals[i])
	}

	table.Render()
}
