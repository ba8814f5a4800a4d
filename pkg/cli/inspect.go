package cli

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vorteil/vhdprobe/pkg/vhd"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Print the fields of a VHD footer",
	Long: `Print every field of the footer at the end of PATH alongside the result of
checking it. Footers that fail the checks are still printed, as long as they
carry the VHD cookie.`,
	Aliases: []string{"stat"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		path := args[0]

		f, regular, err := openTarget(path)
		if err != nil {
			return err
		}
		if !regular {
			SetError(nil, exitCodes[vhd.NotCandidate])
			log.Printf("%s: not a VHD", path)
			return nil
		}
		defer f.Close()

		res, err := vhd.DetectFile(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		SetError(nil, exitCode([]report{{Path: path, Result: res}}))

		if res.Status == vhd.NotCandidate {
			log.Printf("%s: not a VHD", path)
			return nil
		}

		fi, err := f.Stat()
		if err != nil {
			return err
		}

		footer, err := vhd.ReadFooter(f, fi.Size())
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		vals := [][]string{{"FIELD", "VALUE"}, {"Status", res.Status.String()}}
		vals = append(vals, footerTable(footer)...)
		PlainTable(cmd.OutOrStdout(), vals)

		return nil
	},
}

func footerTable(f *vhd.Footer) [][]string {
	version := f.FileFormatVersion()
	return [][]string{
		{"Features", fmt.Sprintf("0x%08x", f.Features())},
		{"Version", fmt.Sprintf("%d.%d", version>>16, version&0xFFFF)},
		{"Data Offset", fmt.Sprintf("%#x", f.DataOffset())},
		{"Created", f.Created().Format(time.RFC3339)},
		{"Creator", fmt.Sprintf("%s 0x%08x (%s)", f.CreatorApplication(), f.CreatorVersion(), f.CreatorHostOS())},
		{"Original Size", PrintableSize(f.OriginalSize()).String()},
		{"Current Size", PrintableSize(f.CurrentSize()).String()},
		{"Geometry", f.Geometry().String()},
		{"Disk Type", f.DiskType().String()},
		{"Checksum", fmt.Sprintf("0x%08x", f.Checksum())},
		{"Unique ID", f.UniqueID().String()},
		{"Saved State", fmt.Sprintf("%t", f.SavedState())},
	}
}
