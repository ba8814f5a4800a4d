package cli

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/vorteil/vhdprobe/pkg/vhd"
)

// Process exit codes. A run over several files exits with the highest code
// any of them produced.
const (
	exitOK    = 0
	exitFatal = 1
)

var exitCodes = map[vhd.Status]int{
	vhd.Valid:              exitOK,
	vhd.NotCandidate:       2,
	vhd.UnsupportedVersion: 3,
	vhd.UnsupportedType:    4,
	vhd.ChecksumMismatch:   5,
	vhd.SizeInconsistent:   6,
}

func exitCode(reports []report) int {
	code := exitOK
	for _, r := range reports {
		if c := exitCodes[r.Result.Status]; c > code {
			code = c
		}
	}
	return code
}

type report struct {
	Path   string
	Result vhd.Result
}

var detectCmd = &cobra.Command{
	Use:   "detect PATH...",
	Short: "Check whether files are fixed VHD images",
	Long: `Check whether each PATH is a well-formed fixed VHD image and print the size of
the disk it holds.

The exit status is 0 if every file is a valid fixed VHD. Otherwise it is the
highest of:

	2 not a VHD
	3 unsupported VHD version
	4 not a fixed disk
	5 footer checksum mismatch
	6 disk larger than the file backing it

An exit status of 1 means a file could not be read at all.`,
	Aliases: []string{"check"},
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		cfg := currentConfig()

		var match glob.Glob
		if cfg.Match != "" {
			var err error
			match, err = glob.Compile(cfg.Match)
			if err != nil {
				return fmt.Errorf("invalid match pattern '%s': %w", cfg.Match, err)
			}
		}

		targets, err := expandTargets(args, cfg.Recursive, match)
		if err != nil {
			return err
		}

		log.Infof("checking %d files with %d jobs", len(targets), cfg.Jobs)

		reports, err := detectTargets(context.Background(), targets, cfg.Jobs)
		if err != nil {
			return err
		}

		if cfg.JSON {
			for _, r := range reports {
				logrus.WithFields(logrus.Fields{
					"path":   r.Path,
					"status": r.Result.Status.String(),
					"size":   r.Result.Size,
				}).Info("detected")
			}
		} else {
			PlainTable(cmd.OutOrStdout(), reportTable(reports))
		}

		if code := exitCode(reports); code != exitOK {
			SetError(nil, code)
		}

		return nil
	},
}

func reportTable(reports []report) [][]string {
	vals := [][]string{{"PATH", "STATUS", "SIZE"}}
	for _, r := range reports {
		size := "-"
		if r.Result.Valid() {
			size = PrintableSize(r.Result.Size).String()
		}
		vals = append(vals, []string{r.Path, r.Result.Status.String(), size})
	}
	return vals
}

// expandTargets resolves the paths to check. Directories are walked when
// recursive is set, in which case match, if not nil, filters file names.
// Without recursive a directory is checked like any other path.
func expandTargets(paths []string, recursive bool, match glob.Glob) ([]string, error) {

	var targets []string

	for _, path := range paths {

		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !fi.IsDir() || !recursive {
			targets = append(targets, path)
			continue
		}

		err = filepath.Walk(path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if match != nil && !match.Match(info.Name()) {
				return nil
			}
			targets = append(targets, path)
			return nil
		})
		if err != nil {
			return nil, err
		}

	}

	return targets, nil
}

// detectTargets checks up to jobs files at once, each on its own handle. The
// first file that cannot be read stops the rest.
func detectTargets(ctx context.Context, targets []string, jobs int) ([]report, error) {

	reports := make([]report, len(targets))
	sem := semaphore.NewWeighted(int64(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i := range targets {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		i := i
		g.Go(func() error {
			defer sem.Release(1)
			res, err := detectPath(targets[i])
			if err != nil {
				return err
			}
			reports[i] = report{Path: targets[i], Result: res}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// openTarget opens path for reading if it is a regular file. Other files are
// never opened: opening a FIFO blocks until something writes to it.
func openTarget(path string) (*os.File, bool, error) {

	fi, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}

	if !fi.Mode().IsRegular() {
		return nil, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}

	return f, true, nil
}

func detectPath(path string) (vhd.Result, error) {

	f, regular, err := openTarget(path)
	if err != nil {
		return vhd.Result{}, err
	}
	if !regular {
		res := vhd.Result{Status: vhd.NotCandidate}
		log.Debugf("%s: %s (not a regular file)", path, res)
		return res, nil
	}
	defer f.Close()

	res, err := vhd.DetectFile(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("%s: %s", path, res)
	return res, nil
}
