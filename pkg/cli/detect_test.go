package cli

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorteil/vhdprobe/pkg/vhd"
	"github.com/vorteil/vhdprobe/pkg/vhd/vhdtest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
}

func TestExpandTargets(t *testing.T) {

	dir, err := ioutil.TempDir("", "vhdprobe-test-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	a := filepath.Join(dir, "a.vhd")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "sub", "c.vhd")
	for _, p := range []string{a, b, c} {
		writeFile(t, p, []byte("x"))
	}

	targets, err := expandTargets([]string{dir}, false, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{dir}, targets)

	targets, err = expandTargets([]string{dir}, true, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, targets)

	targets, err = expandTargets([]string{dir}, true, glob.MustCompile("*.vhd"))
	assert.NoError(t, err)
	assert.Equal(t, []string{a, c}, targets)

	// explicit files are never filtered
	targets, err = expandTargets([]string{b}, true, glob.MustCompile("*.vhd"))
	assert.NoError(t, err)
	assert.Equal(t, []string{b}, targets)

	_, err = expandTargets([]string{filepath.Join(dir, "missing")}, false, nil)
	assert.Error(t, err)

}

func TestDetectTargets(t *testing.T) {

	dir, err := ioutil.TempDir("", "vhdprobe-test-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	valid := vhdtest.WriteImage(t, 1048064, vhdtest.Fixed(1048064).Bytes())

	dynamic := vhdtest.Fixed(4096)
	dynamic.DiskType = uint32(vhd.DiskTypeDynamic)
	unsupported := vhdtest.WriteImage(t, 4096, dynamic.Bytes())

	text := filepath.Join(dir, "notes.txt")
	writeFile(t, text, []byte(strings.Repeat("not a disk\n", 100)))

	targets := []string{valid, text, unsupported, dir}

	for _, jobs := range []int{1, 2, 8} {
		reports, err := detectTargets(context.Background(), targets, jobs)
		require.NoError(t, err)
		assert.Equal(t, []report{
			{Path: valid, Result: vhd.Result{Status: vhd.Valid, Size: 1048064}},
			{Path: text, Result: vhd.Result{Status: vhd.NotCandidate}},
			{Path: unsupported, Result: vhd.Result{Status: vhd.UnsupportedType}},
			{Path: dir, Result: vhd.Result{Status: vhd.NotCandidate}},
		}, reports, "jobs %d", jobs)
		assert.Equal(t, 4, exitCode(reports))
	}

	_, err = detectTargets(context.Background(), []string{valid, filepath.Join(dir, "missing")}, 2)
	assert.Error(t, err)

}

func TestExitCode(t *testing.T) {

	assert.Equal(t, exitOK, exitCode(nil))

	reports := []report{{Result: vhd.Result{Status: vhd.Valid}}}
	assert.Equal(t, exitOK, exitCode(reports))

	reports = append(reports, report{Result: vhd.Result{Status: vhd.SizeInconsistent}})
	reports = append(reports, report{Result: vhd.Result{Status: vhd.NotCandidate}})
	assert.Equal(t, 6, exitCode(reports))

	for status, code := range exitCodes {
		if status == vhd.Valid {
			continue
		}
		assert.NotEqual(t, exitFatal, code, status.String())
		assert.NotEqual(t, exitOK, code, status.String())
	}

}

func TestReportTable(t *testing.T) {

	NumbersMode = 1
	defer func() { NumbersMode = 0 }()

	vals := reportTable([]report{
		{Path: "a.vhd", Result: vhd.Result{Status: vhd.Valid, Size: 1048064}},
		{Path: "b.txt", Result: vhd.Result{Status: vhd.NotCandidate}},
	})

	assert.Equal(t, [][]string{
		{"PATH", "STATUS", "SIZE"},
		{"a.vhd", "valid", "1048064"},
		{"b.txt", "not-candidate", "-"},
	}, vals)

	buf := new(bytes.Buffer)
	PlainTable(buf, vals)
	assert.Contains(t, buf.String(), "a.vhd")
	assert.Contains(t, buf.String(), "1048064")
	assert.Contains(t, buf.String(), "not-candidate")

}

func TestFooterTable(t *testing.T) {

	img := vhdtest.WriteImage(t, 1<<20, vhdtest.Fixed(1<<20).Bytes())
	f, err := os.Open(img)
	require.NoError(t, err)
	defer f.Close()

	footer, err := vhd.ReadFooter(f, 1<<20+vhd.FooterSize)
	require.NoError(t, err)

	vals := footerTable(footer)
	fields := make(map[string]string)
	for _, row := range vals {
		fields[row[0]] = row[1]
	}

	assert.Equal(t, "0x00000002", fields["Features"])
	assert.Equal(t, "1.0", fields["Version"])
	assert.Equal(t, "2020-06-01T00:00:00Z", fields["Created"])
	assert.Equal(t, "vcli 0x00010000 (Wi2k)", fields["Creator"])
	assert.Equal(t, "1M", fields["Current Size"])
	assert.Equal(t, "fixed", fields["Disk Type"])
	assert.Equal(t, "6f1c2d3e-4a5b-4c6d-8e7f-0a1b2c3d4e5f", fields["Unique ID"])
	assert.Equal(t, "false", fields["Saved State"])

}
