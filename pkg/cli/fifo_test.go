// +build !windows

package cli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorteil/vhdprobe/pkg/vhd"
)

func mkfifo(t *testing.T) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "vhdprobe-test-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "pipe")
	require.NoError(t, syscall.Mkfifo(path, 0600))
	return path
}

// within fails the test if fn has not returned after d.
func within(t *testing.T, d time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("still blocked after %v", d)
	}
}

func TestDetectFIFO(t *testing.T) {

	path := mkfifo(t)

	var res vhd.Result
	var err error
	within(t, 3*time.Second, func() {
		res, err = detectPath(path)
	})

	assert.NoError(t, err)
	assert.Equal(t, vhd.Result{Status: vhd.NotCandidate}, res)

}

func TestInspectFIFO(t *testing.T) {

	path := mkfifo(t)

	var logs string
	var err error
	within(t, 3*time.Second, func() {
		_, logs, err = execute(t, "inspect", path)
	})

	assert.NoError(t, err)
	assert.Equal(t, exitCodes[vhd.NotCandidate], errorStatusCode)
	assert.Contains(t, logs, "not a VHD")

}
