package cli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vorteil/vhdprobe/pkg/elog"
)

func TestConfig(t *testing.T) {

	dir, err := ioutil.TempDir("", "vhdprobe-test-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "vhdprobe.yaml")
	err = ioutil.WriteFile(path, []byte("jobs: 3\nmatch: \"*.vhd\"\nrecursive: true\nnumbers: hex\n"), 0644)
	require.NoError(t, err)

	viper.Reset()
	defer viper.Reset()
	initConfig(path, &elog.CLI{DisableTTY: true})

	assert.Equal(t, config{
		Jobs:      3,
		Match:     "*.vhd",
		Numbers:   "hex",
		Recursive: true,
	}, currentConfig())

}

func TestConfigNotExist(t *testing.T) {

	viper.Reset()
	defer viper.Reset()
	initConfig("/does/not/exist/vhdprobe.yaml", &elog.CLI{DisableTTY: true})

	cfg := currentConfig()
	assert.Equal(t, runtime.NumCPU(), cfg.Jobs)
	assert.Equal(t, "short", cfg.Numbers)
	assert.Equal(t, "", cfg.Match)
	assert.False(t, cfg.Recursive)
	assert.False(t, cfg.JSON)

}

func TestConfigJobsFloor(t *testing.T) {

	viper.Reset()
	defer viper.Reset()
	viper.Set(configJobs, -4)

	assert.Equal(t, 1, currentConfig().Jobs)

}

func TestPrintableSize(t *testing.T) {

	defer func() { NumbersMode = 0 }()

	assert.NoError(t, SetNumbersMode("short"))
	assert.Equal(t, "1M", PrintableSize(1048576).String())
	assert.Equal(t, "1.5K", PrintableSize(1536).String())

	assert.NoError(t, SetNumbersMode(" DEC "))
	assert.Equal(t, "1048064", PrintableSize(1048064).String())

	assert.NoError(t, SetNumbersMode("hex"))
	assert.Equal(t, "0xffe00", PrintableSize(1048064).String())

	assert.Error(t, SetNumbersMode("roman"))

}
