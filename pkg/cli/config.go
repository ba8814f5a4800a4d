package cli

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vorteil/vhdprobe/pkg/elog"
)

const (
	configFileName = "vhdprobe"

	configJobs      = "jobs"
	configJSON      = "json"
	configMatch     = "match"
	configNumbers   = "numbers"
	configRecursive = "recursive"
)

type config struct {
	Jobs      int
	JSON      bool
	Match     string
	Numbers   string
	Recursive bool
}

func setConfigDefaults() {
	viper.SetDefault(configJobs, runtime.NumCPU())
	viper.SetDefault(configJSON, false)
	viper.SetDefault(configMatch, "")
	viper.SetDefault(configNumbers, "short")
	viper.SetDefault(configRecursive, false)
}

// reads in config file, uses defaults if not found
func initConfig(cfgFile string, log elog.View) {

	setConfigDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configFileName)
	}

	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("using config file: %s", viper.ConfigFileUsed())
		return
	}

	if cfgFile != "" {
		log.Warnf("could not read config file '%s': %v", cfgFile, err)
	} else {
		log.Debugf("%s", err.Error())
	}
	log.Debugf("using default configuration")
}

func bindFlag(key string, flag *pflag.Flag) {
	err := viper.BindPFlag(key, flag)
	if err != nil {
		panic(err)
	}
}

func currentConfig() config {
	cfg := config{
		Jobs:      viper.GetInt(configJobs),
		JSON:      viper.GetBool(configJSON),
		Match:     viper.GetString(configMatch),
		Numbers:   viper.GetString(configNumbers),
		Recursive: viper.GetBool(configRecursive),
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg
}
