package cli

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vorteil/vhdprobe/pkg/elog"
)

var log elog.View = &elog.CLI{}

var (
	flagJSON      bool
	flagVerbose   bool
	flagDebug     bool
	flagConfig    string
	flagJobs      int
	flagMatch     string
	flagNumbers   string
	flagRecursive bool
)

// setupLogging points logrus at the right formatter and returns the view
// commands should log through.
func setupLogging(out io.Writer, json, verbose, debug bool) *elog.CLI {

	logger := &elog.CLI{}

	if json {
		logger.DisableTTY = true
		logrus.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetOutput(out)
	} else {
		logrus.SetFormatter(logger)
	}

	logrus.SetLevel(logrus.TraceLevel)

	if debug {
		logger.IsDebug = true
		logger.IsVerbose = true
	} else if verbose {
		logger.IsVerbose = true
	}

	return logger
}

// InitializeCommands attaches flags and subcommands to RootCommand. Call it
// once before RootCommand.Execute.
func InitializeCommands() {

	// errors raised before PersistentPreRunE still go through elog
	log = setupLogging(os.Stderr, false, false, false)

	// setup logging across all commands
	RootCommand.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	RootCommand.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "enable debug output")
	RootCommand.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "enable json output")
	RootCommand.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is $HOME/vhdprobe.yaml)")

	detectCmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "walk directories and check every file inside them")
	detectCmd.Flags().StringVarP(&flagMatch, "match", "m", "", "only check files whose names match this glob when walking directories")
	detectCmd.Flags().IntVarP(&flagJobs, "jobs", "J", 0, "number of files to check at once (default is the number of CPUs)")
	addNumbersFlag(detectCmd)
	addNumbersFlag(inspectCmd)

	bindFlag(configJSON, RootCommand.PersistentFlags().Lookup("json"))
	bindFlag(configRecursive, detectCmd.Flags().Lookup("recursive"))
	bindFlag(configMatch, detectCmd.Flags().Lookup("match"))
	bindFlag(configJobs, detectCmd.Flags().Lookup("jobs"))

	RootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {

		log = setupLogging(cmd.OutOrStdout(), flagJSON, flagVerbose, flagDebug)

		initConfig(flagConfig, log)

		if viper.GetBool(configJSON) && !flagJSON {
			log = setupLogging(cmd.OutOrStdout(), true, flagVerbose, flagDebug)
		}

		numbers := viper.GetString(configNumbers)
		if f := cmd.Flags().Lookup("numbers"); f != nil && f.Changed {
			numbers = flagNumbers
		}

		return SetNumbersMode(numbers)
	}

	// Here we define some hidden top-level shortcuts.
	RootCommand.AddCommand(commandShortcut(detectCmd))
	RootCommand.AddCommand(commandShortcut(inspectCmd))

	// Here is the visible command structure definition.
	RootCommand.AddCommand(vhdCmd)
	RootCommand.AddCommand(versionCmd)

	vhdCmd.AddCommand(detectCmd)
	vhdCmd.AddCommand(inspectCmd)
}

func addNumbersFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagNumbers, "numbers", "short", "number format: 'short', 'dec', or 'hex'")
}

func commandShortcut(cmd *cobra.Command) *cobra.Command {
	c := *cmd
	c.Aliases = []string{}
	c.Hidden = true
	return &c
}

// RootCommand is the vhdprobe command.
var RootCommand = &cobra.Command{
	Use:   "vhdprobe",
	Short: "Identify fixed VHD disk images",
	Long: `vhdprobe examines files and reports whether each one is a well-formed fixed
size Virtual Hard Disk (VHD) image, and if so the size of the disk it holds.
Files are identified by their content alone, never by their names.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var vhdCmd = &cobra.Command{
	Use:   "vhd",
	Short: "Commands for examining VHD disk images",
	Long: `These commands read the 512 byte footer at the end of a file to decide whether
it is a fixed VHD. They never modify the files they are given.`,
	Aliases: []string{"disks", "images"},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of vhdprobe",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if commit == "" {
			log.Printf("vhdprobe %s (%s)", release, date)
			return
		}
		log.Printf("vhdprobe %s (%s, %s)", release, commit, date)
	},
}
