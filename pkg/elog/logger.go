package elog

/**
 * SPDX-License-Identifier: Apache-2.0
 * Copyright 2020 vorteil.io Pty Ltd
 */

import (
	"bytes"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// View is the logging surface used by commands.
type View interface {
	Debugf(format string, x ...interface{})
	Errorf(format string, x ...interface{})
	Infof(format string, x ...interface{})
	Printf(format string, x ...interface{})
	Warnf(format string, x ...interface{})
}

// CLI is a View that writes through logrus and doubles as its formatter.
// Infof is only shown when IsVerbose is set, Debugf only when IsDebug is.
type CLI struct {
	DisableTTY bool
	IsDebug    bool
	IsVerbose  bool
}

var (
	debugPrefix = color.New(color.FgCyan).SprintFunc()
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (log *CLI) tty() bool {
	if log.DisableTTY {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Format implements logrus.Formatter.
func (log *CLI) Format(entry *logrus.Entry) ([]byte, error) {

	var prefix string
	var paint func(a ...interface{}) string

	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		prefix, paint = "DEBUG", debugPrefix
	case logrus.WarnLevel:
		prefix, paint = "WARN", warnPrefix
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		prefix, paint = "ERROR", errorPrefix
	}

	buf := new(bytes.Buffer)
	if prefix != "" {
		if log.tty() {
			prefix = paint(prefix)
		}
		buf.WriteString(prefix)
		buf.WriteString(": ")
	}

	buf.WriteString(strings.TrimSuffix(entry.Message, "\n"))
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// Debugf ..
func (log *CLI) Debugf(format string, x ...interface{}) {
	if !log.IsDebug {
		return
	}
	logrus.Debugf(format, x...)
}

// Errorf ..
func (log *CLI) Errorf(format string, x ...interface{}) {
	logrus.Errorf(format, x...)
}

// Infof ..
func (log *CLI) Infof(format string, x ...interface{}) {
	if !log.IsVerbose {
		return
	}
	logrus.Infof(format, x...)
}

// Printf always prints, without a prefix.
func (log *CLI) Printf(format string, x ...interface{}) {
	logrus.Printf(format, x...)
}

// Warnf ..
func (log *CLI) Warnf(format string, x ...interface{}) {
	logrus.Warnf(format, x...)
}
