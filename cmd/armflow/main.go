// Command armflow is the ARM reverse-engineering workbench CLI: it
// loads a TOML session (see package config) and drives the
// code-flow analyzer, the instruction emulator, and the CFG layout
// engine over it.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("armflow failed")
		os.Exit(1)
	}
}
