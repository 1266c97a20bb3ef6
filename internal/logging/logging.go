// Package logging sets up the engine's logger. UCI forbids writing
// anything but protocol lines to stdout, so everything here goes to
// stderr.
package logging

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("corvid")

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{shortfunc}: %{message}`,
)

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.WARNING, "")
	logging.SetBackend(leveled)
}

// SetLevel changes the verbosity of the "corvid" module. Level names
// follow go-logging's own (CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG).
func SetLevel(level string) {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		log.Warningf("unknown log level %q, leaving level unchanged", level)
		return
	}
	logging.SetLevel(lvl, "")
}

// Get returns the package logger.
func Get() *logging.Logger {
	return log
}
