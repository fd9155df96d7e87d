// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger on dst. quiet raises the level to error.
// An unparsable level falls back to info.
func NewLogger(dst io.Writer, level string, quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(dst)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	if quiet {
		lvl = logrus.ErrorLevel
	}
	log.SetLevel(lvl)
	return log
}
