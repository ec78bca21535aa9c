package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/vancomm/sweeper/internal/config"
)

// New builds the process logger: coloured text at debug level in
// development, JSON at info level otherwise, plus a rotating file when the
// config names one.
func New(c *config.Config) (*logrus.Logger, error) {
	return newLogger(c, os.Stderr)
}

func newLogger(c *config.Config, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	logLevel := logrus.InfoLevel
	if c.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	if c.Development() {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.LogFile.Path == "" {
		return log, nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   c.LogFile.Path,
		MaxSize:    c.LogFile.MaxSizeMB,
		MaxBackups: c.LogFile.MaxBackups,
		MaxAge:     c.LogFile.MaxAgeDays,
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, err
	}
	log.AddHook(hook)

	return log, nil
}
