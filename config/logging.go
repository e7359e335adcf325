package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. When the terminal owns stderr and no log file was
// asked for, logs are discarded so they don't tear up the plot. The returned cleanup
// closes the log file, if any.
func NewLogger(flags *LogFlags, terminalBusy bool) (*logrus.Logger, func(), error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(flags.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("--log-level: %w", err)
	}
	logger.SetLevel(level)

	if flags.File == "" {
		if terminalBusy {
			logger.SetOutput(io.Discard)
		} else {
			logger.SetOutput(os.Stderr)
		}
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(flags.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	return logger, func() { _ = f.Close() }, nil
}
