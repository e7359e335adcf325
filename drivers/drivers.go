package drivers

import (
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"plotser/config"
)

var (
	// ErrReadTimeout means no complete line arrived in time. It is not a failure, just no data yet.
	ErrReadTimeout = errors.New("read timed out")
	ErrNoPort      = errors.New("no serial port found")
	ErrNotOpen     = errors.New("source is not open")
)

// Source is a line oriented text stream.
type Source interface {
	Open() error
	// ReadLine waits at most timeout for one line, returned without its terminator.
	// It returns ErrReadTimeout if none arrived and io.EOF once the stream has ended.
	ReadLine(timeout time.Duration) (string, error)
	Close() error
	Name() string
}

// New picks the source named by the serial flags: standard input for config.STDIN, a
// Pipe for a named pipe, otherwise a serial port.
func New(flags *config.SerialFlags, logger *logrus.Logger) Source {
	switch {
	case flags.Port == config.STDIN:
		return NewStdin(logger)
	case flags.Port != config.AUTO && isFifo(flags.Port):
		return NewFifo(flags.Port, logger)
	}
	return NewSerial(flags, logger)
}

func trimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}
