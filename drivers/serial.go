package drivers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"plotser/config"
)

// MAX_LINE_LENGTH caps how much is buffered waiting for a newline. Longer lines are
// dropped up to and including their newline.
const MAX_LINE_LENGTH = 64 * 1024

// Arduino & clones common VIDs
var preferredVIDs = map[string]bool{
	"2341": true, // Arduino
	"2A03": true, // Arduino (older)
	"1A86": true, // CH340
	"10C4": true, // CP210x
	"0403": true, // FTDI
}

// port is the part of serial.Port we use.
type port interface {
	io.ReadCloser
	SetReadTimeout(t time.Duration) error
}

type Serial struct {
	*config.SerialFlags
	logger *logrus.Logger

	name    string
	port    port
	closed  bool
	pending []byte
	buf     []byte
	// skipping is set while the rest of an over-long line is thrown away.
	skipping bool
}

func NewSerial(serialFlags *config.SerialFlags, logger *logrus.Logger) *Serial {
	if logger == nil {
		logger = logrus.New()
	}
	return &Serial{
		SerialFlags: serialFlags,
		logger:      logger,
		name:        serialFlags.Port,
		buf:         make([]byte, 256),
	}
}

func (s *Serial) Name() string {
	return s.name
}

func (s *Serial) Open() error {
	name := s.Port
	if name == config.AUTO {
		auto, err := autoSelectPort()
		if err != nil {
			return fmt.Errorf("auto-select: %w", err)
		}
		name = auto
	}

	p, err := serial.Open(name, &serial.Mode{BaudRate: s.BaudRate})
	if err != nil {
		return fmt.Errorf("couldn't open serial %s: %w", name, err)
	}
	s.name = name
	s.port = p
	s.logger.WithFields(logrus.Fields{"port": name, "baud": s.BaudRate}).Info("connected")
	return nil
}

// ReadLine reads until a newline or until timeout runs out. Partial lines are kept for
// the next call.
func (s *Serial) ReadLine(timeout time.Duration) (string, error) {
	if s.port == nil || s.closed {
		return "", ErrNotOpen
	}

	deadline := time.Now().Add(timeout)
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			if s.skipping {
				s.skipping = false
				continue
			}
			return trimLine(line), nil
		}
		if len(s.pending) >= MAX_LINE_LENGTH {
			if !s.skipping {
				s.logger.WithField("port", s.name).Warnf("dropping line longer than %d bytes", MAX_LINE_LENGTH)
			}
			s.skipping = true
			s.pending = s.pending[:0]
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", ErrReadTimeout
		}
		if err := s.port.SetReadTimeout(remaining); err != nil {
			return "", fmt.Errorf("set read timeout: %w", err)
		}

		n, err := s.port.Read(s.buf)
		if err != nil {
			return "", fmt.Errorf("read serial %s: %w", s.name, err)
		}
		if n == 0 {
			// The port timed out.
			return "", ErrReadTimeout
		}
		s.pending = append(s.pending, s.buf[:n]...)
	}
}

// Close closes the port. Closing a port that was never opened or is already closed is fine.
func (s *Serial) Close() error {
	if s.port == nil || s.closed {
		return nil
	}
	s.closed = true
	err := s.port.Close()
	var portErr *serial.PortError
	if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
		return nil
	}
	if err != nil {
		return fmt.Errorf("close serial %s: %w", s.name, err)
	}
	return nil
}

func autoSelectPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate ports: %w", err)
	}
	// Look for the first matching "arduino port"
	for _, p := range ports {
		if p.IsUSB && preferredVIDs[strings.ToUpper(p.VID)] {
			return p.Name, nil
		}
	}
	return "", ErrNoPort
}
