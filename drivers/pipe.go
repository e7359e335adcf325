package drivers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"
)

// Pipe reads lines from any reader, usually standard input or a named pipe. A goroutine
// does the blocking reads so ReadLine can give up after its timeout.
type Pipe struct {
	name   string
	reader io.Reader
	// open, if set, provides the reader once reading starts.
	open   func() (io.ReadCloser, error)
	logger *logrus.Logger

	lines chan string
	done  chan struct{}
	// err is set before lines is closed.
	err error

	mu     sync.Mutex
	closer io.Closer
	closed bool

	openOnce  sync.Once
	closeOnce sync.Once
}

// NewPipe reads from r. If r is also an io.Closer it is closed by Close.
func NewPipe(name string, r io.Reader, logger *logrus.Logger) *Pipe {
	if logger == nil {
		logger = logrus.New()
	}
	p := &Pipe{
		name:   name,
		reader: r,
		logger: logger,
		lines:  make(chan string),
		done:   make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		p.closer = c
	}
	return p
}

func NewStdin(logger *logrus.Logger) *Pipe {
	p := NewPipe("stdin", os.Stdin, logger)
	// Leave the process' stdin alone.
	p.closer = nil
	if term.IsTerminal(os.Stdin.Fd()) {
		p.logger.Warn("reading samples from a terminal, pipe a device into plotser instead")
	}
	return p
}

// NewFifo reads from the named pipe at path. Opening a fifo waits for a writer, so it
// happens in the reading goroutine and ReadLine times out until one shows up.
func NewFifo(path string, logger *logrus.Logger) *Pipe {
	p := NewPipe(path, nil, logger)
	p.open = func() (io.ReadCloser, error) {
		return os.Open(path)
	}
	return p
}

func isFifo(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode()&os.ModeNamedPipe != 0
}

func (p *Pipe) Name() string {
	return p.name
}

func (p *Pipe) Open() error {
	p.openOnce.Do(func() {
		go p.scan()
	})
	return nil
}

func (p *Pipe) scan() {
	defer close(p.lines)

	if p.open != nil {
		f, err := p.open()
		if err != nil {
			p.err = fmt.Errorf("open %s: %w", p.name, err)
			return
		}
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = f.Close()
			p.err = io.EOF
			return
		}
		p.closer = f
		p.mu.Unlock()
		p.reader = f
		p.logger.WithField("fifo", p.name).Info("writer connected")
	}

	reader := bufio.NewReaderSize(p.reader, MAX_LINE_LENGTH)
	// skipping is set while the rest of an over-long line is thrown away.
	skipping := false
	for {
		chunk, err := reader.ReadSlice('\n')
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			if !skipping {
				p.logger.WithField("source", p.name).Warnf("dropping line longer than %d bytes", MAX_LINE_LENGTH)
			}
			skipping = true
			continue
		case skipping:
			skipping = false
		case len(chunk) > 0:
			select {
			case p.lines <- string(chunk):
			case <-p.done:
				p.err = io.EOF
				return
			}
		}

		if err != nil {
			select {
			case <-p.done:
				p.err = io.EOF
			default:
				p.err = err
			}
			return
		}
	}
}

func (p *Pipe) ReadLine(timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", p.err
		}
		return trimLine(line), nil
	case <-timer.C:
		return "", ErrReadTimeout
	}
}

func (p *Pipe) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		closer := p.closer
		p.mu.Unlock()

		close(p.done)
		if closer != nil {
			err = closer.Close()
		}
	})
	return err
}
