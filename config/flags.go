package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"plotser/models"
	"plotser/store"
)

type SurfaceType string

const (
	Terminal SurfaceType = "tui"
	Web      SurfaceType = "web"
)

// STDIN is the device name that reads samples from standard input instead of a serial port.
const STDIN = "-"

// AUTO picks the first USB serial port that looks like a microcontroller.
const AUTO = "auto"

const (
	DEFAULT_BAUD_RATE     = 9600
	DEFAULT_RENDER_PERIOD = 100 * time.Millisecond
	DEFAULT_READ_TIMEOUT  = 500 * time.Millisecond
)

type Flags struct {
	Surface      SurfaceType
	Mode         models.NumericMode
	WindowSize   int
	RenderPeriod time.Duration
	ReadTimeout  time.Duration
}

type SerialFlags struct {
	// Port is a device path, AUTO or STDIN.
	Port     string
	BaudRate int
}

type WebFlags struct {
	Addr string
}

type LogFlags struct {
	Level string
	File  string
}

// BindFlags registers every option on fs. The returned structs are filled in once fs is parsed.
func BindFlags(fs *pflag.FlagSet) (*Flags, *SerialFlags, *WebFlags, *LogFlags) {
	flags := &Flags{}
	fs.StringVarP((*string)(&flags.Surface), "surface", "s", string(Terminal), "where to draw: tui or web")
	fs.StringVarP((*string)(&flags.Mode), "mode", "m", string(models.Float), "numeric mode of the samples: float or int")
	fs.IntVarP(&flags.WindowSize, "window", "w", store.DEFAULT_WINDOW_SIZE, "number of data points to show")
	fs.DurationVar(&flags.RenderPeriod, "render-period", DEFAULT_RENDER_PERIOD, "how often the plot is redrawn")
	fs.DurationVar(&flags.ReadTimeout, "read-timeout", DEFAULT_READ_TIMEOUT, "longest a single read waits for a line")

	serial := &SerialFlags{Port: AUTO}
	fs.IntVarP(&serial.BaudRate, "baudrate", "b", DEFAULT_BAUD_RATE, "serial baud rate")

	web := &WebFlags{}
	fs.StringVar(&web.Addr, "addr", ":8080", "http listen address for the web surface")

	logs := &LogFlags{}
	fs.StringVar(&logs.Level, "log-level", "info", "log level (debug echoes every line read)")
	fs.StringVar(&logs.File, "log-file", "", "write logs to this file instead of stderr")

	return flags, serial, web, logs
}

func (f *Flags) Validate() error {
	switch f.Surface {
	case Terminal, Web:
	default:
		return fmt.Errorf("--surface must be %q or %q, got %q", Terminal, Web, f.Surface)
	}
	if _, err := models.ParseNumericMode(string(f.Mode)); err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	if f.WindowSize < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if f.RenderPeriod <= 0 {
		return fmt.Errorf("--render-period must be > 0")
	}
	if f.ReadTimeout <= 0 {
		return fmt.Errorf("--read-timeout must be > 0")
	}
	return nil
}

func (s *SerialFlags) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("a device is required")
	}
	if s.BaudRate < 1 {
		return fmt.Errorf("--baudrate must be >= 1")
	}
	return nil
}

// Title is the window title for the device being plotted.
func (s *SerialFlags) Title() string {
	if s.Port == STDIN {
		return "stdin - plotser"
	}
	return fmt.Sprintf("%s (%d Bd) - plotser", filepath.Base(s.Port), s.BaudRate)
}
