//go:build unix

package drivers

import (
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotser/config"
)

func TestFifoSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples")
	require.NoError(t, syscall.Mkfifo(path, 0o600))

	source := New(&config.SerialFlags{Port: path, BaudRate: config.DEFAULT_BAUD_RATE}, nil)
	require.IsType(t, &Pipe{}, source)
	require.NoError(t, source.Open())
	defer source.Close()

	// No writer yet.
	_, err := source.ReadLine(10 * time.Millisecond)
	assert.ErrorIs(t, err, ErrReadTimeout)

	go func() {
		w, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		defer w.Close()
		_, _ = w.Write([]byte("1 2\n3\n"))
	}()

	for _, want := range []string{"1 2", "3"} {
		line, err := source.ReadLine(5 * time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err = source.ReadLine(5 * time.Second)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, path, source.Name())
}

func TestFifoCloseBeforeWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle")
	require.NoError(t, syscall.Mkfifo(path, 0o600))

	p := NewFifo(path, nil)
	require.NoError(t, p.Open())
	require.NoError(t, p.Close())

	// Let the blocked open finish so the goroutine sees the close.
	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer w.Close()

	_, err = p.ReadLine(5 * time.Second)
	assert.ErrorIs(t, err, io.EOF)
}
