package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"plotser/render"
)

// Surface draws pictures in the terminal. Quitting the program closes the surface.
type Surface struct {
	*render.Buffer
	program *tea.Program
}

// NewSurface reads keys from the tty rather than stdin, which may be carrying samples.
func NewSurface(title string, opts ...tea.ProgramOption) *Surface {
	s := &Surface{Buffer: render.NewBuffer()}
	s.SetTitle(title)

	options := append([]tea.ProgramOption{tea.WithInputTTY(), tea.WithAltScreen()}, opts...)
	s.program = tea.NewProgram(newModel(title), options...)
	return s
}

// Redraw hands the current picture to the program. It waits until the program is
// running to accept it.
func (s *Surface) Redraw() error {
	s.program.Send(pictureMsg{s.Picture()})
	return nil
}

func (s *Surface) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.program.Quit()
		case <-stop:
		}
	}()

	_, err := s.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
