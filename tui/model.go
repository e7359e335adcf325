package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"plotser/config"
	"plotser/models"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

var (
	borderColor = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	titleStyle  = styles.NewStyle().Bold(true)
	labelStyle  = styles.NewStyle().Faint(true)
	plotStyle   = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			BorderForeground(borderColor)
)

var drawilleColours = map[string]plot.Color{
	config.RED:   plot.Red,
	config.GREEN: plot.Green,
	config.BLUE:  plot.Blue,
}

// anchorColour draws the y limit anchors.
var anchorColour = plot.DimGray

func drawilleColour(hex string) plot.Color {
	if c, ok := drawilleColours[strings.ToLower(hex)]; ok {
		return c
	}
	return plot.LightGray
}

// pictureMsg carries a redraw into the program.
type pictureMsg struct {
	picture *models.Picture
}

type model struct {
	width, height int
	title         string

	picture *models.Picture
	canvas  *plot.Canvas
	help    help.Model
}

func newModel(title string) *model {
	canvas := plot.NewCanvas(defaultWidth-2, defaultHeight-5)
	canvas.ShowAxis = false
	return &model{
		width:  defaultWidth,
		height: defaultHeight,
		title:  title,
		canvas: &canvas,
		help:   help.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pictureMsg:
		m.picture = msg.picture
		if m.picture.Title != "" {
			m.title = m.picture.Title
		}
		m.fill()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeCanvas()
		m.fill()
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// resizeCanvas leaves room for the title, the plot border, the axis line and help.
func (m *model) resizeCanvas() {
	w := max(1, m.width-2)
	h := max(1, m.height-5)
	canvas := plot.NewCanvas(w, h)
	canvas.ShowAxis = m.canvas.ShowAxis
	m.canvas = &canvas
}

func (m *model) fill() {
	if m.picture == nil || len(m.picture.Plots) == 0 {
		return
	}
	data, colours, points := canvasData(m.picture)
	if data == nil {
		return
	}
	m.canvas.NumDataPoints = points
	m.canvas.LineColors = colours
	m.canvas.Fill(data)
}

// canvasData lays picture out for the canvas, which scales to whatever it is given. The
// point count spans the whole x range so lines stop short of the right edge, and two
// single point anchor series hold the y axis at the picture's limits.
func canvasData(picture *models.Picture) ([][]float64, []plot.Color, int) {
	points := len(picture.Plots[0].Ys)
	if points < 2 {
		return nil, nil, 0
	}
	points = max(points, int(picture.X.Max-picture.X.Min)+1)

	data := make([][]float64, 0, len(picture.Plots)+2)
	colours := make([]plot.Color, 0, len(picture.Plots)+2)
	for _, p := range picture.Plots {
		data = append(data, p.Ys)
		colours = append(colours, drawilleColour(p.Line.Colour))
	}
	data = append(data, []float64{picture.Y.Min}, []float64{picture.Y.Max})
	colours = append(colours, anchorColour, anchorColour)
	return data, colours, points
}

func (m *model) View() string {
	title := titleStyle.Render(m.title)
	if m.picture == nil {
		return styles.JoinVertical(styles.Left,
			title,
			labelStyle.Render("waiting for data…"),
			m.help.View(keys),
		)
	}

	legend := make([]string, 0, len(m.picture.Plots))
	for _, p := range m.picture.Plots {
		legend = append(legend, styles.NewStyle().
			Foreground(styles.Color(p.Line.Colour)).
			Render(fmt.Sprintf("ch%d", p.Line.Channel)))
	}

	axis := labelStyle.Render(fmt.Sprintf("time x [%g, %g]  y [%.4g, %.4g]",
		m.picture.X.Min, m.picture.X.Max, m.picture.Y.Min, m.picture.Y.Max))

	return styles.JoinVertical(styles.Left,
		title,
		plotStyle.Render(m.canvas.String()),
		axis+"  "+strings.Join(legend, " "),
		m.help.View(keys),
	)
}
