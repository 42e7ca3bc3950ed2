package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/storage"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	trailCapacity   = 2000
	frameRate       = time.Second / 30
)

// Source supplies the newest trace row. storage.Recorder satisfies it.
type Source interface {
	Latest() (storage.TraceRow, bool)
}

type TickMsg time.Time

// Model is a live dashboard for a running drivetrain.
type Model struct {
	source Source
	title  string
	scale  float64

	canvas  *Canvas
	latest  storage.TraceRow
	seen    bool
	trail   []geom.Vector2
	drive   []float64
	turn    []float64
	frozen  bool
	quitted bool
}

// NewModel renders the field at scale dots per inch.
func NewModel(src Source, title string, scale float64) Model {
	if scale <= 0 {
		scale = 1
	}
	return Model{
		source: src,
		title:  title,
		scale:  scale,
		canvas: NewCanvas(width, height),
		trail:  make([]geom.Vector2, 0, trailCapacity),
		drive:  make([]float64, 0, historyCapacity),
		turn:   make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		case " ":
			m.frozen = !m.frozen
		case "c":
			m.trail = m.trail[:0]
		}
	case TickMsg:
		if !m.frozen {
			m.poll()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) poll() {
	r, ok := m.source.Latest()
	if !ok || (m.seen && r.Time == m.latest.Time) {
		return
	}
	m.latest, m.seen = r, true

	m.trail = appendCapped(m.trail, geom.Vec(r.X, r.Y), trailCapacity)
	m.drive = appendCapped(m.drive, r.DriveError, historyCapacity)
	m.turn = appendCapped(m.turn, r.TurnError, historyCapacity)
}

func appendCapped[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

func (m Model) draw() string {
	m.canvas.Clear()
	field := Field{Canvas: m.canvas, Scale: m.scale}
	// axes
	field.Line(geom.Vec(-1000, 0), geom.Vec(1000, 0))
	field.Line(geom.Vec(0, -1000), geom.Vec(0, 1000))
	for _, p := range m.trail {
		field.Plot(p)
	}
	if m.seen {
		pose := geom.Pose{Position: geom.Vec(m.latest.X, m.latest.Y), Heading: m.latest.Heading}
		field.Robot(pose, 6)
	}
	return m.canvas.String()
}

func (m Model) View() string {
	if m.quitted {
		return ""
	}
	fieldView := panelStyle.Render(m.draw())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	switch {
	case m.frozen:
		s.WriteString(statusFrozen.Render("FROZEN"))
	case !m.seen:
		s.WriteString(statusFrozen.Render("WAITING"))
	case m.latest.Settled:
		s.WriteString(statusSettled.Render("SETTLED"))
	default:
		s.WriteString(statusMoving.Render("MOVING"))
	}
	s.WriteString("\n\n")

	r := m.latest
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", r.Time)))
	s.WriteString(row("Position", fmt.Sprintf("(%.2f, %.2f)", r.X, r.Y)))
	s.WriteString(row("Heading", fmt.Sprintf("%.2f°", r.Heading)))
	s.WriteString(row("Forward", fmt.Sprintf("%.2f in", r.Forward)))
	s.WriteString(row("Drive err", fmt.Sprintf("%+.3f in", r.DriveError)))
	s.WriteString(row("Turn err", fmt.Sprintf("%+.3f°", r.TurnError)))
	s.WriteString(row("Volts L/R", fmt.Sprintf("%+.2f / %+.2f", r.LeftVolts, r.RightVolts)))

	if len(m.drive) > 1 {
		chart := asciigraph.PlotMany([][]float64{m.drive, m.turn},
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("drive / turn error"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Freeze C:Clear Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, fieldView, statsStyle.Render(s.String()))
}

// Run blocks until the user quits.
func Run(src Source, title string, scale float64) error {
	_, err := tea.NewProgram(NewModel(src, title, scale), tea.WithAltScreen()).Run()
	return err
}
