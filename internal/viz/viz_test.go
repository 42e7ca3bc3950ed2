package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/storage"
)

func sampleRows() []storage.TraceRow {
	rows := make([]storage.TraceRow, 50)
	for i := range rows {
		y := float64(i)
		rows[i] = storage.TraceRow{
			Time: float64(i) * 0.01, X: 0, Y: y, Heading: 90,
			TrueX: 0.01 * y, TrueY: y,
			DriveError: 48 - y, TurnError: 0.5,
		}
	}
	return rows
}

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	assert.Equal(t, rune(0x2801), c.Grid[0][0])
	c.Set(1, 3)
	assert.Equal(t, rune(0x2801|0x80), c.Grid[0][0])

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)

	c.DrawLine(0, 4, 7, 4)
	for col := 0; col < 4; col++ {
		assert.NotEqual(t, rune(blank), c.Grid[1][col])
	}

	c.Clear()
	assert.Equal(t, strings.Repeat(strings.Repeat(string(rune(blank)), 4)+"\n", 2), c.String())
}

func TestFieldProjectsUpward(t *testing.T) {
	f := Field{Canvas: NewCanvas(10, 10), Scale: 1}
	x0, y0 := f.project(geom.Vec(0, 0))
	x1, y1 := f.project(geom.Vec(3, 4))
	assert.Equal(t, x0+3, x1)
	assert.Equal(t, y0-4, y1)
}

func TestPlotErrors(t *testing.T) {
	out, err := PlotErrors(sampleRows(), 40, 6)
	require.NoError(t, err)
	assert.Contains(t, out, "drive error")

	_, err = PlotErrors(nil, 40, 6)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPlotSeries(t *testing.T) {
	out, err := PlotSeries(sampleRows(), func(r storage.TraceRow) float64 { return r.Y }, "y", 40, 6)
	require.NoError(t, err)
	assert.Contains(t, out, "y")
}

func TestSaveTrajectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.png")
	require.NoError(t, SaveTrajectory(sampleRows(), "drive 48", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.ErrorIs(t, SaveTrajectory(nil, "", path), ErrNoData)
}

type fixedSource struct {
	row storage.TraceRow
	ok  bool
}

func (f *fixedSource) Latest() (storage.TraceRow, bool) { return f.row, f.ok }

func TestModelPollsSource(t *testing.T) {
	src := &fixedSource{}
	m := NewModel(src, "bench", 1)

	next, cmd := m.Update(TickMsg{})
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.Contains(t, m.View(), "WAITING")

	src.row, src.ok = storage.TraceRow{Time: 0.5, X: 1, Y: 2, Heading: 45, Settled: true}, true
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	assert.Len(t, m.trail, 1)
	assert.Contains(t, m.View(), "SETTLED")

	// same row again is not duplicated
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	assert.Len(t, m.trail, 1)

	src.row = storage.TraceRow{Time: 0.6, X: 1, Y: 3}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	assert.Len(t, m.trail, 1)
	assert.Contains(t, m.View(), "FROZEN")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestAppendCapped(t *testing.T) {
	var s []int
	for i := 0; i < 5; i++ {
		s = appendCapped(s, i, 3)
	}
	assert.Equal(t, []int{2, 3, 4}, s)
}
