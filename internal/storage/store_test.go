package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
)

func recordTwo() []TraceRow {
	rec := NewRecorder(func() geom.Pose { return geom.Pose{Position: geom.Vec(1, 1), Heading: 91} })
	rec.OnCycle(drivetrain.Sample{
		Elapsed:    10 * time.Millisecond,
		Pose:       geom.Pose{Heading: 90},
		DriveError: 48,
		LeftVolts:  12,
		RightVolts: 12,
	})
	rec.OnCycle(drivetrain.Sample{
		Elapsed: 20 * time.Millisecond,
		Pose:    geom.Pose{Position: geom.Vec(0, 0.5), Heading: 90},
		Settled: true,
	})
	return rec.Rows()
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	rows := recordTwo()
	id, err := st.Save(RunMetadata{Name: "drive", Profile: "bench", Metrics: map[string]float64{"path_length": 0.5}}, rows)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "drive_"))

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "bench", meta.Profile)
	assert.Equal(t, 2, meta.Cycles)
	assert.InDelta(t, 0.5, meta.Metrics["path_length"], 1e-12)

	trace, err := st.LoadTrace(id)
	require.NoError(t, err)
	require.Len(t, trace, 2)
	assert.InDelta(t, 0.01, trace[0].Time, 1e-9)
	assert.InDelta(t, 91, trace[0].TrueHeading, 1e-9)
	assert.InDelta(t, 48, trace[0].DriveError, 1e-9)
	assert.True(t, trace[1].Settled)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = st.LoadTrace("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())
	id, err := st.Save(RunMetadata{Name: "path"}, recordTwo())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, st.ExportJSON(id, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got ExportData
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, id, got.Meta.ID)
	assert.Len(t, got.Trace, 2)
}

func TestRecorderWithoutTruth(t *testing.T) {
	rec := NewRecorder(nil)
	_, ok := rec.Latest()
	assert.False(t, ok)

	rec.OnCycle(drivetrain.Sample{Pose: geom.Pose{Position: geom.Vec(2, 3), Heading: 45}})
	row, ok := rec.Latest()
	require.True(t, ok)
	assert.Equal(t, row.X, row.TrueX)
	assert.Equal(t, row.Heading, row.TrueHeading)
}
