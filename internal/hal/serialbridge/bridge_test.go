package serialbridge

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBoard answers the line protocol in memory.
type fakeBoard struct {
	in, out  bytes.Buffer
	commands []string

	rotation    [3]float64
	heading     float64
	installed   bool
	calibrating bool
	left, right float64
	failNext    string
	closed      bool
}

func (f *fakeBoard) Write(p []byte) (int, error) {
	f.in.Write(p)
	for {
		line, err := f.in.ReadString('\n')
		if err != nil {
			f.in.WriteString(line)
			break
		}
		f.handle(strings.TrimSpace(line))
	}
	return len(p), nil
}

func (f *fakeBoard) Read(p []byte) (int, error) {
	if f.out.Len() == 0 {
		return 0, io.EOF
	}
	return f.out.Read(p)
}

func (f *fakeBoard) Close() error {
	f.closed = true
	return nil
}

func (f *fakeBoard) reply(s string) { f.out.WriteString(s + "\n") }

func (f *fakeBoard) handle(cmd string) {
	f.commands = append(f.commands, cmd)
	if f.failNext != "" {
		f.reply("ERR " + f.failNext)
		f.failNext = ""
		return
	}

	fields := strings.Fields(cmd)
	switch fields[0] {
	case "V":
		f.left, _ = strconv.ParseFloat(fields[1], 64)
		f.right, _ = strconv.ParseFloat(fields[2], 64)
	case "Q":
		heading := "nan"
		if f.installed && !f.calibrating {
			heading = strconv.FormatFloat(f.heading, 'f', 3, 64)
		}
		f.reply(fmt.Sprintf("S %.3f %.3f %.3f %s %d %d",
			f.rotation[0], f.rotation[1], f.rotation[2], heading, b2i(f.installed), b2i(f.calibrating)))
		return
	case "RE":
		f.rotation[strings.Index("LRT", fields[1])] = 0
	case "RH":
		f.heading = 0
	case "CAL":
		f.calibrating = true
	default:
		f.reply("ERR unknown command")
		return
	}
	f.reply("OK")
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

type errLog struct{ lines []string }

func (l *errLog) Errorf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestMotorsSendBothSides(t *testing.T) {
	board := &fakeBoard{}
	b := New(board, nil)

	// left stages, right sends one command for the pair
	b.Left().SetVoltage(6)
	assert.Empty(t, board.commands)
	b.Right().SetVoltage(-20)

	assert.Equal(t, 6.0, board.left)
	assert.Equal(t, -12.0, board.right)
	assert.Equal(t, []string{"V 6.000 -12.000"}, board.commands)

	b.Left().SetVoltage(3)
	b.Right().SetVoltage(4)
	assert.Equal(t, []string{"V 6.000 -12.000", "V 3.000 4.000"}, board.commands)
	assert.NoError(t, b.Err())
}

func TestSetVoltagesOneRoundTrip(t *testing.T) {
	board := &fakeBoard{}
	b := New(board, nil)

	b.SetVoltages(-30, 2.5)
	assert.Equal(t, []string{"V -12.000 2.500"}, board.commands)
	assert.Equal(t, -12.0, board.left)
	assert.Equal(t, 2.5, board.right)
}

func TestEncodersReadStatus(t *testing.T) {
	board := &fakeBoard{rotation: [3]float64{120.5, -30, 45}}
	b := New(board, nil)

	assert.InDelta(t, 120.5, b.Left().Rotation(), 1e-9)
	assert.InDelta(t, -30, b.Right().Rotation(), 1e-9)
	assert.InDelta(t, 45, b.Lateral().Rotation(), 1e-9)

	b.Right().ResetRotation()
	assert.Zero(t, b.Right().Rotation())
	assert.InDelta(t, 120.5, b.Left().Rotation(), 1e-9)

	b.Lateral().ResetRotation()
	assert.Zero(t, b.Lateral().Rotation())
}

func TestStatusIsCached(t *testing.T) {
	board := &fakeBoard{}
	b := New(board, nil)
	b.ttl = time.Hour

	b.Left().Rotation()
	b.Right().Rotation()
	b.IMU().Installed()
	assert.Equal(t, []string{"Q"}, board.commands)

	// a command invalidates the cache
	b.Left().ResetRotation()
	b.Left().Rotation()
	assert.Equal(t, []string{"Q", "RE L", "Q"}, board.commands)
}

func TestIMU(t *testing.T) {
	board := &fakeBoard{installed: true, heading: 271.25}
	b := New(board, nil)
	imu := b.IMU()

	heading, ok := imu.Heading()
	require.True(t, ok)
	assert.InDelta(t, 271.25, heading, 1e-9)

	imu.Calibrate()
	assert.True(t, imu.Calibrating())
	_, ok = imu.Heading()
	assert.False(t, ok)

	board.calibrating = false
	imu.ResetHeading()
	heading, ok = imu.Heading()
	require.True(t, ok)
	assert.Zero(t, heading)
}

func TestIMUNotInstalled(t *testing.T) {
	b := New(&fakeBoard{}, nil)
	assert.False(t, b.IMU().Installed())
	_, ok := b.IMU().Heading()
	assert.False(t, ok)
}

func TestBoardErrorIsRecorded(t *testing.T) {
	board := &fakeBoard{rotation: [3]float64{10, 20, 0}}
	log := &errLog{}
	b := New(board, log)
	b.ttl = 0

	assert.InDelta(t, 10, b.Left().Rotation(), 1e-9)

	board.failNext = "bus fault"
	board.rotation[0] = 99
	// last good status survives a failed query
	assert.InDelta(t, 10, b.Left().Rotation(), 1e-9)

	require.ErrorIs(t, b.Err(), ErrBoard)
	assert.Contains(t, b.Err().Error(), "bus fault")
	require.Len(t, log.lines, 1)
}

func TestParseStatus(t *testing.T) {
	st, err := parseStatus("S 1.5 -2 3 nan 1 0")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1.5, -2, 3}, st.Rotation)
	assert.False(t, st.IMUValid)
	assert.True(t, math.IsNaN(st.IMUHeading))
	assert.True(t, st.Installed)
	assert.False(t, st.Calibrating)

	for _, bad := range []string{"", "OK", "S 1 2 3", "S a 2 3 4 1 0", "S 1 2 3 x 1 0"} {
		_, err := parseStatus(bad)
		assert.ErrorIs(t, err, ErrBoard, bad)
	}
}

func TestClose(t *testing.T) {
	board := &fakeBoard{}
	require.NoError(t, New(board, nil).Close())
	assert.True(t, board.closed)
}
