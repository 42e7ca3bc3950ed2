// Package serialbridge drives a motor-controller board over a serial line
// and exposes it through the hal interfaces.
//
// The board speaks newline-terminated ASCII. Every command gets exactly one
// reply line, "OK", "ERR <reason>" or, for Q, a status line:
//
//	V <left volts> <right volts>   set both motor groups
//	Q                              S <left°> <right°> <lateral°> <imu°|nan> <installed> <calibrating>
//	RE <L|R|T>                     zero one encoder (T is the lateral wheel)
//	RH                             zero the IMU heading
//	CAL                            start IMU calibration
package serialbridge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
)

const DefaultBaud = 115200

// statusTTL lets one Q serve every sensor read inside a tracking cycle.
const statusTTL = 2 * time.Millisecond

var ErrBoard = errors.New("serialbridge: board error")

type Logger interface {
	Errorf(format string, args ...any)
}

type Status struct {
	Rotation    [3]float64
	IMUHeading  float64
	IMUValid    bool
	Installed   bool
	Calibrating bool
}

type Bridge struct {
	mu     sync.Mutex
	port   io.ReadWriteCloser
	reader *bufio.Reader
	log    Logger

	ttl     time.Duration
	status  Status
	fetched time.Time
	lastErr error

	// the board sets both sides in one command
	volts [2]float64
}

// Open connects to the board on portName at 8N1.
func Open(portName string, baud int, log Logger) (*Bridge, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(500 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}
	return New(port, log), nil
}

// New wraps an already open port.
func New(port io.ReadWriteCloser, log Logger) *Bridge {
	return &Bridge{port: port, reader: bufio.NewReader(port), log: log, ttl: statusTTL}
}

func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port.Close()
}

// Err returns the most recent transport or board error. hal methods cannot
// return errors, so failures are logged and kept here.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Bridge) fail(err error) {
	b.lastErr = err
	if b.log != nil {
		b.log.Errorf("serial bridge: %v", err)
	}
}

// roundTrip sends one command and returns its reply. Caller holds mu.
func (b *Bridge) roundTrip(cmd string) (string, error) {
	if _, err := io.WriteString(b.port, cmd+"\n"); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	line = strings.TrimSpace(line)
	if reason, ok := strings.CutPrefix(line, "ERR"); ok {
		return "", fmt.Errorf("%w: %s: %s", ErrBoard, cmd, strings.TrimSpace(reason))
	}
	return line, nil
}

func (b *Bridge) exec(cmd string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.roundTrip(cmd); err != nil {
		b.fail(err)
		return
	}
	b.fetched = time.Time{}
}

// Status returns the board state, querying it when the cached copy is
// stale. On failure the last good status is returned.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if time.Since(b.fetched) < b.ttl {
		return b.status
	}

	line, err := b.roundTrip("Q")
	if err != nil {
		b.fail(err)
		return b.status
	}
	st, err := parseStatus(line)
	if err != nil {
		b.fail(err)
		return b.status
	}
	b.status, b.fetched = st, time.Now()
	return st
}

func parseStatus(line string) (Status, error) {
	f := strings.Fields(line)
	if len(f) != 7 || f[0] != "S" {
		return Status{}, fmt.Errorf("%w: malformed status %q", ErrBoard, line)
	}

	var st Status
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(f[1+i], 64)
		if err != nil {
			return Status{}, fmt.Errorf("%w: rotation %q", ErrBoard, f[1+i])
		}
		st.Rotation[i] = v
	}
	heading, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return Status{}, fmt.Errorf("%w: heading %q", ErrBoard, f[4])
	}
	st.IMUHeading, st.IMUValid = heading, !math.IsNaN(heading)
	st.Installed = f[5] == "1"
	st.Calibrating = f[6] == "1"
	return st, nil
}

// SetVoltages commands both motor groups in one round trip.
func (b *Bridge) SetVoltages(left, right float64) {
	left = geom.Clamp(left, -hal.MaxVoltage, hal.MaxVoltage)
	right = geom.Clamp(right, -hal.MaxVoltage, hal.MaxVoltage)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.volts = [2]float64{left, right}
	if _, err := b.roundTrip(fmt.Sprintf("V %.3f %.3f", left, right)); err != nil {
		b.fail(err)
	}
}

// setVoltage stages one side. The right side flushes both, matching the
// left-then-right order the drivetrain commands in.
func (b *Bridge) setVoltage(side hal.Side, v float64) {
	if side == hal.Right {
		b.mu.Lock()
		left := b.volts[hal.Left]
		b.mu.Unlock()
		b.SetVoltages(left, v)
		return
	}
	b.mu.Lock()
	b.volts[hal.Left] = geom.Clamp(v, -hal.MaxVoltage, hal.MaxVoltage)
	b.mu.Unlock()
}

func (b *Bridge) Left() hal.Motor  { return &motor{b: b, side: hal.Left} }
func (b *Bridge) Right() hal.Motor { return &motor{b: b, side: hal.Right} }

// Lateral is the board's third encoder channel.
func (b *Bridge) Lateral() hal.Encoder { return encoder{b: b, ch: 2, code: "T"} }

func (b *Bridge) IMU() hal.IMU { return imu{b: b} }
