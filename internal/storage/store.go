// Package storage keeps recorded runs on disk, one directory per run with
// metadata.json and trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Profile   string             `json:"profile"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Period    time.Duration      `json:"period"`
	Cycles    int                `json:"cycles"`
	Metrics   map[string]float64 `json:"metrics"`
}

var traceHeader = []string{
	"time", "x", "y", "heading", "forward",
	"true_x", "true_y", "true_heading",
	"drive_error", "turn_error", "left_volts", "right_volts", "settled",
}

// Save writes a new run and returns its id. meta.ID and meta.Timestamp are
// filled in.
func (s *Store) Save(meta RunMetadata, trace []TraceRow) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Cycles = len(trace)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(traceHeader); err != nil {
		return "", err
	}
	for _, row := range trace {
		if err := w.Write(row.record()); err != nil {
			return "", err
		}
	}
	w.Flush()
	return meta.ID, w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) ([]TraceRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(traceHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TraceRow{}, nil
	}

	rows := make([]TraceRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("trace.csv line %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (TraceRow, error) {
	vals := make([]float64, len(rec)-1)
	for i, field := range rec[:len(rec)-1] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return TraceRow{}, err
		}
		vals[i] = v
	}
	settled, err := strconv.ParseBool(rec[len(rec)-1])
	if err != nil {
		return TraceRow{}, err
	}
	return TraceRow{
		Time: vals[0], X: vals[1], Y: vals[2], Heading: vals[3], Forward: vals[4],
		TrueX: vals[5], TrueY: vals[6], TrueHeading: vals[7],
		DriveError: vals[8], TurnError: vals[9],
		LeftVolts: vals[10], RightVolts: vals[11],
		Settled: settled,
	}, nil
}
