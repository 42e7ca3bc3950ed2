package storage

import (
	"encoding/json"
	"os"
)

type ExportData struct {
	Meta  RunMetadata `json:"meta"`
	Trace []TraceRow  `json:"trace"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Meta: *meta, Trace: trace})
}
