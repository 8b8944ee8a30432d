// Package storage keeps bench runs on disk: one directory per run holding
// metadata.json and results.csv.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/fluxsim/internal/bench"
	"github.com/san-kum/fluxsim/internal/config"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Seed      int64           `json:"seed"`
	Frames    int             `json:"frames"`
	Runs      int             `json:"runs"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Modes     []string        `json:"modes"`
	Settings  config.Settings `json:"settings"`
}

// Save writes one bench invocation and returns its run id.
func (s *Store) Save(cfg bench.Config, settings config.Settings, results []bench.Result) (string, error) {
	now := s.now()
	runID := "bench_" + now.Format("20060102-150405.000")
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: now,
		Seed:      cfg.Seed,
		Frames:    cfg.Frames,
		Runs:      max(cfg.Runs, 1),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Settings:  settings,
	}
	for _, m := range cfg.Modes {
		meta.Modes = append(meta.Modes, m.String())
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

	csvFile, err := os.Create(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := bench.WriteCSV(csvFile, results); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return runID, nil
}

// List returns saved runs, oldest first. Unreadable entries are skipped.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadResults(runID string) ([]bench.Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "results.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var results []bench.Result
	if err := gocsv.Unmarshal(f, &results); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}
