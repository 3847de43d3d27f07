// Package storage persists scenario snapshots and the portfolio position
// list as JSON files. Writes go through a temp-file-then-rename so a crash
// mid-write never corrupts the previous state.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/solomio312/ManuX/internal/domain"
)

const (
	scenariosFile = "scenarios.json"
	positionsFile = "positions.json"

	// decimateEvery keeps one month record per year in saved scenarios.
	// This bounds file size at the cost of intra-year granularity, so
	// comparisons across saved scenarios run at yearly resolution.
	decimateEvery = 12
)

// ScenarioSnapshot is a named, saved simulation: the originating plan, the
// final balance, and the decimated month series.
type ScenarioSnapshot struct {
	Name         string                `json:"name"`
	SavedAt      time.Time             `json:"savedAt"`
	Params       domain.PlanParameters `json:"params"`
	FinalBalance decimal.Decimal       `json:"finalBalance"`
	History      []domain.MonthRecord  `json:"history"`
}

// Store reads and writes the JSON state files under one directory.
type Store struct {
	dir string
	log *logrus.Logger
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// SaveScenario appends a named snapshot of the given simulation. Only every
// 12th month record is kept.
func (s *Store) SaveScenario(name string, params *domain.PlanParameters, res *domain.SimulationResult) error {
	if name == "" {
		return fmt.Errorf("scenario needs a name")
	}

	snapshots, err := s.LoadScenarios()
	if err != nil {
		return err
	}

	var history []domain.MonthRecord
	for _, rec := range res.History {
		if rec.Index%decimateEvery == 0 {
			history = append(history, rec)
		}
	}

	snapshots = append(snapshots, ScenarioSnapshot{
		Name:         name,
		SavedAt:      time.Now().UTC(),
		Params:       *params,
		FinalBalance: res.FinalBalance,
		History:      history,
	})

	s.log.WithFields(logrus.Fields{"name": name, "points": len(history)}).Debug("saving scenario")
	return s.writeJSON(scenariosFile, snapshots)
}

// LoadScenarios returns all saved snapshots in save order. A missing file is
// an empty list, not an error.
func (s *Store) LoadScenarios() ([]ScenarioSnapshot, error) {
	var snapshots []ScenarioSnapshot
	if err := s.readJSON(scenariosFile, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// DeleteScenario removes the snapshot at the given index.
func (s *Store) DeleteScenario(index int) error {
	snapshots, err := s.LoadScenarios()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(snapshots) {
		return fmt.Errorf("scenario index %d out of range", index)
	}
	snapshots = append(snapshots[:index], snapshots[index+1:]...)
	return s.writeJSON(scenariosFile, snapshots)
}

// LoadPositions returns the persisted position list in display order.
func (s *Store) LoadPositions() ([]domain.HeldPosition, error) {
	var positions []domain.HeldPosition
	if err := s.readJSON(positionsFile, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// SavePositions writes the position list verbatim; the given order becomes
// the order of record.
func (s *Store) SavePositions(positions []domain.HeldPosition) error {
	return s.writeJSON(positionsFile, positions)
}

func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// writeJSON writes atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
