package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"polarec/internal/dataset"
	"polarec/internal/logging"
	"polarec/internal/table"
)

// Snapshot is one fully loaded view of the study data. It is immutable after
// construction; Reload builds a complete replacement and swaps it in, so a
// reader holding a snapshot keeps a consistent view for as long as it wants.
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Report   *dataset.Report

	// Env holds one environment table per school that loaded.
	Env map[string]*table.Table

	// Growth holds one measurement table per workbook sheet, keyed by the
	// sheet name (the school).
	Growth map[string]*table.Table

	// Combined is every growth row across all sheets with the two derived
	// columns appended: 학교 (the sheet's school) and EC (the school's
	// concentration, or table.Unset when the school is not in the mapping).
	Combined *table.Table
}

// Service loads the study datasets and answers the dashboard's queries. The
// loaded snapshot lives in a process-wide slot; reloads replace it
// atomically so concurrent request handlers never see a half-built state.
type Service struct {
	dataDir    string
	conditions Conditions
	store      dataset.Store[Snapshot]
}

// NewService creates a service reading from dataDir with the supplied
// condition mapping. No data is loaded until Reload is called.
func NewService(dataDir string, conditions Conditions) *Service {
	return &Service{dataDir: dataDir, conditions: conditions}
}

// Conditions returns the service's condition mapping.
func (s *Service) Conditions() Conditions {
	return s.conditions
}

// Reload loads every study dataset from the data directory and installs the
// result as the current snapshot. Per-file failures are recorded in the
// snapshot's report and do not fail the reload; the returned error is
// reserved for an unusable data directory.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	log := logging.FromContext(ctx)

	report, err := dataset.LoadDatasets(s.dataDir, Requests(s.conditions))
	if err != nil {
		return nil, err
	}

	snap := s.buildSnapshot(report)

	log.Info("datasets loaded",
		"snapshot_id", snap.ID,
		"loaded", report.LoadedCount(),
		"requested", len(report.Keys()),
		"env_schools", len(snap.Env),
		"growth_sheets", len(snap.Growth),
		"combined_rows", snap.Combined.RowCount(),
	)
	for _, problem := range report.Problems() {
		log.Warn("dataset unavailable", "detail", problem)
	}

	s.store.Replace(snap)
	return snap, nil
}

// Snapshot returns the current snapshot. It fails only before the first
// successful Reload.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.store.Load()
	if snap == nil {
		return nil, fmt.Errorf("no data loaded yet")
	}
	return snap, nil
}

// buildSnapshot derives the per-school maps and the combined growth table
// from a load report.
func (s *Service) buildSnapshot(report *dataset.Report) *Snapshot {
	snap := &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Report:   report,
		Env:      make(map[string]*table.Table),
		Growth:   make(map[string]*table.Table),
	}

	for _, school := range s.conditions.Schools() {
		if o, ok := report.Outcome(school); ok && o.Status == dataset.StatusLoaded {
			snap.Env[school] = o.Tables[0]
		}
	}

	var augmented []*table.Table
	if o, ok := report.Outcome(GrowthKey); ok && o.Status == dataset.StatusLoaded {
		for _, t := range o.Tables {
			school := strings.TrimPrefix(t.Key, GrowthKey+"/")
			snap.Growth[school] = t

			ecCell := table.Unset
			if ec, known := s.conditions.Lookup(school); known {
				ecCell = FormatEC(ec)
			}
			augmented = append(augmented,
				t.WithColumn(ColSchool, school).WithColumn(ColEC, ecCell))
		}
	}
	snap.Combined = table.Concat(GrowthKey+"_combined", augmented...)

	return snap
}
