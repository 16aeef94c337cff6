package core

import (
	"fmt"
	"strconv"
	"strings"

	"polarec/internal/table"
)

// EnvSeries is the environment time series for one school, aligned by row:
// Time[i], Temperature[i], Humidity[i] and PH[i] come from the same reading.
// Rows with a non-numeric measurement are skipped and counted.
type EnvSeries struct {
	School      string    `json:"school"`
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
	PH          []float64 `json:"ph"`
	Skipped     int       `json:"skipped,omitempty"`
}

// EnvSeries extracts the per-school environment series from the current
// snapshot. With school == "" every loaded school is returned, in condition
// order.
func (s *Service) EnvSeries(school string) ([]EnvSeries, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	var schools []string
	if school != "" {
		if _, ok := snap.Env[school]; !ok {
			return nil, fmt.Errorf("no environment data for %q", school)
		}
		schools = []string{school}
	} else {
		for _, sc := range s.conditions.Schools() {
			if _, ok := snap.Env[sc]; ok {
				schools = append(schools, sc)
			}
		}
	}

	out := make([]EnvSeries, 0, len(schools))
	for _, sc := range schools {
		series, err := extractEnvSeries(sc, snap.Env[sc])
		if err != nil {
			return nil, err
		}
		out = append(out, series)
	}
	return out, nil
}

func extractEnvSeries(school string, t *table.Table) (EnvSeries, error) {
	cols := []string{ColTime, ColTemperature, ColHumidity, ColPH}
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.ColumnIndex(c)
		if idx[i] < 0 {
			return EnvSeries{}, fmt.Errorf("%s environment data has no %q column", school, c)
		}
	}

	series := EnvSeries{School: school}
	for _, row := range t.Rows {
		temp, err1 := strconv.ParseFloat(strings.TrimSpace(row[idx[1]]), 64)
		hum, err2 := strconv.ParseFloat(strings.TrimSpace(row[idx[2]]), 64)
		ph, err3 := strconv.ParseFloat(strings.TrimSpace(row[idx[3]]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			series.Skipped++
			continue
		}
		series.Time = append(series.Time, row[idx[0]])
		series.Temperature = append(series.Temperature, temp)
		series.Humidity = append(series.Humidity, hum)
		series.PH = append(series.PH, ph)
	}
	return series, nil
}

// GrowthPoint is one measured plant, joined with its school's condition.
// HasEC is false for sheets whose school is absent from the mapping.
type GrowthPoint struct {
	School string  `json:"school"`
	EC     float64 `json:"ec"`
	HasEC  bool    `json:"has_ec"`
	Weight float64 `json:"weight"`
	Leaves float64 `json:"leaves"`
	Length float64 `json:"length"`
}

// GrowthPoints returns every measurement from the combined growth table,
// optionally filtered to one school. Rows whose three measurements are not
// all numeric are skipped.
func (s *Service) GrowthPoints(school string) ([]GrowthPoint, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	t := snap.Combined
	if t.RowCount() == 0 {
		// No growth sheets loaded; the report banner explains why.
		return nil, nil
	}

	need := []string{ColSchool, ColEC, ColWeight, ColLeaves, ColLength}
	idx := make([]int, len(need))
	for i, c := range need {
		idx[i] = t.ColumnIndex(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("growth data has no %q column", c)
		}
	}

	var points []GrowthPoint
	for _, row := range t.Rows {
		if school != "" && row[idx[0]] != school {
			continue
		}
		weight, err1 := strconv.ParseFloat(strings.TrimSpace(row[idx[2]]), 64)
		leaves, err2 := strconv.ParseFloat(strings.TrimSpace(row[idx[3]]), 64)
		length, err3 := strconv.ParseFloat(strings.TrimSpace(row[idx[4]]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		p := GrowthPoint{
			School: row[idx[0]],
			Weight: weight,
			Leaves: leaves,
			Length: length,
		}
		if ec, err := strconv.ParseFloat(row[idx[1]], 64); err == nil && row[idx[1]] != table.Unset {
			p.EC = ec
			p.HasEC = true
		}
		points = append(points, p)
	}
	return points, nil
}

// Metric summarizes one measurement column.
type Metric struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

func summarize(values []float64) Metric {
	if len(values) == 0 {
		return Metric{}
	}
	m := Metric{Min: values[0], Max: values[0], Count: len(values)}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
	}
	m.Mean = sum / float64(len(values))
	return m
}

// SchoolSummary aggregates one school's growth measurements.
type SchoolSummary struct {
	School  string  `json:"school"`
	EC      float64 `json:"ec"`
	HasEC   bool    `json:"has_ec"`
	Samples int     `json:"samples"`
	Weight  Metric  `json:"weight"`
	Leaves  Metric  `json:"leaves"`
	Length  Metric  `json:"length"`
}

// StudySummary is the dashboard's headline view: per-school aggregates plus
// the condition with the highest mean weight.
type StudySummary struct {
	Schools      []SchoolSummary `json:"schools"`
	TotalSamples int             `json:"total_samples"`
	BestSchool   string          `json:"best_school,omitempty"`
	BestEC       float64         `json:"best_ec"`
	BestHasEC    bool            `json:"best_has_ec"`
}

// Summary computes per-school growth aggregates from the current snapshot.
// Schools appear in ascending condition order; unmapped sheets follow, with
// HasEC false.
func (s *Service) Summary() (*StudySummary, error) {
	points, err := s.GrowthPoints("")
	if err != nil {
		return nil, err
	}

	bySchool := make(map[string][]GrowthPoint)
	var order []string
	for _, sc := range s.conditions.Schools() {
		order = append(order, sc)
	}
	for _, p := range points {
		if _, seen := bySchool[p.School]; !seen && !s.conditions.contains(p.School) {
			order = append(order, p.School)
		}
		bySchool[p.School] = append(bySchool[p.School], p)
	}

	summary := &StudySummary{}
	bestMean := 0.0
	for _, sc := range order {
		pts := bySchool[sc]
		if len(pts) == 0 {
			continue
		}

		weights := make([]float64, len(pts))
		leaves := make([]float64, len(pts))
		lengths := make([]float64, len(pts))
		for i, p := range pts {
			weights[i] = p.Weight
			leaves[i] = p.Leaves
			lengths[i] = p.Length
		}

		ss := SchoolSummary{
			School:  sc,
			Samples: len(pts),
			Weight:  summarize(weights),
			Leaves:  summarize(leaves),
			Length:  summarize(lengths),
		}
		ss.EC, ss.HasEC = s.conditions.Lookup(sc)

		if ss.Weight.Mean > bestMean {
			bestMean = ss.Weight.Mean
			summary.BestSchool = sc
			summary.BestEC = ss.EC
			summary.BestHasEC = ss.HasEC
		}

		summary.Schools = append(summary.Schools, ss)
		summary.TotalSamples += ss.Samples
	}
	return summary, nil
}

func (c Conditions) contains(school string) bool {
	_, ok := c[school]
	return ok
}
